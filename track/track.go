package track

import (
	"log/slog"
	"strings"
	"time"
)

// Reserved marker values used when the playlist page has no current spin row.
// A missing row is an expected transient state (between songs), not an error.
const (
	SentinelNotFound = "notfound"
	NotFoundArtist   = "artist_not_found"
	NotFoundSong     = "song_not_found"
	NotFoundAlbum    = "album_not_found"
)

// Unknown is the display value substituted for fields the page omits.
const Unknown = "unknown"

// placeholderArtworkURL is the platform's generic "no cover art" image.
const placeholderArtworkURL = "https://spinitron.com/static/pictures/placeholders/loudspeaker.svg"

// sourceArtSize is the dimension token embedded in artwork URLs as served.
const sourceArtSize = "170x170"

// Spin is the raw attribute bag scraped from the most recent playlist row.
// ID is nil when the page provides no identifier for the spin.
type Spin struct {
	ID         *string
	Artist     string
	Song       string
	Album      string
	Time       string
	ArtworkURL string
	DJ         string
}

// NotFoundSpin returns the reserved bag emitted when no spin row is present.
func NotFoundSpin() Spin {
	id := SentinelNotFound
	return Spin{
		ID:     &id,
		Artist: NotFoundArtist,
		Song:   NotFoundSong,
		Album:  NotFoundAlbum,
	}
}

// ArtworkStatus says whether an event carries real cover art.
type ArtworkStatus string

const (
	ArtworkPresent ArtworkStatus = "present"
	ArtworkAbsent  ArtworkStatus = "absent"
)

// Event is the canonical record for one spin flowing through the pipeline.
type Event struct {
	Identity      string
	Artist        string
	Title         string
	Album         string
	DJ            string
	PlayedAt      string    // display-formatted local time, e.g. "12:11pm"
	PlayedAtTime  time.Time // true timestamp for history persistence
	ArtworkURL    string
	ArtworkStatus ArtworkStatus
}

// NotFound reports whether this event is the reserved not-found record.
func (e Event) NotFound() bool {
	return e.Identity == SentinelNotFound
}

// Normalize converts a raw spin bag into a canonical Event.
//
// A nil or empty identifier falls back to the song title (degraded mode, not
// an error); if the title is empty too, artist and played-time are combined so
// the identity is never blank. The artwork URL's size token is rewritten to
// artSize, and the platform placeholder counts as no artwork at all.
func Normalize(spin Spin, artSize string, now time.Time) Event {
	playedAt := normalizeTime(spin.Time)

	var identity string
	switch {
	case spin.ID != nil && *spin.ID != "":
		identity = *spin.ID
	case spin.Song != "":
		identity = spin.Song
		slog.Warn("spin has no identifier, using title", "title", spin.Song)
	default:
		identity = spin.Artist + "@" + playedAt
		slog.Warn("spin has no identifier or title, deriving identity", "identity", identity)
	}

	e := Event{
		Identity:      identity,
		Artist:        orUnknown(spin.Artist),
		Title:         orUnknown(spin.Song),
		Album:         orUnknown(spin.Album),
		DJ:            spin.DJ,
		PlayedAt:      playedAt,
		PlayedAtTime:  now,
		ArtworkStatus: ArtworkAbsent,
	}

	if spin.ArtworkURL != "" {
		url := strings.Replace(spin.ArtworkURL, sourceArtSize, artSize, 1)
		if url != placeholderArtworkURL {
			e.ArtworkURL = url
			e.ArtworkStatus = ArtworkPresent
		}
	}

	return e
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

// normalizeTime applies cosmetic cleanup to the played-time cell:
// "12:11 PM" becomes "12:11pm". Purely presentational, never part of identity.
func normalizeTime(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}
