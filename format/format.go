package format

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"playlist-bot/track"
)

// Announcement is the publish-ready rendering of one event.
type Announcement struct {
	Body    string
	AltText string // used only when artwork is attached
}

// Render builds the announcement text for an event. Pure function: no network,
// no clock, no publish access.
func Render(e track.Event, alwaysTag string) Announcement {
	var sb strings.Builder
	sb.WriteString(e.PlayedAt)
	sb.WriteString(" ")
	sb.WriteString(e.Title)
	sb.WriteString(" by ")
	sb.WriteString(e.Artist)
	sb.WriteString(" from ")
	sb.WriteString(e.Album)

	if tags := tagLine(e, alwaysTag); tags != "" {
		sb.WriteString("\n")
		sb.WriteString(tags)
	}

	return Announcement{
		Body:    sb.String(),
		AltText: "An image of the cover of the record album '" + e.Album + "' by " + e.Artist,
	}
}

// tagLine builds the hashtag line from artist, title and DJ, appending the
// configured always-include tag. Empty fragments are dropped.
func tagLine(e track.Event, alwaysTag string) string {
	var tags []string
	for _, s := range []string{e.Artist, e.Title, e.DJ} {
		if t := Hashtag(s); t != "" {
			tags = append(tags, t)
		}
	}
	if alwaysTag != "" {
		tags = append(tags, alwaysTag)
	}
	return strings.Join(tags, " ")
}

// stripMarks decomposes characters and removes combining marks, so that
// "Günther" folds to "Gunther".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Hashtag turns a free-form name into a hashtag fragment: diacritics stripped,
// non-alphanumerics removed, "#" prefixed. Returns "" when nothing survives.
func Hashtag(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var sb strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return ""
	}
	return "#" + sb.String()
}
