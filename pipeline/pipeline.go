package pipeline

import (
	"context"
	"log/slog"
	"time"

	"playlist-bot/dedup"
	"playlist-bot/format"
	"playlist-bot/state"
	"playlist-bot/track"
)

// Fetcher retrieves the current spin from the playlist page.
type Fetcher interface {
	FetchCurrentSpin(ctx context.Context) (track.Spin, error)
}

// StateStore persists the last-published identity.
type StateStore interface {
	Load() (string, state.LoadResult, error)
	Save(identity string) error
}

// HistoryRecord is the pipeline's view of one confirmed publish.
type HistoryRecord struct {
	RecordedAt int64
	SpinID     string
	DJ         string
	Song       string
	Artist     string
	Album      string
	AlbumArt   string
}

// History appends confirmed publishes to the durable play log.
type History interface {
	Append(r HistoryRecord) error
}

// Publisher posts an announcement for an event.
type Publisher interface {
	Publish(ctx context.Context, e track.Event, a format.Announcement) error
}

// Outcome is the result of one poll cycle.
type Outcome int

const (
	Published Outcome = iota
	SkippedAlreadyPosted
	SkippedNotFound
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Published:
		return "published"
	case SkippedAlreadyPosted:
		return "skipped-already-posted"
	case SkippedNotFound:
		return "skipped-not-found"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config holds cycle configuration.
type Config struct {
	AlbumArtSize string
	AlwaysTag    string
}

// Runner executes poll cycles: fetch, normalize, gate, and on a new spin
// format, publish and persist. Cycles run sequentially; the scheduler never
// overlaps them.
type Runner struct {
	fetcher   Fetcher
	stateDB   StateStore
	history   History
	publisher Publisher
	config    Config
	now       func() time.Time
}

// NewRunner creates a Runner with all dependencies.
func NewRunner(fetcher Fetcher, stateDB StateStore, history History, publisher Publisher, cfg Config) *Runner {
	return &Runner{
		fetcher:   fetcher,
		stateDB:   stateDB,
		history:   history,
		publisher: publisher,
		config:    cfg,
		now:       time.Now,
	}
}

// RunCycle executes one fetch→normalize→gate→publish→persist cycle.
//
// Every outcome is logged with the spin identity and a human-readable
// timestamp. A fetch or publish failure ends the cycle with state and history
// untouched, so the normal polling cadence retries it. Only a successful
// publish mutates persisted state, history row first so that last-published
// can never advance without a matching history entry.
func (r *Runner) RunCycle(ctx context.Context) (Outcome, error) {
	now := r.now()
	stamp := now.Format("Monday, January 2, 2006 3:04:05 PM")

	spin, err := r.fetcher.FetchCurrentSpin(ctx)
	if err != nil {
		slog.Error("playlist fetch failed, skipping cycle", "error", err, "at", stamp)
		return Failed, err
	}

	event := track.Normalize(spin, r.config.AlbumArtSize, now)

	lastIdentity, loadResult, err := r.stateDB.Load()
	if err != nil {
		slog.Error("state load failed", "error", err, "at", stamp)
		return Failed, err
	}
	if loadResult != state.Found {
		slog.Warn("state file reinitialized", "result", loadResult.String())
	}

	switch dedup.Decide(event, lastIdentity) {
	case dedup.SkipNotFound:
		slog.Info("latest spin not found", "at", stamp)
		return SkippedNotFound, nil
	case dedup.SkipAlreadyPosted:
		slog.Info("spin already posted", "identity", event.Identity,
			"title", event.Title, "artist", event.Artist, "at", stamp)
		return SkippedAlreadyPosted, nil
	}

	announcement := format.Render(event, r.config.AlwaysTag)

	if err := r.publisher.Publish(ctx, event, announcement); err != nil {
		slog.Error("publish failed, state and history untouched",
			"identity", event.Identity, "error", err, "at", stamp)
		return Failed, err
	}

	if err := r.history.Append(HistoryRecord{
		RecordedAt: now.Unix(),
		SpinID:     event.Identity,
		DJ:         event.DJ,
		Song:       event.Title,
		Artist:     event.Artist,
		Album:      event.Album,
		AlbumArt:   event.ArtworkURL,
	}); err != nil {
		slog.Error("history append failed after publish",
			"identity", event.Identity, "error", err, "at", stamp)
		return Failed, err
	}

	if err := r.stateDB.Save(event.Identity); err != nil {
		slog.Error("state write failed after publish, dedup is broken until fixed",
			"identity", event.Identity, "error", err, "at", stamp)
		return Failed, err
	}

	slog.Info("published", "identity", event.Identity, "title", event.Title,
		"artist", event.Artist, "dj", event.DJ, "artwork", string(event.ArtworkStatus), "at", stamp)
	return Published, nil
}
