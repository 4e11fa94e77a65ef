package dedup

import "playlist-bot/track"

// Decision is the gate's verdict for one incoming event.
type Decision int

const (
	// Publish means the event is a new spin and should be announced.
	Publish Decision = iota
	// SkipAlreadyPosted means the event matches the last published identity.
	SkipAlreadyPosted
	// SkipNotFound means the event is the reserved not-found record.
	SkipNotFound
)

func (d Decision) String() string {
	switch d {
	case Publish:
		return "publish"
	case SkipAlreadyPosted:
		return "skip-already-posted"
	case SkipNotFound:
		return "skip-not-found"
	default:
		return "unknown"
	}
}

// Decide is the sole gate for downstream publish side effects. lastIdentity
// must come from persisted state loaded this cycle, never from an in-memory
// cache, so a restart resumes correctly.
func Decide(e track.Event, lastIdentity string) Decision {
	if e.NotFound() {
		return SkipNotFound
	}
	if e.Identity == lastIdentity {
		return SkipAlreadyPosted
	}
	return Publish
}
