package dedup

import (
	"testing"

	"playlist-bot/state"
	"playlist-bot/track"
)

func TestDecide_NewSpinPublishes(t *testing.T) {
	e := track.Event{Identity: "123"}
	if got := Decide(e, "999"); got != Publish {
		t.Errorf("expected publish for new identity, got %s", got)
	}
}

func TestDecide_SameIdentitySkips(t *testing.T) {
	e := track.Event{Identity: "123"}
	if got := Decide(e, "123"); got != SkipAlreadyPosted {
		t.Errorf("expected skip-already-posted, got %s", got)
	}
}

func TestDecide_NotFoundSentinelSkips(t *testing.T) {
	e := track.Event{Identity: track.SentinelNotFound}
	if got := Decide(e, "999"); got != SkipNotFound {
		t.Errorf("expected skip-not-found, got %s", got)
	}
	// Even a state file that somehow holds the sentinel must not publish it.
	if got := Decide(e, track.SentinelNotFound); got != SkipNotFound {
		t.Errorf("expected skip-not-found against sentinel state, got %s", got)
	}
}

func TestDecide_FreshStatePublishes(t *testing.T) {
	e := track.Event{Identity: "123"}
	if got := Decide(e, state.NoneYet); got != Publish {
		t.Errorf("expected publish against none-yet state, got %s", got)
	}
}

func TestDecide_Idempotent(t *testing.T) {
	e := track.Event{Identity: "abc"}
	first := Decide(e, "xyz")
	for i := 0; i < 5; i++ {
		if got := Decide(e, "xyz"); got != first {
			t.Fatalf("decision changed on repeat call: %s then %s", first, got)
		}
	}
}

func TestDecide_PublishedIdentityThenSkips(t *testing.T) {
	e := track.Event{Identity: "123"}
	if got := Decide(e, "999"); got != Publish {
		t.Fatalf("expected publish, got %s", got)
	}
	// After a successful persist, state holds the event's identity and the
	// same event must be skipped.
	if got := Decide(e, e.Identity); got != SkipAlreadyPosted {
		t.Errorf("expected skip-already-posted after persist, got %s", got)
	}
}
