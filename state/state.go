package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// NoneYet is the identity recorded before anything has ever been published.
// It can never collide with a real spin identity or the not-found sentinel.
const NoneYet = "starting up"

// LoadResult distinguishes how the persisted state was obtained, so callers
// can log each case instead of silently collapsing them.
type LoadResult int

const (
	// Found means the state file existed and held a usable identity.
	Found LoadResult = iota
	// AbsentInitialized means no state file existed; one was created with NoneYet.
	AbsentInitialized
	// CorruptReinitialized means the file was unreadable or blank and was
	// rewritten with NoneYet. One duplicate post is possible after this.
	CorruptReinitialized
)

func (r LoadResult) String() string {
	switch r {
	case Found:
		return "found"
	case AbsentInitialized:
		return "absent-initialized"
	case CorruptReinitialized:
		return "corrupt-reinitialized"
	default:
		return "unknown"
	}
}

// Store persists the last-published identity as a single line of text.
type Store struct {
	path string
}

// NewStore creates a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the last-published identity. A missing, unreadable or blank file
// self-heals to the NoneYet sentinel; only a failure to write the replacement
// file is an error.
func (s *Store) Load() (string, LoadResult, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		result := CorruptReinitialized
		if errors.Is(err, fs.ErrNotExist) {
			result = AbsentInitialized
		}
		if werr := s.Save(NoneYet); werr != nil {
			return "", result, werr
		}
		return NoneYet, result, nil
	}

	line, _, _ := strings.Cut(string(data), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		// A blank identity would match nothing and break dedup forever.
		if werr := s.Save(NoneYet); werr != nil {
			return "", CorruptReinitialized, werr
		}
		return NoneYet, CorruptReinitialized, nil
	}

	return line, Found, nil
}

// Save writes the identity as the file's single line. Failures must not be
// swallowed: a stale state file breaks dedup for every future cycle.
func (s *Store) Save(identity string) error {
	if err := os.WriteFile(s.path, []byte(identity+"\n"), 0o644); err != nil {
		return fmt.Errorf("state: write %s: %w", s.path, err)
	}
	return nil
}
