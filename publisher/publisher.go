package publisher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mattn/go-mastodon"

	"playlist-bot/format"
	"playlist-bot/track"
)

// PublishError means the social platform rejected the post or was unreachable.
// The cycle must not advance state or history when it sees one.
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publishing announcement: %v", e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// Mastodon publishes announcements to a Mastodon account.
type Mastodon struct {
	client    *mastodon.Client
	artClient *http.Client
}

// New creates a Mastodon publisher authenticated with a bearer token against
// the given server. timeout bounds the artwork download.
func New(server, accessToken string, timeout time.Duration) *Mastodon {
	return &Mastodon{
		client: mastodon.NewClient(&mastodon.Config{
			Server:      server,
			AccessToken: accessToken,
		}),
		artClient: &http.Client{Timeout: timeout},
	}
}

// NewWithArtClient creates a Mastodon publisher with a custom HTTP client for
// artwork downloads (for testing).
func NewWithArtClient(server, accessToken string, artClient *http.Client) *Mastodon {
	return &Mastodon{
		client: mastodon.NewClient(&mastodon.Config{
			Server:      server,
			AccessToken: accessToken,
		}),
		artClient: artClient,
	}
}

// Publish posts the announcement. When the event carries real artwork the
// image is downloaded, uploaded as media with the alt text, and attached;
// otherwise the post is text-only. Artwork absence is not an error.
func (m *Mastodon) Publish(ctx context.Context, e track.Event, a format.Announcement) error {
	toot := &mastodon.Toot{
		Status:     a.Body,
		Visibility: "public",
	}

	if e.ArtworkStatus == track.ArtworkPresent {
		data, err := m.fetchArtwork(ctx, e.ArtworkURL)
		if err != nil {
			return &PublishError{Err: err}
		}

		attachment, err := m.client.UploadMediaFromMedia(ctx, &mastodon.Media{
			File:        bytes.NewReader(data),
			Description: a.AltText,
		})
		if err != nil {
			return &PublishError{Err: fmt.Errorf("uploading media: %w", err)}
		}
		toot.MediaIDs = []mastodon.ID{attachment.ID}
	}

	if _, err := m.client.PostStatus(ctx, toot); err != nil {
		return &PublishError{Err: fmt.Errorf("posting status: %w", err)}
	}

	return nil
}

func (m *Mastodon) fetchArtwork(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating artwork request: %w", err)
	}

	resp, err := m.artClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching artwork %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork %s returned status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading artwork %s: %w", url, err)
	}
	return data, nil
}
