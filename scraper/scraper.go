package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"playlist-bot/track"
)

// FetchError means the playlist page was unreachable or malformed. The cycle
// treats it as "no new information": log, skip, retry on the next poll.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching playlist %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves the current spin from the playlist page.
type Fetcher interface {
	FetchCurrentSpin(ctx context.Context) (track.Spin, error)
}

type httpFetcher struct {
	pageURL string
	client  *http.Client
}

// NewFetcher creates a Fetcher for the given playlist page with the given
// HTTP timeout.
func NewFetcher(pageURL string, timeout time.Duration) Fetcher {
	return &httpFetcher{
		pageURL: pageURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewFetcherWithClient creates a Fetcher with a custom HTTP client (for testing).
func NewFetcherWithClient(pageURL string, client *http.Client) Fetcher {
	return &httpFetcher{
		pageURL: pageURL,
		client:  client,
	}
}

var (
	spinRowSel   = cascadia.MustCompile("tr.spin-item")
	spinTimeSel  = cascadia.MustCompile("td.spin-time")
	spinArtSel   = cascadia.MustCompile("td.spin-art img")
	showTitleSel = cascadia.MustCompile(".show-title")
)

// spinPayload mirrors the machine-readable data-spin attribute on a spin row.
// The identifier is occasionally null, and on some pages numeric.
type spinPayload struct {
	ID     any    `json:"i"`
	Artist string `json:"a"`
	Song   string `json:"s"`
	Album  string `json:"r"`
}

// FetchCurrentSpin issues one GET of the playlist page and extracts the most
// recent spin row. A page with no spin row is a valid state and yields the
// reserved not-found bag; an unreachable or unparseable page yields *FetchError.
func (f *httpFetcher) FetchCurrentSpin(ctx context.Context) (track.Spin, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.pageURL, nil)
	if err != nil {
		return track.Spin{}, &FetchError{URL: f.pageURL, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return track.Spin{}, &FetchError{URL: f.pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return track.Spin{}, &FetchError{URL: f.pageURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return track.Spin{}, &FetchError{URL: f.pageURL, Err: fmt.Errorf("parsing page: %w", err)}
	}

	dj := nodeText(showTitleSel.MatchFirst(doc))

	row := spinRowSel.MatchFirst(doc)
	if row == nil {
		return track.NotFoundSpin(), nil
	}

	raw := attrValue(row, "data-spin")
	if raw == "" {
		return track.Spin{}, &FetchError{URL: f.pageURL, Err: fmt.Errorf("spin row has no data-spin attribute")}
	}

	var payload spinPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return track.Spin{}, &FetchError{URL: f.pageURL, Err: fmt.Errorf("decoding data-spin: %w", err)}
	}

	spin := track.Spin{
		ID:     idString(payload.ID),
		Artist: payload.Artist,
		Song:   payload.Song,
		Album:  payload.Album,
		Time:   nodeText(spinTimeSel.MatchFirst(row)),
		DJ:     dj,
	}

	if img := spinArtSel.MatchFirst(row); img != nil {
		spin.ArtworkURL = attrValue(img, "src")
	}

	return spin, nil
}

// idString converts the identifier from the data-spin payload to a string,
// or nil when the page provided none.
func idString(v any) *string {
	switch id := v.(type) {
	case string:
		if id == "" {
			return nil
		}
		return &id
	case float64:
		s := strconv.FormatFloat(id, 'f', -1, 64)
		return &s
	default:
		return nil
	}
}

// attrValue returns the value of the named attribute, or "" if absent.
func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// nodeText returns the trimmed concatenation of all text under n.
func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
