package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"playlist-bot/track"
)

const playlistHTML = `<!DOCTYPE html>
<html>
<body>
<h2 class="show-title">Morning Show</h2>
<table class="playlist">
<tr class="spin-item" data-spin='{"i":"123","a":"Artist X","s":"Song Y","r":"Album Z"}'>
  <td class="spin-time">10:00 AM</td>
  <td class="spin-art"><img src="https://img.example/cover/170x170/art.jpg"></td>
</tr>
<tr class="spin-item" data-spin='{"i":"122","a":"Older Artist","s":"Older Song","r":"Older Album"}'>
  <td class="spin-time">9:56 AM</td>
  <td class="spin-art"><img src="https://img.example/cover/170x170/old.jpg"></td>
</tr>
</table>
</body>
</html>`

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchCurrentSpin_Success(t *testing.T) {
	server := serveHTML(t, playlistHTML)
	f := NewFetcherWithClient(server.URL, server.Client())

	spin, err := f.FetchCurrentSpin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spin.ID == nil || *spin.ID != "123" {
		t.Errorf("expected first spin row id 123, got %v", spin.ID)
	}
	if spin.Artist != "Artist X" || spin.Song != "Song Y" || spin.Album != "Album Z" {
		t.Errorf("unexpected spin fields: %+v", spin)
	}
	if spin.Time != "10:00 AM" {
		t.Errorf("expected time from spin-time cell, got %q", spin.Time)
	}
	if spin.ArtworkURL != "https://img.example/cover/170x170/art.jpg" {
		t.Errorf("unexpected artwork url: %q", spin.ArtworkURL)
	}
	if spin.DJ != "Morning Show" {
		t.Errorf("expected DJ from show-title heading, got %q", spin.DJ)
	}
}

func TestFetchCurrentSpin_NullIdentifier(t *testing.T) {
	html := `<html><body><table>
<tr class="spin-item" data-spin='{"i":null,"a":"A","s":"S","r":"R"}'>
  <td class="spin-time">1:00 PM</td>
</tr>
</table></body></html>`
	server := serveHTML(t, html)
	f := NewFetcherWithClient(server.URL, server.Client())

	spin, err := f.FetchCurrentSpin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spin.ID != nil {
		t.Errorf("expected nil identifier, got %q", *spin.ID)
	}
}

func TestFetchCurrentSpin_NumericIdentifier(t *testing.T) {
	html := `<html><body><table>
<tr class="spin-item" data-spin='{"i":4567,"a":"A","s":"S","r":"R"}'>
  <td class="spin-time">1:00 PM</td>
</tr>
</table></body></html>`
	server := serveHTML(t, html)
	f := NewFetcherWithClient(server.URL, server.Client())

	spin, err := f.FetchCurrentSpin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spin.ID == nil || *spin.ID != "4567" {
		t.Errorf("expected numeric identifier converted to string, got %v", spin.ID)
	}
}

func TestFetchCurrentSpin_MissingRowIsNotFound(t *testing.T) {
	server := serveHTML(t, `<html><body><p>Back after the break</p></body></html>`)
	f := NewFetcherWithClient(server.URL, server.Client())

	spin, err := f.FetchCurrentSpin(context.Background())
	if err != nil {
		t.Fatalf("a missing row must not be an error, got: %v", err)
	}
	if spin.ID == nil || *spin.ID != track.SentinelNotFound {
		t.Errorf("expected not-found sentinel, got %v", spin.ID)
	}
	if spin.Artist != track.NotFoundArtist || spin.Song != track.NotFoundSong {
		t.Errorf("expected not-found markers, got %+v", spin)
	}
}

func TestFetchCurrentSpin_NoArtwork(t *testing.T) {
	html := `<html><body><table>
<tr class="spin-item" data-spin='{"i":"1","a":"A","s":"S","r":"R"}'>
  <td class="spin-time">1:00 PM</td>
  <td class="spin-art"></td>
</tr>
</table></body></html>`
	server := serveHTML(t, html)
	f := NewFetcherWithClient(server.URL, server.Client())

	spin, err := f.FetchCurrentSpin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spin.ArtworkURL != "" {
		t.Errorf("expected no artwork url, got %q", spin.ArtworkURL)
	}
}

func TestFetchCurrentSpin_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := NewFetcherWithClient(server.URL, server.Client())
	_, err := f.FetchCurrentSpin(context.Background())

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError for HTTP 500, got %v", err)
	}
}

func TestFetchCurrentSpin_Unreachable(t *testing.T) {
	f := NewFetcherWithClient("http://localhost:1/playlist", http.DefaultClient)
	_, err := f.FetchCurrentSpin(context.Background())

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError for unreachable host, got %v", err)
	}
}

func TestFetchCurrentSpin_MalformedPayload(t *testing.T) {
	html := `<html><body><table>
<tr class="spin-item" data-spin='not json'>
  <td class="spin-time">1:00 PM</td>
</tr>
</table></body></html>`
	server := serveHTML(t, html)
	f := NewFetcherWithClient(server.URL, server.Client())

	_, err := f.FetchCurrentSpin(context.Background())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError for malformed data-spin, got %v", err)
	}
}

func TestFetchCurrentSpin_MissingPayloadAttribute(t *testing.T) {
	html := `<html><body><table>
<tr class="spin-item"><td class="spin-time">1:00 PM</td></tr>
</table></body></html>`
	server := serveHTML(t, html)
	f := NewFetcherWithClient(server.URL, server.Client())

	_, err := f.FetchCurrentSpin(context.Background())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError for missing data-spin attribute, got %v", err)
	}
}
