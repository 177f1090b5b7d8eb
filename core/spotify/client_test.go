package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"waxcrate/core/collection"
)

const albumFixture = `{
	"id": "A1",
	"name": "X",
	"uri": "spotify:album:A1",
	"label": "L",
	"release_date": "2020-05-01",
	"total_tracks": 2,
	"artists": [{"id": "AR1", "name": "Y", "uri": "spotify:artist:AR1"}],
	"images": [
		{"url": "https://img.example/large.jpg", "height": 640, "width": 640},
		{"url": "https://img.example/mid.jpg", "height": 300, "width": 300}
	],
	"tracks": {
		"total": 2,
		"items": [
			{"id": "T1", "name": "T1", "track_number": 1, "explicit": false, "duration_ms": 210000, "uri": "spotify:track:T1"},
			{"id": "T2", "name": "T2", "track_number": 2, "explicit": true, "duration_ms": 220000, "uri": "spotify:track:T2"}
		]
	}
}`

const searchFixture = `{
	"albums": {
		"total": 1,
		"items": [{
			"id": "A1",
			"name": "X",
			"artists": [{"id": "AR1", "name": "Y", "uri": "spotify:artist:AR1"}],
			"images": [{"url": "https://img.example/large.jpg"}, {"url": "https://img.example/mid.jpg"}]
		}]
	}
}`

// newTestClient points a Client at a stub API server, bypassing oauth.
func newTestClient(ts *httptest.Server) *Client {
	client := &Client{
		baseURL:    ts.URL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
	return client
}

func TestFetchAlbum(t *testing.T) {
	t.Run("Maps Album Payload", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/albums/A1" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(albumFixture))
		}))
		defer ts.Close()

		info, err := newTestClient(ts).FetchAlbum(context.Background(), "A1")
		if err != nil {
			t.Fatalf("FetchAlbum failed: %v", err)
		}

		if info.Name != "X" || info.Label != "L" || info.TotalTracks != 2 {
			t.Errorf("unexpected album mapping: %+v", info)
		}
		if info.SpotifyAlbumID != "A1" || info.SpotifyAlbumURI != "spotify:album:A1" {
			t.Errorf("unexpected external ids: %+v", info)
		}
		if info.Artist.Name != "Y" || info.Artist.SpotifyArtistID != "AR1" {
			t.Errorf("unexpected artist mapping: %+v", info.Artist)
		}
		if info.ImgSrc != "https://img.example/mid.jpg" {
			t.Errorf("expected mid-size image, got %s", info.ImgSrc)
		}
		if info.ReleaseDate != "2020-05-01" {
			t.Errorf("release date must pass through, got %s", info.ReleaseDate)
		}
		// 210s + 220s = 430s = 00:07:10
		if info.Duration != "00:07:10" {
			t.Errorf("expected summed duration 00:07:10, got %s", info.Duration)
		}
		if len(info.Tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(info.Tracks))
		}
		if info.Tracks[0].Duration != "00:03:30" {
			t.Errorf("expected track duration 00:03:30, got %s", info.Tracks[0].Duration)
		}
		if !info.Tracks[1].Explicit {
			t.Error("expected track 2 to be explicit")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		_, err := newTestClient(ts).FetchAlbum(context.Background(), "nope")
		if !errors.Is(err, collection.ErrAlbumNotFound) {
			t.Fatalf("expected ErrAlbumNotFound, got %v", err)
		}
	})

	t.Run("Upstream Error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ts.Close()

		_, err := newTestClient(ts).FetchAlbum(context.Background(), "A1")
		if err == nil {
			t.Fatal("expected an error for a 500 response")
		}
		if errors.Is(err, collection.ErrAlbumNotFound) {
			t.Fatal("a 500 must not be reported as not-found")
		}
	})
}

func TestSearchAlbums(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "album:x" {
			t.Errorf("expected q=album:x, got %q", got)
		}
		if got := r.URL.Query().Get("type"); got != "album" {
			t.Errorf("expected type=album, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchFixture))
	}))
	defer ts.Close()

	results, err := newTestClient(ts).SearchAlbums(context.Background(), "x", 12)
	if err != nil {
		t.Fatalf("SearchAlbums failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ID != "A1" || results[0].Artist != "Y" || results[0].ImgSrc != "https://img.example/mid.jpg" {
		t.Errorf("unexpected search mapping: %+v", results[0])
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		ms   int
		want string
	}{
		{0, "00:00:00"},
		{210000, "00:03:30"},
		{2530000, "00:42:10"},
		{3723999, "01:02:03"},
	}
	for _, c := range cases {
		if got := formatClock(c.ms); got != c.want {
			t.Errorf("formatClock(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}
