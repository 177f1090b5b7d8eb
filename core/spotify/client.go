package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"waxcrate/core/collection"
	"waxcrate/logger"

	"golang.org/x/oauth2/clientcredentials"
)

// Client talks to the Spotify Web API using the client-credentials flow.
// It implements collection.Catalog.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Spotify API client. The oauth2 transport fetches and
// refreshes the app token transparently.
func NewClient(clientID, clientSecret, apiURL, tokenURL string, timeout time.Duration) *Client {
	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}

	httpClient := cc.Client(context.Background())
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    apiURL,
		httpClient: httpClient,
	}
}

// SetHTTPClient overrides the underlying HTTP client, mainly for tests.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spotify request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: spotify returned 404 for %s", collection.ErrAlbumNotFound, endpoint)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("spotify returned status %d for %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode spotify response: %w", err)
	}
	return nil
}

// FetchAlbum retrieves a full album by its Spotify id and maps it to the
// catalog payload the reconciler consumes. The album duration is the sum of
// the track durations, rendered HH:MM:SS like the rest of the catalog data.
func (c *Client) FetchAlbum(ctx context.Context, spotifyAlbumID string) (*collection.CatalogAlbum, error) {
	var album apiAlbum
	if err := c.getJSON(ctx, "/albums/"+url.PathEscape(spotifyAlbumID), &album); err != nil {
		return nil, err
	}

	info := &collection.CatalogAlbum{
		Name:            album.Name,
		TotalTracks:     album.TotalTracks,
		ReleaseDate:     album.ReleaseDate,
		Label:           album.Label,
		SpotifyAlbumID:  album.ID,
		SpotifyAlbumURI: album.URI,
	}

	if len(album.Artists) > 0 {
		primary := album.Artists[0]
		info.Artist = collection.CatalogArtist{
			Name:             primary.Name,
			SpotifyArtistID:  primary.ID,
			SpotifyArtistURI: primary.URI,
		}
	}
	info.ImgSrc = pickImage(album.Images)

	totalMS := 0
	info.Tracks = make([]collection.CatalogTrack, len(album.Tracks.Items))
	for i, t := range album.Tracks.Items {
		totalMS += t.DurationMS
		info.Tracks[i] = collection.CatalogTrack{
			TrackNumber:     t.TrackNumber,
			Name:            t.Name,
			Explicit:        t.Explicit,
			Duration:        formatClock(t.DurationMS),
			SpotifyTrackID:  t.ID,
			SpotifyTrackURI: t.URI,
		}
	}
	info.Duration = formatClock(totalMS)

	logger.Debug("fetched album from spotify",
		logger.String("spotifyAlbumId", spotifyAlbumID),
		logger.Int("tracks", len(info.Tracks)),
	)
	return info, nil
}

// SearchAlbums performs an album search and returns result summaries.
func (c *Client) SearchAlbums(ctx context.Context, query string, limit int) ([]AlbumSummary, error) {
	if limit <= 0 || limit > 50 {
		limit = 12
	}

	params := url.Values{}
	params.Set("q", "album:"+query)
	params.Set("type", "album")
	params.Set("limit", strconv.Itoa(limit))

	var result apiSearchResponse
	if err := c.getJSON(ctx, "/search?"+params.Encode(), &result); err != nil {
		return nil, err
	}

	summaries := make([]AlbumSummary, 0, len(result.Albums.Items))
	for _, item := range result.Albums.Items {
		summary := AlbumSummary{
			ID:     item.ID,
			Name:   item.Name,
			ImgSrc: pickImage(item.Images),
		}
		if len(item.Artists) > 0 {
			summary.Artist = item.Artists[0].Name
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// pickImage prefers the mid-size image (index 1 in Spotify's largest-first
// ordering) and falls back to whatever is available.
func pickImage(images []apiImage) string {
	if len(images) > 1 {
		return images[1].URL
	}
	if len(images) == 1 {
		return images[0].URL
	}
	return ""
}

// formatClock renders milliseconds as HH:MM:SS, truncating sub-second
// remainders. The write path parses this back on a 24-hour clock, so totals
// of 24 hours or more do not round-trip.
func formatClock(ms int) string {
	secs := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
