package collection

import "context"

// Catalog is the external music catalog collaborator. Implementations must
// return an error wrapping ErrAlbumNotFound when the id does not resolve.
type Catalog interface {
	FetchAlbum(ctx context.Context, spotifyAlbumID string) (*CatalogAlbum, error)
}

// CatalogArtist is the artist info nested in a catalog album payload.
type CatalogArtist struct {
	Name             string `json:"name"`
	SpotifyArtistID  string `json:"spotifyArtistId"`
	SpotifyArtistURI string `json:"spotifyArtistUri"`
}

// CatalogTrack is one track of a catalog album payload.
type CatalogTrack struct {
	TrackNumber     int    `json:"trackNumber"`
	Name            string `json:"name"`
	Explicit        bool   `json:"explicit"`
	Duration        string `json:"duration"` // HH:MM:SS
	SpotifyTrackID  string `json:"spotifyTrackId"`
	SpotifyTrackURI string `json:"spotifyTrackUri"`
}

// CatalogAlbum is the catalog's view of an album, as handed to the
// reconciler. Durations and the release date arrive as strings and are
// validated before any row is written.
type CatalogAlbum struct {
	Name            string         `json:"name"`
	TotalTracks     int            `json:"totalTracks"`
	Duration        string         `json:"duration"`    // HH:MM:SS
	ReleaseDate     string         `json:"releaseDate"` // YYYY-MM-DD
	Label           string         `json:"label"`
	ImgSrc          string         `json:"imgSrc"`
	SpotifyAlbumID  string         `json:"spotifyAlbumId"`
	SpotifyAlbumURI string         `json:"spotifyAlbumUri"`
	Artist          CatalogArtist  `json:"artist"`
	Tracks          []CatalogTrack `json:"tracks"`
}
