// Spotify Web API response types, trimmed to the fields Waxcrate reads.
// Shapes follow https://developer.spotify.com/documentation/web-api/reference/
package spotify

type apiImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type apiArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

type apiTrack struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TrackNumber int    `json:"track_number"`
	Explicit    bool   `json:"explicit"`
	DurationMS  int    `json:"duration_ms"`
	URI         string `json:"uri"`
}

type apiTrackPage struct {
	Items []apiTrack `json:"items"`
	Total int        `json:"total"`
}

type apiAlbum struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Artists     []apiArtist  `json:"artists"`
	ReleaseDate string       `json:"release_date"`
	TotalTracks int          `json:"total_tracks"`
	Label       string       `json:"label"`
	Images      []apiImage   `json:"images"`
	URI         string       `json:"uri"`
	Tracks      apiTrackPage `json:"tracks"`
}

type apiAlbumPage struct {
	Items []apiAlbum `json:"items"`
	Total int        `json:"total"`
}

type apiSearchResponse struct {
	Albums apiAlbumPage `json:"albums"`
}

// AlbumSummary is a search hit: just enough to render a result card.
type AlbumSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
	ImgSrc string `json:"imgSrc"`
}
