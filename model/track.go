package model

import "time"

// AlbumTrack is a track belonging to a mirrored album. Tracks live and die
// with their album; the reconciler deletes them explicitly before the album
// row.
type AlbumTrack struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	TrackNumber     int       `json:"trackNumber" gorm:"not null"`
	Name            string    `json:"name" gorm:"size:100;not null"`
	Explicit        bool      `json:"explicit" gorm:"not null"`
	DurationSecs    int       `json:"durationSecs" gorm:"not null"`
	SpotifyTrackID  string    `json:"spotifyTrackId" gorm:"size:50;not null"`
	SpotifyTrackURI string    `json:"spotifyTrackUri" gorm:"size:50;not null"`
	AlbumID         int64     `json:"albumId" gorm:"not null;index"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
