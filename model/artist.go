package model

import "time"

// Artist mirrors a catalog artist. Rows are created lazily when the first
// album by the artist enters any user's collection, and removed again when
// the last such album is removed.
type Artist struct {
	ID               int64     `json:"id" gorm:"primaryKey"`
	Name             string    `json:"name" gorm:"size:100;not null"`
	SpotifyArtistID  string    `json:"spotifyArtistId" gorm:"size:50;not null;uniqueIndex"`
	SpotifyArtistURI string    `json:"spotifyArtistUri" gorm:"size:50;not null"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
