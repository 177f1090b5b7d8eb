package model

import "time"

// Album mirrors a catalog album. At most one row exists per Spotify album id
// no matter how many users hold it in their collection; the unique index is
// the backstop against concurrent creation.
type Album struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"size:100;not null"`
	TotalTracks     int       `json:"totalTracks" gorm:"not null"`
	DurationSecs    int       `json:"durationSecs" gorm:"not null"`
	ReleaseDate     time.Time `json:"releaseDate" gorm:"type:date;not null"`
	Label           string    `json:"label" gorm:"size:100;not null"`
	ImgSrc          string    `json:"imgSrc" gorm:"size:255;not null"`
	CoverPath       string    `json:"coverPath,omitempty" gorm:"size:255"` // object path of the mirrored cover, if any
	SpotifyAlbumID  string    `json:"spotifyAlbumId" gorm:"size:50;not null;uniqueIndex"`
	SpotifyAlbumURI string    `json:"spotifyAlbumUri" gorm:"size:50;not null"`
	ArtistID        int64     `json:"artistId" gorm:"not null;index"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UserAlbum links a user to an album in their collection. Pure join row.
type UserAlbum struct {
	UserID  int64 `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	AlbumID int64 `json:"albumId" gorm:"primaryKey;autoIncrement:false"`
}

// TableName keeps the join table name stable for the raw SQL layer.
func (UserAlbum) TableName() string {
	return "user_albums"
}
