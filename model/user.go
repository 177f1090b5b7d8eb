package model

import "time"

// User represents a registered user.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:45;not null"`
	Email        string    `json:"email" gorm:"size:45;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:100;not null"` // Not exposed in API responses
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
