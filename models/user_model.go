package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email        string    `gorm:"size:255;not null;unique" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         *string   `gorm:"size:255" json:"name"`
	Provider     string    `gorm:"size:20;not null;default:'password'" json:"provider"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
