package user

import (
	"strings"
	"time"
)

type User struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	ExternalID string    `gorm:"column:external_id;not null;uniqueIndex"`
	Name       string    `gorm:"not null"`
	Email      string    `gorm:"not null"`
	Image      *string   `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

type AllowedEmail struct {
	Email     string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Identity is a verified identity handed over by the external auth provider.
type Identity struct {
	ExternalID string
	Email      string
	Name       string
	Image      string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
