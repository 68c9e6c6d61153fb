package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the shared identity record for buyers, sellers, and affiliates.
// The order core only ever reads it, for display enrichment.
type User struct {
	ID    uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name  string    `gorm:"column:name;not null"`
	Email string    `gorm:"column:email;not null;uniqueIndex"`
	Role  string    `gorm:"column:role;not null;default:'buyer'"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
