package models

import (
	"time"

	"github.com/google/uuid"
)

// UserPoints is the per-user point balance. One row per user, created lazily
// on first earning. TotalPoints is the spendable balance; PendingPoints await
// order delivery. Both are clamped at zero on decrement.
type UserPoints struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`

	TotalPoints   int64 `gorm:"column:total_points;not null;default:0"`
	TotalEarned   int64 `gorm:"column:total_earned;not null;default:0"`
	TotalSpent    int64 `gorm:"column:total_spent;not null;default:0"`
	PendingPoints int64 `gorm:"column:pending_points;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
