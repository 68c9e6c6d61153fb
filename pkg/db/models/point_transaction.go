package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/glowora/glowora-backend/pkg/enums"
)

// PointTransaction is an append-only log entry for a point balance change.
// Rows are never updated or deleted.
type PointTransaction struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`

	Type        enums.PointTransactionType `gorm:"column:type;type:text;not null"`
	Amount      int64                      `gorm:"column:amount;not null"`
	Description string                     `gorm:"column:description;not null"`

	OrderID   *uuid.UUID `gorm:"column:order_id;type:uuid"`
	EarningID *uuid.UUID `gorm:"column:earning_id;type:uuid"`

	// BalanceAfter snapshots the user's spendable balance after this entry.
	BalanceAfter int64 `gorm:"column:balance_after;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
