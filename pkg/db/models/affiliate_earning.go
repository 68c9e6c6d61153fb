package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glowora/glowora-backend/pkg/enums"
)

// AffiliateEarning records the provisional points an affiliate earned on a
// single order. At most one row exists per order; status moves forward only
// (pending -> confirmed) and the confirmed flip happens exactly once.
type AffiliateEarning struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AffiliateID uuid.UUID `gorm:"column:affiliate_id;type:uuid;not null;index"`
	OrderID     uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	LinkID      uuid.UUID `gorm:"column:link_id;type:uuid;not null"`
	SellerID    uuid.UUID `gorm:"column:seller_id;type:uuid;not null"`
	BuyerID     uuid.UUID `gorm:"column:buyer_id;type:uuid;not null"`

	OrderAmount  decimal.Decimal `gorm:"column:order_amount;type:numeric(12,2);not null"`
	PointsEarned int64           `gorm:"column:points_earned;not null"`
	PointsRate   decimal.Decimal `gorm:"column:points_rate;type:numeric(6,4);not null"`

	Status enums.EarningStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	PaidAt *time.Time          `gorm:"column:paid_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
