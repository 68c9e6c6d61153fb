package models

import (
	"time"

	"github.com/google/uuid"
)

// AffiliateLink is a shareable referral code owned by an affiliate and
// pointing at a seller storefront. The counters are only ever bumped with
// atomic increments, never read-modify-write.
type AffiliateLink struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code        string    `gorm:"column:code;not null;uniqueIndex"`
	AffiliateID uuid.UUID `gorm:"column:affiliate_id;type:uuid;not null;index"`
	SellerID    uuid.UUID `gorm:"column:seller_id;type:uuid;not null"`

	Conversions       int   `gorm:"column:conversions;not null;default:0"`
	TotalPointsEarned int64 `gorm:"column:total_points_earned;not null;default:0"`
	// No struct-level default: gorm drops zero-value columns that carry one,
	// so a link saved with Active=false would silently persist as active.
	// The column default lives in the migration for raw inserts only.
	Active bool `gorm:"column:active;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
