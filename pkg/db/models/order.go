package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glowora/glowora-backend/pkg/enums"
)

// Order is the buyer-facing marketplace order with its billing snapshot.
// Billing fields are copied at creation time and never rewritten.
type Order struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber string    `gorm:"column:order_number;not null;uniqueIndex"`

	BuyerID  uuid.UUID `gorm:"column:buyer_id;type:uuid;not null;index"`
	SellerID uuid.UUID `gorm:"column:seller_id;type:uuid;not null;index"`

	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName  string          `gorm:"column:product_name;not null"`
	ProductPrice decimal.Decimal `gorm:"column:product_price;type:numeric(12,2);not null"`
	Quantity     int             `gorm:"column:quantity;not null;default:1"`

	Subtotal   decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Shipping   decimal.Decimal `gorm:"column:shipping;type:numeric(12,2);not null;default:0"`
	Tax        decimal.Decimal `gorm:"column:tax;type:numeric(12,2);not null;default:0"`
	Discount   decimal.Decimal `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	CouponCode *string         `gorm:"column:coupon_code"`
	Total      decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`

	PaymentMethod string              `gorm:"column:payment_method;not null"`
	PaymentID     *string             `gorm:"column:payment_id"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`

	Status enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`

	AffiliateCode             *string    `gorm:"column:affiliate_code"`
	AffiliateID               *uuid.UUID `gorm:"column:affiliate_id;type:uuid"`
	AffiliateEarningProcessed bool       `gorm:"column:affiliate_earning_processed;not null;default:false"`

	BillingName       string `gorm:"column:billing_name;not null"`
	BillingEmail      string `gorm:"column:billing_email;not null"`
	BillingAddress    string `gorm:"column:billing_address;not null"`
	BillingCity       string `gorm:"column:billing_city;not null"`
	BillingPostalCode string `gorm:"column:billing_postal_code;not null"`
	BillingCountry    string `gorm:"column:billing_country;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
