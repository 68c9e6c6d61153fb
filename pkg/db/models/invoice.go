package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice snapshots the billable amounts for a delivered order. The unique
// order_id index is what makes invoice generation idempotent.
type Invoice struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	InvoiceNumber string    `gorm:"column:invoice_number;not null;uniqueIndex"`

	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	TaxRate   decimal.Decimal `gorm:"column:tax_rate;type:numeric(6,4);not null"`
	TaxAmount decimal.Decimal `gorm:"column:tax_amount;type:numeric(12,2);not null"`
	Total     decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`

	IssuedAt  time.Time `gorm:"column:issued_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
