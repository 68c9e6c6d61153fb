package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glowora/glowora-backend/pkg/enums"
)

// BillingInfo is the checkout billing snapshot copied onto the order.
type BillingInfo struct {
	Name       string
	Email      string
	Address    string
	City       string
	PostalCode string
	Country    string
}

// CreateOrderInput carries everything the buyer checkout flow submits.
type CreateOrderInput struct {
	BuyerID  uuid.UUID
	SellerID uuid.UUID

	ProductID    uuid.UUID
	ProductName  string
	ProductPrice decimal.Decimal
	Quantity     int

	Subtotal   decimal.Decimal
	Shipping   decimal.Decimal
	Tax        decimal.Decimal
	Discount   decimal.Decimal
	CouponCode *string
	Total      decimal.Decimal

	PaymentMethod string
	PaymentID     *string

	AffiliateCode string

	Billing BillingInfo
}

// CreateOrderResult reports the created order plus whether the affiliate
// bookkeeping completed. Warnings surface swallowed side-effect failures.
type CreateOrderResult struct {
	OrderID            uuid.UUID `json:"order_id"`
	OrderNumber        string    `json:"order_number"`
	AffiliateProcessed bool      `json:"affiliate_processed"`
	Warnings           []string  `json:"warnings,omitempty"`
}

// StatusUpdateResult reports the outcome of a status transition, including
// how many affiliate earnings were confirmed when the order was delivered.
type StatusUpdateResult struct {
	Success                    bool              `json:"success"`
	OrderID                    uuid.UUID         `json:"order_id"`
	Status                     enums.OrderStatus `json:"status"`
	AffiliateEarningsConfirmed int               `json:"affiliate_earnings_confirmed"`
	InvoiceCreated             bool              `json:"invoice_created"`
	Warnings                   []string          `json:"warnings,omitempty"`
}

// SellerStats aggregates a seller's order book. Commission and net amount are
// derived from revenue with the platform commission calculator.
type SellerStats struct {
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
	Commission decimal.Decimal `json:"commission"`
	NetAmount  decimal.Decimal `json:"net_amount"`
}

// AdminOrderSummary is the admin list row enriched with party display fields.
type AdminOrderSummary struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	BuyerID       uuid.UUID           `json:"buyer_id"`
	BuyerName     string              `json:"buyer_name"`
	BuyerEmail    string              `json:"buyer_email"`
	SellerID      uuid.UUID           `json:"seller_id"`
	SellerName    string              `json:"seller_name"`
	ProductName   string              `json:"product_name"`
	Total         decimal.Decimal     `json:"total"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time           `json:"created_at"`
}

// AdminOrderList wraps the paginated admin rows plus the next page cursor.
type AdminOrderList struct {
	Orders     []AdminOrderSummary `json:"orders"`
	NextCursor string              `json:"next_cursor,omitempty"`
}
