package invoices

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glowora/glowora-backend/pkg/db"
	"github.com/glowora/glowora-backend/pkg/db/models"
)

// DefaultTaxRate is the flat rate applied when an invoice is generated at
// delivery. Jurisdiction-aware taxation is out of scope.
var DefaultTaxRate = decimal.RequireFromString("0.10")

// Service generates invoices for delivered orders.
type Service interface {
	EnsureForOrder(ctx context.Context, order *models.Order) (bool, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires an invoice service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// EnsureForOrder generates an invoice for the order unless one already exists.
// The existence check plus the unique order_id index make repeat calls no-ops,
// so re-issuing a delivered transition safely retries invoicing. Returns
// whether an invoice was created by this call.
func (s *service) EnsureForOrder(ctx context.Context, order *models.Order) (bool, error) {
	if order == nil {
		return false, fmt.Errorf("order required")
	}

	exists, err := s.repo.ExistsForOrder(ctx, order.ID)
	if err != nil {
		return false, fmt.Errorf("check invoice for order %s: %w", order.ID, err)
	}
	if exists {
		return false, nil
	}

	taxAmount := order.Subtotal.Mul(DefaultTaxRate).Round(2)
	invoice := &models.Invoice{
		ID:            uuid.New(),
		OrderID:       order.ID,
		InvoiceNumber: fmt.Sprintf("INV-%s", order.OrderNumber),
		Subtotal:      order.Subtotal,
		TaxRate:       DefaultTaxRate,
		TaxAmount:     taxAmount,
		Total:         order.Subtotal.Add(taxAmount),
		IssuedAt:      s.now(),
	}

	if err := s.repo.Create(ctx, invoice); err != nil {
		// A concurrent delivered transition may have won the insert.
		if db.IsUniqueViolation(err, "") {
			return false, nil
		}
		return false, fmt.Errorf("create invoice for order %s: %w", order.ID, err)
	}
	return true, nil
}
