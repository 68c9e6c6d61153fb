package affiliate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PointsRate is the share of an order total an affiliate earns as points.
// Independent from the platform commission rate.
var PointsRate = decimal.RequireFromString("0.05")

// PointsFor returns the whole points earned on an order total: floor(total * rate).
func PointsFor(total decimal.Decimal) int64 {
	return total.Mul(PointsRate).Floor().IntPart()
}

// Service resolves referral codes into affiliate attributions.
type Service interface {
	Resolve(ctx context.Context, code string, buyerID uuid.UUID) (*Attribution, error)
}

// Attribution identifies the affiliate link credited for an order.
type Attribution struct {
	AffiliateID uuid.UUID
	LinkID      uuid.UUID
	SellerID    uuid.UUID
}

type service struct {
	repo Repository
}

// NewService wires an affiliate service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("affiliate repository required")
	}
	return &service{repo: repo}, nil
}

// Resolve maps a referral code to an attribution, or nil when the code is
// absent, unknown, inactive, or refers back to the buyer. An unknown code is
// silently ignored, not an error; only storage failures propagate.
func (s *service) Resolve(ctx context.Context, code string, buyerID uuid.UUID) (*Attribution, error) {
	if code == "" {
		return nil, nil
	}

	link, err := s.repo.FindActiveLinkByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup affiliate link %q: %w", code, err)
	}

	if link.AffiliateID == buyerID {
		// Self-referral blocked.
		return nil, nil
	}

	return &Attribution{
		AffiliateID: link.AffiliateID,
		LinkID:      link.ID,
		SellerID:    link.SellerID,
	}, nil
}
