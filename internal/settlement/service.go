package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/glowora/glowora-backend/internal/affiliate"
	"github.com/glowora/glowora-backend/internal/points"
	"github.com/glowora/glowora-backend/pkg/db/models"
	"github.com/glowora/glowora-backend/pkg/enums"
)

// Service converts pending affiliate earnings into confirmed points when an
// order reaches its delivered state.
type Service interface {
	SettleOrder(ctx context.Context, tx *gorm.DB, order *models.Order) (*Result, error)
}

// Result reports what a settlement pass actually did. Skipped earnings (lost
// status-guard races, missing balance rows) are not errors.
type Result struct {
	Confirmed int
	Skipped   int
}

type service struct {
	affiliates affiliate.Repository
	points     points.Repository
	now        func() time.Time
}

// NewService wires a settlement service over the affiliate and points stores.
func NewService(affiliates affiliate.Repository, pointsRepo points.Repository) (Service, error) {
	if affiliates == nil {
		return nil, fmt.Errorf("affiliate repository required")
	}
	if pointsRepo == nil {
		return nil, fmt.Errorf("points repository required")
	}
	return &service{affiliates: affiliates, points: pointsRepo, now: time.Now}, nil
}

// SettleOrder confirms every still-pending earning for the order: the earning
// flips to confirmed (guarded on its current status, so each earning settles
// at most once even under concurrent delivered transitions), the affiliate's
// pending points move into the spendable balance, and an append-only log entry
// records the new balance. Per-earning failures are aggregated so one bad row
// does not block the rest.
func (s *service) SettleOrder(ctx context.Context, tx *gorm.DB, order *models.Order) (*Result, error) {
	if order == nil {
		return nil, fmt.Errorf("order required")
	}

	affiliates := s.affiliates.WithTx(tx)
	balances := s.points.WithTx(tx)

	pending, err := affiliates.ListPendingEarningsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list pending earnings for order %s: %w", order.ID, err)
	}

	result := &Result{}
	var errs error
	for i := range pending {
		earning := pending[i]

		won, err := affiliates.ConfirmEarning(ctx, earning.ID, s.now())
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("confirm earning %s: %w", earning.ID, err))
			continue
		}
		if !won {
			result.Skipped++
			continue
		}

		balance, err := balances.ConfirmPoints(ctx, earning.AffiliateID, earning.PointsEarned)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// No balance row should be impossible for an attributed
				// earning; skip rather than fail the whole pass.
				result.Skipped++
				continue
			}
			errs = multierr.Append(errs, fmt.Errorf("confirm points for affiliate %s: %w", earning.AffiliateID, err))
			continue
		}

		entry := &models.PointTransaction{
			ID:           uuid.New(),
			UserID:       earning.AffiliateID,
			Type:         enums.PointTransactionTypeEarned,
			Amount:       earning.PointsEarned,
			Description:  fmt.Sprintf("Affiliate points for order %s", order.OrderNumber),
			OrderID:      &earning.OrderID,
			EarningID:    &earning.ID,
			BalanceAfter: balance.TotalPoints,
		}
		if err := balances.AppendTransaction(ctx, entry); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("append point transaction for earning %s: %w", earning.ID, err))
			continue
		}

		result.Confirmed++
	}

	return result, errs
}
