package affiliate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowora/glowora-backend/pkg/db/models"
	"github.com/glowora/glowora-backend/pkg/enums"
)

// Repository manages persistence for affiliate links and earnings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveLinkByCode(ctx context.Context, code string) (*models.AffiliateLink, error)
	RecordConversion(ctx context.Context, linkID uuid.UUID, points int64) error
	CreateEarning(ctx context.Context, earning *models.AffiliateEarning) error
	ListPendingEarningsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.AffiliateEarning, error)
	ConfirmEarning(ctx context.Context, earningID uuid.UUID, paidAt time.Time) (bool, error)
	FindEarningByOrder(ctx context.Context, orderID uuid.UUID) (*models.AffiliateEarning, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an affiliate repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActiveLinkByCode(ctx context.Context, code string) (*models.AffiliateLink, error) {
	var link models.AffiliateLink
	err := r.db.WithContext(ctx).
		Where("code = ? AND active = ?", code, true).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// RecordConversion bumps the link counters with a single atomic UPDATE to
// avoid lost increments under concurrent checkouts.
func (r *repository) RecordConversion(ctx context.Context, linkID uuid.UUID, points int64) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE affiliate_links
		SET conversions = conversions + 1,
			total_points_earned = total_points_earned + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, points, linkID).Error
}

func (r *repository) CreateEarning(ctx context.Context, earning *models.AffiliateEarning) error {
	return r.db.WithContext(ctx).Create(earning).Error
}

func (r *repository) ListPendingEarningsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.AffiliateEarning, error) {
	var earnings []models.AffiliateEarning
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, enums.EarningStatusPending).
		Order("created_at ASC").
		Find(&earnings).Error
	if err != nil {
		return nil, err
	}
	return earnings, nil
}

// ConfirmEarning flips an earning to confirmed only when it is still pending.
// The status guard makes concurrent delivered transitions settle each earning
// at most once; the boolean reports whether this caller won the flip.
func (r *repository) ConfirmEarning(ctx context.Context, earningID uuid.UUID, paidAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.AffiliateEarning{}).
		Where("id = ? AND status = ?", earningID, enums.EarningStatusPending).
		Updates(map[string]any{
			"status":  enums.EarningStatusConfirmed,
			"paid_at": paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindEarningByOrder(ctx context.Context, orderID uuid.UUID) (*models.AffiliateEarning, error) {
	var earning models.AffiliateEarning
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&earning).Error
	if err != nil {
		return nil, err
	}
	return &earning, nil
}
