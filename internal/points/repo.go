package points

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/glowora/glowora-backend/pkg/db/models"
)

// Repository manages per-user point balances and the append-only transaction log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.UserPoints, error)
	AddPending(ctx context.Context, userID uuid.UUID, points int64) error
	ConfirmPoints(ctx context.Context, userID uuid.UUID, points int64) (*models.UserPoints, error)
	AppendTransaction(ctx context.Context, entry *models.PointTransaction) error
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.PointTransaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a points repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.UserPoints, error) {
	var balance models.UserPoints
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// AddPending lazily creates the balance row on first earning and bumps
// pending_points atomically on conflict.
func (r *repository) AddPending(ctx context.Context, userID uuid.UUID, points int64) error {
	row := &models.UserPoints{
		ID:            uuid.New(),
		UserID:        userID,
		PendingPoints: points,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"pending_points": gorm.Expr("user_points.pending_points + ?", points),
		}),
	}).Create(row).Error
}

// ConfirmPoints moves points from pending into the spendable balance with a
// single UPDATE: total and lifetime earned grow by the delta, pending shrinks
// clamped at zero. Returns the updated row for the balance snapshot.
func (r *repository) ConfirmPoints(ctx context.Context, userID uuid.UUID, points int64) (*models.UserPoints, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE user_points
		SET total_points = total_points + ?,
			total_earned = total_earned + ?,
			pending_points = CASE WHEN pending_points - ? < 0 THEN 0 ELSE pending_points - ? END,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`, points, points, points, points, userID)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByUserID(ctx, userID)
}

func (r *repository) AppendTransaction(ctx context.Context, entry *models.PointTransaction) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.PointTransaction, error) {
	var entries []models.PointTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
