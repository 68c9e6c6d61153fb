package points

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/glowora/glowora-backend/pkg/db/models"
	"github.com/glowora/glowora-backend/pkg/enums"
)

func setupPointsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	balances := `
CREATE TABLE user_points (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  total_points INTEGER NOT NULL DEFAULT 0,
  total_earned INTEGER NOT NULL DEFAULT 0,
  total_spent INTEGER NOT NULL DEFAULT 0,
  pending_points INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	transactions := `
CREATE TABLE point_transactions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  type TEXT NOT NULL,
  amount INTEGER NOT NULL,
  description TEXT NOT NULL,
  order_id TEXT,
  earning_id TEXT,
  balance_after INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(balances).Error)
	require.NoError(t, db.Exec(transactions).Error)
	return db
}

func TestAddPendingCreatesRowLazily(t *testing.T) {
	db := setupPointsTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	require.NoError(t, repo.AddPending(context.Background(), userID, 10))

	balance, err := repo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance.PendingPoints)
	assert.Equal(t, int64(0), balance.TotalPoints)
	assert.Equal(t, int64(0), balance.TotalEarned)
}

func TestAddPendingIncrementsExistingRow(t *testing.T) {
	db := setupPointsTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	require.NoError(t, repo.AddPending(context.Background(), userID, 10))
	require.NoError(t, repo.AddPending(context.Background(), userID, 7))

	balance, err := repo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(17), balance.PendingPoints)

	var count int64
	require.NoError(t, db.Model(&models.UserPoints{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConfirmPointsMovesPendingToAvailable(t *testing.T) {
	db := setupPointsTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	require.NoError(t, repo.AddPending(context.Background(), userID, 10))

	balance, err := repo.ConfirmPoints(context.Background(), userID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance.TotalPoints)
	assert.Equal(t, int64(10), balance.TotalEarned)
	assert.Equal(t, int64(0), balance.PendingPoints)
}

func TestConfirmPointsClampsPendingAtZero(t *testing.T) {
	db := setupPointsTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	require.NoError(t, repo.AddPending(context.Background(), userID, 5))

	balance, err := repo.ConfirmPoints(context.Background(), userID, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(12), balance.TotalPoints)
	assert.Equal(t, int64(0), balance.PendingPoints)
}

func TestConfirmPointsMissingRow(t *testing.T) {
	db := setupPointsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.ConfirmPoints(context.Background(), uuid.New(), 10)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAppendAndListTransactions(t *testing.T) {
	db := setupPointsTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()
	orderID := uuid.New()

	entry := &models.PointTransaction{
		ID:           uuid.New(),
		UserID:       userID,
		Type:         enums.PointTransactionTypeEarned,
		Amount:       10,
		Description:  "Affiliate points for order GLW-1",
		OrderID:      &orderID,
		BalanceAfter: 10,
	}
	require.NoError(t, repo.AppendTransaction(context.Background(), entry))

	entries, err := repo.ListTransactions(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(10), entries[0].BalanceAfter)
	assert.Equal(t, enums.PointTransactionTypeEarned, entries[0].Type)
}
