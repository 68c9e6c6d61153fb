package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/glowora/glowora-backend/internal/affiliate"
	"github.com/glowora/glowora-backend/internal/points"
	"github.com/glowora/glowora-backend/pkg/db/models"
	"github.com/glowora/glowora-backend/pkg/enums"
)

func setupSettlementTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	for _, schema := range []string{
		`CREATE TABLE affiliate_earnings (
  id TEXT PRIMARY KEY,
  affiliate_id TEXT NOT NULL,
  order_id TEXT NOT NULL,
  link_id TEXT NOT NULL,
  seller_id TEXT NOT NULL,
  buyer_id TEXT NOT NULL,
  order_amount NUMERIC NOT NULL,
  points_earned INTEGER NOT NULL,
  points_rate NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  paid_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE affiliate_links (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  affiliate_id TEXT NOT NULL,
  seller_id TEXT NOT NULL,
  conversions INTEGER NOT NULL DEFAULT 0,
  total_points_earned INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE user_points (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  total_points INTEGER NOT NULL DEFAULT 0,
  total_earned INTEGER NOT NULL DEFAULT 0,
  total_spent INTEGER NOT NULL DEFAULT 0,
  pending_points INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE point_transactions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  type TEXT NOT NULL,
  amount INTEGER NOT NULL,
  description TEXT NOT NULL,
  order_id TEXT,
  earning_id TEXT,
  balance_after INTEGER NOT NULL,
  created_at DATETIME
);`,
	} {
		require.NoError(t, db.Exec(schema).Error)
	}
	return db
}

type settlementFixture struct {
	db         *gorm.DB
	affiliates affiliate.Repository
	points     points.Repository
	svc        Service
	order      *models.Order
	earning    *models.AffiliateEarning
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()
	db := setupSettlementTestDB(t)
	affiliates := affiliate.NewRepository(db)
	pointsRepo := points.NewRepository(db)

	svc, err := NewService(affiliates, pointsRepo)
	require.NoError(t, err)

	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: "GLW-1756710000000-A1B2",
	}
	earning := &models.AffiliateEarning{
		ID:           uuid.New(),
		AffiliateID:  uuid.New(),
		OrderID:      order.ID,
		LinkID:       uuid.New(),
		SellerID:     uuid.New(),
		BuyerID:      uuid.New(),
		OrderAmount:  decimal.RequireFromString("200"),
		PointsEarned: 10,
		PointsRate:   decimal.RequireFromString("0.05"),
		Status:       enums.EarningStatusPending,
	}
	require.NoError(t, affiliates.CreateEarning(context.Background(), earning))
	require.NoError(t, pointsRepo.AddPending(context.Background(), earning.AffiliateID, 10))

	return &settlementFixture{
		db:         db,
		affiliates: affiliates,
		points:     pointsRepo,
		svc:        svc,
		order:      order,
		earning:    earning,
	}
}

func TestSettleOrderConfirmsEarningAndMovesPoints(t *testing.T) {
	f := newSettlementFixture(t)

	result, err := f.svc.SettleOrder(context.Background(), nil, f.order)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Confirmed)
	assert.Equal(t, 0, result.Skipped)

	reloaded, err := f.affiliates.FindEarningByOrder(context.Background(), f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.EarningStatusConfirmed, reloaded.Status)
	require.NotNil(t, reloaded.PaidAt)

	balance, err := f.points.FindByUserID(context.Background(), f.earning.AffiliateID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance.TotalPoints)
	assert.Equal(t, int64(10), balance.TotalEarned)
	assert.Equal(t, int64(0), balance.PendingPoints)

	entries, err := f.points.ListTransactions(context.Background(), f.earning.AffiliateID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(10), entries[0].Amount)
	assert.Equal(t, int64(10), entries[0].BalanceAfter)
	assert.Contains(t, entries[0].Description, f.order.OrderNumber)
}

func TestSettleOrderSecondPassIsNoOp(t *testing.T) {
	f := newSettlementFixture(t)

	_, err := f.svc.SettleOrder(context.Background(), nil, f.order)
	require.NoError(t, err)

	result, err := f.svc.SettleOrder(context.Background(), nil, f.order)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Confirmed)
	assert.Equal(t, 0, result.Skipped)

	entries, err := f.points.ListTransactions(context.Background(), f.earning.AffiliateID)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no second transaction for an already-confirmed earning")

	balance, err := f.points.FindByUserID(context.Background(), f.earning.AffiliateID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance.TotalPoints)
}

func TestSettleOrderMissingBalanceRowSkips(t *testing.T) {
	f := newSettlementFixture(t)
	require.NoError(t, f.db.Exec("DELETE FROM user_points").Error)

	result, err := f.svc.SettleOrder(context.Background(), nil, f.order)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Confirmed)
	assert.Equal(t, 1, result.Skipped)
}

func TestSettleOrderNoPendingEarnings(t *testing.T) {
	f := newSettlementFixture(t)
	otherOrder := &models.Order{ID: uuid.New(), OrderNumber: "GLW-1756710000001-C3D4"}

	result, err := f.svc.SettleOrder(context.Background(), nil, otherOrder)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Confirmed)
}

func TestSettleOrderDeterministicPaidAt(t *testing.T) {
	f := newSettlementFixture(t)
	fixed := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	f.svc.(*service).now = func() time.Time { return fixed }

	_, err := f.svc.SettleOrder(context.Background(), nil, f.order)
	require.NoError(t, err)

	reloaded, err := f.affiliates.FindEarningByOrder(context.Background(), f.order.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.PaidAt)
	assert.True(t, reloaded.PaidAt.Equal(fixed), "paid_at = %s", reloaded.PaidAt)
}
