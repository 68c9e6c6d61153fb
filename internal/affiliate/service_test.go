package affiliate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/glowora/glowora-backend/pkg/db/models"
)

type fakeRepository struct {
	findLinkFn func(ctx context.Context, code string) (*models.AffiliateLink, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) FindActiveLinkByCode(ctx context.Context, code string) (*models.AffiliateLink, error) {
	if f.findLinkFn != nil {
		return f.findLinkFn(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) RecordConversion(ctx context.Context, linkID uuid.UUID, points int64) error {
	return nil
}

func (f *fakeRepository) CreateEarning(ctx context.Context, earning *models.AffiliateEarning) error {
	return nil
}

func (f *fakeRepository) ListPendingEarningsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.AffiliateEarning, error) {
	return nil, nil
}

func (f *fakeRepository) ConfirmEarning(ctx context.Context, earningID uuid.UUID, paidAt time.Time) (bool, error) {
	return false, nil
}

func (f *fakeRepository) FindEarningByOrder(ctx context.Context, orderID uuid.UUID) (*models.AffiliateEarning, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestResolveEmptyCodeReturnsNil(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	require.NoError(t, err)

	attribution, err := svc.Resolve(context.Background(), "", uuid.New())
	require.NoError(t, err)
	assert.Nil(t, attribution)
}

func TestResolveUnknownCodeSilentlyIgnored(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	require.NoError(t, err)

	attribution, err := svc.Resolve(context.Background(), "NOPE", uuid.New())
	require.NoError(t, err)
	assert.Nil(t, attribution)
}

func TestResolveSelfReferralBlocked(t *testing.T) {
	buyerID := uuid.New()
	repo := &fakeRepository{
		findLinkFn: func(ctx context.Context, code string) (*models.AffiliateLink, error) {
			return &models.AffiliateLink{ID: uuid.New(), AffiliateID: buyerID, Code: code, Active: true}, nil
		},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	attribution, err := svc.Resolve(context.Background(), "MINE", buyerID)
	require.NoError(t, err)
	assert.Nil(t, attribution)
}

func TestResolveActiveLinkForDifferentBuyer(t *testing.T) {
	link := &models.AffiliateLink{
		ID:          uuid.New(),
		AffiliateID: uuid.New(),
		SellerID:    uuid.New(),
		Code:        "GLOW10",
		Active:      true,
	}
	repo := &fakeRepository{
		findLinkFn: func(ctx context.Context, code string) (*models.AffiliateLink, error) {
			return link, nil
		},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	attribution, err := svc.Resolve(context.Background(), "GLOW10", uuid.New())
	require.NoError(t, err)
	require.NotNil(t, attribution)
	assert.Equal(t, link.AffiliateID, attribution.AffiliateID)
	assert.Equal(t, link.ID, attribution.LinkID)
	assert.Equal(t, link.SellerID, attribution.SellerID)
}

func TestResolveLookupFailurePropagates(t *testing.T) {
	repo := &fakeRepository{
		findLinkFn: func(ctx context.Context, code string) (*models.AffiliateLink, error) {
			return nil, errors.New("store unavailable")
		},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), "GLOW10", uuid.New())
	assert.Error(t, err)
}

func TestPointsFor(t *testing.T) {
	assert.Equal(t, int64(10), PointsFor(decimal.RequireFromString("200")))
	assert.Equal(t, int64(0), PointsFor(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(1), PointsFor(decimal.RequireFromString("20")))
	assert.Equal(t, int64(4), PointsFor(decimal.RequireFromString("99.99")))
	assert.Equal(t, int64(0), PointsFor(decimal.Zero))
}
