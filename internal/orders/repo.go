package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowora/glowora-backend/pkg/db/models"
	"github.com/glowora/glowora-backend/pkg/enums"
	"github.com/glowora/glowora-backend/pkg/pagination"
)

// Repository defines persistence operations for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Order, error)
	ListRecent(ctx context.Context, limit int) ([]models.Order, error)
	ListAdmin(ctx context.Context, params pagination.Params) (*AdminOrderList, error)
	SellerOrderStats(ctx context.Context, sellerID uuid.UUID) (int64, string, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
	ClaimAffiliateProcessing(ctx context.Context, orderID, affiliateID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(limit)).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

type adminOrderRow struct {
	models.Order
	BuyerName  string
	BuyerEmail string
	SellerName string
}

// ListAdmin returns cursor-paginated orders enriched with buyer/seller
// display fields for the admin dashboard.
func (r *repository) ListAdmin(ctx context.Context, params pagination.Params) (*AdminOrderList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Table("orders").
		Select(`orders.*,
			buyers.name AS buyer_name,
			buyers.email AS buyer_email,
			sellers.name AS seller_name`).
		Joins("LEFT JOIN users AS buyers ON buyers.id = orders.buyer_id").
		Joins("LEFT JOIN users AS sellers ON sellers.id = orders.seller_id").
		Order("orders.created_at DESC, orders.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if cursor != nil {
		query = query.Where(
			"(orders.created_at < ?) OR (orders.created_at = ? AND orders.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []adminOrderRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(params.Limit)
	list := &AdminOrderList{}
	for i, row := range rows {
		if i >= limit {
			list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: rows[limit-1].CreatedAt,
				ID:        rows[limit-1].ID,
			})
			break
		}
		list.Orders = append(list.Orders, AdminOrderSummary{
			ID:            row.ID,
			OrderNumber:   row.OrderNumber,
			BuyerID:       row.BuyerID,
			BuyerName:     row.BuyerName,
			BuyerEmail:    row.BuyerEmail,
			SellerID:      row.SellerID,
			SellerName:    row.SellerName,
			ProductName:   row.ProductName,
			Total:         row.Total,
			Status:        row.Status,
			PaymentStatus: row.PaymentStatus,
			CreatedAt:     row.CreatedAt,
		})
	}
	return list, nil
}

// SellerOrderStats returns the order count and summed revenue for a seller.
// Revenue comes back as text so the caller can parse it into a decimal.
func (r *repository) SellerOrderStats(ctx context.Context, sellerID uuid.UUID) (int64, string, error) {
	var row struct {
		OrderCount int64
		Revenue    string
	}
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("COUNT(*) AS order_count, COALESCE(SUM(total), 0) AS revenue").
		Where("seller_id = ?", sellerID).
		Scan(&row).Error
	if err != nil {
		return 0, "", err
	}
	return row.OrderCount, row.Revenue, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClaimAffiliateProcessing flips affiliate_earning_processed and stamps the
// resolved affiliate in one conditional update. The flag guard means the
// affiliate bookkeeping runs at most once per order even if creation retries.
func (r *repository) ClaimAffiliateProcessing(ctx context.Context, orderID, affiliateID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND affiliate_earning_processed = ?", orderID, false).
		Updates(map[string]any{
			"affiliate_id":                affiliateID,
			"affiliate_earning_processed": true,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
