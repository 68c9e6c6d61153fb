package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/glowora/glowora-backend/internal/affiliate"
	"github.com/glowora/glowora-backend/internal/commission"
	"github.com/glowora/glowora-backend/internal/invoices"
	"github.com/glowora/glowora-backend/internal/notifications"
	"github.com/glowora/glowora-backend/internal/points"
	"github.com/glowora/glowora-backend/internal/settlement"
	"github.com/glowora/glowora-backend/pkg/db/models"
	"github.com/glowora/glowora-backend/pkg/enums"
	pkgerrors "github.com/glowora/glowora-backend/pkg/errors"
	"github.com/glowora/glowora-backend/pkg/logger"
	"github.com/glowora/glowora-backend/pkg/metrics"
)

// Service exposes the order lifecycle: checkout, status transitions, and the
// seller revenue rollup.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, requested enums.OrderStatus) (*StatusUpdateResult, error)
	SellerStats(ctx context.Context, sellerID uuid.UUID) (*SellerStats, error)
}

// txRunner abstracts the transactional boundary so tests can substitute it.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Repo       Repository
	Affiliates affiliate.Service
	AffRepo    affiliate.Repository
	Points     points.Repository
	Settlement settlement.Service
	Invoices   invoices.Service
	Tx         txRunner
	Notifier   notifications.Dispatcher
	Logger     *logger.Logger
	Metrics    *metrics.OrderMetrics
}

type service struct {
	repo       Repository
	affiliates affiliate.Service
	affRepo    affiliate.Repository
	points     points.Repository
	settlement settlement.Service
	invoices   invoices.Service
	tx         txRunner
	notifier   notifications.Dispatcher
	logg       *logger.Logger
	metrics    *metrics.OrderMetrics

	now         func() time.Time
	orderNumber func() string
}

// NewService validates the dependency set and returns an order service.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, fmt.Errorf("orders repository required")
	case params.Affiliates == nil:
		return nil, fmt.Errorf("affiliate service required")
	case params.AffRepo == nil:
		return nil, fmt.Errorf("affiliate repository required")
	case params.Points == nil:
		return nil, fmt.Errorf("points repository required")
	case params.Settlement == nil:
		return nil, fmt.Errorf("settlement service required")
	case params.Invoices == nil:
		return nil, fmt.Errorf("invoice service required")
	case params.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	}

	notifier := params.Notifier
	if notifier == nil {
		notifier = notifications.NewDispatcher(nil, "", params.Logger)
	}

	return &service{
		repo:        params.Repo,
		affiliates:  params.Affiliates,
		affRepo:     params.AffRepo,
		points:      params.Points,
		settlement:  params.Settlement,
		invoices:    params.Invoices,
		tx:          params.Tx,
		notifier:    notifier,
		logg:        params.Logger,
		metrics:     params.Metrics,
		now:         time.Now,
		orderNumber: newOrderNumber,
	}, nil
}

// newOrderNumber produces a human-readable unique order number, e.g.
// GLW-1756684800000-9F2C. Uniqueness is enforced by the order_number index;
// the random suffix keeps same-millisecond checkouts apart.
func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("GLW-%d-%s", time.Now().UnixMilli(), suffix)
}

func isCashOnDelivery(paymentMethod string) bool {
	method := strings.TrimSpace(paymentMethod)
	return strings.EqualFold(method, "cod") || strings.EqualFold(method, "cash_on_delivery")
}

// Create persists a checkout as an order and runs the affiliate attribution
// bookkeeping. The order write commits on its own first: a failure anywhere in
// the affiliate block degrades to a valid unattributed order with a warning,
// never a lost order.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	status, paymentStatus := initialStatuses(input.PaymentMethod)

	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: s.orderNumber(),

		BuyerID:  input.BuyerID,
		SellerID: input.SellerID,

		ProductID:    input.ProductID,
		ProductName:  input.ProductName,
		ProductPrice: input.ProductPrice,
		Quantity:     input.Quantity,

		Subtotal:   input.Subtotal,
		Shipping:   input.Shipping,
		Tax:        input.Tax,
		Discount:   input.Discount,
		CouponCode: input.CouponCode,
		Total:      input.Total,

		PaymentMethod: input.PaymentMethod,
		PaymentID:     input.PaymentID,
		PaymentStatus: paymentStatus,
		Status:        status,

		BillingName:       input.Billing.Name,
		BillingEmail:      input.Billing.Email,
		BillingAddress:    input.Billing.Address,
		BillingCity:       input.Billing.City,
		BillingPostalCode: input.Billing.PostalCode,
		BillingCountry:    input.Billing.Country,
	}
	if code := strings.TrimSpace(input.AffiliateCode); code != "" {
		order.AffiliateCode = &code
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}

	ctx = s.withOrderContext(ctx, order)

	result := &CreateOrderResult{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
	}

	if order.AffiliateCode != nil {
		processed, err := s.processAttribution(ctx, order, *order.AffiliateCode)
		if err != nil {
			result.Warnings = append(result.Warnings, "affiliate attribution failed")
			s.sideEffectFailure(ctx, "affiliate attribution", err, "attribution")
		}
		result.AffiliateProcessed = processed
	}

	s.metrics.IncCreated(order.PaymentMethod)
	s.info(ctx, "order created")

	s.notifyAsync(ctx, func(ctx context.Context) {
		s.notifier.OrderCreated(ctx, order)
	})

	return result, nil
}

// processAttribution resolves the referral code and, when it attributes, runs
// the earning, pending-points, and link-counter writes in one transaction.
// The processed flag on the order is claimed first inside that transaction so
// retried creations and concurrent claims book the earning at most once.
func (s *service) processAttribution(ctx context.Context, order *models.Order, code string) (bool, error) {
	attribution, err := s.affiliates.Resolve(ctx, code, order.BuyerID)
	if err != nil {
		return false, err
	}
	if attribution == nil {
		return false, nil
	}

	pointsEarned := affiliate.PointsFor(order.Total)
	processed := false

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		claimed, err := s.repo.WithTx(tx).ClaimAffiliateProcessing(ctx, order.ID, attribution.AffiliateID)
		if err != nil {
			return fmt.Errorf("claim affiliate processing: %w", err)
		}
		if !claimed {
			return nil
		}

		affRepo := s.affRepo.WithTx(tx)
		earning := &models.AffiliateEarning{
			ID:           uuid.New(),
			AffiliateID:  attribution.AffiliateID,
			OrderID:      order.ID,
			LinkID:       attribution.LinkID,
			SellerID:     order.SellerID,
			BuyerID:      order.BuyerID,
			OrderAmount:  order.Total,
			PointsEarned: pointsEarned,
			PointsRate:   affiliate.PointsRate,
			Status:       enums.EarningStatusPending,
		}
		if err := affRepo.CreateEarning(ctx, earning); err != nil {
			return fmt.Errorf("create earning: %w", err)
		}
		if err := s.points.WithTx(tx).AddPending(ctx, attribution.AffiliateID, pointsEarned); err != nil {
			return fmt.Errorf("add pending points: %w", err)
		}
		if err := affRepo.RecordConversion(ctx, attribution.LinkID, pointsEarned); err != nil {
			return fmt.Errorf("record conversion: %w", err)
		}

		processed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if processed {
		order.AffiliateID = &attribution.AffiliateID
		order.AffiliateEarningProcessed = true
	}
	return processed, nil
}

// UpdateStatus applies a status transition and, on delivered, runs the
// settlement and invoicing side effects. The status write is authoritative;
// side-effect failures surface as warnings so a later delivered retry can
// finish them.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, requested enums.OrderStatus) (*StatusUpdateResult, error) {
	if !requested.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]string{"status": string(requested)})
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	ctx = s.withOrderContext(ctx, order)

	if !CanTransition(order.Status, requested) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
			WithDetails(map[string]string{
				"current":   order.Status.String(),
				"requested": requested.String(),
			})
	}

	previous := order.Status
	if err := s.repo.UpdateStatus(ctx, orderID, requested); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	order.Status = requested

	result := &StatusUpdateResult{
		Success: true,
		OrderID: order.ID,
		Status:  requested,
	}
	s.metrics.IncStatusUpdate(requested.String())

	if triggersSettlement(requested) {
		s.runDeliveredEffects(ctx, order, result)
		s.notifyAsync(ctx, func(ctx context.Context) {
			s.notifier.OrderDelivered(ctx, order)
		})
	} else {
		s.notifyAsync(ctx, func(ctx context.Context) {
			s.notifier.OrderStatusChanged(ctx, order, previous.String())
		})
	}

	s.info(ctx, "order status updated")
	return result, nil
}

// runDeliveredEffects settles pending affiliate earnings and generates the
// invoice. Both are idempotent, so the manual retry path (re-issuing the
// delivered update) completes whatever a previous pass left undone.
func (s *service) runDeliveredEffects(ctx context.Context, order *models.Order, result *StatusUpdateResult) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		settled, err := s.settlement.SettleOrder(ctx, tx, order)
		if err != nil {
			return err
		}
		result.AffiliateEarningsConfirmed = settled.Confirmed
		return nil
	})
	if err != nil {
		result.Warnings = append(result.Warnings, "affiliate earnings settlement failed")
		s.sideEffectFailure(ctx, "settle affiliate earnings", err, "settlement")
	}
	for i := 0; i < result.AffiliateEarningsConfirmed; i++ {
		s.metrics.IncSettled()
	}

	created, err := s.invoices.EnsureForOrder(ctx, order)
	if err != nil {
		result.Warnings = append(result.Warnings, "invoice generation failed")
		s.sideEffectFailure(ctx, "generate invoice", err, "invoice")
		return
	}
	result.InvoiceCreated = created
}

// SellerStats aggregates a seller's order count and revenue, deriving the
// platform commission and net amount from the revenue sum.
func (s *service) SellerStats(ctx context.Context, sellerID uuid.UUID) (*SellerStats, error) {
	count, revenueRaw, err := s.repo.SellerOrderStats(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading seller stats")
	}

	revenue, err := decimal.NewFromString(revenueRaw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parsing seller revenue")
	}

	breakdown, err := commission.Calculate(revenue)
	if err != nil {
		return nil, err
	}

	return &SellerStats{
		OrderCount: count,
		Revenue:    revenue,
		Commission: breakdown.Commission,
		NetAmount:  breakdown.NetAmount,
	}, nil
}

func validateCreateInput(input CreateOrderInput) error {
	details := map[string]string{}

	if input.BuyerID == uuid.Nil {
		details["buyer_id"] = "required"
	}
	if input.SellerID == uuid.Nil {
		details["seller_id"] = "required"
	}
	if input.ProductID == uuid.Nil {
		details["product_id"] = "required"
	}
	if strings.TrimSpace(input.ProductName) == "" {
		details["product_name"] = "required"
	}
	if input.Quantity < 1 {
		details["quantity"] = "must be at least 1"
	}
	if strings.TrimSpace(input.PaymentMethod) == "" {
		details["payment_method"] = "required"
	}

	for field, value := range map[string]decimal.Decimal{
		"product_price": input.ProductPrice,
		"subtotal":      input.Subtotal,
		"shipping":      input.Shipping,
		"tax":           input.Tax,
		"discount":      input.Discount,
		"total":         input.Total,
	} {
		if value.IsNegative() {
			details[field] = "must be non-negative"
		}
	}

	// The total is trusted as submitted; only non-negativity is checked, so a
	// client-supplied total may diverge from the itemized breakdown.
	billing := map[string]string{
		"billing_name":        input.Billing.Name,
		"billing_email":       input.Billing.Email,
		"billing_address":     input.Billing.Address,
		"billing_city":        input.Billing.City,
		"billing_postal_code": input.Billing.PostalCode,
		"billing_country":     input.Billing.Country,
	}
	for field, value := range billing {
		if strings.TrimSpace(value) == "" {
			details[field] = "required"
		}
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order input").WithDetails(details)
	}
	return nil
}

// notifyAsync fires a notification without blocking the request, detached
// from the request's cancellation.
func (s *service) notifyAsync(ctx context.Context, fn func(ctx context.Context)) {
	detached := context.WithoutCancel(ctx)
	go fn(detached)
}

func (s *service) withOrderContext(ctx context.Context, order *models.Order) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithOrderID(ctx, order.ID.String())
}

func (s *service) info(ctx context.Context, msg string) {
	if s.logg != nil {
		s.logg.Info(ctx, msg)
	}
}

func (s *service) sideEffectFailure(ctx context.Context, op string, err error, effect string) {
	if s.logg != nil {
		s.logg.Error(ctx, op, err)
	}
	s.metrics.IncSideEffectFailure(effect)
}
