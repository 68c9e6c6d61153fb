package orders

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/glowora/glowora-backend/api/responses"
	"github.com/glowora/glowora-backend/api/validators"
	internalorders "github.com/glowora/glowora-backend/internal/orders"
	"github.com/glowora/glowora-backend/pkg/enums"
	pkgerrors "github.com/glowora/glowora-backend/pkg/errors"
	"github.com/glowora/glowora-backend/pkg/logger"
	"github.com/glowora/glowora-backend/pkg/pagination"
)

type billingRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

type createOrderRequest struct {
	BuyerID  string `json:"buyer_id" validate:"required,uuid"`
	SellerID string `json:"seller_id" validate:"required,uuid"`

	ProductID    string          `json:"product_id" validate:"required,uuid"`
	ProductName  string          `json:"product_name" validate:"required"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Quantity     int             `json:"quantity" validate:"required,min=1"`

	Subtotal   decimal.Decimal `json:"subtotal"`
	Shipping   decimal.Decimal `json:"shipping"`
	Tax        decimal.Decimal `json:"tax"`
	Discount   decimal.Decimal `json:"discount"`
	CouponCode *string         `json:"coupon_code"`
	Total      decimal.Decimal `json:"total"`

	PaymentMethod string  `json:"payment_method" validate:"required"`
	PaymentID     *string `json:"payment_id"`

	AffiliateCode string `json:"affiliate_code"`

	Billing billingRequest `json:"billing"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create handles the buyer checkout submission.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		buyerID, err := uuid.Parse(req.BuyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid buyer id"))
			return
		}
		sellerID, err := uuid.Parse(req.SellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid seller id"))
			return
		}
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		input := internalorders.CreateOrderInput{
			BuyerID:  buyerID,
			SellerID: sellerID,

			ProductID:    productID,
			ProductName:  validators.SanitizeString(req.ProductName, 255),
			ProductPrice: req.ProductPrice,
			Quantity:     req.Quantity,

			Subtotal:   req.Subtotal,
			Shipping:   req.Shipping,
			Tax:        req.Tax,
			Discount:   req.Discount,
			CouponCode: req.CouponCode,
			Total:      req.Total,

			PaymentMethod: validators.SanitizeString(req.PaymentMethod, 64),
			PaymentID:     req.PaymentID,

			AffiliateCode: validators.SanitizeString(req.AffiliateCode, 64),

			Billing: internalorders.BillingInfo{
				Name:       req.Billing.Name,
				Email:      req.Billing.Email,
				Address:    req.Billing.Address,
				City:       req.Billing.City,
				PostalCode: req.Billing.PostalCode,
				Country:    req.Billing.Country,
			},
		}

		result, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// UpdateStatus applies a lifecycle transition to an order.
func UpdateStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateStatus(r.Context(), orderID, enums.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status))))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Detail returns one order by id.
func Detail(repo internalorders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := repo.FindByID(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapLookupError(err, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ByNumber returns one order by its human-readable order number.
func ByNumber(repo internalorders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderNumber := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
		if orderNumber == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number is required"))
			return
		}

		order, err := repo.FindByOrderNumber(r.Context(), orderNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapLookupError(err, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListByBuyer returns all orders placed by a buyer, newest first.
func ListByBuyer(repo internalorders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := parsePathUUID(r, "buyerId", "invalid buyer id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := repo.ListByBuyer(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer orders"))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListBySeller returns all orders received by a seller, newest first.
func ListBySeller(repo internalorders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := parsePathUUID(r, "sellerId", "invalid seller id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := repo.ListBySeller(r.Context(), sellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller orders"))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// SellerStats returns the seller's order count, revenue, and commission split.
func SellerStats(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		sellerID, err := parsePathUUID(r, "sellerId", "invalid seller id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.SellerStats(r.Context(), sellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// AdminList returns the cursor-paginated admin order dashboard rows.
func AdminList(repo internalorders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		list, err := repo.ListAdmin(r.Context(), params)
		if err != nil {
			if _, cursorErr := pagination.ParseCursor(params.Cursor); cursorErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, cursorErr, "invalid cursor"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list admin orders"))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// Recent returns the newest N orders for the admin dashboard.
func Recent(repo internalorders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 10, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := repo.ListRecent(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent orders"))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	return parsePathUUID(r, "orderId", "invalid order id")
}

func parsePathUUID(r *http.Request, param, message string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, message)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, message)
	}
	return id, nil
}

func mapLookupError(err error, notFoundMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
}
