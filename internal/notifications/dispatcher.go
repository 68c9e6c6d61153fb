package notifications

import (
	"context"
	"encoding/json"
	"time"

	"github.com/glowora/glowora-backend/pkg/db/models"
	"github.com/glowora/glowora-backend/pkg/logger"
	"github.com/glowora/glowora-backend/pkg/redis"
)

// Event names published on the orders channel.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDelivered     = "order.delivered"
)

// Dispatcher publishes order lifecycle events to the notification channel.
// Delivery is best effort: failures are logged and never surface to callers.
type Dispatcher interface {
	OrderCreated(ctx context.Context, order *models.Order)
	OrderStatusChanged(ctx context.Context, order *models.Order, previous string)
	OrderDelivered(ctx context.Context, order *models.Order)
}

type payload struct {
	Event          string    `json:"event"`
	OrderID        string    `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	BuyerID        string    `json:"buyer_id"`
	SellerID       string    `json:"seller_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Total          string    `json:"total"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type dispatcher struct {
	publisher redis.Publisher
	channel   string
	logg      *logger.Logger
	now       func() time.Time
}

// NewDispatcher wires a dispatcher over the given publisher and channel.
// A nil publisher yields a no-op dispatcher so the API can run without Redis.
func NewDispatcher(publisher redis.Publisher, channel string, logg *logger.Logger) Dispatcher {
	if publisher == nil {
		return noop{}
	}
	return &dispatcher{
		publisher: publisher,
		channel:   channel,
		logg:      logg,
		now:       time.Now,
	}
}

func (d *dispatcher) OrderCreated(ctx context.Context, order *models.Order) {
	d.publish(ctx, EventOrderCreated, order, "")
}

func (d *dispatcher) OrderStatusChanged(ctx context.Context, order *models.Order, previous string) {
	d.publish(ctx, EventOrderStatusChanged, order, previous)
}

func (d *dispatcher) OrderDelivered(ctx context.Context, order *models.Order) {
	d.publish(ctx, EventOrderDelivered, order, "")
}

func (d *dispatcher) publish(ctx context.Context, event string, order *models.Order, previous string) {
	if order == nil {
		return
	}

	body, err := json.Marshal(payload{
		Event:          event,
		OrderID:        order.ID.String(),
		OrderNumber:    order.OrderNumber,
		BuyerID:        order.BuyerID.String(),
		SellerID:       order.SellerID.String(),
		Status:         order.Status.String(),
		PreviousStatus: previous,
		Total:          order.Total.String(),
		OccurredAt:     d.now(),
	})
	if err != nil {
		if d.logg != nil {
			d.logg.Error(ctx, "marshal order notification", err)
		}
		return
	}

	if err := d.publisher.Publish(ctx, d.channel, body); err != nil {
		if d.logg != nil {
			d.logg.Error(ctx, "publish order notification", err)
		}
	}
}

type noop struct{}

func (noop) OrderCreated(context.Context, *models.Order)                {}
func (noop) OrderStatusChanged(context.Context, *models.Order, string) {}
func (noop) OrderDelivered(context.Context, *models.Order)             {}
