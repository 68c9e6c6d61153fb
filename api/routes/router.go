package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glowora/glowora-backend/api/controllers"
	ordercontrollers "github.com/glowora/glowora-backend/api/controllers/orders"
	"github.com/glowora/glowora-backend/api/middleware"
	internalorders "github.com/glowora/glowora-backend/internal/orders"
	"github.com/glowora/glowora-backend/pkg/config"
	"github.com/glowora/glowora-backend/pkg/db"
	"github.com/glowora/glowora-backend/pkg/logger"
	pkgredis "github.com/glowora/glowora-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config *config.Config
	Logger *logger.Logger

	DBPinger    db.Pinger
	RedisPinger pkgredis.Pinger
	IdemStore   pkgredis.IdempotencyStore

	OrdersRepo internalorders.Repository
	OrdersSvc  internalorders.Service

	MetricsGatherer prometheus.Gatherer
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessProbes(params)))
	})

	if params.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		idem := middleware.Idempotency(params.IdemStore, cfg.Orders.IdempotencyTTL, logg)

		r.With(idem).Post("/orders", ordercontrollers.Create(params.OrdersSvc, logg))
		r.With(idem).Patch("/orders/{orderId}/status", ordercontrollers.UpdateStatus(params.OrdersSvc, logg))
		r.Get("/orders/number/{orderNumber}", ordercontrollers.ByNumber(params.OrdersRepo, logg))
		r.Get("/orders/{orderId}", ordercontrollers.Detail(params.OrdersRepo, logg))

		r.Get("/buyers/{buyerId}/orders", ordercontrollers.ListByBuyer(params.OrdersRepo, logg))
		r.Get("/sellers/{sellerId}/orders", ordercontrollers.ListBySeller(params.OrdersRepo, logg))
		r.Get("/sellers/{sellerId}/orders/stats", ordercontrollers.SellerStats(params.OrdersSvc, logg))

		r.Get("/admin/orders", ordercontrollers.AdminList(params.OrdersRepo, logg))
		r.Get("/admin/orders/recent", ordercontrollers.Recent(params.OrdersRepo, logg))
	})

	return r
}

func readinessProbes(params RouterParams) map[string]func(ctx context.Context) error {
	probes := map[string]func(ctx context.Context) error{}
	if params.DBPinger != nil {
		probes["database"] = params.DBPinger.Ping
	}
	if params.RedisPinger != nil {
		probes["redis"] = params.RedisPinger.Ping
	}
	return probes
}
