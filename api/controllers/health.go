package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/glowora/glowora-backend/api/responses"
	"github.com/glowora/glowora-backend/pkg/config"
	pkgerrors "github.com/glowora/glowora-backend/pkg/errors"
	"github.com/glowora/glowora-backend/pkg/logger"
)

const readyCheckTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Glowora-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes every registered dependency and reports per-check status.
// A nil probe is treated as not wired and skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, probes map[string]func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Glowora-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true
		for name, probe := range probes {
			if probe == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
			err := probe(ctx)
			cancel()
			if err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "readiness check failed: "+name, err)
				}
				continue
			}
			checks[name] = "up"
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
