package controllers

import (
	"context"
	"net/http"

	"github.com/driveline-labs/storefront-api/api/responses"
	"github.com/driveline-labs/storefront-api/pkg/config"
	pkgerrors "github.com/driveline-labs/storefront-api/pkg/errors"
	"github.com/driveline-labs/storefront-api/pkg/logger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the cart backend when one needs a network hop. A nil
// pinger means the in-memory backend, which is always ready.
func HealthReady(cfg *config.Config, pinger Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart backend unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
