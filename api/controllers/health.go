package controllers

import (
	"context"
	"net/http"

	"github.com/secondchance/secondchance-backend/api/responses"
	"github.com/secondchance/secondchance-backend/pkg/config"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
	"github.com/secondchance/secondchance-backend/pkg/logger"
)

// Pingable is the health-check surface shared by the DB and Redis clients.
type Pingable interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SecondChance-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing store answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pingable) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SecondChance-Env", cfg.App.Env)

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
