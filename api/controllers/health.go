package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/ghassen-kharrat/barbachli-sub000/api/responses"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/config"
	pkgerrors "github.com/ghassen-kharrat/barbachli-sub000/pkg/errors"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
)

const readinessTimeout = 2 * time.Second

const envHeader = "X-Barbachli-Env"

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the database and redis answer a ping.
func HealthReady(cfg *config.Config, dbPinger, redisPinger pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]pinger{"database": dbPinger, "redis": redisPinger}
		for name, p := range checks {
			if p == nil {
				continue
			}
			if err := p.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
