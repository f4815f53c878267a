package controllers

import (
	"net/http"

	"github.com/davidcastellanos/shopstream-backend/api/responses"
	"github.com/davidcastellanos/shopstream-backend/pkg/config"
	pkgerrors "github.com/davidcastellanos/shopstream-backend/pkg/errors"
	"github.com/davidcastellanos/shopstream-backend/pkg/logger"
	"github.com/davidcastellanos/shopstream-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shopstream-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, redisClient redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shopstream-Env", cfg.App.Env)

		if redisClient != nil {
			if err := redisClient.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis not ready"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
