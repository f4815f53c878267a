package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/davidcastellanos/shopstream-backend/pkg/logger"
)

const shopperIDHeader = "X-Shopper-Id"

type contextKey string

const ctxShopperID contextKey = "shopper_id"

// ShopperID resolves the anonymous shopper identity for the request. A
// client that already holds an identity sends it back in the header; a first
// visit gets a fresh one. The header is echoed on every response so the
// client can store it.
func ShopperID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			shopperID := r.Header.Get(shopperIDHeader)
			if shopperID == "" {
				shopperID = uuid.NewString()
			}

			w.Header().Set(shopperIDHeader, shopperID)

			ctx := context.WithValue(r.Context(), ctxShopperID, shopperID)
			if logg != nil {
				ctx = logg.WithShopperID(ctx, shopperID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ShopperIDFromContext returns the shopper identity resolved for this
// request, or empty when the middleware did not run.
func ShopperIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxShopperID).(string); ok {
		return v
	}
	return ""
}
