package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davidcastellanos/shopstream-backend/api/responses"
	"github.com/davidcastellanos/shopstream-backend/internal/orders"
	pkgerrors "github.com/davidcastellanos/shopstream-backend/pkg/errors"
	"github.com/davidcastellanos/shopstream-backend/pkg/logger"
)

// OrderReader is the slice of the orders gateway these endpoints need.
type OrderReader interface {
	GetOrder(ctx context.Context, orderNumber string) (*orders.Order, error)
}

// OrderGet returns the upstream order document, used by the thank-you view.
func OrderGet(reader OrderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderNumber := chi.URLParam(r, "orderNumber")
		if orderNumber == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number required"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderNumber(ctx, orderNumber)
		}

		order, err := reader.GetOrder(ctx, orderNumber)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
