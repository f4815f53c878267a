package controllers

import (
	"net/http"

	"github.com/davidcastellanos/shopstream-backend/api/responses"
	"github.com/davidcastellanos/shopstream-backend/api/validators"
	"github.com/davidcastellanos/shopstream-backend/internal/checkout"
	"github.com/davidcastellanos/shopstream-backend/pkg/logger"
)

type checkoutRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	Zip        string `json:"zip" validate:"required"`
	CardNumber string `json:"cardNumber" validate:"required"`
	Expiry     string `json:"expiry" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
}

func (r checkoutRequest) toForm() checkout.Form {
	return checkout.Form{
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		State:      r.State,
		Zip:        r.Zip,
		CardNumber: r.CardNumber,
		Expiry:     r.Expiry,
		CVV:        r.CVV,
	}
}

type checkoutResponse struct {
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
}

// CheckoutSubmit validates the shopper's details and submits the cart as an
// order.
func CheckoutSubmit(stores StoreProvider, svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := shopperStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Submit(r.Context(), store, payload.toForm())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderNumber(ctx, receipt.OrderNumber)
			logg.Info(ctx, "order approved")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			OrderNumber: receipt.OrderNumber,
			Status:      string(receipt.Status),
		})
	}
}
