package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davidcastellanos/shopstream-backend/api/responses"
	"github.com/davidcastellanos/shopstream-backend/api/validators"
	"github.com/davidcastellanos/shopstream-backend/internal/catalog"
	pkgerrors "github.com/davidcastellanos/shopstream-backend/pkg/errors"
	"github.com/davidcastellanos/shopstream-backend/pkg/logger"
)

// CatalogReader is the slice of the catalog gateway the product endpoints
// need.
type CatalogReader interface {
	ListProducts(ctx context.Context, filter catalog.Filter) (*catalog.ProductPage, error)
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// ProductsList proxies a filtered catalog listing.
func ProductsList(products CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 24, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		minPrice, err := validators.ParseQueryDecimal(r, "minPrice")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		maxPrice, err := validators.ParseQueryDecimal(r, "maxPrice")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := products.ListProducts(r.Context(), catalog.Filter{
			Search:   r.URL.Query().Get("search"),
			MinPrice: minPrice,
			MaxPrice: maxPrice,
			Page:     page,
			Limit:    limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductGet proxies a single product document.
func ProductGet(products CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id required"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, id)
		}

		product, err := products.GetProduct(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}
