package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/davidcastellanos/shopstream-backend/internal/catalog"
	"github.com/davidcastellanos/shopstream-backend/pkg/types"
)

func TestProductsListPassesFilter(t *testing.T) {
	t.Parallel()

	var captured catalog.Filter
	reader := &capturingCatalog{onList: func(filter catalog.Filter) { captured = filter }}

	r := httptest.NewRequest("GET", "/api/v1/products?search=shirt&minPrice=10&page=2&limit=12", nil)
	rec := httptest.NewRecorder()
	ProductsList(reader, nil).ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Search != "shirt" || captured.Page != 2 || captured.Limit != 12 {
		t.Fatalf("unexpected filter %+v", captured)
	}
	if captured.MinPrice == nil || captured.MinPrice.String() != "10" {
		t.Fatalf("unexpected min price %v", captured.MinPrice)
	}
	if captured.MaxPrice != nil {
		t.Fatalf("expected nil max price, got %v", captured.MaxPrice)
	}
}

func TestProductsListRejectsBadPage(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/api/v1/products?page=zero", nil)
	rec := httptest.NewRecorder()
	ProductsList(&capturingCatalog{}, nil).ServeHTTP(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProductGetNotFound(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Get("/api/v1/products/{id}", ProductGet(&stubCatalog{}, nil))

	r := httptest.NewRequest("GET", "/api/v1/products/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestProductGetReturnsDocument(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Get("/api/v1/products/{id}", ProductGet(&stubCatalog{products: map[string]*catalog.Product{"p1": shirtProduct(5)}}, nil))

	r := httptest.NewRequest("GET", "/api/v1/products/p1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope types.SuccessEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	data := envelope.Data.(map[string]any)
	if data["_id"] != "p1" || data["name"] != "Linen Shirt" {
		t.Fatalf("unexpected document %v", data)
	}
}

type capturingCatalog struct {
	onList func(catalog.Filter)
}

func (c *capturingCatalog) ListProducts(ctx context.Context, filter catalog.Filter) (*catalog.ProductPage, error) {
	if c.onList != nil {
		c.onList(filter)
	}
	return &catalog.ProductPage{Page: filter.Page, TotalPages: 1}, nil
}

func (c *capturingCatalog) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	return shirtProduct(5), nil
}
