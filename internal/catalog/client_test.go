package catalog

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/davidcastellanos/shopstream-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestListProductsBuildsQuery(t *testing.T) {
	respBody := `{"products":[{"_id":"p1","name":"Linen Shirt","price":39.99,"images":["a.jpg"],"variants":[{"color":"red","size":"M","inventory":5}]}],"page":2,"totalPages":7}`

	var capturedURL string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		return jsonResponse(http.StatusOK, respBody), nil
	})

	client, err := NewClient("http://catalog.test/api/", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	minPrice := decimal.RequireFromString("10")
	page, err := client.ListProducts(context.Background(), Filter{
		Search:   "shirt",
		MinPrice: &minPrice,
		Page:     2,
		Limit:    24,
	})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}

	if capturedURL != "http://catalog.test/api/products?limit=24&minPrice=10&page=2&search=shirt" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if page.Page != 2 || page.TotalPages != 7 {
		t.Fatalf("unexpected page meta %d/%d", page.Page, page.TotalPages)
	}
	if len(page.Products) != 1 || page.Products[0].ID != "p1" {
		t.Fatalf("unexpected products %+v", page.Products)
	}
	if !page.Products[0].Price.Equal(decimal.RequireFromString("39.99")) {
		t.Fatalf("unexpected price %s", page.Products[0].Price)
	}
}

func TestGetProductNotFoundIsDistinct(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"error":"no such product"}`), nil
	})
	client, err := NewClient("http://catalog.test/api", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.GetProduct(context.Background(), "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestGetProductServerErrorIsDependency(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, "upstream exploded"), nil
	})
	client, err := NewClient("http://catalog.test/api", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.GetProduct(context.Background(), "p1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestVariantInventoryFallsBackToZero(t *testing.T) {
	product := Product{
		Variants: []Variant{
			{Color: "red", Size: "M", Inventory: 4},
			{Color: "blue", Size: "L", Inventory: 9},
		},
	}

	if got := product.VariantInventory("blue", "L"); got != 9 {
		t.Fatalf("expected 9, got %d", got)
	}
	if got := product.VariantInventory("red", "XL"); got != 0 {
		t.Fatalf("missing variant should report zero, got %d", got)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("   "); err == nil {
		t.Fatal("expected error for empty base url")
	}
}
