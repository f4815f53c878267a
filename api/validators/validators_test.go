package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/davidcastellanos/shopstream-backend/pkg/errors"
)

type samplePayload struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Linen Shirt","quantity":2}`))
	var payload samplePayload
	if err := DecodeJSONBody(r, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Name != "Linen Shirt" || payload.Quantity != 2 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x","quantity":1,"bogus":true}`))
	var payload samplePayload
	err := DecodeJSONBody(r, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldByJSONName(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"quantity":0}`))
	var payload samplePayload
	err := DecodeJSONBody(r, &payload)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details %v", typed.Details())
	}
	if details["name"] != "is required" {
		t.Fatalf("expected json field name key, got %v", details)
	}
	if details["quantity"] != "must be at least 1" {
		t.Fatalf("expected min message, got %v", details)
	}
}

func TestParseQueryInt(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/?page=3", nil)
	page, err := ParseQueryInt(r, "page", 1, 1, 100)
	if err != nil || page != 3 {
		t.Fatalf("expected 3, got %d (%v)", page, err)
	}

	r = httptest.NewRequest("GET", "/", nil)
	page, err = ParseQueryInt(r, "page", 1, 1, 100)
	if err != nil || page != 1 {
		t.Fatalf("expected default 1, got %d (%v)", page, err)
	}

	r = httptest.NewRequest("GET", "/?page=abc", nil)
	if _, err := ParseQueryInt(r, "page", 1, 1, 100); err == nil {
		t.Fatal("expected error for non-numeric value")
	}

	r = httptest.NewRequest("GET", "/?page=101", nil)
	if _, err := ParseQueryInt(r, "page", 1, 1, 100); err == nil {
		t.Fatal("expected error for out-of-range value")
	}
}

func TestParseQueryDecimal(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/?minPrice=19.99", nil)
	value, err := ParseQueryDecimal(r, "minPrice")
	if err != nil || value == nil || value.String() != "19.99" {
		t.Fatalf("expected 19.99, got %v (%v)", value, err)
	}

	r = httptest.NewRequest("GET", "/", nil)
	value, err = ParseQueryDecimal(r, "minPrice")
	if err != nil || value != nil {
		t.Fatalf("expected nil for absent param, got %v (%v)", value, err)
	}

	r = httptest.NewRequest("GET", "/?minPrice=cheap", nil)
	if _, err := ParseQueryDecimal(r, "minPrice"); err == nil {
		t.Fatal("expected error for non-decimal value")
	}
}
