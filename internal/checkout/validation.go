package checkout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/davidcastellanos/shopstream-backend/internal/cart"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern  = regexp.MustCompile(`^\+?\d{1,4}[-.\s]?\d{1,14}$`)
	zipPattern    = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	cardPattern   = regexp.MustCompile(`^\d{16}$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3}$`)
)

// Validate checks the form and the order contents against the checkout
// rules. It returns one message per offending field, keyed by the form field
// name; an empty map means the order may be submitted. now anchors the card
// expiry comparison.
func Validate(form Form, items []cart.LineItem, now time.Time, orderMaxItems int) map[string]string {
	fieldErrors := make(map[string]string)

	if form.Name == "" {
		fieldErrors["name"] = "Full name is required"
	}
	if !emailPattern.MatchString(form.Email) {
		fieldErrors["email"] = "Invalid email format"
	}
	if !phonePattern.MatchString(form.Phone) {
		fieldErrors["phone"] = "Invalid phone number format"
	}
	if form.Address == "" {
		fieldErrors["address"] = "Address is required"
	}
	if form.City == "" {
		fieldErrors["city"] = "City is required"
	}
	if form.State == "" {
		fieldErrors["state"] = "State is required"
	}
	if !zipPattern.MatchString(form.Zip) {
		fieldErrors["zip"] = "Invalid zip code format"
	}
	if !cardPattern.MatchString(form.CardNumber) {
		fieldErrors["cardNumber"] = "Card number must be 16 digits"
	}
	if !expiryPattern.MatchString(form.Expiry) {
		fieldErrors["expiry"] = "Expiry must be MM/YY"
	} else if expired(form.Expiry, now) {
		fieldErrors["expiry"] = "Card expired"
	}
	if !cvvPattern.MatchString(form.CVV) {
		fieldErrors["cvv"] = "CVV must be 3 digits"
	}

	if len(items) > orderMaxItems {
		fieldErrors["items"] = fmt.Sprintf("Too many items in the order (maximum %d)", orderMaxItems)
	}
	for i, item := range items {
		if item.Variant.Color == "" || item.Variant.Size == "" {
			fieldErrors["items"] = fmt.Sprintf("Item at position %d is missing variant details (color, size)", i+1)
		}
		if item.Quantity < 1 {
			fieldErrors["items"] = fmt.Sprintf("Item at position %d has an invalid quantity (must be a positive integer)", i+1)
		}
	}

	return fieldErrors
}

// expired assumes value already matched expiryPattern.
func expired(value string, now time.Time) bool {
	parts := strings.SplitN(value, "/", 2)
	month, _ := strconv.Atoi(parts[0])
	year, _ := strconv.Atoi(parts[1])

	currentYear := now.Year() % 100
	currentMonth := int(now.Month())
	return year < currentYear || (year == currentYear && month < currentMonth)
}
