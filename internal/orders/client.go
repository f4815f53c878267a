package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/davidcastellanos/shopstream-backend/pkg/enums"
	pkgerrors "github.com/davidcastellanos/shopstream-backend/pkg/errors"
)

const responseBodyReadLimit int64 = 1024

var errBaseURLRequired = errors.New("orders base url is required")

// Client wraps the upstream order API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the order client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return client, nil
}

// SubmitOrder hands a finalized payload to the upstream order API and returns
// its order number and approval status.
func (c *Client) SubmitOrder(ctx context.Context, payload SubmitPayload) (*Receipt, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders client not configured")
	}
	if len(payload.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal order payload")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build order request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute order request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, dependencyError(resp, "order request failed")
	}

	var apiResp struct {
		OrderNumber string `json:"orderNumber"`
		Status      string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order response")
	}
	if apiResp.OrderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order response missing order number")
	}

	return &Receipt{
		OrderNumber: apiResp.OrderNumber,
		Status:      parseStatus(apiResp.Status),
	}, nil
}

// GetOrder fetches an order by its order number. A missing order is reported
// as not-found, distinct from other failures.
func (c *Client) GetOrder(ctx context.Context, orderNumber string) (*Order, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders client not configured")
	}
	trimmed := strings.TrimSpace(orderNumber)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}

	endpoint := fmt.Sprintf("%s/orders/%s", c.baseURL, url.PathEscape(trimmed))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build order lookup request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute order lookup request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, dependencyError(resp, "order lookup request failed")
	}

	var apiResp struct {
		OrderNumber string      `json:"orderNumber"`
		Status      string      `json:"status"`
		Items       []OrderItem `json:"items"`
		Customer    Customer    `json:"customer"`
		CreatedAt   time.Time   `json:"createdAt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order lookup response")
	}

	return &Order{
		OrderNumber: apiResp.OrderNumber,
		Status:      parseStatus(apiResp.Status),
		Items:       apiResp.Items,
		Customer:    apiResp.Customer,
		CreatedAt:   apiResp.CreatedAt,
	}, nil
}

// parseStatus normalizes the upstream status. Anything outside the known set
// is reported as the error status rather than dropped.
func parseStatus(raw string) enums.OrderStatus {
	status, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return enums.OrderStatusError
	}
	return status
}

func dependencyError(resp *http.Response, message string) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), message)
}
