package productapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/erauner12/catalogview/internal/catalog"
)

// Operation names reported to the Observer and used in errors.
const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
)

// maxErrorBody caps how much of an error response is kept in StatusError.
const maxErrorBody = 512

// Client performs product CRUD against the remote API.
type Client struct {
	http     *HTTPClient
	observer Observer
}

// NewClient creates a product client. observer may be nil.
func NewClient(httpClient *HTTPClient, observer Observer) *Client {
	return &Client{http: httpClient, observer: observer}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.http.BaseURL()
}

// ListProducts fetches the whole catalog in one request.
func (c *Client) ListProducts(ctx context.Context) (products []catalog.Product, err error) {
	defer c.observe(OpList, time.Now(), &err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.http.baseURL+"/products", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s products: %w", OpList, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(OpList, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("%w: decode product list: %v", ErrInvalidResponse, err)
	}
	if products == nil {
		products = []catalog.Product{}
	}
	return products, nil
}

// CreateProduct posts a new product and returns the stored record. The input
// is sent as given; callers normalize and validate it first.
func (c *Client) CreateProduct(ctx context.Context, in catalog.CreateInput) (product catalog.Product, err error) {
	defer c.observe(OpCreate, time.Now(), &err)

	body, err := json.Marshal(in)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	// The API only accepts the trailing-slash form for creates.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.http.baseURL+"/products/", bytes.NewReader(body))
	if err != nil {
		return catalog.Product{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("%s product: %w", OpCreate, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return catalog.Product{}, statusError(OpCreate, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return catalog.Product{}, fmt.Errorf("%w: decode created product: %v", ErrInvalidResponse, err)
	}
	return product, nil
}

// UpdateProduct sends a partial update and returns the fields the server
// echoed back, ready to be merged into the local record.
func (c *Client) UpdateProduct(ctx context.Context, id int, in catalog.UpdateInput) (patch catalog.Patch, err error) {
	defer c.observe(OpUpdate, time.Now(), &err)

	body, err := json.Marshal(in)
	if err != nil {
		return catalog.Patch{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	reqURL := c.http.baseURL + "/products/" + strconv.Itoa(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, reqURL, bytes.NewReader(body))
	if err != nil {
		return catalog.Patch{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return catalog.Patch{}, fmt.Errorf("%s product %d: %w", OpUpdate, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return catalog.Patch{}, statusError(OpUpdate, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(&patch); err != nil {
		return catalog.Patch{}, fmt.Errorf("%w: decode updated product: %v", ErrInvalidResponse, err)
	}
	return patch, nil
}

func (c *Client) observe(op string, start time.Time, err *error) {
	if c.observer == nil {
		return
	}
	outcome := "ok"
	if *err != nil {
		outcome = "error"
	}
	c.observer.ObserveUpstream(op, outcome, time.Since(start))
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
}
