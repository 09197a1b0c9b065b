package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/order"
)

var _ order.Gateway = (*OrderClient)(nil)

// OrderClient is the order-lifecycle view of a Client, satisfying
// order.Gateway.
type OrderClient struct {
	c *Client
}

// Orders returns the order facade of this client.
func (c *Client) Orders() *OrderClient {
	return &OrderClient{c: c}
}

// Create places a new order. This endpoint is public: checkout must work
// without an owner session.
func (o *OrderClient) Create(ctx context.Context, req order.CreateRequest) (*order.Order, error) {
	var out order.Order
	if err := o.c.do(ctx, http.MethodPost, "/api/orders", req, &out, false); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return &out, nil
}

// List returns all orders. Requires an owner session.
func (o *OrderClient) List(ctx context.Context) ([]order.Order, error) {
	var out []order.Order
	if err := o.c.do(ctx, http.MethodGet, "/api/orders", nil, &out, true); err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return out, nil
}

// GetByID returns a single order by its identifier. Requires an owner
// session.
func (o *OrderClient) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	var out order.Order
	err := o.c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil, &out, true)
	if IsStatus(err, http.StatusNotFound) {
		return nil, order.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get order %d", id)
	}
	return &out, nil
}

// UpdateStatus transitions an order to the given status. Requires an owner
// session.
func (o *OrderClient) UpdateStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error) {
	body := struct {
		Status order.Status `json:"status"`
	}{Status: status}

	var out order.Order
	err := o.c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", id), body, &out, true)
	if IsStatus(err, http.StatusNotFound) {
		return nil, order.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "update order %d status", id)
	}
	return &out, nil
}
