package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/product"
)

var _ product.Catalog = (*ProductClient)(nil)

// ProductClient is the product-catalog view of a Client, satisfying
// product.Catalog.
type ProductClient struct {
	c *Client
}

// Products returns the catalog facade of this client.
func (c *Client) Products() *ProductClient {
	return &ProductClient{c: c}
}

// List returns the full product catalog.
func (p *ProductClient) List(ctx context.Context) ([]product.Product, error) {
	var out []product.Product
	if err := p.c.do(ctx, http.MethodGet, "/api/products", nil, &out, false); err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return out, nil
}

// GetByID returns a single product by its identifier.
func (p *ProductClient) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	var out product.Product
	err := p.c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil, &out, false)
	if IsStatus(err, http.StatusNotFound) {
		return nil, product.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	return &out, nil
}

// Create adds a new product. Requires an owner session.
func (p *ProductClient) Create(ctx context.Context, in product.Input) (*product.Product, error) {
	var out product.Product
	if err := p.c.do(ctx, http.MethodPost, "/api/products", in, &out, true); err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	return &out, nil
}

// Update replaces the full product record. Requires an owner session.
func (p *ProductClient) Update(ctx context.Context, id int64, in product.Input) (*product.Product, error) {
	var out product.Product
	err := p.c.do(ctx, http.MethodPut, fmt.Sprintf("/api/products/%d", id), in, &out, true)
	if IsStatus(err, http.StatusNotFound) {
		return nil, product.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "update product %d", id)
	}
	return &out, nil
}

// Delete removes a product. Requires an owner session.
func (p *ProductClient) Delete(ctx context.Context, id int64) error {
	err := p.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil, nil, true)
	if IsStatus(err, http.StatusNotFound) {
		return product.ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "delete product %d", id)
	}
	return nil
}
