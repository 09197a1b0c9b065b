package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// ErrUnavailable is returned when the remote catalog cannot be reached and
// no cached copy of the requested record exists. Stock validation fails
// closed on this error: a cart mutation is rejected rather than performed
// against an unknown stock figure.
var ErrUnavailable = errors.New("catalog unavailable")

// Product represents a catalog item available for purchase. The remote
// catalog owns the authoritative record; any local copy is a lagging,
// best-effort mirror.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

// Input holds the writable fields of a product. Updates replace the full
// record on the server, so every field must be populated.
type Input struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

// InputFrom builds a full-record Input from an existing product.
func InputFrom(p *Product) Input {
	return Input{
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		Description: p.Description,
		Image:       p.Image,
	}
}

// Catalog defines the remote catalog operations the storefront depends on.
// All operations may fail due to connectivity and carry no built-in retry;
// retries, if desired, are a caller policy layered above this boundary.
type Catalog interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, in Input) (*Product, error)
	Update(ctx context.Context, id int64, in Input) (*Product, error)
	Delete(ctx context.Context, id int64) error
}
