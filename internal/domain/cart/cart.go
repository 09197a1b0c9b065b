// Package cart implements the session shopping cart: line management with
// stock validation against the catalog, write-through persistence to the
// local cache, and a price-resolved view for display and checkout.
package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/product"
)

// cartKey is the cache key the cart is persisted under.
const cartKey = "fashionacc_cart"

// ErrInvalidQuantity is returned by Add for a non-positive quantity.
var ErrInvalidQuantity = errors.New("quantity must be greater than 0")

// InsufficientStockError indicates the requested quantity exceeds the stock
// on record. Available carries the purchasable remainder so callers can
// suggest a cap.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, %d available",
		e.ProductID, e.Requested, e.Available)
}

// NotInCartError indicates an operation referenced a product with no line in
// the cart.
type NotInCartError struct {
	ProductID int64
}

func (e *NotInCartError) Error() string {
	return fmt.Sprintf("product %d is not in the cart", e.ProductID)
}

// Line is one product selection in the cart. UnitPrice is a snapshot taken
// at add time; it is a cache, not authoritative — display and checkout
// resolve the live catalog price.
type Line struct {
	ProductID int64           `json:"id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	AddedAt   time.Time       `json:"addedAt"`
}

// ResolvedLine is a Line enriched with the current catalog price. Stale is
// set when the catalog could not be consulted and the snapshot price was
// used instead.
type ResolvedLine struct {
	Line
	ResolvedPrice decimal.Decimal
	TotalPrice    decimal.Decimal
	Stale         bool
}

// Outcome reports what UpdateQuantity actually did.
type Outcome int

const (
	// OutcomeUnchanged means validation failed and the cart was left as-is.
	OutcomeUnchanged Outcome = iota
	// OutcomeUpdated means the line quantity was changed.
	OutcomeUpdated
	// OutcomeRemoved means the line was removed (quantity dropped to zero
	// or below).
	OutcomeRemoved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeRemoved:
		return "removed"
	default:
		return "unchanged"
	}
}

// Catalog is the product lookup the cart validates stock against. The
// implementation may serve cached records when the backend is down, but it
// must return an error when no stock figure is available at all — the cart
// fails closed in that case.
type Catalog interface {
	Get(ctx context.Context, id int64) (*product.Product, error)
}

// resolve is a small helper shared by the store methods that need a product
// record before mutating.
func resolveProduct(ctx context.Context, c Catalog, id int64) (*product.Product, error) {
	p, err := c.Get(ctx, id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, err
		}
		return nil, errors.Wrapf(product.ErrUnavailable, "resolve product %d: %s", id, err)
	}
	return p, nil
}
