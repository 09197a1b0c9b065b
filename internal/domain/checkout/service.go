// Package checkout orchestrates order submission: input validation, order
// creation on the remote system, best-effort per-line stock reconciliation,
// cart clearing, and the WhatsApp handoff.
package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/cart"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/order"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/product"
)

// ValidationError reports the inputs missing from a checkout attempt.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required checkout fields: " + strings.Join(e.Missing, ", ")
}

// OrderCreationError indicates the remote system rejected or never received
// the order. The cart is preserved so the customer can retry.
type OrderCreationError struct {
	Err error
}

func (e *OrderCreationError) Error() string {
	return fmt.Sprintf("order creation failed: %s", e.Err)
}

func (e *OrderCreationError) Unwrap() error {
	return e.Err
}

// StockIssue records a failed stock decrement for one line. Decrements are
// best-effort once the order exists; issues are reported, never fatal.
type StockIssue struct {
	ProductID int64
	Err       error
}

// Receipt is the result of a successful checkout.
type Receipt struct {
	Order    *order.Order
	Lines    []cart.ResolvedLine
	Subtotal decimal.Decimal
	// Link is the WhatsApp deep link carrying the order summary. The caller
	// owns the UI transition (opening it after a short delay).
	Link string
	// StockIssues lists line items whose stock decrement failed after the
	// order was created.
	StockIssues []StockIssue
	// ClearError is set when emptying the cart after checkout failed; the
	// order and link are still valid.
	ClearError error
}

// Cart is the slice of the cart store the workflow needs.
type Cart interface {
	IsEmpty() bool
	Lines(ctx context.Context) []cart.ResolvedLine
	Clear() error
}

// OrderCreator places orders on the remote system.
type OrderCreator interface {
	Create(ctx context.Context, req order.CreateRequest) (*order.Order, error)
}

// StockReducer lowers remote stock by a purchased quantity.
type StockReducer interface {
	ReduceStock(ctx context.Context, id int64, qty int) (*product.Product, error)
}

// Messenger turns a completed checkout into a deep link.
type Messenger interface {
	CheckoutLink(lines []cart.ResolvedLine, subtotal decimal.Decimal, name, address string) string
}

// Service runs the checkout workflow. Steps are strictly sequential and
// there is no rollback: a created order is never un-created, and stock
// reconciliation continues past individual failures.
type Service struct {
	cart      Cart
	orders    OrderCreator
	stock     StockReducer
	messenger Messenger
	lg        *zap.Logger
}

// NewService wires the workflow's collaborators.
func NewService(c Cart, orders OrderCreator, stock StockReducer, messenger Messenger, lg *zap.Logger) *Service {
	return &Service{
		cart:      c,
		orders:    orders,
		stock:     stock,
		messenger: messenger,
		lg:        lg,
	}
}

// Submit places an order for the current cart contents.
//
// Failures before and during order creation abort with no side effects.
// After the order exists the remaining steps are best-effort: stock
// decrement failures and a cart-clear failure are reported on the Receipt,
// not as errors.
func (s *Service) Submit(ctx context.Context, customerName, customerAddress string) (*Receipt, error) {
	customerName = strings.TrimSpace(customerName)
	customerAddress = strings.TrimSpace(customerAddress)

	var missing []string
	if customerName == "" {
		missing = append(missing, "name")
	}
	if customerAddress == "" {
		missing = append(missing, "address")
	}
	if s.cart.IsEmpty() {
		missing = append(missing, "cart")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	// Resolve lines once; order payload and stock decrements both work off
	// this view so they cannot disagree on prices or quantities.
	lines := s.cart.Lines(ctx)

	items := make([]order.Item, len(lines))
	subtotal := decimal.Zero
	for i, line := range lines {
		items[i] = order.Item{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.ResolvedPrice,
		}
		subtotal = subtotal.Add(line.TotalPrice)
	}

	created, err := s.orders.Create(ctx, order.CreateRequest{
		CustomerName:    customerName,
		CustomerAddress: customerAddress,
		Items:           items,
		TotalAmount:     subtotal,
	})
	if err != nil {
		return nil, &OrderCreationError{Err: err}
	}

	s.lg.Info("Order created",
		zap.Int64("order_id", created.ID),
		zap.Int("items", len(items)),
		zap.String("total", subtotal.String()))

	// One decrement per line, awaited in sequence. The order exists now, so
	// a failed decrement is reported and skipped, never a reason to stop.
	var issues []StockIssue
	for _, line := range lines {
		if _, err := s.stock.ReduceStock(ctx, line.ProductID, line.Quantity); err != nil {
			s.lg.Error("Stock reconciliation failed",
				zap.Int64("order_id", created.ID),
				zap.Int64("product_id", line.ProductID),
				zap.Int("quantity", line.Quantity),
				zap.Error(err))
			issues = append(issues, StockIssue{ProductID: line.ProductID, Err: err})
		}
	}

	clearErr := s.cart.Clear()
	if clearErr != nil {
		s.lg.Error("Failed to clear cart after checkout",
			zap.Int64("order_id", created.ID),
			zap.Error(clearErr))
	}

	return &Receipt{
		Order:       created,
		Lines:       lines,
		Subtotal:    subtotal,
		Link:        s.messenger.CheckoutLink(lines, subtotal, customerName, customerAddress),
		StockIssues: issues,
		ClearError:  clearErr,
	}, nil
}
