package checkout

import (
	"context"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/cart"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/order"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/product"
)

// --- Mock implementations ---

type mockCart struct {
	lines    []cart.ResolvedLine
	cleared  bool
	clearErr error
}

func (m *mockCart) IsEmpty() bool { return len(m.lines) == 0 }

func (m *mockCart) Lines(_ context.Context) []cart.ResolvedLine { return m.lines }

func (m *mockCart) Clear() error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = true
	m.lines = nil
	return nil
}

type mockOrders struct {
	lastReq *order.CreateRequest
	err     error
}

func (m *mockOrders) Create(_ context.Context, req order.CreateRequest) (*order.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastReq = &req
	return &order.Order{
		ID:              31,
		CustomerName:    req.CustomerName,
		CustomerAddress: req.CustomerAddress,
		Items:           req.Items,
		TotalAmount:     req.TotalAmount,
		Status:          order.StatusPending,
	}, nil
}

type mockStock struct {
	calls   []int64
	failFor map[int64]error
}

func (m *mockStock) ReduceStock(_ context.Context, id int64, _ int) (*product.Product, error) {
	m.calls = append(m.calls, id)
	if err, ok := m.failFor[id]; ok {
		return nil, err
	}
	return &product.Product{ID: id}, nil
}

type mockMessenger struct{}

func (mockMessenger) CheckoutLink(_ []cart.ResolvedLine, subtotal decimal.Decimal, name, _ string) string {
	return "https://wa.me/6285246982655?text=" + name + "-" + subtotal.String()
}

// --- Helpers ---

func resolvedLine(id int64, qty int, unit int64) cart.ResolvedLine {
	price := decimal.NewFromInt(unit)
	return cart.ResolvedLine{
		Line:          cart.Line{ProductID: id, Quantity: qty, UnitPrice: price, Name: "Item"},
		ResolvedPrice: price,
		TotalPrice:    price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func newTestService(t *testing.T, c *mockCart, o *mockOrders, st *mockStock) *Service {
	t.Helper()
	return NewService(c, o, st, mockMessenger{}, zaptest.NewLogger(t))
}

func twoLineCart() *mockCart {
	return &mockCart{lines: []cart.ResolvedLine{
		resolvedLine(1, 2, 100),
		resolvedLine(2, 1, 50),
	}}
}

// --- Tests ---

func TestSubmit_MissingName(t *testing.T) {
	c := twoLineCart()
	svc := newTestService(t, c, &mockOrders{}, &mockStock{})

	_, err := svc.Submit(context.Background(), "", "Jl. Mawar 1")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Missing, "name")
	assert.Contains(t, err.Error(), "name")
	assert.False(t, c.cleared, "cart must remain untouched")
}

func TestSubmit_BlankAddressIsMissing(t *testing.T) {
	svc := newTestService(t, twoLineCart(), &mockOrders{}, &mockStock{})

	_, err := svc.Submit(context.Background(), "Ana", "   ")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"address"}, ve.Missing)
}

func TestSubmit_EmptyCart(t *testing.T) {
	svc := newTestService(t, &mockCart{}, &mockOrders{}, &mockStock{})

	_, err := svc.Submit(context.Background(), "Ana", "Jl. Mawar 1")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"cart"}, ve.Missing)
}

func TestSubmit_CollectsAllMissingFields(t *testing.T) {
	svc := newTestService(t, &mockCart{}, &mockOrders{}, &mockStock{})

	_, err := svc.Submit(context.Background(), "", "")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"name", "address", "cart"}, ve.Missing)
}

func TestSubmit_Success(t *testing.T) {
	c := twoLineCart()
	orders := &mockOrders{}
	stock := &mockStock{}
	svc := newTestService(t, c, orders, stock)

	receipt, err := svc.Submit(context.Background(), "Ana", "Jl. Mawar 1")
	require.NoError(t, err)

	// Order payload matches the cart.
	require.NotNil(t, orders.lastReq)
	require.Len(t, orders.lastReq.Items, 2)
	assert.Equal(t, 2, orders.lastReq.Items[0].Quantity)
	assert.Equal(t, 1, orders.lastReq.Items[1].Quantity)
	assert.True(t, decimal.NewFromInt(250).Equal(orders.lastReq.TotalAmount))

	// Exactly one decrement per line, in cart order.
	assert.Equal(t, []int64{1, 2}, stock.calls)

	// Cart cleared, link produced.
	assert.True(t, c.cleared)
	assert.True(t, c.IsEmpty())
	assert.True(t, strings.HasPrefix(receipt.Link, "https://wa.me/"))
	assert.Empty(t, receipt.StockIssues)
	assert.Equal(t, int64(31), receipt.Order.ID)
	assert.True(t, decimal.NewFromInt(250).Equal(receipt.Subtotal))
}

func TestSubmit_OrderCreationFailurePreservesCart(t *testing.T) {
	c := twoLineCart()
	stock := &mockStock{}
	svc := newTestService(t, c, &mockOrders{err: product.ErrUnavailable}, stock)

	_, err := svc.Submit(context.Background(), "Ana", "Jl. Mawar 1")

	var oce *OrderCreationError
	require.ErrorAs(t, err, &oce)
	assert.ErrorIs(t, err, product.ErrUnavailable)

	assert.False(t, c.cleared, "cart preserved for retry")
	assert.Empty(t, stock.calls, "no decrement before the order exists")
}

func TestSubmit_DecrementFailureIsBestEffort(t *testing.T) {
	c := twoLineCart()
	stock := &mockStock{failFor: map[int64]error{1: errors.New("connection reset")}}
	svc := newTestService(t, c, &mockOrders{}, stock)

	receipt, err := svc.Submit(context.Background(), "Ana", "Jl. Mawar 1")
	require.NoError(t, err, "checkout succeeds despite the failed decrement")

	// The failure did not stop the remaining decrements.
	assert.Equal(t, []int64{1, 2}, stock.calls)

	require.Len(t, receipt.StockIssues, 1)
	assert.Equal(t, int64(1), receipt.StockIssues[0].ProductID)

	// The cart is still cleared and the link still handed out.
	assert.True(t, c.cleared)
	assert.NotEmpty(t, receipt.Link)
}

func TestSubmit_ClearFailureReportedOnReceipt(t *testing.T) {
	c := twoLineCart()
	c.clearErr = errors.New("disk full")
	svc := newTestService(t, c, &mockOrders{}, &mockStock{})

	receipt, err := svc.Submit(context.Background(), "Ana", "Jl. Mawar 1")
	require.NoError(t, err)
	require.Error(t, receipt.ClearError)
	assert.NotEmpty(t, receipt.Link)
}

func TestSubmit_UsesResolvedPrices(t *testing.T) {
	// Snapshot says 100, catalog now says 150: the order must carry 150.
	line := resolvedLine(1, 2, 100)
	line.ResolvedPrice = decimal.NewFromInt(150)
	line.TotalPrice = decimal.NewFromInt(300)
	c := &mockCart{lines: []cart.ResolvedLine{line}}
	orders := &mockOrders{}
	svc := newTestService(t, c, orders, &mockStock{})

	receipt, err := svc.Submit(context.Background(), "Ana", "Jl. Mawar 1")
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(150).Equal(orders.lastReq.Items[0].Price))
	assert.True(t, decimal.NewFromInt(300).Equal(receipt.Subtotal))
}
