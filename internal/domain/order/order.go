package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order on the remote system.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", errors.Errorf("unknown order status %q", s)
}

// Item is a single line item of an order. Price is captured at order time
// and does not track later catalog changes.
type Item struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order represents a customer order. Once created it is owned exclusively
// by the remote system; the client holds only a transient reference.
type Order struct {
	ID              int64           `json:"id"`
	CustomerName    string          `json:"customerName"`
	CustomerAddress string          `json:"customerAddress"`
	Items           []Item          `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// CreateRequest is the payload for placing a new order.
type CreateRequest struct {
	CustomerName    string          `json:"customerName"`
	CustomerAddress string          `json:"customerAddress"`
	Items           []Item          `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
}

// Gateway defines the order lifecycle operations on the remote system.
// Create is public; the remaining operations require an owner session.
type Gateway interface {
	Create(ctx context.Context, req CreateRequest) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error)
}
