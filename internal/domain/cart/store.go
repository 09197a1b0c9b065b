package cart

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/cache"
)

// Store holds the cart for the current session. Mutations are staged on a
// copy, persisted to the local cache, and only then committed in memory, so
// a persistence failure never leaves the two views diverged.
type Store struct {
	catalog Catalog
	kv      cache.Store
	lg      *zap.Logger

	mu    sync.Mutex
	lines []Line
}

// NewStore builds a Store and restores any persisted cart from the cache. A
// corrupt or missing cart entry starts the session with an empty cart.
func NewStore(catalog Catalog, kv cache.Store, lg *zap.Logger) *Store {
	s := &Store{catalog: catalog, kv: kv, lg: lg}

	var saved []Line
	err := cache.GetJSON(kv, cartKey, &saved)
	switch {
	case errors.Is(err, cache.ErrMiss):
	case err != nil:
		lg.Warn("Discarding unreadable saved cart", zap.Error(err))
	default:
		s.lines = saved
	}
	return s
}

// Add puts qty units of a product into the cart, merging with an existing
// line. The product is resolved from the catalog and the combined quantity
// is validated against its stock before anything is written.
func (s *Store) Add(ctx context.Context, productID int64, qty int) (*Line, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	p, err := resolveProduct(ctx, s.catalog, productID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(productID)
	existing := 0
	if idx >= 0 {
		existing = s.lines[idx].Quantity
	}

	if existing+qty > p.Stock {
		return nil, &InsufficientStockError{
			ProductID: productID,
			Requested: existing + qty,
			Available: p.Stock,
		}
	}

	staged := s.cloneLocked()
	var line Line
	if idx >= 0 {
		staged[idx].Quantity += qty
		line = staged[idx]
	} else {
		line = Line{
			ProductID: productID,
			Quantity:  qty,
			UnitPrice: p.Price,
			Name:      p.Name,
			Image:     p.Image,
			AddedAt:   time.Now(),
		}
		staged = append(staged, line)
	}

	if err := s.commitLocked(staged); err != nil {
		return nil, err
	}
	return &line, nil
}

// UpdateQuantity sets a line to qty units. A non-positive qty removes the
// line. The new quantity is validated against current stock; on validation
// failure the cart is left untouched and the existing line is returned with
// OutcomeUnchanged.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, qty int) (*Line, Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(productID)
	if idx < 0 {
		return nil, OutcomeUnchanged, &NotInCartError{ProductID: productID}
	}

	if qty <= 0 {
		removed, err := s.removeLocked(idx)
		if err != nil {
			return nil, OutcomeUnchanged, err
		}
		return removed, OutcomeRemoved, nil
	}

	current := s.lines[idx]

	p, err := resolveProduct(ctx, s.catalog, productID)
	if err != nil {
		return &current, OutcomeUnchanged, err
	}
	if qty > p.Stock {
		return &current, OutcomeUnchanged, &InsufficientStockError{
			ProductID: productID,
			Requested: qty,
			Available: p.Stock,
		}
	}

	staged := s.cloneLocked()
	staged[idx].Quantity = qty
	if err := s.commitLocked(staged); err != nil {
		return &current, OutcomeUnchanged, err
	}
	line := s.lines[idx]
	return &line, OutcomeUpdated, nil
}

// Remove takes a product out of the cart. It reports whether a line was
// actually removed; removing an absent product is not an error.
func (s *Store) Remove(productID int64) (*Line, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(productID)
	if idx < 0 {
		return nil, false, nil
	}
	removed, err := s.removeLocked(idx)
	if err != nil {
		return nil, false, err
	}
	return removed, true, nil
}

// Lines returns the resolved view of the cart: every line priced against
// the current catalog. When a product cannot be resolved at all the
// snapshot price is used and the line is marked Stale — display keeps
// working, checkout decides what to do with it.
func (s *Store) Lines(ctx context.Context) []ResolvedLine {
	s.mu.Lock()
	lines := s.cloneLocked()
	s.mu.Unlock()

	resolved := make([]ResolvedLine, 0, len(lines))
	for _, line := range lines {
		rl := ResolvedLine{Line: line, ResolvedPrice: line.UnitPrice, Stale: true}

		if p, err := s.catalog.Get(ctx, line.ProductID); err == nil {
			rl.ResolvedPrice = p.Price
			rl.Stale = false
		} else {
			s.lg.Debug("Pricing cart line from snapshot",
				zap.Int64("product_id", line.ProductID), zap.Error(err))
		}

		rl.TotalPrice = rl.ResolvedPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		resolved = append(resolved, rl)
	}
	return resolved
}

// Subtotal sums the resolved line totals.
func (s *Store) Subtotal(ctx context.Context) decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines(ctx) {
		total = total.Add(line.TotalPrice)
	}
	return total
}

// Total is the amount due. Shipping and taxes are deliberate extension
// points; today the total equals the subtotal.
func (s *Store) Total(ctx context.Context) decimal.Decimal {
	return s.Subtotal(ctx)
}

// TotalItems counts units across all lines.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, line := range s.lines {
		n += line.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// Clear empties the cart. Clearing an empty cart is a no-op that still
// persists, keeping the cached copy in step.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked([]Line{})
}

func (s *Store) indexLocked(productID int64) int {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) cloneLocked() []Line {
	staged := make([]Line, len(s.lines))
	copy(staged, s.lines)
	return staged
}

// removeLocked drops the line at idx from a staged copy and commits.
func (s *Store) removeLocked(idx int) (*Line, error) {
	removed := s.lines[idx]
	staged := s.cloneLocked()
	staged = append(staged[:idx], staged[idx+1:]...)
	if err := s.commitLocked(staged); err != nil {
		return nil, err
	}
	return &removed, nil
}

// commitLocked persists staged to the cache and, only on success, makes it
// the in-memory cart.
func (s *Store) commitLocked(staged []Line) error {
	if err := cache.SetJSON(s.kv, cartKey, staged); err != nil {
		return errors.Wrap(err, "persist cart")
	}
	s.lines = staged
	return nil
}
