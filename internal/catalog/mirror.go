// Package catalog layers the local cache under the remote product catalog.
// Reads go remote-first and fall back to the last-known cached record when
// the backend is unreachable; successful reads and writes refresh the
// mirror. The remote system stays authoritative: the mirror is a lagging,
// best-effort copy used to keep the storefront usable offline.
package catalog

import (
	"context"
	"strconv"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/cache"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/product"
)

// productsKey is the cache key holding the mirrored product list.
const productsKey = "fashionacc_products"

// Mirror is a product.Catalog with cache fallback and mirror maintenance.
type Mirror struct {
	remote product.Catalog
	kv     cache.Store
	lg     *zap.Logger

	// mu serializes read-modify-write updates of the mirrored list.
	mu sync.Mutex
	sf singleflight.Group
}

// NewMirror builds a Mirror over the given remote catalog and cache.
func NewMirror(remote product.Catalog, kv cache.Store, lg *zap.Logger) *Mirror {
	return &Mirror{remote: remote, kv: kv, lg: lg}
}

// List returns the catalog, preferring the remote copy and mirroring it on
// success. When the remote is unreachable the cached list is served instead.
func (m *Mirror) List(ctx context.Context) ([]product.Product, error) {
	products, err := m.remote.List(ctx)
	if err == nil {
		m.replaceAll(products)
		return products, nil
	}

	cached, cacheErr := m.cachedAll()
	if cacheErr != nil {
		return nil, err
	}
	m.lg.Warn("Remote catalog unreachable, serving cached product list",
		zap.Int("products", len(cached)), zap.Error(err))
	return cached, nil
}

// Get returns one product, remote-first with cache fallback. Concurrent
// lookups of the same product share a single remote call.
func (m *Mirror) Get(ctx context.Context, id int64) (*product.Product, error) {
	v, err, _ := m.sf.Do(strconv.FormatInt(id, 10), func() (any, error) {
		p, err := m.remote.GetByID(ctx, id)
		if err == nil {
			m.remember(p)
			return p, nil
		}

		if cached := m.cached(id); cached != nil {
			m.lg.Warn("Remote catalog unreachable, serving cached product",
				zap.Int64("product_id", id), zap.Error(err))
			return cached, nil
		}
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*product.Product), nil
}

// Create adds a product remotely and mirrors it locally.
func (m *Mirror) Create(ctx context.Context, in product.Input) (*product.Product, error) {
	p, err := m.remote.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	m.remember(p)
	return p, nil
}

// Update replaces the full product record remotely and mirrors the result.
func (m *Mirror) Update(ctx context.Context, id int64, in product.Input) (*product.Product, error) {
	p, err := m.remote.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	m.remember(p)
	return p, nil
}

// Delete removes a product remotely and from the mirror.
func (m *Mirror) Delete(ctx context.Context, id int64) error {
	if err := m.remote.Delete(ctx, id); err != nil {
		return err
	}
	m.forget(id)
	return nil
}

// ReduceStock lowers a product's stock by qty via a full-record update,
// clamping at zero. This is a read-modify-write against the remote record:
// two concurrent checkouts can read the same stock figure and both write,
// overselling inventory. Solving that requires an atomic decrement on the
// server side, not here.
func (m *Mirror) ReduceStock(ctx context.Context, id int64, qty int) (*product.Product, error) {
	p, err := m.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "reduce stock of product %d", id)
	}

	newStock := p.Stock - qty
	if newStock < 0 {
		newStock = 0
	}

	in := product.InputFrom(p)
	in.Stock = newStock

	updated, err := m.Update(ctx, id, in)
	if err != nil {
		return nil, errors.Wrapf(err, "reduce stock of product %d", id)
	}
	m.lg.Info("Stock reduced",
		zap.Int64("product_id", id),
		zap.Int("quantity", qty),
		zap.Int("new_stock", updated.Stock))
	return updated, nil
}

// Seed replaces the mirrored product list in kv, e.g. from an offline
// snapshot.
func Seed(kv cache.Store, products []product.Product) error {
	if err := cache.SetJSON(kv, productsKey, products); err != nil {
		return errors.Wrap(err, "seed product mirror")
	}
	return nil
}

// Stored returns the mirrored product list currently held in kv.
func Stored(kv cache.Store) ([]product.Product, error) {
	var products []product.Product
	if err := cache.GetJSON(kv, productsKey, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (m *Mirror) cachedAll() ([]product.Product, error) {
	var products []product.Product
	if err := cache.GetJSON(m.kv, productsKey, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (m *Mirror) cached(id int64) *product.Product {
	products, err := m.cachedAll()
	if err != nil {
		return nil
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}

func (m *Mirror) replaceAll(products []product.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := cache.SetJSON(m.kv, productsKey, products); err != nil {
		m.lg.Warn("Failed to mirror product list", zap.Error(err))
	}
}

func (m *Mirror) remember(p *product.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()

	products, err := m.cachedAll()
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		m.lg.Warn("Failed to read product mirror", zap.Error(err))
		return
	}

	found := false
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = *p
			found = true
			break
		}
	}
	if !found {
		products = append(products, *p)
	}

	if err := cache.SetJSON(m.kv, productsKey, products); err != nil {
		m.lg.Warn("Failed to mirror product", zap.Int64("product_id", p.ID), zap.Error(err))
	}
}

func (m *Mirror) forget(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	products, err := m.cachedAll()
	if err != nil {
		return
	}
	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if err := cache.SetJSON(m.kv, productsKey, kept); err != nil {
		m.lg.Warn("Failed to drop mirrored product", zap.Int64("product_id", id), zap.Error(err))
	}
}
