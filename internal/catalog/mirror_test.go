package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/cache"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/product"
)

// fakeRemote is an in-memory product.Catalog whose connectivity can be cut.
type fakeRemote struct {
	byID    map[int64]product.Product
	offline bool
	updates []product.Input
}

func (f *fakeRemote) List(_ context.Context) ([]product.Product, error) {
	if f.offline {
		return nil, product.ErrUnavailable
	}
	out := make([]product.Product, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRemote) GetByID(_ context.Context, id int64) (*product.Product, error) {
	if f.offline {
		return nil, product.ErrUnavailable
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (f *fakeRemote) Create(_ context.Context, in product.Input) (*product.Product, error) {
	if f.offline {
		return nil, product.ErrUnavailable
	}
	id := int64(len(f.byID) + 1)
	p := product.Product{ID: id, Name: in.Name, Category: in.Category, Price: in.Price, Stock: in.Stock, Description: in.Description, Image: in.Image}
	f.byID[id] = p
	return &p, nil
}

func (f *fakeRemote) Update(_ context.Context, id int64, in product.Input) (*product.Product, error) {
	if f.offline {
		return nil, product.ErrUnavailable
	}
	if _, ok := f.byID[id]; !ok {
		return nil, product.ErrNotFound
	}
	f.updates = append(f.updates, in)
	p := product.Product{ID: id, Name: in.Name, Category: in.Category, Price: in.Price, Stock: in.Stock, Description: in.Description, Image: in.Image}
	f.byID[id] = p
	return &p, nil
}

func (f *fakeRemote) Delete(_ context.Context, id int64) error {
	if f.offline {
		return product.ErrUnavailable
	}
	delete(f.byID, id)
	return nil
}

func newMirror(t *testing.T, remote *fakeRemote) *Mirror {
	t.Helper()
	kv, err := cache.OpenFile(filepath.Join(t.TempDir(), "kv.json"))
	require.NoError(t, err)
	return NewMirror(remote, kv, zaptest.NewLogger(t))
}

func testProduct(id int64, stock int) product.Product {
	return product.Product{
		ID:       id,
		Name:     "Anting Mutiara Korea",
		Category: "Perhiasan",
		Price:    decimal.NewFromInt(45000),
		Stock:    stock,
	}
}

func TestGet_FallsBackToMirrorWhenOffline(t *testing.T) {
	remote := &fakeRemote{byID: map[int64]product.Product{203: testProduct(203, 20)}}
	m := newMirror(t, remote)
	ctx := context.Background()

	// First read populates the mirror.
	p, err := m.Get(ctx, 203)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Stock)

	remote.offline = true

	p, err = m.Get(ctx, 203)
	require.NoError(t, err)
	assert.Equal(t, int64(203), p.ID)
	assert.Equal(t, 20, p.Stock)
}

func TestGet_OfflineWithoutMirrorFailsClosed(t *testing.T) {
	remote := &fakeRemote{byID: map[int64]product.Product{}, offline: true}
	m := newMirror(t, remote)

	_, err := m.Get(context.Background(), 999)
	require.ErrorIs(t, err, product.ErrUnavailable)
}

func TestGet_NotFoundPassesThrough(t *testing.T) {
	remote := &fakeRemote{byID: map[int64]product.Product{}}
	m := newMirror(t, remote)

	_, err := m.Get(context.Background(), 999)
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestList_MirrorsAndFallsBack(t *testing.T) {
	remote := &fakeRemote{byID: map[int64]product.Product{
		201: testProduct(201, 20),
		202: testProduct(202, 5),
	}}
	m := newMirror(t, remote)
	ctx := context.Background()

	products, err := m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	remote.offline = true

	products, err = m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestReduceStock(t *testing.T) {
	remote := &fakeRemote{byID: map[int64]product.Product{203: testProduct(203, 5)}}
	m := newMirror(t, remote)

	updated, err := m.ReduceStock(context.Background(), 203, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Stock)

	// The decrement is a full-record update.
	require.Len(t, remote.updates, 1)
	assert.Equal(t, "Anting Mutiara Korea", remote.updates[0].Name)
	assert.True(t, decimal.NewFromInt(45000).Equal(remote.updates[0].Price))
}

func TestReduceStock_ClampsAtZero(t *testing.T) {
	remote := &fakeRemote{byID: map[int64]product.Product{203: testProduct(203, 1)}}
	m := newMirror(t, remote)

	updated, err := m.ReduceStock(context.Background(), 203, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
}

func TestDelete_ForgetsMirrorEntry(t *testing.T) {
	remote := &fakeRemote{byID: map[int64]product.Product{203: testProduct(203, 5)}}
	m := newMirror(t, remote)
	ctx := context.Background()

	_, err := m.Get(ctx, 203)
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, 203))
	remote.offline = true

	// Gone from the remote and from the mirror: nothing to fall back to.
	_, err = m.Get(ctx, 203)
	require.Error(t, err)
}
