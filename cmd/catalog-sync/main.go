// Command catalog-sync exports the remote catalog to a compressed JSON
// snapshot, or imports such a snapshot into the local storefront cache so the
// app can start with a warm product mirror on machines without connectivity.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/cache"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/catalog"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/product"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/rest"
)

const fetchWorkers = 8

func main() {
	var (
		baseURL   string
		cachePath string
		snapshot  string
		doImport  bool
	)

	flag.StringVar(&baseURL, "base-url", "http://localhost:5000", "catalog API base URL")
	flag.StringVar(&cachePath, "cache", defaultCachePath(), "storefront cache file")
	flag.StringVar(&snapshot, "snapshot", "catalog.json.gz", "snapshot file to write or read")
	flag.BoolVar(&doImport, "import", false, "import the snapshot into the cache instead of exporting")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var err error
	if doImport {
		err = runImport(cachePath, snapshot)
	} else {
		err = runExport(ctx, baseURL, snapshot)
	}
	if err != nil {
		slog.Error("catalog sync failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("catalog sync completed")
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cache.json"
	}
	return home + "/.kamila/cache.json"
}

// runExport lists the catalog, refetches each product individually to pick up
// fields the list endpoint may omit, and writes the result gzip-compressed.
func runExport(ctx context.Context, baseURL, snapshot string) error {
	client := rest.NewClient(rest.Options{BaseURL: baseURL})
	products, err := client.Products().List(ctx)
	if err != nil {
		return errors.Wrap(err, "list catalog")
	}
	slog.Info("catalog listed", slog.Int("products", len(products)))

	var (
		mu   sync.Mutex
		full = make([]product.Product, 0, len(products))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchWorkers)
	for _, p := range products {
		g.Go(func() error {
			detail, err := client.Products().GetByID(ctx, p.ID)
			if err != nil {
				return errors.Wrapf(err, "fetch product %d", p.ID)
			}
			mu.Lock()
			full = append(full, *detail)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f, err := os.Create(snapshot)
	if err != nil {
		return errors.Wrap(err, "create snapshot")
	}
	defer f.Close()

	zw := pgzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(full); err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "flush snapshot")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close snapshot")
	}

	slog.Info("snapshot written",
		slog.String("file", snapshot),
		slog.Int("products", len(full)))
	return nil
}

// runImport seeds the storefront cache from a snapshot file.
func runImport(cachePath, snapshot string) error {
	f, err := os.Open(snapshot)
	if err != nil {
		return errors.Wrap(err, "open snapshot")
	}
	defer f.Close()

	zr, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrap(err, "read snapshot")
	}
	defer zr.Close()

	var products []product.Product
	if err := json.NewDecoder(zr).Decode(&products); err != nil {
		return errors.Wrap(err, "decode snapshot")
	}

	kv, err := cache.OpenFile(cachePath)
	if err != nil {
		return errors.Wrap(err, "open cache")
	}
	if err := catalog.Seed(kv, products); err != nil {
		return errors.Wrap(err, "seed cache")
	}

	slog.Info("cache seeded",
		slog.String("cache", cachePath),
		slog.Int("products", len(products)))
	return nil
}
