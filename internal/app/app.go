// Package app wires the storefront services together and dispatches CLI
// commands. It is the single construction point: every collaborator is
// built once here and passed by reference, never reached through a shared
// global.
package app

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	sdkapp "github.com/go-faster/sdk/app"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/auth"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/cache"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/catalog"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/cart"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/checkout"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/rest"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/whatsapp"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/pkg/httpclient"
)

// Services holds the constructed object graph of the storefront client.
type Services struct {
	KV        cache.Store
	Client    *rest.Client
	Session   *auth.Session
	Catalog   *catalog.Mirror
	Cart      *cart.Store
	Messenger *whatsapp.Messenger
	Checkout  *checkout.Service
}

// Build constructs all services from cfg.
func Build(lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config) (*Services, error) {
	kv, err := cache.OpenFile(cfg.CachePath)
	if err != nil {
		return nil, errors.Wrap(err, "open local cache")
	}

	session := auth.NewSession(kv)

	transport := httpclient.Wrap(
		otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
		httpclient.RequestID(),
		httpclient.LogRequests(lg.Named("http")),
	)

	client := rest.NewClient(rest.Options{
		BaseURL:         cfg.BaseURL,
		Tokens:          session,
		Transport:       transport,
		Timeout:         cfg.HTTPTimeout,
		BreakerFailures: cfg.Breaker.Failures,
		BreakerTimeout:  cfg.Breaker.Timeout,
	})

	mirror := catalog.NewMirror(client.Products(), kv, lg.Named("catalog"))
	cartStore := cart.NewStore(mirror, kv, lg.Named("cart"))
	messenger := whatsapp.New(cfg.WhatsAppPhone)
	checkoutSvc := checkout.NewService(cartStore, client.Orders(), mirror, messenger, lg.Named("checkout"))

	return &Services{
		KV:        kv,
		Client:    client,
		Session:   session,
		Catalog:   mirror,
		Cart:      cartStore,
		Messenger: messenger,
		Checkout:  checkoutSvc,
	}, nil
}

// Run builds the services and executes one CLI command.
func Run(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config, args []string) error {
	services, err := Build(lg, m, cfg)
	if err != nil {
		return err
	}
	return dispatch(ctx, services, args)
}
