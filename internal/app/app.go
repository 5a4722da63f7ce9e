package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	sdkapp "github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/tlatasch/pos-terminal/internal/domain/auth"
	"github.com/tlatasch/pos-terminal/internal/domain/cart"
	"github.com/tlatasch/pos-terminal/internal/domain/sale"
	"github.com/tlatasch/pos-terminal/internal/handler"
	"github.com/tlatasch/pos-terminal/internal/storage/bolt"
	"github.com/tlatasch/pos-terminal/pkg/health"
	"github.com/tlatasch/pos-terminal/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles
// graceful shutdown. It is the single wiring point for the terminal.
func Run(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr), zap.String("data", cfg.DataPath))

	// Embedded store: ledger opens at terminal start, every append is
	// flushed by the enclosing write transaction, no background sync.
	store, err := bolt.Open(cfg.DataPath)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer store.Close()

	catalog := store.Catalog()
	if err := catalog.SeedDefaults(ctx); err != nil {
		return errors.Wrap(err, "seed catalog")
	}

	cashiers := store.Cashiers()
	if err := cashiers.SeedDefault(ctx, auth.Cashier{
		ID:      cfg.Seed.CashierID,
		Name:    cfg.Seed.CashierName,
		PinHash: auth.HashPIN([]byte(cfg.PinPepper), cfg.Seed.CashierPIN),
	}); err != nil {
		return errors.Wrap(err, "seed cashiers")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("store", 5*time.Second, store.Check)
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Domain services.
	ledger := store.Ledger(lg.Named("ledger"))
	saleSvc := sale.NewService(ledger)
	verifier := auth.NewVerifier(cashiers, []byte(cfg.PinPepper))

	// HTTP surface.
	h := handler.New(catalog, cart.New(), saleSvc, ledger, verifier)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(
			otelhttp.NewHandler(mux, "pos-terminal",
				otelhttp.WithTracerProvider(m.TracerProvider()),
				otelhttp.WithMeterProvider(m.MeterProvider()),
			),
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins: cfg.CORS.Origins,
				AllowHeaders: []string{"Content-Type"},
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
