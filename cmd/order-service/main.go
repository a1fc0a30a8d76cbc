package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tablepos/orderflow/internal/automation"
	"tablepos/orderflow/internal/config"
	"tablepos/orderflow/internal/effects"
	"tablepos/orderflow/internal/httpapi"
	"tablepos/orderflow/internal/printing"
	"tablepos/orderflow/internal/store/postgres"
	"tablepos/orderflow/internal/telemetry"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg := config.Load()
	shutdownTelemetry := telemetry.Setup("order-service")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		log.Fatalf("invalid TAX_RATE %q: %v", cfg.TaxRate, err)
	}

	store := postgres.NewStore(pool, postgres.Options{TaxRate: taxRate})
	dispatcher := effects.NewDispatcher(
		printing.NewService(
			printing.NewPrinter(cfg.KitchenPrinter, printing.KindKitchen),
			printing.NewPrinter(cfg.ServicePrinter, printing.KindService),
		),
		automation.New(store),
	)
	handler := httpapi.NewHandler(store, dispatcher, httpapi.Options{
		DefaultPrepMinutes: cfg.DefaultPrepMinutes,
	})
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		IPPerMinute:         cfg.RateLimitPerMinute,
		IPBurst:             cfg.RateLimitBurst,
		RestaurantPerMinute: cfg.RestaurantRateLimitPerMinute,
		RestaurantBurst:     cfg.RestaurantRateLimitBurst,
	})

	chain := httpapi.AuthMiddleware(store, handler.Routes())
	chain = limiter.Middleware(chain)
	chain = httpapi.LoggingMiddleware(chain)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(chain, "order-service"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("order-service listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
