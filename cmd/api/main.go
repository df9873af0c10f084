package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/safar/go-storefront/internal/catalog"
	"github.com/safar/go-storefront/internal/checkout"
	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/httpapi"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/publisher"
	"github.com/safar/go-storefront/internal/session"
	"github.com/safar/go-storefront/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		logger.Fatalf("Connect to database: %v", err)
	}
	if db != nil {
		defer db.Close()
		logger.Printf("Connected to database successfully")
	}

	products, err := loadCatalog(ctx, cfg, db)
	if err != nil {
		logger.Fatalf("Load catalog: %v", err)
	}
	logger.Printf("Loaded %d product(s) from %s catalog", len(products), cfg.Catalog.Source)

	// Postgres is the record of placed orders when enabled. The run-local
	// memory log and the broker only see orders the record accepted.
	memory := checkout.NewMemorySink()
	sinks := &checkout.Fanout{Primary: memory, Logger: logger}

	var orders httpapi.OrderHistory
	if db != nil {
		orderStore := store.NewOrderSink(db)
		sinks.Primary = orderStore
		sinks.Followers = append(sinks.Followers, memory)
		orders = orderStore
	}

	if cfg.Messaging.URL != "" {
		conn, pub := connectPublisher(cfg, logger)
		defer conn.Close()
		defer pub.Close()
		sinks.Followers = append(sinks.Followers, pub)
	}

	sessions := session.NewManager(session.Options{
		Processor:       checkout.NewSimulatedProcessor(cfg.Checkout.ProcessingDelay),
		Sink:            sinks,
		Logger:          logger,
		IdleTimeout:     cfg.Session.IdleTimeout,
		NotificationCap: cfg.Session.NotificationCap,
	})
	go reapSessions(ctx, sessions, cfg.Session.ReapInterval)

	h := httpapi.NewHandler(catalog.New(products), sessions, orders, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           httpapi.NewRouter(h),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("Server starting on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("Shutdown signal received")
	case err := <-errCh:
		logger.Printf("Server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Server shutdown: %v", err)
	}
	logger.Printf("Shutdown complete, %d order(s) placed this run", len(memory.Orders()))
}

func loadCatalog(ctx context.Context, cfg *config.Config, db *sql.DB) ([]models.Product, error) {
	if cfg.Catalog.Source == config.CatalogSourcePostgres {
		return store.LoadCatalog(ctx, db)
	}
	return catalog.Builtin(), nil
}

func connectPublisher(cfg *config.Config, logger *log.Logger) (*amqp.Connection, *publisher.Publisher) {
	conn, err := publisher.Dial(cfg.Messaging.URL)
	if err != nil {
		logger.Fatalf("Connect to RabbitMQ: %v", err)
	}

	pub, err := publisher.New(conn, cfg.Messaging.Exchange)
	if err != nil {
		conn.Close()
		logger.Fatalf("Create order publisher: %v", err)
	}

	logger.Printf("Publishing placed orders to exchange %s", cfg.Messaging.Exchange)
	return conn, pub
}

func reapSessions(ctx context.Context, sessions *session.Manager, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sessions.Reap(now)
		}
	}
}
