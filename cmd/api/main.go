package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/authapi"
	"github.com/ariefcatur/go-food-orders/internal/catalog"
	"github.com/ariefcatur/go-food-orders/internal/config"
	"github.com/ariefcatur/go-food-orders/internal/httpx"
	kafkax "github.com/ariefcatur/go-food-orders/internal/kafka"
	"github.com/ariefcatur/go-food-orders/internal/mongox"
	"github.com/ariefcatur/go-food-orders/internal/orders"
	"github.com/ariefcatur/go-food-orders/internal/postgres"
	"github.com/ariefcatur/go-food-orders/internal/redisx"
	"github.com/ariefcatur/go-food-orders/internal/shop"
	"github.com/ariefcatur/go-food-orders/internal/store"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", cfg.ServiceName)
	slog.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	open, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	deps := shop.Deps{
		Auth:     authapi.New(authapi.Config{BaseURL: cfg.AuthAPIURL, Timeout: cfg.AuthTimeout, Logger: log}),
		DemoMode: cfg.DemoMode,
		Fees:     orders.Fees{Delivery: cfg.DeliveryFee, Service: cfg.ServiceFee},
		Service:  cfg.ServiceName,
		Logger:   log,
	}

	// Kafka is optional; without brokers no events flow.
	var prod *kafkax.Producer
	if cfg.EventsEnabled() {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, 1024, log)
		prod.Start(ctx)
		deps.Publisher = kafkax.EventPublisher{P: prod}
	}
	reg := shop.NewRegistry(open, deps)

	if cfg.EventsEnabled() {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ServiceName+"-status", orders.TopicOrderStatus, 1, log)
		go func() {
			log.Info("status consumer started", "topic", orders.TopicOrderStatus)
			if err := cons.Start(ctx, kafkax.EnvelopeHandler(log, reg.HandleStatusEvent)); err != nil {
				log.Error("status consumer exit", "error", err)
			}
		}()
	}

	router := httpx.NewRouter()
	httpx.Mount(router, catalog.New(), reg, log)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, cfg.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("HTTP listening", "addr", cfg.HTTPAddr, "backend", cfg.StoreBackend, "demo_mode", cfg.DemoMode, "events", cfg.EventsEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	cancel() // stops the consumer and the producer loop
	if prod != nil {
		prod.WaitClosed()
	}
}

// openStore returns the slot opener of the configured backend and its closer.
func openStore(ctx context.Context, cfg config.Config) (store.Opener, func(), error) {
	switch cfg.StoreBackend {
	case "memory":
		return store.MemoryOpener(), func() {}, nil
	case "redis":
		rdb := redisx.New(cfg.RedisAddr)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return redisx.Opener(rdb), func() { _ = rdb.Close() }, nil
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.Opener(db), db.Close, nil
	case "mongo":
		db, err := mongox.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		if err := mongox.EnsureIndexes(ctx, db); err != nil {
			_ = db.Client().Disconnect(context.Background())
			return nil, nil, err
		}
		return mongox.Opener(db), func() { _ = db.Client().Disconnect(context.Background()) }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
