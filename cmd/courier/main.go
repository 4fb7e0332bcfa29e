package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ariefcatur/go-food-orders/internal/config"
	"github.com/ariefcatur/go-food-orders/internal/courier"
	kafkax "github.com/ariefcatur/go-food-orders/internal/kafka"
	"github.com/ariefcatur/go-food-orders/internal/orders"
	"github.com/ariefcatur/go-food-orders/internal/redisx"
	"github.com/joho/godotenv"
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// atoiOr parses a positive count, falling back to def.
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		slog.Warn("invalid count, using default", "value", s, "default", def)
		return def
	}
	return i
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", cfg.ServiceName+"-courier")
	slog.SetDefault(log)

	if !cfg.EventsEnabled() {
		log.Error("KAFKA_BROKERS is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024, log)
	prod.Start(ctx)

	svc := &courier.Service{
		Publisher:   kafkax.EventPublisher{P: prod},
		Dedup:       redisx.NewDedup(rdb, "courier"),
		Step:        cfg.CourierStep,
		ServiceName: cfg.ServiceName + "-courier",
		Log:         log,
	}

	group := getenv("COURIER_GROUP", "courier-svc")
	workers := atoiOr(os.Getenv("COURIER_WORKERS"), 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderPlaced, workers, log)

	go func() {
		log.Info("courier consumer started", "group", group, "topic", orders.TopicOrderPlaced, "workers", workers, "step", cfg.CourierStep)
		if err := cons.Start(ctx, kafkax.EnvelopeHandler(log, svc.HandleOrderPlaced)); err != nil {
			log.Error("consumer exit", "error", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down courier")
	cancel()
	svc.Wait()
	prod.WaitClosed()
}
