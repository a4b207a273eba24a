package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/venuegate/storefront/internal/config"
	"github.com/venuegate/storefront/internal/fulfillment"
	kafkax "github.com/venuegate/storefront/internal/kafka"
	"github.com/venuegate/storefront/internal/orders"
	"github.com/venuegate/storefront/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &fulfillment.Service{
		Redis:       rdb,
		ServiceName: "fulfillment",
	}

	consumer := kafkax.NewConsumer(cfg.KafkaBrokers, "fulfillment", orders.TopicOrderPlaced, 4)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("shutting down...")
		cancel()
	}()

	log.Printf("consuming %s", orders.TopicOrderPlaced)
	if err := consumer.Start(ctx, svc.HandleOrderPlaced); err != nil {
		log.Fatalf("consumer: %v", err)
	}
}
