package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"github.com/venuegate/storefront/internal/catalog"
	"github.com/venuegate/storefront/internal/config"
	"github.com/venuegate/storefront/internal/httpx"
	kafkax "github.com/venuegate/storefront/internal/kafka"
	"github.com/venuegate/storefront/internal/orders"
	"github.com/venuegate/storefront/internal/postgres"
	"github.com/venuegate/storefront/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024)
	prod.Start(ctx)

	// Firebase (auth + realtime database)
	var opts []option.ClientOption
	if cfg.GoogleCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
	}
	fbApp, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: cfg.FirebaseDatabaseURL}, opts...)
	if err != nil {
		log.Fatalf("firebase app: %v", err)
	}
	fbAuth, err := fbApp.Auth(ctx)
	if err != nil {
		log.Fatalf("firebase auth: %v", err)
	}
	fbDB, err := fbApp.Database(ctx)
	if err != nil {
		log.Fatalf("firebase database: %v", err)
	}

	// Stores & handlers
	orderStore := &orders.Store{DB: db}
	cachedCatalog := &catalog.Cached{Store: &catalog.Store{DB: db}, Redis: rdb}

	router := httpx.NewRouter()
	(&httpx.AuthHandler{Auth: fbAuth, DB: fbDB}).Register(router)
	(&httpx.ProfileHandler{Auth: fbAuth, DB: fbDB}).Register(router)
	(&httpx.CatalogHandler{Catalog: cachedCatalog}).Register(router)
	(&httpx.OrdersHandler{
		Store:   orderStore,
		Redis:   rdb,
		Events:  prod,
		Service: cfg.ServiceName,
	}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // stop intake, flush buffered events
	cancel()
	prod.WaitClosed()
}
