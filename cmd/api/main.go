package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/otakucart/storefront/internal/config"
	httphandler "github.com/otakucart/storefront/internal/delivery/http"
	"github.com/otakucart/storefront/internal/delivery/kafka"
	"github.com/otakucart/storefront/internal/repository"
	"github.com/otakucart/storefront/internal/storage"
	"github.com/otakucart/storefront/internal/usecase"
)

func main() {
	cfg := config.Load()

	pool, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := repository.RunMigrations(pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	store := repository.New(pool)

	local, err := storage.New(cfg.StorageDir)
	if err != nil {
		log.Fatalf("Failed to open storage dir: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var feed usecase.ChangeFeed = kafka.NoopFeed{}
	var producerClient *kgo.Client
	var consumerClient *kgo.Client

	if cfg.ChangeFeedEnabled == "true" {
		brokers := strings.Split(cfg.KafkaBrokers, ",")

		producerClient, err = kgo.NewClient(
			kgo.SeedBrokers(brokers...),
			kgo.ClientID(cfg.KafkaClientID),
		)
		if err != nil {
			log.Fatalf("Failed to create kafka producer client: %v", err)
		}

		if err := kafka.EnsureTopics(ctx, producerClient, cfg); err != nil {
			log.Printf("Warning: failed to ensure topics: %v", err)
		}

		feed = kafka.NewFeed(producerClient)

		consumerClient, err = kgo.NewClient(
			kgo.SeedBrokers(brokers...),
			kgo.ClientID(cfg.KafkaClientID+"-snapshots"),
			kgo.ConsumerGroup(cfg.KafkaGroupID),
			kgo.ConsumeTopics(kafka.Topics()...),
			kgo.DisableAutoCommit(),
		)
		if err != nil {
			log.Fatalf("Failed to create kafka consumer client: %v", err)
		}
	}

	couponService := usecase.NewCouponService(store, feed)
	catalogService := usecase.NewCatalogService(store, feed)
	settingsService := usecase.NewSettingsService(store, feed)
	cartManager := usecase.NewCartManager(local)
	wishlistManager := usecase.NewWishlistManager(local)
	checkoutService := usecase.NewCheckoutService(store, couponService, local, feed)
	orderService := usecase.NewOrderService(store, feed)
	analyticsService := usecase.NewAnalyticsService(store)

	if consumerClient != nil {
		consumer := kafka.NewConsumer(consumerClient, func(event kafka.ChangeEvent) {
			switch event.Table {
			case usecase.TableCoupons:
				couponService.Invalidate()
			case usecase.TableProducts:
				catalogService.Invalidate()
			case usecase.TableSiteSettings:
				settingsService.Invalidate()
			}
			log.Printf("Change feed: %s on %s", event.Event, event.Table)
		})
		go consumer.Start(ctx)
	}

	handler := httphandler.NewHandler(
		catalogService,
		couponService,
		cartManager,
		wishlistManager,
		checkoutService,
		orderService,
		analyticsService,
		settingsService,
		store,
	)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	handler.Routes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("Starting server on port %s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	if producerClient != nil {
		producerClient.Close()
	}
	if consumerClient != nil {
		consumerClient.Close()
	}

	wg.Wait()
	log.Println("Shutdown complete")
}

func initDB(cfg *config.Config) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}
