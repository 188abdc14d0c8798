// Command server runs the lifeline API: donor eligibility, emergency
// matching, responder lookup and inventory estimates over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	donorhandler "lifeline/internal/donor/handler"
	donormetrics "lifeline/internal/donor/metrics"
	"lifeline/internal/donor/ports"
	donorservice "lifeline/internal/donor/service"
	donormemory "lifeline/internal/donor/store/memory"
	donorpostgres "lifeline/internal/donor/store/postgres"
	emergencyhandler "lifeline/internal/emergency/handler"
	emergencymetrics "lifeline/internal/emergency/metrics"
	emergencyservice "lifeline/internal/emergency/service"
	inventoryhandler "lifeline/internal/inventory/handler"
	inventorymetrics "lifeline/internal/inventory/metrics"
	inventoryports "lifeline/internal/inventory/ports"
	inventoryservice "lifeline/internal/inventory/service"
	inventorymemory "lifeline/internal/inventory/store/memory"
	inventorypostgres "lifeline/internal/inventory/store/postgres"
	inventoryredis "lifeline/internal/inventory/store/redis"
	"lifeline/internal/platform/config"
	"lifeline/internal/platform/events"
	"lifeline/internal/platform/httpserver"
	"lifeline/internal/platform/logger"
	"lifeline/internal/platform/postgres"
	platformredis "lifeline/internal/platform/redis"
	responderhandler "lifeline/internal/responder/handler"
	responderports "lifeline/internal/responder/ports"
	responderservice "lifeline/internal/responder/service"
	respondermemory "lifeline/internal/responder/store/memory"
	responderpostgres "lifeline/internal/responder/store/postgres"
	httptransport "lifeline/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	health := map[string]httptransport.HealthChecker{}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres open failed", "error", err)
		os.Exit(1)
	}

	var (
		donorStore     ports.DonorStore
		responderStore responderports.ResponderStore
		requestStore   inventoryports.RequestStore
	)
	if db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			cancel()
			log.Error("schema apply failed", "error", err)
			os.Exit(1)
		}
		cancel()
		defer db.Close()

		donorStore = donorpostgres.New(db)
		responderStore = responderpostgres.New(db)
		requestStore = inventorypostgres.New(db)
		health["postgres"] = func(r *http.Request) error { return db.PingContext(r.Context()) }
		log.Info("postgres connected")
	} else {
		donorStore = donormemory.New()
		responderStore = respondermemory.New()
		requestStore = inventorymemory.New()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		health["redis"] = func(r *http.Request) error { return redisClient.Health(r.Context()) }
		log.Info("redis connected")
	}

	var publisher events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := events.NewKafkaPublisher(cfg.Kafka, log)
		if err != nil {
			log.Error("kafka connect failed", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		publisher = kafka
		log.Info("kafka events enabled", "topic", cfg.Kafka.Topic)
	}

	donorMetrics := donormetrics.New()
	donorSvc, err := donorservice.New(donorStore,
		donorservice.WithLogger(log),
		donorservice.WithPublisher(publisher),
		donorservice.WithMetrics(donorMetrics),
	)
	if err != nil {
		log.Error("donor service init failed", "error", err)
		os.Exit(1)
	}

	matcher, err := emergencyservice.New(donorStore,
		emergencyservice.WithLogger(log),
		emergencyservice.WithPublisher(publisher),
		emergencyservice.WithMetrics(emergencymetrics.New()),
	)
	if err != nil {
		log.Error("emergency matcher init failed", "error", err)
		os.Exit(1)
	}

	locator, err := responderservice.New(responderStore,
		responderservice.WithLogger(log),
	)
	if err != nil {
		log.Error("responder locator init failed", "error", err)
		os.Exit(1)
	}

	estimatorOpts := []inventoryservice.Option{
		inventoryservice.WithLogger(log),
		inventoryservice.WithPublisher(publisher),
		inventoryservice.WithMetrics(inventorymetrics.New()),
	}
	if redisClient != nil {
		estimatorOpts = append(estimatorOpts,
			inventoryservice.WithCache(inventoryredis.New(redisClient), cfg.InventoryCacheTTL))
	}
	estimator, err := inventoryservice.New(donorStore, requestStore, estimatorOpts...)
	if err != nil {
		log.Error("inventory estimator init failed", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(httptransport.Config{
		Logger: log,
		Handlers: []httptransport.Registrar{
			donorhandler.New(donorSvc, log, donorMetrics),
			emergencyhandler.New(matcher, log),
			responderhandler.New(locator, log),
			inventoryhandler.New(estimator, log),
		},
		Health: health,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
