package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	casemetrics "caseflow/internal/casefile/metrics"
	"caseflow/internal/casefile/service"
	"caseflow/internal/eventstore"
	"caseflow/internal/eventstore/postgres"
	"caseflow/internal/eventstore/relay"
	"caseflow/internal/eventstore/snapshot"
	"caseflow/internal/platform/config"
	"caseflow/internal/platform/httpserver"
	"caseflow/internal/platform/kafka/producer"
	"caseflow/internal/platform/logger"
	httpmetrics "caseflow/internal/platform/metrics"
	"caseflow/internal/platform/redis"
	"caseflow/internal/refdata"
	refdatametrics "caseflow/internal/refdata/metrics"
	httptransport "caseflow/internal/transport/http"
	"caseflow/internal/validation"
)

// main wires dependencies and keeps the process lifecycle small. Business
// rules live under internal/casefile; everything here is plumbing.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]httptransport.HealthCheck{}

	// Event store. Postgres doubles as the outbox; the in-memory store
	// keeps local development working without a database.
	var (
		store  eventstore.Store
		outbox eventstore.Outbox
	)
	if cfg.DB.URL != "" {
		db, err := sql.Open("postgres", cfg.DB.URL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
		db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
		if err := db.PingContext(ctx); err != nil {
			log.Error("ping database", "error", err)
			os.Exit(1)
		}
		if _, err := db.ExecContext(ctx, postgres.Schema); err != nil {
			log.Error("apply event store schema", "error", err)
			os.Exit(1)
		}
		pg := postgres.New(db)
		store, outbox = pg, pg
		checks["postgres"] = db.PingContext
	} else {
		log.Warn("DATABASE_URL not set, using in-memory event store")
		mem := eventstore.NewMemoryStore()
		store, outbox = mem, mem
	}

	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
		checks["redis"] = rdb.Health
	}

	var gateway refdata.Gateway = refdata.NewClient(cfg.Refdata.BaseURL, refdata.WithLogger(log))
	if rdb != nil {
		gateway = refdata.NewCachedGateway(gateway, rdb.Client, cfg.Refdata.CacheTTL,
			refdata.WithCacheMetrics(refdatametrics.New()))
	}
	engine := validation.NewEngine(gateway)

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(casemetrics.New()),
		service.WithPendingMaterialTimeout(cfg.PendingMaterialTimeout),
	}
	if rdb != nil {
		opts = append(opts, service.WithSnapshots(snapshot.NewRedisStore(rdb.Client, cfg.SnapshotTTL)))
	}
	svc := service.New(store, gateway, engine, opts...)

	// Outbox relay. Without brokers events stay queued in the store until a
	// relay picks them up.
	var rel *relay.Relay
	if cfg.Kafka.Brokers != "" {
		pub, err := producer.New(producer.Config{
			Brokers: cfg.Kafka.Brokers,
			Acks:    cfg.Kafka.Acks,
			Retries: cfg.Kafka.Retries,
		}, log)
		if err != nil {
			log.Error("create kafka producer", "error", err)
			os.Exit(1)
		}
		defer pub.Close()
		rel = relay.New(outbox, pub,
			relay.WithTopic(cfg.Kafka.Topic),
			relay.WithLogger(log),
		)
		rel.Start()
	} else {
		log.Warn("KAFKA_BROKERS not set, event relay disabled")
	}

	handler := httptransport.NewHandler(svc, log)
	router := httptransport.NewRouter(handler, log, httpmetrics.New(), checks)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting caseflow", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		if rel != nil {
			rel.Stop()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("caseflow stopped")
}
