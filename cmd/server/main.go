package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"chainsight/internal/audit"
	companyhandler "chainsight/internal/company/handler"
	companyservice "chainsight/internal/company/service"
	companystore "chainsight/internal/company/store"
	"chainsight/internal/decision/engine"
	decisionhandler "chainsight/internal/decision/handler"
	"chainsight/internal/decision/metrics"
	decisionservice "chainsight/internal/decision/service"
	decisionstore "chainsight/internal/decision/store"
	"chainsight/internal/decision/watch"
	notifhandler "chainsight/internal/notification/handler"
	notifservice "chainsight/internal/notification/service"
	notifstore "chainsight/internal/notification/store"
	"chainsight/internal/platform/config"
	"chainsight/internal/platform/httpserver"
	"chainsight/internal/platform/logger"
	"chainsight/internal/platform/middleware"
	platformredis "chainsight/internal/platform/redis"
)

// main wires stores, services, and background workers, then runs the HTTP
// server until interrupted. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Decision store: Postgres when a DSN is configured, memory otherwise.
	var decisions decisionservice.DecisionStore
	var db *sql.DB
	if cfg.PostgresDSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		if err := db.PingContext(ctx); err != nil {
			log.Error("postgres unreachable", "error", err)
			os.Exit(1)
		}
		if _, err := db.ExecContext(ctx, decisionstore.Schema); err != nil {
			log.Error("failed to apply schema", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		decisions = decisionstore.NewPostgres(db)
		log.Info("using postgres decision store")
	} else {
		decisions = decisionstore.NewInMemoryStore()
		log.Info("using in-memory decision store")
	}

	// Notification preferences: Redis when configured, memory otherwise.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	var prefs notifstore.Store = notifstore.NewInMemoryStore()
	if redisClient != nil {
		prefs = notifstore.NewRedisStore(redisClient.Client)
		defer redisClient.Close()
		log.Info("using redis preference store")
	}

	// Audit pipeline: events flow through a channel into the append-only store.
	auditStore := audit.NewInMemoryStore()
	inbox := make(chan audit.Event, 256)
	publisher := audit.NewPublisher(audit.NewChannelSink(inbox, auditStore))
	worker := audit.NewWorker(auditStore, inbox)

	m := metrics.New()

	// The watcher polls the service, and the service subscribes ingested
	// decisions with the watcher. SourceFunc breaks the construction cycle.
	var decisionSvc *decisionservice.Service
	watcher := watch.New(watch.SourceFunc(
		func(ctx context.Context, id uuid.UUID, now time.Time) (*engine.TimelineState, error) {
			return decisionSvc.TimelineState(ctx, id, now)
		}), watch.WithLogger(log))

	svcOpts := []decisionservice.Option{
		decisionservice.WithLogger(log),
		decisionservice.WithAuditPublisher(publisher),
		decisionservice.WithMetrics(m),
		decisionservice.WithDeadlineSubscriber(watcher),
	}
	if redisClient != nil && cfg.ViewCacheTTL > 0 {
		svcOpts = append(svcOpts,
			decisionservice.WithViewCache(
				decisionservice.NewRedisViewCache(redisClient.Client), cfg.ViewCacheTTL))
	}
	decisionSvc = decisionservice.New(decisions, svcOpts...)

	notifSvc := notifservice.New(prefs,
		notifservice.WithLogger(log),
		notifservice.WithAuditPublisher(publisher))

	companySvc := companyservice.New(companystore.NewInMemoryStore(),
		companyservice.WithLogger(log),
		companyservice.WithAuditPublisher(publisher),
		companyservice.WithPreferenceStore(prefs))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)

	decisionHandler := decisionhandler.New(decisionSvc, log)
	decisionHandler.Register(router)
	notifhandler.New(notifSvc, log).Register(router)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(cfg.AdminToken, log))
		decisionHandler.RegisterAdmin(r)
		companyhandler.New(companySvc, log).Register(r)
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		// Counting exercises the store end to end, not just the connection.
		count, err := decisionSvc.Count(r.Context())
		if err != nil {
			http.Error(w, "decision store unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "decisions": count})
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		if err := watcher.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case tr := <-watcher.Transitions():
				log.Info("timeline state changed",
					"decision_id", tr.DecisionID, "from", tr.From, "to", tr.To)
			}
		}
	})
	group.Go(func() error {
		log.Info("starting chainsight", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
