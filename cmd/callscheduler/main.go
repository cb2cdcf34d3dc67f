package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/LeventeLantos/call-scheduler/internal/api"
	"github.com/LeventeLantos/call-scheduler/internal/cache"
	"github.com/LeventeLantos/call-scheduler/internal/client"
	"github.com/LeventeLantos/call-scheduler/internal/config"
	"github.com/LeventeLantos/call-scheduler/internal/repo"
	"github.com/LeventeLantos/call-scheduler/internal/scheduler"
	"github.com/LeventeLantos/call-scheduler/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadAll()
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("call-scheduler starting (addr=%s, interval=%s, batch=%d, redis=%v)",
		cfg.Server.Address,
		cfg.Scheduler.Interval,
		cfg.Scheduler.BatchSize,
		cfg.Redis.Enabled,
	)

	db, err := sql.Open("pgx", cfg.Database.PostgresURL)
	if err != nil {
		log.Fatalf("failed to open postgres: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("failed to ping postgres: %v", err)
	}

	callRepo := repo.NewPostgresCallRepo(db)
	apiClient := client.NewCallAPIClient(cfg.CallAPI.URL, cfg.CallAPI.Timeout)

	var statusCache cache.StatusCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		statusCache = cache.NewRedisCache(rdb, cfg.Redis.TTL)
	}

	dispatcher := service.NewDispatcher(callRepo, apiClient, cfg.Scheduler.BatchSize, cfg.Scheduler.Concurrency)
	callSvc := service.NewCallService(callRepo)
	historySvc := service.NewHistoryService(callRepo, apiClient, cfg.Scheduler.Concurrency)
	if statusCache != nil {
		dispatcher.WithCache(statusCache)
		historySvc.WithCache(statusCache)
	}

	sched, err := scheduler.New(cfg.Scheduler.Interval, func(ctx context.Context) {
		executed, failed, err := dispatcher.DispatchDue(ctx, time.Now().UTC())
		if err != nil {
			slog.Error("scheduling pass failed", "error", err)
			return
		}
		if executed > 0 || failed > 0 {
			slog.Info("scheduling pass done", "executed", executed, "failed", failed)
		}
	})
	if err != nil {
		log.Fatalf("failed to create scheduler: %v", err)
	}

	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: api.Router(api.NewHandler(sched, callSvc, historySvc)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("http server listening", "addr", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}
}
