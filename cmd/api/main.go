package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"attendancedesk/internal/api"
	"attendancedesk/internal/attendance"
	"attendancedesk/internal/auth"
	"attendancedesk/internal/config"
	"attendancedesk/internal/httpmiddleware"
	"attendancedesk/internal/logger"
	"attendancedesk/internal/metrics"
	"attendancedesk/internal/queue"
	"attendancedesk/internal/store"
	"attendancedesk/internal/worker"
)

func main() {
	cfg := config.MustLoad()
	logger.Configure(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogFormat != "json"})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}
}

func runHTTP(cfg config.App) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	health := map[string]api.HealthCheck{"store": backend.Healthy}

	var redisClient *store.Redis
	if cfg.QueueBackend == "redis" || cfg.RateLimitBackend == "redis" {
		redisClient = store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
		health["redis"] = redisClient.Healthy
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := attendance.NewService(backend.Store, auth.NewRoleGate(cfg.StaffRoles...), attendance.Options{
		LateGrace: cfg.LateGrace,
		Metrics:   metrics.NewProcedures(reg),
	})

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		mem := queue.NewInMemory(64)
		q = mem
		// no separate worker process can reach an in-memory queue
		go func() {
			if err := worker.New(mem, svc, cfg.StaffRoles[0]).Run(ctx); err != nil {
				logger.Error().Err(err).Msg("in-process worker stopped")
			}
		}()
	} else {
		q = queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	}

	var limiter httpmiddleware.Limiter
	if cfg.RateLimitBackend == "redis" {
		limiter = httpmiddleware.NewRedisWindow(redisClient.Client, "", cfg.RateLimitPerMin)
	} else {
		limiter = httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	}

	r := api.NewRouter(api.Deps{
		Service:     svc,
		Queue:       q,
		Limiter:     limiter,
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Health:      health,
		SigningKey:  cfg.JWTSigningKey,
		Issuer:      cfg.JWTIssuer,
		CORSOrigins: cfg.CORSOrigins,
		Location:    cfg.Location(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Str("driver", cfg.StoreDriver).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info().Msg("shutting down server")

	// outstanding requests get 10 seconds
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("server forced shutdown")
	}

	logger.Info().Msg("server exited")
	return nil
}
