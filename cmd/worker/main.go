package main

import (
	"context"
	"os/signal"
	"syscall"

	"attendancedesk/internal/attendance"
	"attendancedesk/internal/auth"
	"attendancedesk/internal/config"
	"attendancedesk/internal/logger"
	"attendancedesk/internal/queue"
	"attendancedesk/internal/store"
	"attendancedesk/internal/worker"
)

// Worker consumes queued check-ins and stores them as attendance records.
func main() {
	cfg := config.MustLoad()
	logger.Configure(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogFormat != "json"})

	if cfg.QueueBackend != "redis" {
		logger.Fatal().Str("backend", cfg.QueueBackend).Msg("worker needs QUEUE_BACKEND=redis; the api consumes in-memory queues itself")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("store open failed")
	}
	defer backend.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()
	if !redisClient.Healthy(ctx) {
		logger.Warn().Str("addr", cfg.RedisAddr).Msg("redis not reachable yet; consumer will keep retrying")
	}

	svc := attendance.NewService(backend.Store, auth.NewRoleGate(cfg.StaffRoles...), attendance.Options{
		LateGrace: cfg.LateGrace,
	})
	q := queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)

	if err := worker.New(q, svc, cfg.StaffRoles[0]).Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("queue consume init failed")
	}
}
