// Hive Worker — хостит один экземпляр сервиса.
//
// Запускается оркестратором:
//   - SERVICE_DATA — дескриптор сервиса (JSON)
//   - fd 3/4 — управляющий канал (HIVE_CONTROL_FDS)
//
// По SIGINT/SIGTERM останавливает сервис и завершается с кодом 0.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Hive/internal/config"
	"github.com/shaiso/Hive/internal/ipc"
	"github.com/shaiso/Hive/internal/mq"
	"github.com/shaiso/Hive/internal/services"
	"github.com/shaiso/Hive/internal/telemetry"
	"github.com/shaiso/Hive/internal/worker"
)

func main() {
	_ = config.LoadDotEnv(".env")

	// Инициализируем structured logging
	logger := telemetry.SetupLogger()

	env, err := config.LoadEnvironment()
	if err != nil {
		logger.Error("failed to parse environment", "error", err)
		os.Exit(1)
	}

	desc, err := env.Descriptor()
	if err != nil {
		logger.Error("invalid service descriptor", "error", err)
		os.Exit(1)
	}

	logger = telemetry.WithInstance(logger, desc.Name, desc.Service)
	logger.Info("starting hive-worker", "pid", os.Getpid())

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ch, err := ipc.FromEnv(os.Getenv, logger)
	if err != nil {
		logger.Error("failed to open control channel", "error", err)
		os.Exit(1)
	}

	w, err := worker.New(worker.Config{
		Descriptor: desc,
		Registry:   services.DefaultRegistry(),
		Transport:  mq.NewTransport(env.RabbitMQ, logger),
		Channel:    ch,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	// /metrics только по запросу: у каждого воркера свой порт
	if v := os.Getenv("WORKER_METRICS_PORT"); v != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", promhttp.Handler())

		srv := &http.Server{Addr: ":" + v, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		defer srv.Close()

		go func() {
			logger.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	if err := w.Serve(ctx); err != nil {
		logger.Error("worker failed", "error", err)
		_ = w.Stop(context.Background())
		os.Exit(1)
	}

	logger.Info("received signal, stopping service")

	if err := w.Stop(context.Background()); err != nil {
		logger.Error("failed to stop service", "error", err)
		os.Exit(1)
	}

	logger.Info("service stopped successfully")
}
