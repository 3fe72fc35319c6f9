// Hive Orchestrator — запускает воркеры сервисов.
//
// Orchestrator:
//   - Читает дескрипторы сервисов из config/<APP_ENV>.json
//   - Запускает процесс hive-worker для каждого экземпляра
//   - Проводит каждый воркер через handshake ready → init → run
//   - Отдаёт состояние воркеров через status API
//
// Воркеры не перезапускаются. По сигналу оркестратор завершается,
// воркеры получают тот же сигнал сами.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/shaiso/Hive/internal/api"
	"github.com/shaiso/Hive/internal/config"
	"github.com/shaiso/Hive/internal/orchestrator"
	"github.com/shaiso/Hive/internal/repo"
	"github.com/shaiso/Hive/internal/telemetry"
)

func main() {
	start := time.Now()

	dotEnvErr := config.LoadDotEnv(".env")

	// Инициализируем structured logging
	logger := telemetry.WithProcess(telemetry.SetupLogger(), "main")
	logger.Info("starting hive-orchestrator")

	if dotEnvErr != nil {
		logger.Warn("failed to load .env", "error", dotEnvErr)
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env, err := config.LoadEnvironment()
	if err != nil {
		logger.Error("failed to parse environment", "error", err)
		os.Exit(1)
	}

	file := env.ConfigFile()
	descs, err := config.LoadServices(file)
	if err != nil {
		logger.Error("failed to load service configuration", "file", file, "error", err)
		os.Exit(1)
	}

	descs, missing := config.FilterServices(descs, env.Services)
	if len(missing) > 0 {
		logger.Warn("services not found in configuration", "names", missing)
	}
	if len(descs) == 0 {
		logger.Warn("no services to start", "file", file, "filter", env.Services)
	}

	// Журнал запусков (опционально)
	var journal orchestrator.Journal
	if dsn := os.Getenv("DB_URL"); dsn != "" {
		pool, err := repo.NewPool(ctx, dsn)
		if err != nil {
			logger.Warn("startup journal disabled", "error", err)
		} else {
			defer pool.Close()

			startups := repo.NewStartupRepo(pool)
			if err := startups.EnsureSchema(ctx); err != nil {
				logger.Warn("startup journal disabled", "error", err)
			} else {
				journal = startups
				logger.Info("startup journal enabled")
			}
		}
	}

	binary, err := workerBinary(logger)
	if err != nil {
		logger.Error("failed to locate worker binary", "error", err)
		os.Exit(1)
	}

	orch := orchestrator.New(orchestrator.Config{
		Spawner: orchestrator.NewProcessSpawner(binary, logger),
		Journal: journal,
		Logger:  logger,
	})

	// HTTP mux: /healthz, /metrics, /api/v1
	mux := http.NewServeMux()
	api.RegisterProbes(mux)
	api.NewHandler(api.Config{Workers: orch.Tracker(), Logger: logger}).RegisterRoutes(mux)

	port := ":8090"
	if v := os.Getenv("ORCH_PORT"); v != "" {
		port = ":" + v
	}

	srv := &http.Server{
		Addr:              port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	result := orch.StartAll(ctx, descs)
	for _, f := range result.Failed {
		logger.Warn("worker not started", "instance", f.Name, "error", f.Err)
	}

	logger.Info("initialization completed",
		"duration", time.Since(start),
		"started", len(result.Started),
		"failed", len(result.Failed),
	)

	// Ожидаем сигнал завершения
	<-ctx.Done()
	logger.Info("received signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown", "error", err)
	}

	logger.Info("hive-orchestrator stopped")
}

// workerBinary возвращает путь к hive-worker: WORKER_BINARY или
// файл рядом с бинарником оркестратора.
func workerBinary(logger *slog.Logger) (string, error) {
	if v := os.Getenv("WORKER_BINARY"); v != "" {
		return v, nil
	}

	self, err := os.Executable()
	if err != nil {
		return "", err
	}

	return siblingWorker(filepath.Dir(self), logger)
}

// siblingWorker возвращает путь к hive-worker в каталоге dir.
func siblingWorker(dir string, logger *slog.Logger) (string, error) {
	binary := filepath.Join(dir, "hive-worker")
	if _, err := os.Stat(binary); err != nil {
		return "", err
	}

	logger.Debug("worker binary resolved", "path", binary)
	return binary, nil
}
