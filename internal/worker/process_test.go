package worker

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/shaiso/Hive/internal/config"
	"github.com/shaiso/Hive/internal/domain"
	"github.com/shaiso/Hive/internal/ipc"
	"github.com/shaiso/Hive/internal/orchestrator"
	"github.com/shaiso/Hive/internal/services"
	"github.com/shaiso/Hive/internal/telemetry"
)

// envHelperProcess переключает тестовый бинарник в режим воркера.
const envHelperProcess = "HIVE_TEST_WORKER_PROCESS"

func TestMain(m *testing.M) {
	if os.Getenv(envHelperProcess) == "1" {
		os.Exit(runHelperWorker())
	}
	os.Exit(m.Run())
}

// runHelperWorker повторяет bootstrap hive-worker, но с транспортом в памяти.
func runHelperWorker() int {
	logger := telemetry.Discard()

	env, err := config.LoadEnvironment()
	if err != nil {
		return 1
	}
	desc, err := env.Descriptor()
	if err != nil {
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, stop := context.WithTimeout(ctx, 30*time.Second)
	defer stop()

	ch, err := ipc.FromEnv(os.Getenv, logger)
	if err != nil {
		return 1
	}

	w, err := New(Config{
		Descriptor: desc,
		Registry:   services.DefaultRegistry(),
		Transport:  newMemoryTransport(),
		Channel:    ch,
		Logger:     logger,
	})
	if err != nil {
		return 1
	}

	if err := w.Serve(ctx); err != nil {
		_ = w.Stop(context.Background())
		return 1
	}
	if err := w.Stop(context.Background()); err != nil {
		return 1
	}
	return 0
}

func TestProcessSpawner_StartsWorkerProcesses(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns processes")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	spawner := orchestrator.NewProcessSpawner(os.Args[0], telemetry.Discard())
	spawner.Env = []string{envHelperProcess + "=1"}

	o := orchestrator.New(orchestrator.Config{Spawner: spawner, Logger: telemetry.Discard()})

	result := o.StartAll(ctx, []domain.ServiceDescriptor{
		{Service: "echo", Name: "echo-1"},
		{Service: "nonexistent", Name: "bad-1"},
	})

	t.Cleanup(func() {
		for _, st := range o.Tracker().List() {
			if st.PID == 0 {
				continue
			}
			if p, err := os.FindProcess(st.PID); err == nil {
				_ = p.Signal(syscall.SIGTERM)
			}
		}
	})

	if len(result.Started) != 1 || result.Started[0] != "echo-1" {
		t.Fatalf("expected echo-1 to start, got %+v", result)
	}
	if len(result.Failed) != 1 || result.Failed[0].Name != "bad-1" {
		t.Fatalf("expected bad-1 to fail, got %+v", result.Failed)
	}
	if result.Failed[0].IsSpawnFailure() {
		t.Errorf("bad-1 should fail after spawn, got %v", result.Failed[0].Err)
	}

	st, ok := o.Tracker().Get("echo-1")
	if !ok {
		t.Fatal("echo-1 should be tracked")
	}
	if st.State != domain.StateRunning {
		t.Errorf("expected running, got %s", st.State)
	}
	if st.PID == 0 || st.PID == os.Getpid() {
		t.Errorf("expected child pid, got %d", st.PID)
	}
}
