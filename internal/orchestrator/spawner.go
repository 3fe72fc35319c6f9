package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/shaiso/Hive/internal/config"
	"github.com/shaiso/Hive/internal/domain"
	"github.com/shaiso/Hive/internal/ipc"
)

// Process — созданный воркер: его PID и управляющий канал.
type Process struct {
	PID     int
	Channel ipc.Channel
}

// Spawner создаёт процесс воркера для дескриптора.
type Spawner interface {
	Spawn(ctx context.Context, desc domain.ServiceDescriptor) (*Process, error)
}

// ProcessSpawner запускает бинарник воркера через os/exec.
//
// Дочерний процесс получает окружение оркестратора, дескриптор в
// SERVICE_DATA и две трубы управляющего канала (fd 3 и fd 4).
// Stdout и stderr общие с оркестратором.
type ProcessSpawner struct {
	// Binary — путь к бинарнику воркера.
	Binary string

	// Env — дополнительные переменные окружения (KEY=VALUE).
	Env []string

	// Logger
	Logger *slog.Logger
}

// NewProcessSpawner создаёт ProcessSpawner.
func NewProcessSpawner(binary string, logger *slog.Logger) *ProcessSpawner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessSpawner{Binary: binary, Logger: logger}
}

// Spawn запускает процесс воркера.
//
// Процесс не привязан к ctx: воркеры живут независимо от оркестратора
// и получают сигналы завершения сами.
func (s *ProcessSpawner) Spawn(_ context.Context, desc domain.ServiceDescriptor) (*Process, error) {
	data, err := desc.Encode()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSpawnFailed, desc.Name, err)
	}

	// commands: оркестратор пишет, воркер читает (fd 3)
	cmdR, cmdW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSpawnFailed, desc.Name, err)
	}

	// events: воркер пишет (fd 4), оркестратор читает
	evR, evW, err := os.Pipe()
	if err != nil {
		cmdR.Close()
		cmdW.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrSpawnFailed, desc.Name, err)
	}

	cmd := exec.Command(s.Binary)
	cmd.Env = append(os.Environ(), s.Env...)
	cmd.Env = append(cmd.Env,
		config.EnvServiceData+"="+data,
		ipc.EnvControlFDs+"="+ipc.ChildControlFDs,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{cmdR, evW}

	if err := cmd.Start(); err != nil {
		cmdR.Close()
		cmdW.Close()
		evR.Close()
		evW.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrSpawnFailed, desc.Name, err)
	}

	// Концы дочернего процесса больше не нужны: EOF на evR означает выход воркера
	cmdR.Close()
	evW.Close()

	pid := cmd.Process.Pid
	logger := s.Logger.With("instance", desc.Name, "pid", pid)

	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Warn("worker process exited", "error", err)
			return
		}
		logger.Info("worker process exited")
	}()

	logger.Debug("worker process started", "binary", s.Binary)

	return &Process{
		PID:     pid,
		Channel: ipc.NewPipeChannel(evR, cmdW, logger),
	}, nil
}
