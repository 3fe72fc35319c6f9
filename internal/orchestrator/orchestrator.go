package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/shaiso/Hive/internal/domain"
	"github.com/shaiso/Hive/internal/ipc"
	"github.com/shaiso/Hive/internal/telemetry"
)

// Orchestrator запускает воркеры и отслеживает их handshake.
type Orchestrator struct {
	spawner Spawner
	journal Journal
	tracker *Tracker
	logger  *slog.Logger
}

// Config — конфигурация Orchestrator.
type Config struct {
	// Spawner — создание процессов воркеров.
	Spawner Spawner

	// Journal — журнал запусков (опционально).
	Journal Journal

	// Logger
	Logger *slog.Logger
}

// Failure — неудачный запуск одного воркера.
type Failure struct {
	Name string
	Err  error
}

// Result — итог StartAll.
type Result struct {
	// Started — воркеры, дошедшие до RUNNING, в порядке дескрипторов.
	Started []string

	// Failed — неудачные запуски в порядке дескрипторов.
	Failed []Failure
}

// New создаёт новый Orchestrator.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		spawner: cfg.Spawner,
		journal: cfg.Journal,
		tracker: NewTracker(),
		logger:  logger,
	}
}

// Tracker возвращает состояние воркеров.
func (o *Orchestrator) Tracker() *Tracker {
	return o.tracker
}

// StartAll запускает все воркеры параллельно и ждёт итога каждого.
//
// Никогда не завершается ошибкой целиком: неудачи отдельных
// воркеров собираются в Result.Failed.
func (o *Orchestrator) StartAll(ctx context.Context, descs []domain.ServiceDescriptor) Result {
	errs := make([]error, len(descs))

	var wg sync.WaitGroup
	for i := range descs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = o.Start(ctx, descs[i])
		}(i)
	}
	wg.Wait()

	var result Result
	for i, desc := range descs {
		if errs[i] != nil {
			result.Failed = append(result.Failed, Failure{Name: desc.Name, Err: errs[i]})
			continue
		}
		result.Started = append(result.Started, desc.Name)
	}

	return result
}

// Start запускает один воркер и ведёт его до RUNNING.
//
// Возвращает nil после running от воркера. Ошибка означает неудачный
// запуск: spawn не удался, канал закрылся или ctx отменён.
func (o *Orchestrator) Start(ctx context.Context, desc domain.ServiceDescriptor) (err error) {
	logger := telemetry.WithInstance(o.logger, desc.Name, desc.Service)
	start := time.Now()

	o.record(ctx, o.tracker.Register(desc))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("worker startup panic recovered",
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("%w: %s: %v", ErrStartupPanic, desc.Name, r)
		}

		if err != nil {
			logger.Warn("worker failed to start", "error", err)
			o.record(ctx, o.tracker.Fail(desc.Name, err))
			telemetry.WorkerStartups.WithLabelValues(desc.Service, "failed").Inc()
			return
		}

		telemetry.WorkerStartups.WithLabelValues(desc.Service, "running").Inc()
		telemetry.HandshakeDuration.WithLabelValues(desc.Service).Observe(time.Since(start).Seconds())
	}()

	proc, err := o.spawner.Spawn(ctx, desc)
	if err != nil {
		return err
	}
	o.tracker.SetPID(desc.Name, proc.PID)

	logger.Info("worker spawned", "pid", proc.PID)

	if err := o.drive(ctx, desc, proc.Channel, logger); err != nil {
		proc.Channel.Close()
		return err
	}
	return nil
}

// drive ведёт handshake по каналу до RUNNING.
func (o *Orchestrator) drive(ctx context.Context, desc domain.ServiceDescriptor, ch ipc.Channel, logger *slog.Logger) error {
	hs := NewHandshake()

	for {
		select {
		case raw, ok := <-ch.Messages():
			if !ok {
				return fmt.Errorf("%w: %s in state %s", ErrChannelClosed, desc.Name, hs.State())
			}

			reply, err := hs.Handle(domain.Control(raw))
			if err != nil {
				logger.Warn("control message ignored", "message", raw, "error", err)
				telemetry.ControlMessagesIgnored.Inc()
				continue
			}

			logger.Info("worker state changed", "state", hs.State())
			o.record(ctx, o.tracker.Transition(desc.Name, hs.State()))

			if hs.State().IsTerminal() {
				go o.drain(ch, logger)
				return nil
			}

			if err := ch.Send(string(reply)); err != nil {
				return fmt.Errorf("send %s to %s: %w", reply, desc.Name, err)
			}

		case <-ctx.Done():
			return fmt.Errorf("start %s: %w", desc.Name, ctx.Err())
		}
	}
}

// drain читает канал после RUNNING: протокол завершён, все
// сообщения игнорируются. Закрытие канала — выход воркера.
func (o *Orchestrator) drain(ch ipc.Channel, logger *slog.Logger) {
	for raw := range ch.Messages() {
		logger.Debug("control message ignored after running", "message", raw)
		telemetry.ControlMessagesIgnored.Inc()
	}
	logger.Info("worker channel closed")
}

// record пишет переход в журнал. Ошибки журнала не влияют на запуск.
func (o *Orchestrator) record(ctx context.Context, status domain.WorkerStatus) {
	if o.journal == nil {
		return
	}

	if err := o.journal.Record(context.WithoutCancel(ctx), status); err != nil {
		o.logger.Warn("failed to record worker status",
			"instance", status.Name,
			"state", status.State,
			"error", err,
		)
	}
}

// Summary возвращает сообщение об ошибке для каждого неудачного запуска.
func (r Result) Summary() []string {
	lines := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		lines = append(lines, fmt.Sprintf("%s: %v", f.Name, f.Err))
	}
	return lines
}

// IsSpawnFailure проверяет, что запуск не удался на этапе spawn.
func (f Failure) IsSpawnFailure() bool {
	return errors.Is(f.Err, ErrSpawnFailed)
}
