package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shaiso/Hive/internal/broker"
	"github.com/shaiso/Hive/internal/domain"
	"github.com/shaiso/Hive/internal/ipc"
	"github.com/shaiso/Hive/internal/service"
)

// Worker хостит один сервис и выполняет команды оркестратора.
type Worker struct {
	descriptor *domain.ServiceDescriptor
	broker     *broker.Broker
	service    service.Service
	channel    ipc.Channel
	logger     *slog.Logger

	stopOnce sync.Once
	stopErr  error
}

// Config — конфигурация Worker.
type Config struct {
	// Descriptor — дескриптор сервиса из SERVICE_DATA.
	Descriptor *domain.ServiceDescriptor

	// Registry — реализации сервисов, слинкованные в бинарник.
	Registry *service.Registry

	// Transport — транспорт брокера (mq.Transport).
	Transport broker.Transport

	// Channel — управляющий канал с оркестратором.
	Channel ipc.Channel

	// Logger
	Logger *slog.Logger
}

// New создаёт брокер и сервис.
//
// Возвращает service.ErrUnknownService, если тип сервиса не
// зарегистрирован.
func New(cfg Config) (*Worker, error) {
	if cfg.Descriptor == nil || cfg.Registry == nil || cfg.Transport == nil || cfg.Channel == nil {
		return nil, fmt.Errorf("%w: descriptor, registry, transport and channel are required", ErrInvalidConfig)
	}
	if err := cfg.Descriptor.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	b := broker.New(broker.Config{
		Transport: cfg.Transport,
		Queue:     cfg.Descriptor.Name,
		Logger:    logger,
	})

	svc, err := cfg.Registry.Create(b, cfg.Descriptor, logger)
	if err != nil {
		return nil, err
	}

	return &Worker{
		descriptor: cfg.Descriptor,
		broker:     b,
		service:    svc,
		channel:    cfg.Channel,
		logger:     logger,
	}, nil
}

// Broker возвращает брокер сервиса.
func (w *Worker) Broker() *broker.Broker {
	return w.broker
}

// Service возвращает сервис.
func (w *Worker) Service() service.Service {
	return w.service
}

// Serve сообщает ready и выполняет команды до отмены ctx.
//
// Закрытие канала оркестратором не останавливает сервис: воркер
// продолжает работу до сигнала.
func (w *Worker) Serve(ctx context.Context) error {
	if err := w.channel.Send(string(domain.ControlReady)); err != nil {
		return fmt.Errorf("send ready: %w", err)
	}

	w.logger.Debug("worker ready", "consumers", w.broker.Consumers())

	messages := w.channel.Messages()
	for {
		select {
		case <-ctx.Done():
			return nil

		case cmd, ok := <-messages:
			if !ok {
				w.logger.Debug("control channel closed")
				messages = nil
				continue
			}
			w.handle(ctx, domain.Control(cmd))
		}
	}
}

// handle выполняет одну команду оркестратора.
func (w *Worker) handle(ctx context.Context, cmd domain.Control) {
	switch cmd {
	case domain.ControlInit:
		if err := w.service.Init(ctx); err != nil {
			w.logger.Error("service init failed", "error", err)
			return
		}
		w.reply(domain.ControlInitialized)

	case domain.ControlRun:
		if err := w.service.Run(ctx); err != nil {
			w.logger.Error("service run failed", "error", err)
			return
		}
		w.logger.Info("service running")
		w.reply(domain.ControlRunning)

	default:
		w.logger.Warn("unknown control message ignored", "message", string(cmd))
	}
}

func (w *Worker) reply(msg domain.Control) {
	if err := w.channel.Send(string(msg)); err != nil {
		w.logger.Error("failed to send control message", "message", string(msg), "error", err)
	}
}

// Stop останавливает сервис и закрывает канал. Повторный вызов
// возвращает результат первого.
func (w *Worker) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() {
		if err := w.service.Stop(ctx); err != nil {
			w.stopErr = fmt.Errorf("stop service %s: %w", w.descriptor.Name, err)
		}
		if err := w.channel.Close(); err != nil {
			w.logger.Debug("failed to close control channel", "error", err)
		}
	})
	return w.stopErr
}
