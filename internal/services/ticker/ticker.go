// Package ticker — сервис, отправляющий сообщение по расписанию.
//
// Конфигурация:
//
//	{
//	  "schedule": "*/5 * * * *",   // cron (5 полей) или @every 30s, @hourly
//	  "target":   "reports-1",     // очередь-получатель
//	  "message":  "tick",          // имя сообщения (по умолчанию "tick")
//	  "timezone": "Europe/Moscow"  // часовой пояс расписания (по умолчанию UTC)
//	}
//
// Каждое срабатывание отправляет {tick: <номер>, at: <время>}.
package ticker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shaiso/Hive/internal/broker"
	"github.com/shaiso/Hive/internal/domain"
	"github.com/shaiso/Hive/internal/service"
)

const (
	// ServiceType — тип сервиса в конфигурации.
	ServiceType = "ticker"

	// DefaultMessage — имя сообщения по умолчанию.
	DefaultMessage = "tick"
)

// cronParser — парсер расписаний: стандартные 5 полей и дескрипторы (@every, @daily).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Service — ticker сервис.
type Service struct {
	service.Base
	logger *slog.Logger

	schedule cron.Schedule
	spec     string
	target   string
	message  string
	location *time.Location

	ticks atomic.Int64
	now   func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

// New создаёт ticker из конфигурации дескриптора.
func New(b *broker.Broker, d *domain.ServiceDescriptor, logger *slog.Logger) (service.Service, error) {
	spec, _ := d.Configuration["schedule"].(string)
	if spec == "" {
		return nil, fmt.Errorf("%w: schedule is required", service.ErrInvalidConfiguration)
	}

	schedule, err := ParseSchedule(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInvalidConfiguration, err)
	}

	target, _ := d.Configuration["target"].(string)
	if target == "" {
		return nil, fmt.Errorf("%w: target is required", service.ErrInvalidConfiguration)
	}

	message, _ := d.Configuration["message"].(string)
	if message == "" {
		message = DefaultMessage
	}

	location := time.UTC
	if tz, _ := d.Configuration["timezone"].(string); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("%w: timezone %q: %v", service.ErrInvalidConfiguration, tz, err)
		}
		location = loc
	}

	return &Service{
		Base:     service.NewBase(b, d),
		logger:   logger,
		schedule: schedule,
		spec:     spec,
		target:   target,
		message:  message,
		location: location,
		now:      time.Now,
	}, nil
}

// ParseSchedule проверяет и разбирает cron-выражение.
func ParseSchedule(spec string) (cron.Schedule, error) {
	schedule, err := cronParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return schedule, nil
}

// Run запускает расписание и сразу возвращается.
func (s *Service) Run(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	s.cron = cron.New(cron.WithLocation(s.location))
	s.cron.Schedule(s.schedule, cron.FuncJob(s.tick))
	s.cron.Start()

	s.logger.Info("ticker started",
		"schedule", s.spec,
		"target", s.target,
		"message", s.message,
		"next", s.schedule.Next(s.now().In(s.location)),
	)
	return nil
}

// Stop останавливает расписание, дожидается текущего срабатывания
// и закрывает брокер.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		select {
		case <-c.Stop().Done():
		case <-ctx.Done():
		}
	}

	return s.Base.Stop(ctx)
}

// Ticks возвращает число отправленных сообщений.
func (s *Service) Ticks() int64 {
	return s.ticks.Load()
}

func (s *Service) tick() {
	n := s.ticks.Add(1)
	s.Broker().SendMessage(s.target, s.message, map[string]any{
		"tick": n,
		"at":   s.now().UTC(),
	})
}
