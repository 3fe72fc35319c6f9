package service

import (
	"context"

	"github.com/shaiso/Hive/internal/broker"
	"github.com/shaiso/Hive/internal/domain"
)

// Service — единица, которую хостит воркер.
//
// Методы вызываются воркером по командам оркестратора:
//   - Init — по команде init; обычно подключает брокер (Base.Init)
//   - Run — по команде run; должен вернуться после запуска работы,
//     а не блокироваться на всё время жизни сервиса
//   - Stop — по сигналу прерывания; закрывает брокер (Base.Stop)
type Service interface {
	Init(ctx context.Context) error
	Run(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Base — общая часть сервисов: брокер и дескриптор.
//
// Встраивается в конкретный сервис и даёт реализации Init и Stop
// по умолчанию.
type Base struct {
	broker     *broker.Broker
	descriptor *domain.ServiceDescriptor
}

// NewBase создаёт Base.
func NewBase(b *broker.Broker, d *domain.ServiceDescriptor) Base {
	return Base{broker: b, descriptor: d}
}

// Broker возвращает брокер сообщений сервиса.
func (s *Base) Broker() *broker.Broker {
	return s.broker
}

// Descriptor возвращает дескриптор сервиса.
func (s *Base) Descriptor() *domain.ServiceDescriptor {
	return s.descriptor
}

// Init подключает брокер с prefetch из дескриптора.
func (s *Base) Init(ctx context.Context) error {
	return s.broker.Init(ctx, s.descriptor.PrefetchValue())
}

// Stop закрывает брокер.
func (s *Base) Stop(context.Context) error {
	return s.broker.Close()
}
