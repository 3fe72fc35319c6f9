package service

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/shaiso/Hive/internal/broker"
	"github.com/shaiso/Hive/internal/domain"
)

// Factory создаёт сервис для дескриптора.
//
// Фабрика регистрирует consumers на брокере: до Init, чтобы ни одно
// сообщение не было отброшено.
type Factory func(b *broker.Broker, d *domain.ServiceDescriptor, logger *slog.Logger) (Service, error)

// Registry — реестр реализаций сервисов по типу.
//
// Заполняется при старте бинарника воркера теми сервисами,
// которые в него слинкованы. Потокобезопасен.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register регистрирует фабрику для типа сервиса.
// Если тип уже зарегистрирован, фабрика будет перезаписана.
func (r *Registry) Register(serviceType string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[serviceType] = factory
}

// Get возвращает фабрику по типу.
// Возвращает ErrUnknownService, если тип не зарегистрирован.
func (r *Registry) Get(serviceType string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[serviceType]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, serviceType)
	}

	return factory, nil
}

// Has проверяет, зарегистрирован ли тип.
func (r *Registry) Has(serviceType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.factories[serviceType]
	return exists
}

// Types возвращает отсортированный список зарегистрированных типов.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Create находит фабрику по d.Service и создаёт сервис.
func (r *Registry) Create(b *broker.Broker, d *domain.ServiceDescriptor, logger *slog.Logger) (Service, error) {
	factory, err := r.Get(d.Service)
	if err != nil {
		return nil, err
	}

	svc, err := factory(b, d, logger)
	if err != nil {
		return nil, fmt.Errorf("create service %s: %w", d.Service, err)
	}
	if svc == nil {
		return nil, fmt.Errorf("create service %s: factory returned nil", d.Service)
	}

	return svc, nil
}
