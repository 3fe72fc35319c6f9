package domain

import (
	"encoding/json"
	"fmt"
)

// ServiceDescriptor — конфигурация одного экземпляра сервиса.
//
// Создаётся оркестратором из файла конфигурации, передаётся воркеру
// через границу процесса (JSON в SERVICE_DATA) и принадлежит воркеру
// всё время его жизни.
type ServiceDescriptor struct {
	// Service — тип сервиса, ключ в реестре реализаций.
	Service string `json:"service" toml:"service"`

	// Name — имя экземпляра. Используется в логах и как имя очереди.
	Name string `json:"name" toml:"name"`

	// Prefetch — лимит неподтверждённых сообщений (nil — без лимита).
	Prefetch *uint `json:"prefetch,omitempty" toml:"prefetch"`

	// Configuration — конфигурация сервиса. Ядро её не интерпретирует.
	Configuration map[string]any `json:"configuration" toml:"configuration"`
}

// Validate проверяет обязательные поля дескриптора.
func (d *ServiceDescriptor) Validate() error {
	if d.Service == "" {
		return fmt.Errorf("%w: service is required", ErrInvalidDescriptor)
	}
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDescriptor)
	}
	if d.Configuration == nil {
		d.Configuration = map[string]any{}
	}
	return nil
}

// PrefetchValue возвращает prefetch для транспорта. 0 — без лимита.
func (d *ServiceDescriptor) PrefetchValue() int {
	if d.Prefetch == nil {
		return 0
	}
	return int(*d.Prefetch)
}

// Encode сериализует дескриптор для передачи воркеру.
func (d *ServiceDescriptor) Encode() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("marshal descriptor: %w", err)
	}
	return string(data), nil
}

// ParseDescriptor разбирает и валидирует дескриптор, полученный от оркестратора.
func ParseDescriptor(data []byte) (*ServiceDescriptor, error) {
	var d ServiceDescriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}
