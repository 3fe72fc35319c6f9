package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkerStatus — снимок состояния запуска одного воркера.
//
// Ведётся оркестратором, отдаётся через status API и пишется
// в журнал запусков.
type WorkerStatus struct {
	// ID — идентификатор попытки запуска.
	ID uuid.UUID `json:"id"`

	// Name — имя экземпляра (ServiceDescriptor.Name).
	Name string `json:"name"`

	// Service — тип сервиса.
	Service string `json:"service"`

	// State — текущее состояние handshake.
	State LifecycleState `json:"state"`

	// PID — идентификатор процесса воркера (0 до spawn).
	PID int `json:"pid,omitempty"`

	// Error — причина неудачи для StateFailed.
	Error string `json:"error,omitempty"`

	// StartedAt — время начала попытки.
	StartedAt time.Time `json:"started_at"`

	// UpdatedAt — время последнего перехода.
	UpdatedAt time.Time `json:"updated_at"`
}
