package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Hive/internal/domain"
)

// WorkerResponse — ответ с состоянием воркера.
type WorkerResponse struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	Service   string                `json:"service"`
	State     domain.LifecycleState `json:"state"`
	PID       int                   `json:"pid,omitempty"`
	Error     string                `json:"error,omitempty"`
	StartedAt time.Time             `json:"started_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// WorkerFromDomain конвертирует domain.WorkerStatus в WorkerResponse.
func WorkerFromDomain(s domain.WorkerStatus) WorkerResponse {
	return WorkerResponse{
		ID:        s.ID,
		Name:      s.Name,
		Service:   s.Service,
		State:     s.State,
		PID:       s.PID,
		Error:     s.Error,
		StartedAt: s.StartedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// SummaryResponse — число воркеров по состояниям.
type SummaryResponse struct {
	Total  int                           `json:"total"`
	States map[domain.LifecycleState]int `json:"states"`
}
