package api

import (
	"log/slog"
	"net/http"

	"github.com/shaiso/Hive/internal/domain"
)

// WorkerSource — источник состояния воркеров (orchestrator.Tracker).
type WorkerSource interface {
	List() []domain.WorkerStatus
	Get(name string) (domain.WorkerStatus, bool)
}

// Handler — обработчик API состояния.
type Handler struct {
	workers WorkerSource
	logger  *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Workers WorkerSource
	Logger  *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		workers: cfg.Workers,
		logger:  logger,
	}
}

// ListWorkers возвращает состояние всех воркеров.
// GET /api/v1/workers?state=RUNNING
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	state := domain.LifecycleState(r.URL.Query().Get("state"))
	if state != "" && !isValidState(state) {
		BadRequest(w, "invalid state: "+string(state))
		return
	}

	workers := h.workers.List()

	result := make([]WorkerResponse, 0, len(workers))
	for _, s := range workers {
		if state != "" && s.State != state {
			continue
		}
		result = append(result, WorkerFromDomain(s))
	}

	List(w, result, len(result))
}

// GetWorker возвращает состояние воркера по имени экземпляра.
// GET /api/v1/workers/{name}
func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	status, ok := h.workers.Get(name)
	if !ok {
		NotFound(w, "worker not found: "+name)
		return
	}

	Success(w, WorkerFromDomain(status))
}

// Summary возвращает число воркеров по состояниям.
// GET /api/v1/summary
func (h *Handler) Summary(w http.ResponseWriter, _ *http.Request) {
	summary := SummaryResponse{States: make(map[domain.LifecycleState]int)}
	for _, s := range h.workers.List() {
		summary.Total++
		summary.States[s.State]++
	}

	Success(w, summary)
}

func isValidState(s domain.LifecycleState) bool {
	switch s {
	case domain.StateSpawned, domain.StateReady, domain.StateInitialized,
		domain.StateRunning, domain.StateFailed:
		return true
	default:
		return false
	}
}
