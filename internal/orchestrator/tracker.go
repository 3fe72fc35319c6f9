package orchestrator

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Hive/internal/domain"
)

// Tracker — состояние запуска воркеров в памяти.
//
// Запись создаётся при начале попытки и не удаляется: после
// завершения handshake в ней остаётся RUNNING или FAILED.
// Читается status API.
type Tracker struct {
	mu      sync.RWMutex
	workers map[string]*domain.WorkerStatus
	now     func() time.Time
}

// NewTracker создаёт пустой Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		workers: make(map[string]*domain.WorkerStatus),
		now:     time.Now,
	}
}

// Register начинает новую попытку запуска воркера.
func (t *Tracker) Register(desc domain.ServiceDescriptor) domain.WorkerStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now().UTC()
	status := &domain.WorkerStatus{
		ID:        uuid.New(),
		Name:      desc.Name,
		Service:   desc.Service,
		State:     domain.StateSpawned,
		StartedAt: now,
		UpdatedAt: now,
	}
	t.workers[desc.Name] = status

	return *status
}

// SetPID запоминает процесс воркера.
func (t *Tracker) SetPID(name string, pid int) {
	t.update(name, func(s *domain.WorkerStatus) {
		s.PID = pid
	})
}

// Transition переводит воркер в новое состояние.
func (t *Tracker) Transition(name string, state domain.LifecycleState) domain.WorkerStatus {
	return t.update(name, func(s *domain.WorkerStatus) {
		s.State = state
	})
}

// Fail отмечает неудачную попытку запуска.
func (t *Tracker) Fail(name string, err error) domain.WorkerStatus {
	return t.update(name, func(s *domain.WorkerStatus) {
		s.State = domain.StateFailed
		if err != nil {
			s.Error = err.Error()
		}
	})
}

// Get возвращает состояние воркера по имени.
func (t *Tracker) Get(name string) (domain.WorkerStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	status, ok := t.workers[name]
	if !ok {
		return domain.WorkerStatus{}, false
	}
	return *status, true
}

// List возвращает состояния всех воркеров, отсортированные по имени.
func (t *Tracker) List() []domain.WorkerStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	list := make([]domain.WorkerStatus, 0, len(t.workers))
	for _, status := range t.workers {
		list = append(list, *status)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

// Stats возвращает число воркеров по состояниям.
func (t *Tracker) Stats() map[domain.LifecycleState]int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := make(map[domain.LifecycleState]int)
	for _, status := range t.workers {
		stats[status.State]++
	}
	return stats
}

func (t *Tracker) update(name string, fn func(*domain.WorkerStatus)) domain.WorkerStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	status, ok := t.workers[name]
	if !ok {
		now := t.now().UTC()
		status = &domain.WorkerStatus{ID: uuid.New(), Name: name, StartedAt: now}
		t.workers[name] = status
	}

	fn(status)
	status.UpdatedAt = t.now().UTC()

	return *status
}
