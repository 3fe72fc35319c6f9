package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Hive/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS worker_startups (
		id          UUID PRIMARY KEY,
		name        TEXT NOT NULL,
		service     TEXT NOT NULL,
		state       TEXT NOT NULL,
		pid         INTEGER,
		error       TEXT,
		started_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS worker_startups_name_idx
		ON worker_startups (name, started_at DESC);
`

// StartupRepo — журнал попыток запуска воркеров.
//
// Одна строка на попытку; каждый переход обновляет state.
type StartupRepo struct {
	pool *pgxpool.Pool
}

// NewStartupRepo создаёт новый StartupRepo.
func NewStartupRepo(pool *pgxpool.Pool) *StartupRepo {
	return &StartupRepo{pool: pool}
}

// EnsureSchema создаёт таблицу журнала, если её нет.
func (r *StartupRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create worker_startups: %w", err)
	}
	return nil
}

// Record сохраняет состояние попытки запуска.
func (r *StartupRepo) Record(ctx context.Context, status domain.WorkerStatus) error {
	query := `
		INSERT INTO worker_startups (id, name, service, state, pid, error, started_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			pid = COALESCE(EXCLUDED.pid, worker_startups.pid),
			error = EXCLUDED.error,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		status.ID,
		status.Name,
		status.Service,
		string(status.State),
		nullInt(status.PID),
		nullString(status.Error),
		status.StartedAt,
		status.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("record worker startup %s: %w", status.Name, err)
	}
	return nil
}

// nullString возвращает nil для пустой строки.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
