package orchestrator

import (
	"context"

	"github.com/shaiso/Hive/internal/domain"
)

// Journal — постоянное хранилище переходов запуска (repo.StartupRepo).
type Journal interface {
	Record(ctx context.Context, status domain.WorkerStatus) error
}
