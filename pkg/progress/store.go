package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

// DefaultTTL bounds how long a task's status and log entries survive in the
// store. It should exceed the longest expected run plus display retention.
const DefaultTTL = time.Hour

// Store is the key-value channel between the executing worker and pollers.
// Implementations must guarantee per-key atomic set/get so readers never see
// a partially written envelope. Writes are whole-envelope replacements; a new
// run for the same target overwrites the previous entry (last-writer-wins),
// so overlapping runs for one target are not supported.
type Store interface {
	GetStatus(ctx context.Context, kind entities.TaskKind, targetID string) (*entities.ProgressEnvelope, error)
	SetStatus(ctx context.Context, kind entities.TaskKind, targetID string, envelope entities.ProgressEnvelope) error
	GetLogs(ctx context.Context, kind entities.TaskKind, targetID string) ([]string, error)
	AppendLogs(ctx context.Context, kind entities.TaskKind, targetID string, lines ...string) error
	ClearLogs(ctx context.Context, kind entities.TaskKind, targetID string) error
	Delete(ctx context.Context, kind entities.TaskKind, targetID string) error
}

func statusKey(kind entities.TaskKind, targetID string) string {
	return fmt.Sprintf("%s_status_%s", kind, targetID)
}

func logsKey(kind entities.TaskKind, targetID string) string {
	return fmt.Sprintf("%s_logs_%s", kind, targetID)
}
