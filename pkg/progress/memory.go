package progress

import (
	"context"
	"sync"
	"time"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

type memoryEntry struct {
	envelope  entities.ProgressEnvelope
	expiresAt time.Time
}

// MemoryStore is a process-local Store used when no Redis backend is
// configured, and in tests. Semantics match RedisStore, including TTL.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	statuses map[string]memoryEntry
	logs     map[string][]string
	logExp   map[string]time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		statuses: make(map[string]memoryEntry),
		logs:     make(map[string][]string),
		logExp:   make(map[string]time.Time),
	}
}

func (s *MemoryStore) GetStatus(_ context.Context, kind entities.TaskKind, targetID string) (*entities.ProgressEnvelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.statuses[statusKey(kind, targetID)]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	envelope := entry.envelope
	return &envelope, nil
}

func (s *MemoryStore) SetStatus(_ context.Context, kind entities.TaskKind, targetID string, envelope entities.ProgressEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[statusKey(kind, targetID)] = memoryEntry{
		envelope:  envelope,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) GetLogs(_ context.Context, kind entities.TaskKind, targetID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := logsKey(kind, targetID)
	if exp, ok := s.logExp[key]; ok && time.Now().After(exp) {
		return nil, nil
	}
	lines := s.logs[key]
	out := make([]string, len(lines))
	copy(out, lines)
	return out, nil
}

func (s *MemoryStore) AppendLogs(_ context.Context, kind entities.TaskKind, targetID string, lines ...string) error {
	if len(lines) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := logsKey(kind, targetID)
	s.logs[key] = append(s.logs[key], lines...)
	s.logExp[key] = time.Now().Add(s.ttl)
	return nil
}

func (s *MemoryStore) ClearLogs(_ context.Context, kind entities.TaskKind, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := logsKey(kind, targetID)
	delete(s.logs, key)
	delete(s.logExp, key)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, kind entities.TaskKind, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.statuses, statusKey(kind, targetID))
	key := logsKey(kind, targetID)
	delete(s.logs, key)
	delete(s.logExp, key)
	return nil
}
