package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"consentvault/internal/audit/models"
	"consentvault/internal/audit/outbox"
)

// InMemoryStore keeps the audit trail in process. When an outbox is attached
// every record is also queued for export.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []models.Record
	outbox  *outbox.InMemoryStore
}

type InMemoryOption func(*InMemoryStore)

func WithOutbox(o *outbox.InMemoryStore) InMemoryOption {
	return func(s *InMemoryStore) {
		s.outbox = o
	}
}

func NewInMemory(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Append(ctx context.Context, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outbox != nil {
		entry, err := exportEntry(record)
		if err != nil {
			return err
		}
		if err := s.outbox.Append(ctx, entry); err != nil {
			return fmt.Errorf("queue audit export: %w", err)
		}
	}
	s.records = append(s.records, *record)
	return nil
}

// ListRecent returns up to limit records, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Record, 0, len(s.records))
	for i := range s.records {
		r := s.records[i]
		out = append(out, &r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) DeleteOlderThan(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	deleted := 0
	for _, r := range s.records {
		if r.OccurredAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return deleted, nil
}
