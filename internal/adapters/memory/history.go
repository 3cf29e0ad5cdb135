// Package memory holds in-process fallbacks for stores normally backed by
// Valkey.
package memory

import (
	"context"
	"sync"

	"github.com/samirrijal/litpass/internal/core/domain"
)

// HistoryStore implements ports.HistoryStore in memory. Used when Valkey is
// unavailable; history is lost on restart.
type HistoryStore struct {
	mu         sync.RWMutex
	maxEntries int
	sessions   map[string][]domain.HistoryEntry
}

// NewHistoryStore creates a store keeping at most maxEntries per session.
func NewHistoryStore(maxEntries int) *HistoryStore {
	return &HistoryStore{maxEntries: maxEntries, sessions: make(map[string][]domain.HistoryEntry)}
}

func (s *HistoryStore) Push(ctx context.Context, sessionID string, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]domain.HistoryEntry, 0, len(s.sessions[sessionID])+1)
	list = append(list, entry)
	list = append(list, s.sessions[sessionID]...)
	if len(list) > s.maxEntries {
		list = list[:s.maxEntries]
	}
	s.sessions[sessionID] = list
	return nil
}

func (s *HistoryStore) List(ctx context.Context, sessionID string) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.sessions[sessionID]
	out := make([]domain.HistoryEntry, len(list))
	copy(out, list)
	return out, nil
}

func (s *HistoryStore) Remove(ctx context.Context, sessionID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.sessions[sessionID]
	kept := list[:0]
	for _, e := range list {
		if e.ID != entryID {
			kept = append(kept, e)
		}
	}
	s.sessions[sessionID] = kept
	return nil
}

func (s *HistoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
