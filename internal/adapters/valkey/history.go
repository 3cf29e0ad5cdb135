package valkey

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/samirrijal/litpass/internal/core/domain"
)

const historyKeyPrefix = "litpass:history:"

// HistoryStore implements ports.HistoryStore with one Valkey list per
// session. Entries are JSON, newest at the head.
type HistoryStore struct {
	client     valkey.Client
	maxEntries int
	ttl        time.Duration
}

// NewHistoryStore creates a store keeping at most maxEntries per session.
// A session's list expires ttl after its last push.
func NewHistoryStore(client valkey.Client, maxEntries int, ttl time.Duration) *HistoryStore {
	return &HistoryStore{client: client, maxEntries: maxEntries, ttl: ttl}
}

func historyKey(sessionID string) string {
	return historyKeyPrefix + sessionID
}

// Push prepends an entry and trims the list.
func (s *HistoryStore) Push(ctx context.Context, sessionID string, entry domain.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	key := historyKey(sessionID)
	cmds := valkey.Commands{
		s.client.B().Lpush().Key(key).Element(string(data)).Build(),
		s.client.B().Ltrim().Key(key).Start(0).Stop(int64(s.maxEntries - 1)).Build(),
	}
	if s.ttl > 0 {
		cmds = append(cmds, s.client.B().Expire().Key(key).Seconds(int64(s.ttl/time.Second)).Build())
	}
	for _, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return fmt.Errorf("push history: %w", err)
		}
	}
	return nil
}

// List returns the session's entries, newest first. Undecodable entries
// are skipped.
func (s *HistoryStore) List(ctx context.Context, sessionID string) ([]domain.HistoryEntry, error) {
	raw, err := s.client.Do(ctx, s.client.B().Lrange().Key(historyKey(sessionID)).Start(0).Stop(-1).Build()).AsStrSlice()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list history: %w", err)
	}

	entries := make([]domain.HistoryEntry, 0, len(raw))
	for _, r := range raw {
		var e domain.HistoryEntry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Remove deletes the entry with the given ID.
func (s *HistoryStore) Remove(ctx context.Context, sessionID, entryID string) error {
	key := historyKey(sessionID)
	raw, err := s.client.Do(ctx, s.client.B().Lrange().Key(key).Start(0).Stop(-1).Build()).AsStrSlice()
	if err != nil && !valkey.IsValkeyNil(err) {
		return fmt.Errorf("list history: %w", err)
	}

	for _, r := range raw {
		var e domain.HistoryEntry
		if err := json.Unmarshal([]byte(r), &e); err != nil || e.ID != entryID {
			continue
		}
		if err := s.client.Do(ctx, s.client.B().Lrem().Key(key).Count(1).Element(r).Build()).Error(); err != nil {
			return fmt.Errorf("remove history entry: %w", err)
		}
	}
	return nil
}

// Clear deletes the session's history.
func (s *HistoryStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(historyKey(sessionID)).Build()).Error()
}
