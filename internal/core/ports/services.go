package ports

import (
	"context"

	"github.com/samirrijal/litpass/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishOriginChanged(ctx context.Context, ev *domain.OriginChanged) error
	PublishPlaceShared(ctx context.Context, ev *domain.PlaceShared) error
}

// CacheService provides key/value storage with expiry.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// HistoryStore keeps each session's recent searches, newest first.
type HistoryStore interface {
	Push(ctx context.Context, sessionID string, entry domain.HistoryEntry) error
	List(ctx context.Context, sessionID string) ([]domain.HistoryEntry, error)
	Remove(ctx context.Context, sessionID, entryID string) error
	Clear(ctx context.Context, sessionID string) error
}
