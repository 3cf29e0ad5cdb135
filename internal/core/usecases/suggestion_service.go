package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/core/ports"
)

// emptyQueryShown is how many recent and trending rows are listed before
// the user has typed anything.
const emptyQueryShown = 5

// Trending is the static list of popular searches.
var Trending = []string{
	"Live Music",
	"Happy Hour",
	"Rooftop Bar",
	"Comedy Show",
	"Dance Club",
	"Craft Beer",
	"Wine Tasting",
	"Karaoke Night",
}

// SuggestionService manages recent-search history and the suggestion list
// built from it.
type SuggestionService struct {
	history ports.HistoryStore
	clock   Clock
}

// NewSuggestionService creates a new SuggestionService.
func NewSuggestionService(history ports.HistoryStore, clock Clock) *SuggestionService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &SuggestionService{history: history, clock: clock}
}

// Record stores a submitted search, newest first. An earlier entry with the
// same text is replaced. Blank text is ignored.
func (s *SuggestionService) Record(ctx context.Context, sessionID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	entries, err := s.history.List(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	for _, e := range entries {
		if e.Text == text {
			if err := s.history.Remove(ctx, sessionID, e.ID); err != nil {
				return fmt.Errorf("remove duplicate: %w", err)
			}
		}
	}

	entry := domain.HistoryEntry{ID: uuid.NewString(), Text: text, CreatedAt: s.clock.Now()}
	if err := s.history.Push(ctx, sessionID, entry); err != nil {
		return fmt.Errorf("push history: %w", err)
	}
	return nil
}

// History lists the session's recent searches, newest first.
func (s *SuggestionService) History(ctx context.Context, sessionID string) ([]domain.HistoryEntry, error) {
	return s.history.List(ctx, sessionID)
}

// Remove deletes one history entry.
func (s *SuggestionService) Remove(ctx context.Context, sessionID, id string) error {
	return s.history.Remove(ctx, sessionID, id)
}

// Clear deletes the whole history of a session.
func (s *SuggestionService) Clear(ctx context.Context, sessionID string) error {
	return s.history.Clear(ctx, sessionID)
}

// Suggest lists recent searches followed by trending ones. With a query,
// both are filtered by case-insensitive substring match; without one, the
// first few of each are shown.
func (s *SuggestionService) Suggest(ctx context.Context, sessionID, query string) ([]domain.Suggestion, error) {
	entries, err := s.history.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var out []domain.Suggestion

	recent := 0
	for _, e := range entries {
		if q == "" && recent == emptyQueryShown {
			break
		}
		if q != "" && !strings.Contains(strings.ToLower(e.Text), q) {
			continue
		}
		out = append(out, domain.Suggestion{ID: e.ID, Text: e.Text, Kind: domain.SuggestionRecent})
		recent++
	}

	trending := 0
	for i, t := range Trending {
		if q == "" && trending == emptyQueryShown {
			break
		}
		if q != "" && !strings.Contains(strings.ToLower(t), q) {
			continue
		}
		out = append(out, domain.Suggestion{ID: fmt.Sprintf("trending-%d", i), Text: t, Kind: domain.SuggestionTrending})
		trending++
	}

	return out, nil
}
