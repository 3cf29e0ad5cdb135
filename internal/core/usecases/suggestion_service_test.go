package usecases_test

import (
	"context"
	"testing"

	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/core/usecases"
)

func TestSuggestionService_RecordDedupesNewestFirst(t *testing.T) {
	store := newMockHistory(10)
	svc := usecases.NewSuggestionService(store, newFakeClock())
	ctx := context.Background()

	for _, q := range []string{"sushi", "craft beer", " sushi ", ""} {
		if err := svc.Record(ctx, "s1", q); err != nil {
			t.Fatalf("record %q: %v", q, err)
		}
	}

	hist, err := svc.History(ctx, "s1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 || hist[0].Text != "sushi" || hist[1].Text != "craft beer" {
		t.Errorf("unexpected history: %+v", hist)
	}
	if hist[0].ID == "" || hist[0].ID == hist[1].ID {
		t.Errorf("entries need distinct ids: %+v", hist)
	}
}

func TestSuggestionService_RemoveAndClear(t *testing.T) {
	store := newMockHistory(10)
	svc := usecases.NewSuggestionService(store, nil)
	ctx := context.Background()

	_ = svc.Record(ctx, "s1", "a bar")
	_ = svc.Record(ctx, "s1", "a pub")
	hist, _ := svc.History(ctx, "s1")

	if err := svc.Remove(ctx, "s1", hist[0].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	hist, _ = svc.History(ctx, "s1")
	if len(hist) != 1 || hist[0].Text != "a bar" {
		t.Errorf("unexpected history after remove: %+v", hist)
	}

	if err := svc.Clear(ctx, "s1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	hist, _ = svc.History(ctx, "s1")
	if len(hist) != 0 {
		t.Errorf("expected empty history, got %+v", hist)
	}
}

func TestSuggestionService_SuggestFiltered(t *testing.T) {
	store := newMockHistory(10)
	svc := usecases.NewSuggestionService(store, nil)
	ctx := context.Background()
	_ = svc.Record(ctx, "s1", "Beer garden")
	_ = svc.Record(ctx, "s1", "Sushi")

	got, err := svc.Suggest(ctx, "s1", "BEER")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %+v", got)
	}
	if got[0].Text != "Beer garden" || got[0].Kind != domain.SuggestionRecent {
		t.Errorf("recent match should come first: %+v", got[0])
	}
	if got[1].Text != "Craft Beer" || got[1].Kind != domain.SuggestionTrending {
		t.Errorf("expected trending Craft Beer, got %+v", got[1])
	}
}

func TestSuggestionService_SuggestEmptyQuery(t *testing.T) {
	store := newMockHistory(10)
	svc := usecases.NewSuggestionService(store, nil)
	ctx := context.Background()
	for _, q := range []string{"one", "two", "three", "four", "five", "six"} {
		_ = svc.Record(ctx, "s1", q)
	}

	got, err := svc.Suggest(ctx, "s1", "")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected 5 recent + 5 trending, got %d", len(got))
	}
	if got[0].Text != "six" || got[4].Text != "two" {
		t.Errorf("unexpected recent rows: %+v", got[:5])
	}
	if got[5].Text != "Live Music" || got[9].Text != "Dance Club" {
		t.Errorf("unexpected trending rows: %+v", got[5:])
	}
}
