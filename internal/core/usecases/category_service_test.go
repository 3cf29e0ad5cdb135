package usecases_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/core/usecases"
)

func TestCategoryService_SingleGroupOneCall(t *testing.T) {
	places := &mockPlaces{
		searchFn: func(ctx context.Context, q domain.SearchQuery) ([]domain.Place, error) {
			return []domain.Place{{ID: "r1", Name: "Trattoria"}}, nil
		},
	}
	svc := usecases.NewCategoryService(places, nil)

	got, err := svc.SearchCategory(context.Background(), "Restaurants", milan, 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("unexpected places: %+v", got)
	}

	calls := places.searchCalls()
	if len(calls) != 1 {
		t.Fatalf("expected exactly 1 search call, got %d", len(calls))
	}
	want := []string{"catering.restaurant", "catering.cafe", "catering.fast_food"}
	if !reflect.DeepEqual(calls[0].Categories, want) {
		t.Errorf("categories = %v, want %v", calls[0].Categories, want)
	}
	if calls[0].Origin == nil || *calls[0].Origin != milan || calls[0].RadiusMeters != 5000 {
		t.Errorf("unexpected origin/radius: %+v", calls[0])
	}
}

func TestCategoryService_CaseInsensitiveLookup(t *testing.T) {
	svc := usecases.NewCategoryService(&mockPlaces{}, nil)
	cat, err := svc.Lookup("  party venues ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Name != "Party Venues" || len(cat.Groups) != 3 {
		t.Errorf("unexpected category: %+v", cat)
	}
}

func TestCategoryService_UnknownCategory(t *testing.T) {
	places := &mockPlaces{}
	svc := usecases.NewCategoryService(places, nil)

	_, err := svc.SearchCategory(context.Background(), "Museums", milan, 5000)
	if !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if len(places.searchCalls()) != 0 {
		t.Error("no provider call expected for an unknown category")
	}
}

func groupKey(tags []string) string { return strings.Join(tags, ",") }

func TestCategoryService_CompositeDedupesInIssueOrder(t *testing.T) {
	byGroup := map[string][]domain.Place{
		"entertainment.nightclub":                      {{ID: "a", Name: "Club A"}, {ID: "shared", Name: "From clubs"}},
		"catering.bar,catering.pub":                    {{ID: "shared", Name: "From bars"}, {ID: "b", Name: "Bar B"}},
		"entertainment.culture,entertainment.activity": {{ID: "c", Name: "Theatre C"}, {ID: "a", Name: "Club A again"}},
	}
	places := &mockPlaces{
		searchFn: func(ctx context.Context, q domain.SearchQuery) ([]domain.Place, error) {
			return byGroup[groupKey(q.Categories)], nil
		},
	}
	svc := usecases.NewCategoryService(places, nil)

	got, err := svc.SearchCategory(context.Background(), "Party Venues", milan, 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places.searchCalls()) != 3 {
		t.Fatalf("expected 3 parallel calls, got %d", len(places.searchCalls()))
	}

	var ids []string
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	if want := []string{"a", "shared", "b", "c"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if got[1].Name != "From clubs" {
		t.Errorf("first occurrence should win, got %q", got[1].Name)
	}
}

func TestCategoryService_PartialFailure(t *testing.T) {
	places := &mockPlaces{
		searchFn: func(ctx context.Context, q domain.SearchQuery) ([]domain.Place, error) {
			switch groupKey(q.Categories) {
			case "entertainment.nightclub":
				return []domain.Place{{ID: "a"}, {ID: "b"}}, nil
			case "catering.bar,catering.pub":
				return nil, &domain.ProviderError{Op: "search", StatusCode: 500, Status: "500 Internal Server Error"}
			default:
				return []domain.Place{{ID: "b"}, {ID: "c"}}, nil
			}
		},
	}
	svc := usecases.NewCategoryService(places, nil)

	got, err := svc.SearchCategory(context.Background(), "Party Venues", milan, 5000)
	if err != nil {
		t.Fatalf("partial failure must not fail the search: %v", err)
	}

	seen := map[string]bool{}
	for _, p := range got {
		if seen[p.ID] {
			t.Errorf("duplicate id %s", p.ID)
		}
		seen[p.ID] = true
	}
	if len(got) != 3 || !seen["a"] || !seen["b"] || !seen["c"] {
		t.Errorf("expected union of a, b, c, got %+v", got)
	}
}

func TestCategoryService_AllGroupsFail(t *testing.T) {
	places := &mockPlaces{
		searchFn: func(ctx context.Context, q domain.SearchQuery) ([]domain.Place, error) {
			return nil, &domain.ProviderError{Op: "search", StatusCode: 503, Status: "503 Service Unavailable"}
		},
	}
	svc := usecases.NewCategoryService(places, nil)

	_, err := svc.SearchCategory(context.Background(), "Party Venues", milan, 5000)
	if err == nil {
		t.Fatal("expected error when every group fails")
	}
	if !domain.IsProviderError(err) {
		t.Errorf("expected provider error, got %v", err)
	}
}

func TestCategoryService_CategoriesInDisplayOrder(t *testing.T) {
	svc := usecases.NewCategoryService(&mockPlaces{}, nil)
	var names []string
	for _, c := range svc.Categories() {
		names = append(names, c.Name)
	}
	want := []string{"Beer", "Pubs", "Bars", "Restaurants", "Disco", "Music", "Party Venues"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}
