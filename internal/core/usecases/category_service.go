package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/core/ports"
	"github.com/samirrijal/litpass/internal/pkg/metrics"
)

// CategoryLimit is the per-call result limit for category searches.
const CategoryLimit = 50

// Category maps a UI category to the provider tag groups searched for it.
// A category with several groups issues one provider call per group.
type Category struct {
	Name   string     `json:"name"`
	Groups [][]string `json:"groups"`
}

// categories is kept in display order.
var categories = []Category{
	{Name: "Beer", Groups: [][]string{{"catering.pub", "catering.biergarten", "catering.taproom"}}},
	{Name: "Pubs", Groups: [][]string{{"catering.pub", "catering.bar"}}},
	{Name: "Bars", Groups: [][]string{{"catering.bar"}}},
	{Name: "Restaurants", Groups: [][]string{{"catering.restaurant", "catering.cafe", "catering.fast_food"}}},
	{Name: "Disco", Groups: [][]string{{"entertainment.nightclub"}}},
	{Name: "Music", Groups: [][]string{{"entertainment.culture", "entertainment.nightclub"}}},
	{Name: "Party Venues", Groups: [][]string{
		{"entertainment.nightclub"},
		{"catering.bar", "catering.pub"},
		{"entertainment.culture", "entertainment.activity"},
	}},
}

// CategoryService turns a UI category into one or more provider searches.
type CategoryService struct {
	places ports.PlacesProvider
	logger *slog.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(places ports.PlacesProvider, logger *slog.Logger) *CategoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryService{places: places, logger: logger}
}

// Categories lists the category names in display order.
func (s *CategoryService) Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Lookup finds a category by name, ignoring case.
func (s *CategoryService) Lookup(name string) (Category, error) {
	for _, c := range categories {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, name)
}

// SearchCategory searches every tag group of the named category around
// origin. Groups run in parallel and the results are concatenated in group
// order with duplicate place IDs dropped (first occurrence wins). A failing
// group is logged and skipped; an error is returned only when all fail.
func (s *CategoryService) SearchCategory(ctx context.Context, name string, origin domain.Coordinates, radius int) ([]domain.Place, error) {
	cat, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}

	query := func(tags []string) domain.SearchQuery {
		return domain.SearchQuery{
			Origin:       &origin,
			RadiusMeters: radius,
			Categories:   tags,
			Limit:        CategoryLimit,
		}
	}

	if len(cat.Groups) == 1 {
		places, err := s.places.Search(ctx, query(cat.Groups[0]))
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", cat.Name, err)
		}
		return places, nil
	}

	results := make([][]domain.Place, len(cat.Groups))
	errs := make([]error, len(cat.Groups))

	// Groups never cancel each other, so the group context is not used.
	var g errgroup.Group
	for i, tags := range cat.Groups {
		g.Go(func() error {
			results[i], errs[i] = s.places.Search(ctx, query(tags))
			return nil
		})
	}
	_ = g.Wait()

	var (
		merged   []domain.Place
		firstErr error
		failed   int
	)
	for i, places := range results {
		if errs[i] != nil {
			failed++
			if firstErr == nil {
				firstErr = errs[i]
			}
			s.logger.WarnContext(ctx, "category group failed",
				"category", cat.Name, "tags", strings.Join(cat.Groups[i], ","), "error", errs[i])
			continue
		}
		merged = append(merged, places...)
	}

	if failed == len(cat.Groups) {
		return nil, fmt.Errorf("search %s: %w", cat.Name, firstErr)
	}
	if failed > 0 {
		metrics.CategoryPartial.WithLabelValues(cat.Name).Inc()
	}
	return domain.DedupeByID(merged), nil
}
