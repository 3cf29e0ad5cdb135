package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/core/ports"
	"github.com/samirrijal/litpass/internal/pkg/metrics"
)

// PlaceService runs free-text searches for a session and remembers them.
type PlaceService struct {
	places      ports.PlacesProvider
	suggestions *SuggestionService
	logger      *slog.Logger
}

// NewPlaceService creates a new PlaceService. suggestions may be nil.
func NewPlaceService(places ports.PlacesProvider, suggestions *SuggestionService, logger *slog.Logger) *PlaceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaceService{places: places, suggestions: suggestions, logger: logger}
}

// Search queries the provider around origin. Submitted text is recorded
// in the session's history; a history failure does not fail the search.
func (s *PlaceService) Search(ctx context.Context, sessionID string, origin domain.SearchOrigin, q domain.SearchQuery) ([]domain.Place, error) {
	if q.Origin == nil {
		c := origin.Coordinates
		q.Origin = &c
	}
	if q.RadiusMeters <= 0 {
		q.RadiusMeters = domain.DefaultRadius
	}

	places, err := s.places.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}

	if s.suggestions != nil && strings.TrimSpace(q.Text) != "" {
		if err := s.suggestions.Record(ctx, sessionID, q.Text); err != nil {
			s.logger.WarnContext(ctx, "record search history", "session_id", sessionID, "error", err)
		}
	}
	return places, nil
}

// Autocomplete is the one-shot variant used outside a debounced session.
// Provider failures yield an empty list.
func (s *PlaceService) Autocomplete(ctx context.Context, text string, bias *domain.Coordinates) []domain.Place {
	places, err := s.places.Autocomplete(ctx, strings.TrimSpace(text), bias)
	if err != nil {
		s.logger.DebugContext(ctx, "autocomplete failed", "error", err)
		return []domain.Place{}
	}
	if places == nil {
		places = []domain.Place{}
	}
	return places
}

// Cache TTLs for geocoding lookups.
const (
	cityCacheTTL    = 24 * 60 * 60
	reverseCacheTTL = 60 * 60
)

// CachedGeocoder wraps a PlacesProvider and caches city and reverse
// geocoding results, which change rarely. Searches pass straight through.
type CachedGeocoder struct {
	ports.PlacesProvider
	cache ports.CacheService
}

// NewCachedGeocoder wraps next. A nil cache disables caching.
func NewCachedGeocoder(next ports.PlacesProvider, cache ports.CacheService) *CachedGeocoder {
	return &CachedGeocoder{PlacesProvider: next, cache: cache}
}

// GeocodeCity returns a cached match when available. Misses are not cached.
func (g *CachedGeocoder) GeocodeCity(ctx context.Context, text string) (*domain.CityMatch, error) {
	cacheKey := "geocode:city:" + strings.ToLower(strings.TrimSpace(text))
	if g.cache != nil {
		if data, err := g.cache.Get(ctx, cacheKey); err == nil {
			var m domain.CityMatch
			if err := json.Unmarshal(data, &m); err == nil {
				metrics.CacheHits.WithLabelValues("geocode_city").Inc()
				return &m, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("geocode_city").Inc()
	}

	m, err := g.PlacesProvider.GeocodeCity(ctx, text)
	if err != nil || m == nil {
		return m, err
	}

	if g.cache != nil {
		if data, err := json.Marshal(m); err == nil {
			_ = g.cache.Set(ctx, cacheKey, data, cityCacheTTL)
		}
	}
	return m, nil
}

// ReverseGeocode caches resolved addresses. The coordinate fallback is
// never cached so a later call can still resolve.
func (g *CachedGeocoder) ReverseGeocode(ctx context.Context, c domain.Coordinates) string {
	cacheKey := fmt.Sprintf("geocode:reverse:%.5f:%.5f", c.Lat, c.Lon)
	if g.cache != nil {
		if data, err := g.cache.Get(ctx, cacheKey); err == nil && len(data) > 0 {
			metrics.CacheHits.WithLabelValues("geocode_reverse").Inc()
			return string(data)
		}
		metrics.CacheMisses.WithLabelValues("geocode_reverse").Inc()
	}

	addr := g.PlacesProvider.ReverseGeocode(ctx, c)
	if g.cache != nil && addr != c.String() {
		_ = g.cache.Set(ctx, cacheKey, []byte(addr), reverseCacheTTL)
	}
	return addr
}
