package ports

import (
	"context"

	"github.com/samirrijal/litpass/internal/core/domain"
)

// PlacesProvider is the remote places / geocoding API.
type PlacesProvider interface {
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.Place, error)
	Autocomplete(ctx context.Context, text string, bias *domain.Coordinates) ([]domain.Place, error)
	// ReverseGeocode never fails; it falls back to formatted coordinates.
	ReverseGeocode(ctx context.Context, c domain.Coordinates) string
	// GeocodeCity returns nil, nil when nothing matches.
	GeocodeCity(ctx context.Context, text string) (*domain.CityMatch, error)
}

// DeviceLocator is the device location service (permission + fix).
type DeviceLocator interface {
	RequestPermission(ctx context.Context) (domain.PermissionStatus, error)
	CurrentPosition(ctx context.Context) (domain.Coordinates, error)
}

// ShareSheet hands plain text to the platform share sheet.
type ShareSheet interface {
	ShareText(ctx context.Context, text string) error
}
