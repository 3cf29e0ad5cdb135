package ports

import (
	"context"

	"github.com/samirrijal/litpass/internal/core/domain"
)

// MapRenderer is implemented by every map backend. Backends must render the
// same marker set with the same tier ordering; they differ only in update cost.
type MapRenderer interface {
	SetCenter(ctx context.Context, c domain.Coordinates, zoom float64) error
	// RenderMarkers replaces the full marker set. Callers should batch
	// changes: some backends redraw everything on each call.
	RenderMarkers(ctx context.Context, markers []domain.Marker) error
	OnMarkerPress(fn func(id string))
}
