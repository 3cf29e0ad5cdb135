package maps

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/pkg/geospatial"
)

// Native renders onto a vector map Surface. Marker updates are diffed
// against what the surface already shows so only changes are sent.
type Native struct {
	surface Surface

	mu      sync.Mutex
	markers map[string]domain.Marker
	onPress func(id string)
}

// NewNative creates a native renderer over s.
func NewNative(s Surface) *Native {
	return &Native{surface: s, markers: make(map[string]domain.Marker)}
}

// SetCenter animates the camera to c at the given zoom.
func (n *Native) SetCenter(ctx context.Context, c domain.Coordinates, zoom float64) error {
	delta := geospatial.ZoomToDelta(zoom)
	return n.surface.AnimateCamera(ctx, Region{Center: c, LatDelta: delta, LonDelta: delta})
}

// FitRadius animates the camera to show a circle of radiusMeters around c.
func (n *Native) FitRadius(ctx context.Context, c domain.Coordinates, radiusMeters float64) error {
	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(c.Lat, c.Lon, radiusMeters)
	return n.surface.AnimateCamera(ctx, Region{
		Center:   c,
		LatDelta: maxLat - minLat,
		LonDelta: maxLon - minLon,
	})
}

// RenderMarkers brings the surface to exactly markers: stale markers are
// removed, changed ones updated and new ones added in tier order.
func (n *Native) RenderMarkers(ctx context.Context, markers []domain.Marker) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	next := make(map[string]domain.Marker, len(markers))
	for _, m := range markers {
		next[m.ID] = m
	}

	var stale []string
	for id := range n.markers {
		if _, ok := next[id]; !ok {
			stale = append(stale, id)
		}
	}
	sort.Strings(stale)
	for _, id := range stale {
		if err := n.surface.RemoveMarker(ctx, id); err != nil {
			return fmt.Errorf("remove marker %s: %w", id, err)
		}
		delete(n.markers, id)
	}

	for _, m := range domain.SortByTier(markers) {
		prev, ok := n.markers[m.ID]
		switch {
		case !ok:
			if err := n.surface.AddMarker(ctx, m); err != nil {
				return fmt.Errorf("add marker %s: %w", m.ID, err)
			}
		case prev != m:
			if err := n.surface.UpdateMarker(ctx, m); err != nil {
				return fmt.Errorf("update marker %s: %w", m.ID, err)
			}
		default:
			continue
		}
		n.markers[m.ID] = m
	}
	return nil
}

// OnMarkerPress registers the press callback.
func (n *Native) OnMarkerPress(fn func(id string)) {
	n.mu.Lock()
	n.onPress = fn
	n.mu.Unlock()
}

// Press is called by the surface when the user taps a marker.
func (n *Native) Press(id string) {
	n.mu.Lock()
	fn := n.onPress
	_, known := n.markers[id]
	n.mu.Unlock()
	if fn != nil && known {
		fn(id)
	}
}
