// Package maps holds the two map backends. Native drives a vector map
// surface with incremental marker updates; Web re-synthesises a Leaflet
// document on every change. The default backend is chosen at build time.
package maps

import (
	"context"

	"github.com/samirrijal/litpass/internal/core/domain"
)

// Region is a camera viewport: a centre and the latitude/longitude spans.
type Region struct {
	Center   domain.Coordinates `json:"center"`
	LatDelta float64            `json:"lat_delta"`
	LonDelta float64            `json:"lon_delta"`
}

// Surface is a platform vector map. Implementations stack markers by
// Tier.ZIndex.
type Surface interface {
	AddMarker(ctx context.Context, m domain.Marker) error
	UpdateMarker(ctx context.Context, m domain.Marker) error
	RemoveMarker(ctx context.Context, id string) error
	AnimateCamera(ctx context.Context, r Region) error
}

// DocumentSink receives each complete web map document, typically a
// WebView loading it as its source.
type DocumentSink interface {
	Load(ctx context.Context, doc string) error
}

// SinkFunc adapts a function to DocumentSink.
type SinkFunc func(ctx context.Context, doc string) error

func (f SinkFunc) Load(ctx context.Context, doc string) error { return f(ctx, doc) }

// Config carries what either backend needs. Each backend ignores the
// fields it does not use.
type Config struct {
	Surface     Surface
	Sink        DocumentSink
	TileURL     string
	Attribution string
}

// Op is one surface operation in wire form.
type Op struct {
	Op     string         `json:"op"` // add, update, remove, camera
	Marker *domain.Marker `json:"marker,omitempty"`
	ID     string         `json:"id,omitempty"`
	ZIndex int            `json:"z_index,omitempty"`
	Color  string         `json:"color,omitempty"`
	Region *Region        `json:"region,omitempty"`
}

// OpSurface is a Surface that forwards every operation to emit, for a
// native client applying them to its own map view.
type OpSurface struct {
	emit func(ctx context.Context, op Op) error
}

// NewOpSurface creates an OpSurface.
func NewOpSurface(emit func(ctx context.Context, op Op) error) *OpSurface {
	return &OpSurface{emit: emit}
}

func (s *OpSurface) AddMarker(ctx context.Context, m domain.Marker) error {
	return s.emit(ctx, Op{Op: "add", Marker: &m, ZIndex: m.Tier.ZIndex(), Color: m.Tier.Color()})
}

func (s *OpSurface) UpdateMarker(ctx context.Context, m domain.Marker) error {
	return s.emit(ctx, Op{Op: "update", Marker: &m, ZIndex: m.Tier.ZIndex(), Color: m.Tier.Color()})
}

func (s *OpSurface) RemoveMarker(ctx context.Context, id string) error {
	return s.emit(ctx, Op{Op: "remove", ID: id})
}

func (s *OpSurface) AnimateCamera(ctx context.Context, r Region) error {
	return s.emit(ctx, Op{Op: "camera", Region: &r})
}
