package maps

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"sync"

	"github.com/samirrijal/litpass/internal/core/domain"
)

// DefaultZoom is used until SetCenter is called.
const DefaultZoom = 13

//go:embed web_template.html
var webTemplateSrc string

var webTemplate = template.Must(template.New("map").Parse(webTemplateSrc))

// markerView is a marker in the shape the page script reads.
type markerView struct {
	ID     string  `json:"id"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Label  string  `json:"label"`
	Color  string  `json:"color"`
	Radius int     `json:"radius"`
}

type webPage struct {
	Center      domain.Coordinates
	Zoom        float64
	TileURL     string
	Attribution string
	Markers     []markerView
}

// pressMessage is what the page posts back when a marker is tapped.
type pressMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Web renders a complete Leaflet document for a WebView. There is no
// incremental path: every centre or marker change produces a new document.
type Web struct {
	sink        DocumentSink
	tileURL     string
	attribution string

	// loadMu orders documents handed to the sink; it is taken before mu.
	loadMu  sync.Mutex
	mu      sync.Mutex
	center  domain.Coordinates
	zoom    float64
	markers []domain.Marker
	doc     string
	onPress func(id string)
}

// NewWeb creates a web renderer. sink may be nil when the caller only
// reads Document.
func NewWeb(sink DocumentSink, tileURL, attribution string) *Web {
	return &Web{sink: sink, tileURL: tileURL, attribution: attribution, zoom: DefaultZoom}
}

// SetCenter moves the view and re-renders.
func (w *Web) SetCenter(ctx context.Context, c domain.Coordinates, zoom float64) error {
	w.loadMu.Lock()
	defer w.loadMu.Unlock()

	w.mu.Lock()
	w.center = c
	w.zoom = zoom
	doc, err := w.renderLocked()
	w.mu.Unlock()
	if err != nil {
		return err
	}
	return w.load(ctx, doc)
}

// RenderMarkers replaces the marker set and re-renders.
func (w *Web) RenderMarkers(ctx context.Context, markers []domain.Marker) error {
	w.loadMu.Lock()
	defer w.loadMu.Unlock()

	w.mu.Lock()
	w.markers = domain.SortByTier(markers)
	doc, err := w.renderLocked()
	w.mu.Unlock()
	if err != nil {
		return err
	}
	return w.load(ctx, doc)
}

// OnMarkerPress registers the press callback.
func (w *Web) OnMarkerPress(fn func(id string)) {
	w.mu.Lock()
	w.onPress = fn
	w.mu.Unlock()
}

// Document returns the most recently rendered document.
func (w *Web) Document() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.doc
}

// HandleMessage decodes a message posted by the page and dispatches marker
// presses for markers currently on the map. Other messages are ignored.
func (w *Web) HandleMessage(data []byte) error {
	var msg pressMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("decode map message: %w", err)
	}
	if msg.Type != "markerPress" || msg.ID == "" {
		return nil
	}

	w.mu.Lock()
	fn := w.onPress
	known := false
	for _, m := range w.markers {
		if m.ID == msg.ID {
			known = true
			break
		}
	}
	w.mu.Unlock()
	if fn != nil && known {
		fn(msg.ID)
	}
	return nil
}

func (w *Web) renderLocked() (string, error) {
	page := webPage{
		Center:      w.center,
		Zoom:        w.zoom,
		TileURL:     w.tileURL,
		Attribution: w.attribution,
		Markers:     make([]markerView, 0, len(w.markers)),
	}
	for _, m := range w.markers {
		radius := 7
		if m.Tier >= domain.TierUser {
			radius = 10
		}
		page.Markers = append(page.Markers, markerView{
			ID:     m.ID,
			Lat:    m.Coordinates.Lat,
			Lon:    m.Coordinates.Lon,
			Label:  m.Label,
			Color:  m.Tier.Color(),
			Radius: radius,
		})
	}

	var buf bytes.Buffer
	if err := webTemplate.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("render map document: %w", err)
	}
	w.doc = buf.String()
	return w.doc, nil
}

func (w *Web) load(ctx context.Context, doc string) error {
	if w.sink == nil {
		return nil
	}
	return w.sink.Load(ctx, doc)
}
