//go:build web

package maps

import "github.com/samirrijal/litpass/internal/core/ports"

// Backend names the renderer NewDefault builds.
const Backend = "web"

// NewDefault builds the web renderer feeding cfg.Sink.
func NewDefault(cfg Config) ports.MapRenderer {
	return NewWeb(cfg.Sink, cfg.TileURL, cfg.Attribution)
}
