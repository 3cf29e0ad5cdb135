//go:build !web

package maps

import "github.com/samirrijal/litpass/internal/core/ports"

// Backend names the renderer NewDefault builds.
const Backend = "native"

// NewDefault builds the native renderer over cfg.Surface.
func NewDefault(cfg Config) ports.MapRenderer {
	return NewNative(cfg.Surface)
}
