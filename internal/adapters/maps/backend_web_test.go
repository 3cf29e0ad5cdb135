//go:build web

package maps_test

import (
	"testing"

	"github.com/samirrijal/litpass/internal/adapters/maps"
)

func TestNewDefault_Web(t *testing.T) {
	r := maps.NewDefault(maps.Config{TileURL: "https://tiles/{z}/{x}/{y}.png"})
	if _, ok := r.(*maps.Web); !ok || maps.Backend != "web" {
		t.Errorf("expected web backend, got %T (%s)", r, maps.Backend)
	}
}
