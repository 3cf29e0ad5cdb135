//go:build !web

package maps_test

import (
	"testing"

	"github.com/samirrijal/litpass/internal/adapters/maps"
)

func TestNewDefault_Native(t *testing.T) {
	r := maps.NewDefault(maps.Config{Surface: &recordingSurface{}})
	if _, ok := r.(*maps.Native); !ok || maps.Backend != "native" {
		t.Errorf("expected native backend, got %T (%s)", r, maps.Backend)
	}
}
