package geospatial

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	// Milan Duomo to Milano Centrale, roughly 2.4 km
	d := Haversine(45.4642, 9.1900, 45.4861, 9.2046)
	if d < 2500 || d > 2900 {
		t.Errorf("expected ~2.7km, got %.0fm", d)
	}
	if got := Haversine(45.0, 9.0, 45.0, 9.0); got != 0 {
		t.Errorf("expected 0 for identical points, got %f", got)
	}
}

func TestBoundingBox(t *testing.T) {
	minLat, minLon, maxLat, maxLon := BoundingBox(45.4642, 9.19, 5000)
	if !(minLat < 45.4642 && maxLat > 45.4642 && minLon < 9.19 && maxLon > 9.19) {
		t.Fatalf("box does not contain centre: %f %f %f %f", minLat, minLon, maxLat, maxLon)
	}
	if math.Abs((maxLat-minLat)/2-5000/111320.0) > 1e-9 {
		t.Errorf("unexpected latitude span %f", maxLat-minLat)
	}
}

func TestZoomForRadius(t *testing.T) {
	near := ZoomForRadius(45.46, 1000)
	far := ZoomForRadius(45.46, 20000)
	if near <= far {
		t.Errorf("expected smaller radius to zoom in further: 1km=%v 20km=%v", near, far)
	}
	if z := ZoomForRadius(45.46, 0); z != 15 {
		t.Errorf("expected default zoom 15, got %v", z)
	}
}
