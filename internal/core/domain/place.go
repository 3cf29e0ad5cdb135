package domain

// Place is a single point of interest returned by the places provider.
// Places are created per response and never mutated afterwards.
type Place struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	FormattedAddress string      `json:"formatted_address"`
	AddressLine1     string      `json:"address_line1,omitempty"`
	AddressLine2     string      `json:"address_line2,omitempty"`
	City             string      `json:"city,omitempty"`
	Country          string      `json:"country,omitempty"`
	Coordinates      Coordinates `json:"coordinates"`
	Categories       []string    `json:"categories,omitempty"`
	DistanceMeters   *float64    `json:"distance_meters,omitempty"` // set only when an origin was supplied
}

// CityMatch is the single best match for a free-text city lookup.
type CityMatch struct {
	Coordinates   Coordinates `json:"coordinates"`
	FormattedName string      `json:"formatted_name"`
}

// SearchQuery describes one provider search.
type SearchQuery struct {
	Text         string       `json:"text,omitempty"`
	Origin       *Coordinates `json:"origin,omitempty"`
	RadiusMeters int          `json:"radius_meters,omitempty"`
	Categories   []string     `json:"categories,omitempty"`
	Limit        int          `json:"limit,omitempty"`
}

// Search radii offered to users.
const (
	Radius1km  = 1000
	Radius5km  = 5000
	Radius10km = 10000
	Radius20km = 20000

	DefaultRadius = Radius5km
)

// Radii lists the selectable radii in ascending order.
var Radii = []int{Radius1km, Radius5km, Radius10km, Radius20km}

// ValidRadius reports whether meters is one of the selectable radii.
// The places client itself accepts any radius.
func ValidRadius(meters int) bool {
	for _, r := range Radii {
		if r == meters {
			return true
		}
	}
	return false
}

// DedupeByID keeps the first occurrence of every place ID, preserving order.
func DedupeByID(places []Place) []Place {
	seen := make(map[string]struct{}, len(places))
	out := make([]Place, 0, len(places))
	for _, p := range places {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
