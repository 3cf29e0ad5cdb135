package geoapify

import (
	"github.com/samirrijal/litpass/internal/core/domain"
)

// featureCollection is the GeoJSON envelope every Geoapify endpoint used
// here returns.
type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties properties `json:"properties"`
}

type properties struct {
	PlaceID      string   `json:"place_id"`
	Name         string   `json:"name"`
	Street       string   `json:"street"`
	Formatted    string   `json:"formatted"`
	AddressLine1 string   `json:"address_line1"`
	AddressLine2 string   `json:"address_line2"`
	City         string   `json:"city"`
	Country      string   `json:"country"`
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	Categories   []string `json:"categories"`
	Distance     *float64 `json:"distance"`
}

const unnamed = "Unnamed"

// toPlace maps a feature to a domain place. Nameless features fall back to
// their street, then to "Unnamed".
func (p properties) toPlace() domain.Place {
	name := p.Name
	if name == "" {
		name = p.Street
	}
	if name == "" {
		name = unnamed
	}
	return domain.Place{
		ID:               p.PlaceID,
		Name:             name,
		FormattedAddress: p.Formatted,
		AddressLine1:     p.AddressLine1,
		AddressLine2:     p.AddressLine2,
		City:             p.City,
		Country:          p.Country,
		Coordinates:      domain.Coordinates{Lat: p.Lat, Lon: p.Lon},
		Categories:       p.Categories,
		DistanceMeters:   p.Distance,
	}
}
