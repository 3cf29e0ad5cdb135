package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/litpass/internal/adapters/valkey"
	"github.com/samirrijal/litpass/internal/core/ports"
	"github.com/samirrijal/litpass/internal/core/usecases"
)

// MapSettings configures the map backends handed out to clients.
type MapSettings struct {
	TileURL     string
	Attribution string
	DefaultZoom float64
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Places       *usecases.PlaceService
	Categories   *usecases.CategoryService
	Suggestions  *usecases.SuggestionService
	Share        *usecases.ShareService
	Provider     ports.PlacesProvider // geocoding and live autocomplete
	Sessions     *Sessions
	Autocomplete usecases.AutocompleteConfig
	Map          MapSettings
	NATS         *nats.Conn
	Cache        *valkey.Cache
}
