package usecases

import "github.com/samirrijal/litpass/internal/core/domain"

// UserMarkerID identifies the "you are here" marker.
const UserMarkerID = "user"

// MarkersFor builds the marker set shared by every map backend: one marker
// per place (the selected one promoted), the origin marker and any event
// markers, ordered lowest tier first.
func MarkersFor(places []domain.Place, origin *domain.SearchOrigin, selectedID string, events []domain.Marker) []domain.Marker {
	markers := make([]domain.Marker, 0, len(places)+len(events)+1)

	for _, ev := range events {
		ev.Tier = domain.TierEvent
		markers = append(markers, ev)
	}

	for _, p := range places {
		tier := domain.TierResult
		if selectedID != "" && p.ID == selectedID {
			tier = domain.TierSelected
		}
		markers = append(markers, domain.Marker{
			ID:          p.ID,
			Coordinates: p.Coordinates,
			Label:       p.Name,
			Tier:        tier,
		})
	}

	if origin != nil {
		label := origin.Label
		if origin.Source == domain.OriginDevice || label == "" {
			label = "You are here"
		}
		markers = append(markers, domain.Marker{
			ID:          UserMarkerID,
			Coordinates: origin.Coordinates,
			Label:       label,
			Tier:        domain.TierUser,
		})
	}

	return domain.SortByTier(markers)
}
