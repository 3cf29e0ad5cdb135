package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/core/ports"
)

const (
	shareAppName       = "LitPass"
	shareDefaultHeader = "Shared Location"
)

// FormatShare renders the plain-text message for the share sheet.
func FormatShare(t domain.ShareTarget) string {
	var b strings.Builder

	header := t.Label
	if header == "" {
		header = shareDefaultHeader
	}
	fmt.Fprintf(&b, "📍 %s\n", header)
	if t.Address != "" {
		fmt.Fprintf(&b, "%s\n", t.Address)
	}
	fmt.Fprintf(&b, "\nCoordinates: %.6f, %.6f\n", t.Coordinates.Lat, t.Coordinates.Lon)
	fmt.Fprintf(&b, "Google Maps: https://www.google.com/maps?q=%.6f,%.6f\n", t.Coordinates.Lat, t.Coordinates.Lon)
	fmt.Fprintf(&b, "\nShared via %s", shareAppName)

	return b.String()
}

// ShareService builds share payloads, hands them to a share sheet and
// announces them.
type ShareService struct {
	places    ports.PlacesProvider
	publisher ports.EventPublisher
	clock     Clock
	logger    *slog.Logger
}

// NewShareService creates a new ShareService. publisher may be nil.
func NewShareService(places ports.PlacesProvider, publisher ports.EventPublisher, clock Clock, logger *slog.Logger) *ShareService {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ShareService{places: places, publisher: publisher, clock: clock, logger: logger}
}

// Share resolves a missing address by reverse geocoding, formats the text
// and passes it to sheet when one is given. The reverse geocode never
// blocks the share: when it only yields raw coordinates the address line
// is left out.
func (s *ShareService) Share(ctx context.Context, sessionID string, sheet ports.ShareSheet, target domain.ShareTarget) (*domain.PlaceShared, error) {
	if !target.Coordinates.Valid() {
		return nil, fmt.Errorf("share: invalid coordinates %s", target.Coordinates)
	}
	if target.Address == "" && s.places != nil {
		if addr := s.places.ReverseGeocode(ctx, target.Coordinates); addr != target.Coordinates.String() {
			target.Address = addr
		}
	}
	if target.Timestamp.IsZero() {
		target.Timestamp = s.clock.Now()
	}

	shared := &domain.PlaceShared{SessionID: sessionID, Target: target, Text: FormatShare(target)}

	if sheet != nil {
		if err := sheet.ShareText(ctx, shared.Text); err != nil {
			return nil, fmt.Errorf("share sheet: %w", err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPlaceShared(ctx, shared); err != nil {
			s.logger.WarnContext(ctx, "publish place shared", "session_id", sessionID, "error", err)
		}
	}
	return shared, nil
}
