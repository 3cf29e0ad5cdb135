package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/core/ports"
	"github.com/samirrijal/litpass/internal/pkg/metrics"
)

// ErrNoLocator is returned by RequestDeviceFix when no device location
// service is attached.
var ErrNoLocator = errors.New("no device locator configured")

// LocationResolver owns a session's search origin.
//
// Precedence is manual > device > default. Writers replace their slot
// wholesale and the effective origin is recomputed; whenever it changes
// its Version is bumped and an OriginChanged event is published.
type LocationResolver struct {
	sessionID string
	places    ports.PlacesProvider
	locator   ports.DeviceLocator
	publisher ports.EventPublisher
	clock     Clock
	logger    *slog.Logger

	mu       sync.RWMutex
	fallback domain.SearchOrigin
	manual   *domain.SearchOrigin
	device   *domain.SearchOrigin
	current  domain.SearchOrigin
}

// ResolverOption configures a LocationResolver.
type ResolverOption func(*LocationResolver)

// WithPublisher publishes OriginChanged events through p.
func WithPublisher(p ports.EventPublisher) ResolverOption {
	return func(r *LocationResolver) { r.publisher = p }
}

// WithLocator attaches the device location service.
func WithLocator(l ports.DeviceLocator) ResolverOption {
	return func(r *LocationResolver) { r.locator = l }
}

// WithResolverClock overrides the clock used to stamp events.
func WithResolverClock(c Clock) ResolverOption {
	return func(r *LocationResolver) { r.clock = c }
}

// WithResolverLogger sets a logger.
func WithResolverLogger(l *slog.Logger) ResolverOption {
	return func(r *LocationResolver) { r.logger = l }
}

// NewLocationResolver creates a resolver whose origin starts at fallback.
func NewLocationResolver(sessionID string, places ports.PlacesProvider, fallback domain.Coordinates, label string, opts ...ResolverOption) *LocationResolver {
	r := &LocationResolver{
		sessionID: sessionID,
		places:    places,
		clock:     SystemClock{},
		logger:    slog.Default(),
		fallback:  domain.SearchOrigin{Source: domain.OriginDefault, Coordinates: fallback, Label: label},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.current = r.fallback
	return r
}

// CurrentOrigin returns the effective origin. It never performs I/O.
func (r *LocationResolver) CurrentOrigin() domain.SearchOrigin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// RequestDeviceFix asks for location permission and, when granted, a
// position fix. Denial yields domain.ErrPermissionDenied and forgets any
// earlier device fix, so the origin falls back to manual or default.
func (r *LocationResolver) RequestDeviceFix(ctx context.Context) (domain.Coordinates, error) {
	if r.locator == nil {
		return domain.Coordinates{}, ErrNoLocator
	}

	status, err := r.locator.RequestPermission(ctx)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("request permission: %w", err)
	}
	if status != domain.PermissionGranted {
		r.logger.DebugContext(ctx, "location permission not granted", "session_id", r.sessionID, "status", status)
		r.write(ctx, func() { r.device = nil })
		return domain.Coordinates{}, domain.ErrPermissionDenied
	}

	pos, err := r.locator.CurrentPosition(ctx)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("current position: %w", err)
	}

	r.write(ctx, func() {
		r.device = &domain.SearchOrigin{Source: domain.OriginDevice, Coordinates: pos}
	})
	return pos, nil
}

// SetManualOrigin pins the origin to c until cleared or replaced.
func (r *LocationResolver) SetManualOrigin(ctx context.Context, c domain.Coordinates, label string) domain.SearchOrigin {
	return r.write(ctx, func() {
		r.manual = &domain.SearchOrigin{Source: domain.OriginManual, Coordinates: c, Label: label}
	})
}

// ClearManualOrigin drops the manual pin, falling back to device or default.
func (r *LocationResolver) ClearManualOrigin(ctx context.Context) domain.SearchOrigin {
	return r.write(ctx, func() { r.manual = nil })
}

// SetManualOriginFromCity geocodes a city name and pins the origin to it.
func (r *LocationResolver) SetManualOriginFromCity(ctx context.Context, text string) (domain.SearchOrigin, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.SearchOrigin{}, fmt.Errorf("city: %w", domain.ErrNoMatch)
	}

	match, err := r.places.GeocodeCity(ctx, text)
	if err != nil {
		return domain.SearchOrigin{}, fmt.Errorf("geocode city: %w", err)
	}
	if match == nil {
		return domain.SearchOrigin{}, fmt.Errorf("city %q: %w", text, domain.ErrNoMatch)
	}
	return r.SetManualOrigin(ctx, match.Coordinates, match.FormattedName), nil
}

// write applies mutate under the lock, recomputes the effective origin and
// publishes it if it changed.
func (r *LocationResolver) write(ctx context.Context, mutate func()) domain.SearchOrigin {
	r.mu.Lock()
	mutate()

	next := r.fallback
	switch {
	case r.manual != nil:
		next = *r.manual
	case r.device != nil:
		next = *r.device
	}

	changed := next.Source != r.current.Source ||
		next.Coordinates != r.current.Coordinates ||
		next.Label != r.current.Label
	if changed {
		next.Version = r.current.Version + 1
		r.current = next
	}
	current := r.current
	r.mu.Unlock()

	if changed {
		metrics.OriginChanges.WithLabelValues(string(current.Source)).Inc()
		r.publish(ctx, current)
	}
	return current
}

func (r *LocationResolver) publish(ctx context.Context, origin domain.SearchOrigin) {
	if r.publisher == nil {
		return
	}
	ev := &domain.OriginChanged{SessionID: r.sessionID, Origin: origin, At: r.clock.Now()}
	if err := r.publisher.PublishOriginChanged(ctx, ev); err != nil {
		r.logger.WarnContext(ctx, "publish origin changed", "session_id", r.sessionID, "error", err)
	}
}
