package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/core/usecases"
)

var (
	duomo   = domain.Coordinates{Lat: 45.4641, Lon: 9.1919}
	navigli = domain.Coordinates{Lat: 45.4520, Lon: 9.1760}
)

func newResolver(places *mockPlaces, locator *mockLocator, pub *mockPublisher) *usecases.LocationResolver {
	opts := []usecases.ResolverOption{usecases.WithResolverClock(newFakeClock())}
	if locator != nil {
		opts = append(opts, usecases.WithLocator(locator))
	}
	if pub != nil {
		opts = append(opts, usecases.WithPublisher(pub))
	}
	return usecases.NewLocationResolver("sess-1", places, milan, "Milan", opts...)
}

func TestLocationResolver_DefaultOrigin(t *testing.T) {
	r := newResolver(&mockPlaces{}, nil, nil)

	first := r.CurrentOrigin()
	second := r.CurrentOrigin()
	if first != second {
		t.Errorf("reads must be idempotent: %+v vs %+v", first, second)
	}
	if first.Source != domain.OriginDefault || first.Coordinates != milan || first.Label != "Milan" {
		t.Errorf("unexpected default origin: %+v", first)
	}
}

func TestLocationResolver_DeviceFix(t *testing.T) {
	pub := &mockPublisher{}
	r := newResolver(&mockPlaces{}, &mockLocator{status: domain.PermissionGranted, pos: navigli}, pub)

	pos, err := r.RequestDeviceFix(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos != navigli {
		t.Errorf("unexpected fix %v", pos)
	}
	o := r.CurrentOrigin()
	if o.Source != domain.OriginDevice || o.Coordinates != navigli || o.Version != 1 {
		t.Errorf("unexpected origin after fix: %+v", o)
	}
	if len(pub.origins) != 1 || pub.origins[0].SessionID != "sess-1" {
		t.Errorf("expected one OriginChanged event, got %+v", pub.origins)
	}
}

func TestLocationResolver_ManualBeatsLaterDeviceFix(t *testing.T) {
	pub := &mockPublisher{}
	r := newResolver(&mockPlaces{}, &mockLocator{status: domain.PermissionGranted, pos: navigli}, pub)
	ctx := context.Background()

	r.SetManualOrigin(ctx, duomo, "Duomo")
	if _, err := r.RequestDeviceFix(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o := r.CurrentOrigin()
	if o.Source != domain.OriginManual || o.Coordinates != duomo {
		t.Fatalf("manual origin must win over a later device fix, got %+v", o)
	}
	if len(pub.origins) != 1 {
		t.Errorf("a fix hidden behind a manual origin must not publish, got %d events", len(pub.origins))
	}

	cleared := r.ClearManualOrigin(ctx)
	if cleared.Source != domain.OriginDevice || cleared.Coordinates != navigli {
		t.Errorf("expected device origin after clearing manual, got %+v", cleared)
	}
	if cleared.Version != 2 {
		t.Errorf("expected version 2, got %d", cleared.Version)
	}
}

func TestLocationResolver_PermissionDenied(t *testing.T) {
	pub := &mockPublisher{}
	r := newResolver(&mockPlaces{}, &mockLocator{status: domain.PermissionDenied}, pub)

	_, err := r.RequestDeviceFix(context.Background())
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	o := r.CurrentOrigin()
	if o.Source != domain.OriginDefault || o.Coordinates != milan {
		t.Errorf("expected default origin, got %+v", o)
	}
	if len(pub.origins) != 0 {
		t.Errorf("denial must not publish, got %d events", len(pub.origins))
	}
}

func TestLocationResolver_DenialForgetsEarlierFix(t *testing.T) {
	pub := &mockPublisher{}
	locator := &mockLocator{status: domain.PermissionGranted, pos: navigli}
	r := newResolver(&mockPlaces{}, locator, pub)

	if _, err := r.RequestDeviceFix(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	locator.status = domain.PermissionDenied
	_, err := r.RequestDeviceFix(context.Background())
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	o := r.CurrentOrigin()
	if o.Source != domain.OriginDefault || o.Coordinates != milan || o.Version != 2 {
		t.Errorf("expected default origin at version 2, got %+v", o)
	}
	if len(pub.origins) != 2 {
		t.Errorf("expected grant and downgrade events, got %d", len(pub.origins))
	}
}

func TestLocationResolver_DenialKeepsManualOrigin(t *testing.T) {
	locator := &mockLocator{status: domain.PermissionGranted, pos: navigli}
	r := newResolver(&mockPlaces{}, locator, nil)
	ctx := context.Background()

	if _, err := r.RequestDeviceFix(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.SetManualOrigin(ctx, duomo, "Duomo")

	locator.status = domain.PermissionDenied
	if _, err := r.RequestDeviceFix(ctx); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if o := r.CurrentOrigin(); o.Source != domain.OriginManual || o.Version != 2 {
		t.Errorf("manual origin must survive a denial unchanged, got %+v", o)
	}

	if o := r.ClearManualOrigin(ctx); o.Source != domain.OriginDefault {
		t.Errorf("cleared manual origin must skip the forgotten fix, got %+v", o)
	}
}

func TestLocationResolver_PositionError(t *testing.T) {
	r := newResolver(&mockPlaces{}, &mockLocator{status: domain.PermissionGranted, posErr: errors.New("no gps")}, nil)

	if _, err := r.RequestDeviceFix(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if r.CurrentOrigin().Source != domain.OriginDefault {
		t.Errorf("failed fix must leave origin untouched")
	}
}

func TestLocationResolver_NoLocator(t *testing.T) {
	r := newResolver(&mockPlaces{}, nil, nil)
	if _, err := r.RequestDeviceFix(context.Background()); !errors.Is(err, usecases.ErrNoLocator) {
		t.Fatalf("expected ErrNoLocator, got %v", err)
	}
}

func TestLocationResolver_CityGeocode(t *testing.T) {
	turin := domain.Coordinates{Lat: 45.0703, Lon: 7.6869}
	places := &mockPlaces{
		cityFn: func(ctx context.Context, text string) (*domain.CityMatch, error) {
			if text == "Turin" {
				return &domain.CityMatch{Coordinates: turin, FormattedName: "Turin, Piedmont, Italy"}, nil
			}
			return nil, nil
		},
	}
	r := newResolver(places, nil, nil)

	o, err := r.SetManualOriginFromCity(context.Background(), " Turin ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Source != domain.OriginManual || o.Coordinates != turin || o.Label != "Turin, Piedmont, Italy" {
		t.Errorf("unexpected origin: %+v", o)
	}
	if r.CurrentOrigin() != o {
		t.Errorf("current origin should equal returned origin")
	}
}

func TestLocationResolver_CityNoMatch(t *testing.T) {
	r := newResolver(&mockPlaces{}, nil, nil)

	_, err := r.SetManualOriginFromCity(context.Background(), "Atlantis")
	if !errors.Is(err, domain.ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
	if r.CurrentOrigin().Source != domain.OriginDefault {
		t.Errorf("origin must be unchanged after no match")
	}
}

func TestLocationResolver_LastWriterWins(t *testing.T) {
	r := newResolver(&mockPlaces{}, nil, nil)
	ctx := context.Background()

	r.SetManualOrigin(ctx, duomo, "Duomo")
	o := r.SetManualOrigin(ctx, navigli, "Navigli")

	if o.Coordinates != navigli || o.Label != "Navigli" || o.Version != 2 {
		t.Errorf("unexpected origin: %+v", o)
	}
}
