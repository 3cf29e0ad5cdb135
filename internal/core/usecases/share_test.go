package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/core/usecases"
)

func TestFormatShare_Golden(t *testing.T) {
	got := usecases.FormatShare(domain.ShareTarget{
		Coordinates: domain.Coordinates{Lat: 45.4642, Lon: 9.19},
		Address:     "Piazza del Duomo, 20122 Milan, Italy",
		Label:       "Duomo di Milano",
	})
	want := "📍 Duomo di Milano\n" +
		"Piazza del Duomo, 20122 Milan, Italy\n" +
		"\n" +
		"Coordinates: 45.464200, 9.190000\n" +
		"Google Maps: https://www.google.com/maps?q=45.464200,9.190000\n" +
		"\n" +
		"Shared via LitPass"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatShare_NoLabelNoAddress(t *testing.T) {
	got := usecases.FormatShare(domain.ShareTarget{Coordinates: domain.Coordinates{Lat: -33.8688, Lon: 151.2093}})
	want := "📍 Shared Location\n" +
		"\n" +
		"Coordinates: -33.868800, 151.209300\n" +
		"Google Maps: https://www.google.com/maps?q=-33.868800,151.209300\n" +
		"\n" +
		"Shared via LitPass"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatShare_Deterministic(t *testing.T) {
	target := domain.ShareTarget{Coordinates: milan, Label: "Milan"}
	if usecases.FormatShare(target) != usecases.FormatShare(target) {
		t.Error("FormatShare must be deterministic")
	}
}

type recordingSheet struct {
	texts []string
	err   error
}

func (s *recordingSheet) ShareText(ctx context.Context, text string) error {
	if s.err != nil {
		return s.err
	}
	s.texts = append(s.texts, text)
	return nil
}

func TestShareService_FillsAddress(t *testing.T) {
	places := &mockPlaces{
		reverseFn: func(ctx context.Context, c domain.Coordinates) string { return "Via Torino 1, Milan" },
	}
	pub := &mockPublisher{}
	clock := newFakeClock()
	sheet := &recordingSheet{}
	svc := usecases.NewShareService(places, pub, clock, nil)

	shared, err := svc.Share(context.Background(), "sess-1", sheet, domain.ShareTarget{Coordinates: milan, Label: "Aperitivo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shared.Target.Address != "Via Torino 1, Milan" {
		t.Errorf("expected reverse geocoded address, got %q", shared.Target.Address)
	}
	if !shared.Target.Timestamp.Equal(clock.Now()) {
		t.Errorf("expected timestamp from clock, got %v", shared.Target.Timestamp)
	}
	if len(sheet.texts) != 1 || sheet.texts[0] != shared.Text {
		t.Errorf("share sheet did not receive the text: %v", sheet.texts)
	}
	if len(pub.shares) != 1 || pub.shares[0].SessionID != "sess-1" {
		t.Errorf("expected PlaceShared event, got %+v", pub.shares)
	}
}

func TestShareService_CoordinateFallbackOmitsAddress(t *testing.T) {
	svc := usecases.NewShareService(&mockPlaces{}, nil, newFakeClock(), nil)

	shared, err := svc.Share(context.Background(), "sess-1", nil, domain.ShareTarget{Coordinates: milan})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shared.Target.Address != "" {
		t.Errorf("expected no address line, got %q", shared.Target.Address)
	}
}

func TestShareService_KeepsGivenAddressAndTimestamp(t *testing.T) {
	called := false
	places := &mockPlaces{
		reverseFn: func(ctx context.Context, c domain.Coordinates) string { called = true; return "x" },
	}
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := usecases.NewShareService(places, nil, newFakeClock(), nil)

	shared, err := svc.Share(context.Background(), "s", nil, domain.ShareTarget{Coordinates: milan, Address: "Given", Timestamp: ts})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("reverse geocode must not run when an address is given")
	}
	if shared.Target.Address != "Given" || !shared.Target.Timestamp.Equal(ts) {
		t.Errorf("unexpected target: %+v", shared.Target)
	}
}

func TestShareService_InvalidCoordinates(t *testing.T) {
	svc := usecases.NewShareService(&mockPlaces{}, nil, nil, nil)
	if _, err := svc.Share(context.Background(), "s", nil, domain.ShareTarget{Coordinates: domain.Coordinates{Lat: 91}}); err == nil {
		t.Error("expected error for invalid latitude")
	}
}

func TestShareService_SheetError(t *testing.T) {
	pub := &mockPublisher{}
	svc := usecases.NewShareService(&mockPlaces{}, pub, nil, nil)
	sheet := &recordingSheet{err: errors.New("sheet closed")}

	if _, err := svc.Share(context.Background(), "s", sheet, domain.ShareTarget{Coordinates: milan}); err == nil {
		t.Fatal("expected error from share sheet")
	}
	if len(pub.shares) != 0 {
		t.Error("nothing should be published when the sheet fails")
	}
}
