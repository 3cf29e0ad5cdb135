package usecases

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/core/ports"
	"github.com/samirrijal/litpass/internal/pkg/metrics"
)

// Autocomplete defaults.
const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultMinChars = 2
)

// AutocompleteState is the controller's lifecycle state.
type AutocompleteState int

const (
	StateIdle AutocompleteState = iota
	StateDebouncing
	StateInFlight
)

func (s AutocompleteState) String() string {
	switch s {
	case StateDebouncing:
		return "debouncing"
	case StateInFlight:
		return "in_flight"
	default:
		return "idle"
	}
}

// Suggestions is the list currently shown for a query. Seq is the sequence
// number of the keystroke that produced it.
type Suggestions struct {
	Seq    uint64         `json:"seq"`
	Text   string         `json:"text"`
	Places []domain.Place `json:"places"`
}

// OriginReader supplies the proximity bias for suggestions.
type OriginReader interface {
	CurrentOrigin() domain.SearchOrigin
}

// AutocompleteConfig tunes an Autocomplete controller. Zero values take
// the package defaults.
type AutocompleteConfig struct {
	Debounce time.Duration
	MinChars int
	Clock    Clock
	Logger   *slog.Logger
}

// Autocomplete debounces keystrokes into provider autocomplete calls and
// applies only the response belonging to the latest keystroke.
//
// Every call to Type bumps the sequence number. A timer that fires checks
// it still owns the latest number before issuing the request, and a
// response is applied only if no keystroke happened while it was in flight.
// Stale responses are dropped without notifying anyone. A response whose
// origin was switched while it was in flight is dropped and the request
// reissued with the new bias.
type Autocomplete struct {
	places ports.PlacesProvider
	origin OriginReader
	cfg    AutocompleteConfig

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	seq      uint64
	text     string
	state    AutocompleteState
	timer    Timer
	current  Suggestions
	onUpdate func(Suggestions)
	closed   bool
}

// NewAutocomplete creates a controller. origin may be nil, in which case
// suggestions are unbiased.
func NewAutocomplete(places ports.PlacesProvider, origin OriginReader, cfg AutocompleteConfig) *Autocomplete {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.MinChars <= 0 {
		cfg.MinChars = DefaultMinChars
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Autocomplete{
		places: places,
		origin: origin,
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

// OnUpdate registers the callback receiving every applied suggestion list.
// It is called without the controller lock held.
func (a *Autocomplete) OnUpdate(fn func(Suggestions)) {
	a.mu.Lock()
	a.onUpdate = fn
	a.mu.Unlock()
}

// Type records a keystroke. Text longer than MinChars (after trimming)
// restarts the debounce timer; anything shorter clears the list.
func (a *Autocomplete) Type(text string) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}

	a.seq++
	a.text = text
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}

	if len([]rune(strings.TrimSpace(text))) <= a.cfg.MinChars {
		a.state = StateIdle
		a.current = Suggestions{Seq: a.seq, Text: text}
		update, fn := a.current, a.onUpdate
		a.mu.Unlock()
		if fn != nil {
			fn(update)
		}
		return
	}

	seq := a.seq
	a.state = StateDebouncing
	a.timer = a.cfg.Clock.AfterFunc(a.cfg.Debounce, func() { a.fire(seq) })
	a.mu.Unlock()
}

// fire runs when the debounce timer for keystroke seq expires.
func (a *Autocomplete) fire(seq uint64) {
	a.mu.Lock()
	if a.closed || seq != a.seq {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.state = StateInFlight
	text := strings.TrimSpace(a.text)
	a.mu.Unlock()

	for {
		bias, version := a.bias()

		places, err := a.places.Autocomplete(a.ctx, text, bias)
		if err != nil {
			a.cfg.Logger.Debug("autocomplete failed", "text", text, "error", err)
			places = nil
		}

		a.mu.Lock()
		if a.closed || seq != a.seq {
			a.mu.Unlock()
			metrics.AutocompleteDiscarded.Inc()
			return
		}
		// A response biased towards a replaced origin is reissued for the
		// same keystroke.
		if _, now := a.bias(); now != version {
			a.mu.Unlock()
			metrics.AutocompleteDiscarded.Inc()
			a.cfg.Logger.Debug("autocomplete origin changed, reissuing", "text", text, "version", now)
			continue
		}
		a.state = StateIdle
		a.current = Suggestions{Seq: seq, Text: a.text, Places: places}
		update, fn := a.current, a.onUpdate
		a.mu.Unlock()

		if fn != nil {
			fn(update)
		}
		return
	}
}

// bias returns the proximity bias and the version of the origin it came
// from.
func (a *Autocomplete) bias() (*domain.Coordinates, uint64) {
	if a.origin == nil {
		return nil, 0
	}
	o := a.origin.CurrentOrigin()
	return &o.Coordinates, o.Version
}

// Suggestions returns the list currently applied.
func (a *Autocomplete) Suggestions() Suggestions {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// State returns the controller's current state.
func (a *Autocomplete) State() AutocompleteState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Seq returns the latest issued sequence number.
func (a *Autocomplete) Seq() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.seq
}

// Close stops the pending timer and abandons any in-flight request.
func (a *Autocomplete) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.state = StateIdle
	a.cancel()
}
