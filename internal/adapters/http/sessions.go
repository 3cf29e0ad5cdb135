package http

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/litpass/internal/adapters/device"
	"github.com/samirrijal/litpass/internal/core/ports"
	"github.com/samirrijal/litpass/internal/core/usecases"
	"github.com/samirrijal/litpass/internal/pkg/metrics"
	"github.com/samirrijal/litpass/internal/pkg/telemetry"
)

// SessionHeader carries the client's session ID. Clients that cannot set
// headers (websockets, WebViews) pass it as the session_id query parameter.
const SessionHeader = "X-Session-ID"

const (
	sessionLocal    = "session"
	shareQueueDepth = 8
)

// Session is the server-side state of one client: its search origin and
// the device adapters the client feeds.
type Session struct {
	ID       string
	Resolver *usecases.LocationResolver
	Locator  *device.Reported
	Sheet    *device.Sheet

	mu       sync.Mutex
	lastSeen time.Time
	sockets  int
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// Attach marks a live websocket on the session. The session is not swept
// until the returned detach func has been called.
func (s *Session) Attach() (detach func()) {
	s.mu.Lock()
	s.sockets++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.sockets--
			s.lastSeen = time.Now()
			s.mu.Unlock()
		})
	}
}

// idle reports whether the session has no live socket and was last seen
// before cutoff.
func (s *Session) idle(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sockets == 0 && s.lastSeen.Before(cutoff)
}

// ResolverFactory builds the LocationResolver for a new session.
type ResolverFactory func(sessionID string, locator ports.DeviceLocator) *usecases.LocationResolver

// Sessions is the registry of live sessions.
type Sessions struct {
	newResolver ResolverFactory
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessions creates an empty registry.
func NewSessions(newResolver ResolverFactory) *Sessions {
	return &Sessions{
		newResolver: newResolver,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

// Get returns the session for id, creating it on first use.
func (s *Sessions) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		locator := device.NewReported()
		sess = &Session{
			ID:       id,
			Resolver: s.newResolver(id, locator),
			Locator:  locator,
			Sheet:    device.NewSheet(shareQueueDepth),
		}
		s.sessions[id] = sess
		metrics.ActiveSessions.Inc()
	}
	sess.touch(s.now())
	return sess
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions unused for longer than idle and returns how many
// were removed. Sessions with a live websocket are kept.
func (s *Sessions) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.idle(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	metrics.ActiveSessions.Sub(float64(removed))
	return removed
}

// RunSweeper sweeps every interval until ctx is done.
func (s *Sessions) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(idle); n > 0 {
				LoggerFromCtx(ctx).Debug("swept idle sessions", "count", n)
			}
		}
	}
}

// SessionMiddleware attaches the caller's session, minting an ID when the
// request carries none (or an unparsable one), and echoes the ID back.
func SessionMiddleware(sessions *Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := utils.CopyString(c.Get(SessionHeader))
		if id == "" {
			id = utils.CopyString(c.Query("session_id"))
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		sess := sessions.Get(id)
		c.Locals(sessionLocal, sess)
		c.Set(SessionHeader, id)

		ctx := c.UserContext()
		trace.SpanFromContext(ctx).SetAttributes(attribute.String(telemetry.AttrSessionID, id))
		c.SetUserContext(withLogger(ctx, LoggerFromCtx(ctx).With("session_id", id)))

		return c.Next()
	}
}

func sessionFrom(c *fiber.Ctx) *Session {
	sess, _ := c.Locals(sessionLocal).(*Session)
	return sess
}
