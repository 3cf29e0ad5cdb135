package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/litpass/internal/adapters/maps"
	natsadapter "github.com/samirrijal/litpass/internal/adapters/nats"
	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/core/ports"
	"github.com/samirrijal/litpass/internal/core/usecases"
	"github.com/samirrijal/litpass/internal/pkg/metrics"
)

// wsMessage is sent by the client.
//
//	{"action":"type","text":"bar"}             autocomplete keystroke
//	{"action":"select","id":"p1"}              promote a result marker
//	{"action":"subscribe","channel":"origin"}  relay origin changes
//	{"type":"markerPress","id":"p1"}           posted by a map view
type wsMessage struct {
	Action  string `json:"action"`
	Text    string `json:"text"`
	Channel string `json:"channel"` // origin | shares
	Type    string `json:"type"`
	ID      string `json:"id"`
}

// wsEvent is sent to the client.
type wsEvent struct {
	Type        string                `json:"type"`
	Suggestions *usecases.Suggestions `json:"suggestions,omitempty"`
	Op          *maps.Op              `json:"op,omitempty"`
	HTML        string                `json:"html,omitempty"`
	Text        string                `json:"text,omitempty"`
	ID          string                `json:"id,omitempty"`
	Event       json.RawMessage       `json:"event,omitempty"`
	Status      string                `json:"status,omitempty"`
	Subject     string                `json:"subject,omitempty"`
	Error       string                `json:"error,omitempty"`
}

// channelSubject maps a relay channel to the session's NATS subject.
func channelSubject(channel, sessionID string) (string, bool) {
	switch channel {
	case "origin":
		return natsadapter.OriginSubject(sessionID), true
	case "shares":
		return natsadapter.ShareSubject(sessionID), true
	}
	return "", false
}

// mapView is one client's map: the default backend plus what it shows.
// mu is held across computing and rendering so the last state change is
// also the last one drawn.
type mapView struct {
	sess     *Session
	renderer ports.MapRenderer
	zoom     float64

	mu       sync.Mutex
	places   []domain.Place
	selected string
}

func (v *mapView) redrawLocked(ctx context.Context) error {
	origin := v.sess.Resolver.CurrentOrigin()
	return v.renderer.RenderMarkers(ctx, usecases.MarkersFor(v.places, &origin, v.selected, nil))
}

func (v *mapView) setPlaces(ctx context.Context, places []domain.Place) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.places = places
	return v.redrawLocked(ctx)
}

func (v *mapView) selectPlace(ctx context.Context, id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = id
	return v.redrawLocked(ctx)
}

func (v *mapView) recenter(ctx context.Context, c domain.Coordinates) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.renderer.SetCenter(ctx, c, v.zoom); err != nil {
		return err
	}
	return v.redrawLocked(ctx)
}

// press hands a marker press posted by the client to the backend, which
// calls back through OnMarkerPress.
func (v *mapView) press(raw []byte, id string) error {
	switch r := v.renderer.(type) {
	case *maps.Web:
		return r.HandleMessage(raw)
	case *maps.Native:
		r.Press(id)
	}
	return nil
}

// WebSocketHandler serves a live session: debounced autocomplete whose
// results are drawn on the session's map, share sheet delivery, and an
// optional relay of the session's NATS events.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		sess, _ := c.Locals(sessionLocal).(*Session)
		if sess == nil {
			return
		}

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()
		detach := sess.Attach()
		defer detach()

		logger := slog.Default().With("session_id", sess.ID, "remote", c.RemoteAddr().String())
		logger.Info("ws client connected")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var writeMu sync.Mutex
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			writeMu.Lock()
			defer writeMu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		zoom := deps.Map.DefaultZoom
		if zoom <= 0 {
			zoom = maps.DefaultZoom
		}
		view := &mapView{sess: sess, zoom: zoom}
		view.renderer = maps.NewDefault(maps.Config{
			Surface: maps.NewOpSurface(func(ctx context.Context, op maps.Op) error {
				return writeJSON(wsEvent{Type: "map", Op: &op})
			}),
			Sink: maps.SinkFunc(func(ctx context.Context, doc string) error {
				return writeJSON(wsEvent{Type: "map_document", HTML: doc})
			}),
			TileURL:     deps.Map.TileURL,
			Attribution: deps.Map.Attribution,
		})
		view.renderer.OnMarkerPress(func(id string) {
			_ = writeJSON(wsEvent{Type: "selected", ID: id})
			if err := view.selectPlace(ctx, id); err != nil {
				logger.Warn("ws redraw failed", "error", err)
			}
		})
		if err := view.recenter(ctx, sess.Resolver.CurrentOrigin().Coordinates); err != nil {
			logger.Warn("ws initial map render failed", "error", err)
			return
		}

		acCfg := deps.Autocomplete
		acCfg.Logger = logger
		ac := usecases.NewAutocomplete(deps.Provider, sess.Resolver, acCfg)
		defer ac.Close()
		ac.OnUpdate(func(s usecases.Suggestions) {
			_ = writeJSON(wsEvent{Type: "suggestions", Suggestions: &s})
			if err := view.setPlaces(ctx, s.Places); err != nil {
				logger.Warn("ws redraw failed", "error", err)
			}
		})

		done := make(chan struct{})

		// Keep-alive ping and share sheet delivery
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					writeMu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					writeMu.Unlock()
					if err != nil {
						return
					}
				case text := <-sess.Sheet.Pending():
					if err := writeJSON(wsEvent{Type: "share", Text: text}); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		subs := make(map[string]*nats.Subscription)

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(raw, &m); err != nil {
				_ = writeJSON(wsEvent{Type: "error", Error: "invalid JSON"})
				continue
			}

			if m.Type == "markerPress" {
				if err := view.press(raw, m.ID); err != nil {
					_ = writeJSON(wsEvent{Type: "error", Error: err.Error()})
				}
				continue
			}

			switch m.Action {
			case "type":
				ac.Type(m.Text)

			case "select":
				if err := view.selectPlace(ctx, m.ID); err != nil {
					logger.Warn("ws redraw failed", "error", err)
				}

			case "subscribe":
				subject, ok := channelSubject(m.Channel, sess.ID)
				if !ok {
					_ = writeJSON(wsEvent{Type: "error", Error: "unknown channel: " + m.Channel})
					continue
				}
				if deps.NATS == nil {
					_ = writeJSON(wsEvent{Type: "error", Error: "event relay unavailable"})
					continue
				}
				if _, exists := subs[subject]; exists {
					_ = writeJSON(wsEvent{Type: "status", Status: "already subscribed", Subject: subject})
					continue
				}
				channel := m.Channel
				s, err := deps.NATS.Subscribe(subject, func(msg *nats.Msg) {
					_ = writeJSON(wsEvent{Type: channel, Event: json.RawMessage(msg.Data)})
					if channel != "origin" {
						return
					}
					var ev domain.OriginChanged
					if err := json.Unmarshal(msg.Data, &ev); err == nil {
						if err := view.recenter(ctx, ev.Origin.Coordinates); err != nil {
							logger.Warn("ws recenter failed", "error", err)
						}
					}
				})
				if err != nil {
					_ = writeJSON(wsEvent{Type: "error", Error: "subscribe failed: " + err.Error()})
					continue
				}
				subs[subject] = s
				_ = writeJSON(wsEvent{Type: "status", Status: "subscribed", Subject: subject})

			case "unsubscribe":
				subject, _ := channelSubject(m.Channel, sess.ID)
				if s, exists := subs[subject]; exists {
					_ = s.Unsubscribe()
					delete(subs, subject)
					_ = writeJSON(wsEvent{Type: "status", Status: "unsubscribed", Subject: subject})
				} else {
					_ = writeJSON(wsEvent{Type: "error", Error: "not subscribed to " + m.Channel})
				}

			default:
				_ = writeJSON(wsEvent{Type: "error", Error: "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		logger.Info("ws client disconnected")
	}
}
