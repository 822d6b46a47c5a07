package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/simhastha/margdarshak/internal/adapters/nats"
	"github.com/simhastha/margdarshak/internal/core/domain"
	"github.com/simhastha/margdarshak/internal/core/usecases"
	"github.com/simhastha/margdarshak/internal/pkg/metrics"
)

// clientMessage is what the thin map client sends.
type clientMessage struct {
	Type   string  `json:"type"` // init | position | position_error | filter | select | clear_selection | click | route | route_clear | locate_me | chat
	Lat    float64 `json:"lat,omitempty"`
	Lng    float64 `json:"lng,omitempty"`
	Filter string  `json:"filter,omitempty"`
	ID     string  `json:"id,omitempty"`
	From   string  `json:"from,omitempty"`
	To     string  `json:"to,omitempty"`
	Text   string  `json:"text,omitempty"`
}

// mapSession wires one connection's collaborators together. lastPos and
// locationNotified belong to the connection's read goroutine; the chat
// position sampler runs on that goroutine too, so a chat turn never
// reads dashboard state owned by the command worker.
type mapSession struct {
	ctx       context.Context
	deps      *Dependencies
	dash      *usecases.Dashboard
	mapSync   *usecases.MapSynchronizer
	chat      *usecases.ChatSession
	enqueue   func(func())
	writeJSON func(interface{})

	lastPos          *domain.Position
	locationNotified bool
}

// userPosition is the chat sampler: the last fix seen by the read loop,
// or nil before the first one.
func (s *mapSession) userPosition() *domain.Position { return s.lastPos }

// MapSessionHandler owns one client's map view: a dashboard drives a
// per-connection canvas, parking updates from NATS refresh it, and a
// chat session streams assistant turns back over the same socket.
func MapSessionHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("map session connected", "remote", remoteAddr)

		var writeMu sync.Mutex
		writeJSON := func(v interface{}) {
			data, err := json.Marshal(v)
			if err != nil {
				return
			}
			writeMu.Lock()
			defer writeMu.Unlock()
			_ = c.WriteMessage(websocket.TextMessage, data)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// All dashboard access is funnelled through this channel; the
		// worker below is the only goroutine touching session state.
		cmds := make(chan func(), 32)
		enqueue := func(fn func()) {
			select {
			case cmds <- fn:
			case <-ctx.Done():
			}
		}

		canvas := newWSCanvas(&writeMu, c)
		var dash *usecases.Dashboard
		mapSync := usecases.NewMapSynchronizer(canvas, deps.Routing, func(id string) {
			dash.SelectFacility(ctx, id)
		})
		dash = usecases.NewDashboard(deps.Facilities, mapSync)

		sess := &mapSession{
			ctx:       ctx,
			deps:      deps,
			dash:      dash,
			mapSync:   mapSync,
			enqueue:   enqueue,
			writeJSON: writeJSON,
		}

		chat := usecases.NewChatSession(deps.Chat, sess.userPosition,
			usecases.ChatEvents{
				OnUpdate: func(messages []domain.ChatMessage) {
					writeJSON(fiber.Map{"type": "chat", "messages": messages})
				},
				OnLocate: func(id string) {
					enqueue(func() { dash.SelectFacility(ctx, id) })
				},
				OnRoute: func(route *domain.Route) {
					enqueue(func() { dash.SetRoute(ctx, route) })
				},
				OnDone: func() {
					writeJSON(fiber.Map{"type": "chat_done"})
				},
			})
		sess.chat = chat
		defer chat.Close()

		// Parking snapshots land in the shared registry before this
		// subscription fires; the session only needs to re-render.
		var parkingSub *nats.Subscription
		if deps.NATS != nil {
			sub, err := deps.NATS.Subscribe(natsadapter.SubjectParkingStatus, func(msg *nats.Msg) {
				enqueue(func() { dash.Refresh(ctx) })
			})
			if err != nil {
				slog.Warn("parking relay subscribe failed", "error", err)
			} else {
				parkingSub = sub
			}
			if sub, err := deps.NATS.Subscribe(natsadapter.SubjectParkingAlert, func(msg *nats.Msg) {
				writeJSON(fiber.Map{"type": "notice", "kind": "crowding_alert", "payload": json.RawMessage(msg.Data)})
			}); err == nil {
				defer func() { _ = sub.Unsubscribe() }()
			}
		}
		defer func() {
			if parkingSub != nil {
				_ = parkingSub.Unsubscribe()
			}
		}()

		workerDone := make(chan struct{})
		go func() {
			defer close(workerDone)
			for {
				select {
				case fn := <-cmds:
					fn()
				case <-ctx.Done():
					return
				}
			}
		}()

		// Keep-alive ping
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
				case <-ctx.Done():
					return
				}
			}
		}()

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}

			var msg clientMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				writeJSON(fiber.Map{"type": "error", "message": "invalid JSON"})
				continue
			}
			sess.handle(msg)
		}

		// Stop the worker before tearing down so no command races the
		// final canvas release.
		cancel()
		<-workerDone
		dash.Stop()
		slog.Info("map session disconnected", "remote", remoteAddr)
	}
}

func (s *mapSession) handle(msg clientMessage) {
	switch msg.Type {
	case "init":
		s.enqueue(func() { s.dash.Start(s.ctx) })
		s.writeJSON(fiber.Map{"type": "chat", "messages": s.chat.Messages()})

	case "position":
		pos := domain.Position{Lat: msg.Lat, Lng: msg.Lng}
		s.lastPos = &pos
		s.enqueue(func() { s.dash.UpdatePosition(s.ctx, pos) })

	case "position_error":
		// Geolocation denial degrades the session, never breaks it: one
		// notice, and everything except location features keeps working.
		if s.locationNotified {
			return
		}
		s.locationNotified = true
		s.writeJSON(fiber.Map{
			"type":    "notice",
			"kind":    "location_denied",
			"message": "Location access denied. The map still works, but nearby results and routes from your position are unavailable.",
		})

	case "filter":
		filter := usecases.Filter(msg.Filter)
		if !usecases.ValidFilter(filter) {
			s.writeJSON(fiber.Map{"type": "error", "message": "unknown filter: " + msg.Filter})
			return
		}
		s.enqueue(func() { s.dash.SetFilter(s.ctx, filter) })

	case "select":
		id := msg.ID
		s.enqueue(func() { s.dash.SelectFacility(s.ctx, id) })

	case "clear_selection":
		s.enqueue(func() { s.dash.ClearSelection(s.ctx) })

	case "click":
		id := msg.ID
		s.enqueue(func() { s.mapSync.HandleClick(id) })

	case "route":
		route, err := s.deps.Facilities.ResolveRoute(msg.From, msg.To)
		if err != nil {
			s.writeJSON(fiber.Map{"type": "error", "message": err.Error()})
			return
		}
		s.enqueue(func() { s.dash.SetRoute(s.ctx, route) })

	case "route_clear":
		s.enqueue(func() { s.dash.ClearRoute(s.ctx) })

	case "locate_me":
		s.enqueue(func() { s.dash.LocateMe(s.ctx) })

	case "chat":
		if err := s.chat.Send(s.ctx, msg.Text); err != nil {
			s.writeJSON(fiber.Map{"type": "error", "message": err.Error()})
		}

	default:
		s.writeJSON(fiber.Map{"type": "error", "message": "unknown message type: " + msg.Type})
	}
}
