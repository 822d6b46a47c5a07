package http

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/simhastha/margdarshak/internal/core/domain"
	"github.com/simhastha/margdarshak/internal/core/ports"
)

// wsCanvas implements ports.MapCanvas by emitting one JSON operation
// per call over the WebSocket. The thin client applies the operations
// to its local map verbatim.
type wsCanvas struct {
	mu   *sync.Mutex
	conn *websocket.Conn
}

func newWSCanvas(mu *sync.Mutex, conn *websocket.Conn) *wsCanvas {
	return &wsCanvas{mu: mu, conn: conn}
}

// canvasOp is the wire form of a single canvas operation.
type canvasOp struct {
	Action    string                `json:"action"`
	ID        string                `json:"id,omitempty"`
	Pos       *domain.Position      `json:"pos,omitempty"`
	Icon      *ports.MarkerIcon     `json:"icon,omitempty"`
	ZIndex    int                   `json:"z_index,omitempty"`
	Clickable *bool                 `json:"clickable,omitempty"`
	Geometry  *domain.RouteGeometry `json:"geometry,omitempty"`
	Zoom      int                   `json:"zoom,omitempty"`
	Bounds    *domain.Bounds        `json:"bounds,omitempty"`
	Padding   int                   `json:"padding,omitempty"`
}

func (c *wsCanvas) emit(op canvasOp) {
	data, err := json.Marshal(struct {
		Type string   `json:"type"`
		Op   canvasOp `json:"op"`
	}{Type: "canvas", Op: op})
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsCanvas) AddMarker(id string, pos domain.Position, icon ports.MarkerIcon, zIndex int, clickable bool) {
	c.emit(canvasOp{Action: "add_marker", ID: id, Pos: &pos, Icon: &icon, ZIndex: zIndex, Clickable: &clickable})
}

func (c *wsCanvas) UpdateMarker(id string, icon ports.MarkerIcon, zIndex int) {
	c.emit(canvasOp{Action: "update_marker", ID: id, Icon: &icon, ZIndex: zIndex})
}

func (c *wsCanvas) MoveMarker(id string, pos domain.Position) {
	c.emit(canvasOp{Action: "move_marker", ID: id, Pos: &pos})
}

func (c *wsCanvas) RemoveMarker(id string) {
	c.emit(canvasOp{Action: "remove_marker", ID: id})
}

func (c *wsCanvas) DrawRoute(geometry *domain.RouteGeometry) {
	c.emit(canvasOp{Action: "draw_route", Geometry: geometry})
}

func (c *wsCanvas) ClearRoute() {
	c.emit(canvasOp{Action: "clear_route"})
}

func (c *wsCanvas) SetView(pos domain.Position, zoom int) {
	c.emit(canvasOp{Action: "set_view", Pos: &pos, Zoom: zoom})
}

func (c *wsCanvas) FitBounds(bounds domain.Bounds, padding int) {
	c.emit(canvasOp{Action: "fit_bounds", Bounds: &bounds, Padding: padding})
}

func (c *wsCanvas) Release() {
	c.emit(canvasOp{Action: "release"})
}
