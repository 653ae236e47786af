package websockets

import (
	"sync"

	"github.com/breatheclean/breatheclean_api/internal/mapview"
	"github.com/gorilla/websocket"
)

// Message types
const (
	MsgTypeReady       = "ready"
	MsgTypeSetRoutes   = "set_routes"
	MsgTypeSelectRoute = "select_route"
	MsgTypePick        = "pick"
	MsgTypeClick       = "click"
	MsgTypeLocate      = "locate"
	MsgTypePosition    = "position"
)

// Client represents a connected map surface and its server-held view state.
type Client struct {
	Conn   *websocket.Conn
	UserID string
	View   *mapview.View
}

type MapViewManager struct {
	clients    map[*websocket.Conn]*Client
	register   chan *Client
	unregister chan *websocket.Conn
	resolver   mapview.AddressResolver
	mu         sync.Mutex
}

// Message struct for incoming WebSocket commands
type Message struct {
	Type   string          `json:"type"`
	Routes []mapview.Route `json:"routes,omitempty"`
	Index  int             `json:"index,omitempty"`
	Target string          `json:"target,omitempty"`
	Lng    float64         `json:"lng,omitempty"`
	Lat    float64         `json:"lat,omitempty"`
}

// FrameMessage is the render state pushed back after every command.
type FrameMessage struct {
	Type  string        `json:"type"`
	Frame mapview.Frame `json:"frame"`
}
