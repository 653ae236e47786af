package websockets

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/breatheclean/breatheclean_api/internal/mapview"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewMapViewManager initializes a MapViewManager
func NewMapViewManager(resolver mapview.AddressResolver) *MapViewManager {
	return &MapViewManager{
		clients:    make(map[*websocket.Conn]*Client),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		resolver:   resolver,
	}
}

// Run starts the connection bookkeeping loop
func (manager *MapViewManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client.Conn] = client
			manager.mu.Unlock()

		case conn := <-manager.unregister:
			manager.mu.Lock()
			if client, exists := manager.clients[conn]; exists {
				delete(manager.clients, conn)
				conn.Close()
				log.Printf("Map surface for %s disconnected", client.UserID)
			}
			manager.mu.Unlock()
		}
	}
}

// HandleConnections upgrades an authenticated request to a WebSocket
// connection and drives one map view per connection. Every command is
// answered with the resulting render frame.
func (manager *MapViewManager) HandleConnections(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket Upgrade Error:", err)
		return
	}

	client := &Client{
		Conn:   conn,
		UserID: userID,
		View:   mapview.New(manager.resolver),
	}
	manager.register <- client

	defer func() {
		manager.unregister <- conn
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var message Message
		if err := json.Unmarshal(msg, &message); err != nil {
			log.Println("Invalid JSON:", err)
			continue
		}

		manager.dispatch(r, client, &message)

		frame := FrameMessage{Type: "frame", Frame: client.View.Snapshot()}
		payload, err := json.Marshal(frame)
		if err != nil {
			log.Println("error marshaling frame:", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			break
		}
	}
}

func (manager *MapViewManager) dispatch(r *http.Request, client *Client, message *Message) {
	switch message.Type {
	case MsgTypeReady:
		client.View.Ready()

	case MsgTypeSetRoutes:
		client.View.SetRoutes(message.Routes)

	case MsgTypeSelectRoute:
		client.View.Select(message.Index)

	case MsgTypePick:
		client.View.StartPicking(mapview.PickTarget(message.Target))

	case MsgTypeClick:
		client.View.Click(r.Context(), message.Lng, message.Lat)

	case MsgTypeLocate:
		client.View.RequestLocation()

	case MsgTypePosition:
		client.View.ProvideLocation(message.Lng, message.Lat)
	}
}
