package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"pitfinder-backend/internal/models"
)

// Outgoing message types
const (
	TypeMapState = "map_state"
	TypeNotice   = "notice"
	TypeOpenURL  = "open_url"
	TypePong     = "pong"
)

// Incoming message types
const (
	TypePing           = "ping"
	TypeLocationUpdate = "location_update"
	TypeCapabilities   = "capabilities"
)

// Envelope is the wire shape of every pushed message
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// LocationHandler receives position fixes reported by a device
type LocationHandler func(deviceID string, pos models.Coordinate)

// Hub maintains one WebSocket connection per device
type Hub struct {
	// Registered clients (deviceID -> Client)
	clients map[string]*Client

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	onLocation LocationHandler

	mu sync.RWMutex
}

// Message is data addressed to one device
type Message struct {
	DeviceID string
	Data     interface{}
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// OnLocation sets the handler for location_update messages. Call before Run.
func (h *Hub) OnLocation(f LocationHandler) {
	h.onLocation = f
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.DeviceID]; ok {
				// A reconnect replaces the stale socket
				close(old.send)
				log.Printf("♻️  [WEBSOCKET] Replacing connection %s for device %s", old.ID, client.DeviceID)
			}
			h.clients[client.DeviceID] = client
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			log.Printf("✅ [WEBSOCKET] Client CONNECTED")
			log.Printf("   Device ID: %s", client.DeviceID)
			log.Printf("   Connection: %s", client.ID)
			log.Printf("   Total connected devices: %d", count)
			log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.DeviceID]; ok && current == client {
				delete(h.clients, client.DeviceID)
				close(client.send)
				log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
				log.Printf("🔴 [WEBSOCKET] Client DISCONNECTED")
				log.Printf("   Device ID: %s", client.DeviceID)
				log.Printf("   Remaining connected devices: %d", len(h.clients))
				log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message.Data)
			if err != nil {
				log.Printf("❌ Failed to marshal message: %v", err)
				continue
			}

			h.mu.Lock()
			if client, ok := h.clients[message.DeviceID]; ok {
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client.DeviceID)
					log.Printf("⚠️ Client buffer full, disconnecting: %s", message.DeviceID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToDevice queues a typed message for one device. Offline devices
// drop it.
func (h *Hub) SendToDevice(deviceID, msgType string, data interface{}) {
	h.broadcast <- &Message{
		DeviceID: deviceID,
		Data:     Envelope{Type: msgType, Data: data},
	}
}

// PushMapState sends a fresh map view
func (h *Hub) PushMapState(deviceID string, view models.MapView) {
	h.SendToDevice(deviceID, TypeMapState, view)
}

// PushNotice sends a user-visible alert
func (h *Hub) PushNotice(deviceID string, notice models.Notice) {
	h.SendToDevice(deviceID, TypeNotice, notice)
}

// GetClientCount returns the number of connected devices
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsDeviceConnected checks if a device currently has a socket
func (h *Hub) IsDeviceConnected(deviceID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[deviceID]
	return ok
}

// Supports reports whether the connected device advertised a handler
// for the URL scheme
func (h *Hub) Supports(deviceID, scheme string) bool {
	h.mu.RLock()
	client, ok := h.clients[deviceID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return client.supports(scheme)
}
