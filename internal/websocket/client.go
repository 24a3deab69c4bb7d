package websocket

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pitfinder-backend/internal/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 2048
)

// Client is one device's WebSocket connection
type Client struct {
	ID       string
	DeviceID string
	conn     *websocket.Conn
	hub      *Hub
	send     chan []byte

	mu      sync.RWMutex
	schemes map[string]bool
}

// IncomingMessage represents a message from the device
type IncomingMessage struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

type locationData struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type capabilitiesData struct {
	Schemes []string `json:"schemes"`
}

// NewClient creates a new WebSocket client
func NewClient(deviceID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:       uuid.NewString(),
		DeviceID: deviceID,
		conn:     conn,
		hub:      hub,
		send:     make(chan []byte, 256),
		schemes:  make(map[string]bool),
	}
}

// ReadPump pumps messages from the WebSocket connection to the hub
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg IncomingMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Invalid message format: %v", err)
			continue
		}

		switch msg.Type {
		case TypePing:
			c.hub.SendToDevice(c.DeviceID, TypePong, map[string]string{
				"timestamp": time.Now().Format(time.RFC3339),
			})

		case TypeLocationUpdate:
			c.handleLocationUpdate(msg.Data)

		case TypeCapabilities:
			c.handleCapabilities(msg.Data)

		default:
			log.Printf("⚠️  Unknown message type from %s: %q", c.DeviceID, msg.Type)
		}
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleLocationUpdate forwards a device fix to the map screen
func (c *Client) handleLocationUpdate(raw json.RawMessage) {
	var data locationData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Printf("❌ Invalid location_update from %s: %v", c.DeviceID, err)
		return
	}
	if data.Latitude == nil || data.Longitude == nil {
		log.Printf("❌ location_update from %s is missing coordinates", c.DeviceID)
		return
	}

	if c.hub.onLocation != nil {
		c.hub.onLocation(c.DeviceID, models.Coordinate{
			Latitude:  *data.Latitude,
			Longitude: *data.Longitude,
		})
	}
}

// handleCapabilities records which URL schemes the device can open.
// Each message replaces the previous list.
func (c *Client) handleCapabilities(raw json.RawMessage) {
	var data capabilitiesData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Printf("❌ Invalid capabilities from %s: %v", c.DeviceID, err)
		return
	}

	schemes := make(map[string]bool, len(data.Schemes))
	for _, s := range data.Schemes {
		schemes[strings.ToLower(strings.TrimSuffix(s, ":"))] = true
	}

	c.mu.Lock()
	c.schemes = schemes
	c.mu.Unlock()
	log.Printf("📱 Device %s can open: %v", c.DeviceID, data.Schemes)
}

func (c *Client) supports(scheme string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.schemes[strings.ToLower(scheme)]
}
