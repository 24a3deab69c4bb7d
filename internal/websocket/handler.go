package websocket

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"pitfinder-backend/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Native clients send no Origin
		return true
	},
}

// HandleWebSocket upgrades an authenticated device to a WebSocket
func HandleWebSocket(hub *Hub, auth *middleware.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")

		var claims middleware.DeviceClaims
		if tokenString != "" {
			var err error
			claims, err = auth.ParseToken(tokenString)
			if err != nil {
				log.Printf("❌ Invalid token in query parameter: %v", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		} else {
			// Fallback: claims set by the Auth middleware
			var ok bool
			claims, ok = middleware.GetDeviceFromContext(r)
			if !ok {
				log.Println("❌ No device in context for WebSocket connection")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(claims.DeviceID, conn, hub)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()

		log.Printf("✅ WebSocket connection established for device: %s (%s)", claims.DeviceID, claims.Role)
	}
}
