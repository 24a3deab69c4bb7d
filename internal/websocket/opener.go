package websocket

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pitfinder-backend/internal/directions"
)

// OpenURLCommand asks the device to hand a URL to its OS
type OpenURLCommand struct {
	RequestID string `json:"request_id"`
	URL       string `json:"url"`
}

// URLOpener opens URLs on one device over its socket
type URLOpener struct {
	hub      *Hub
	deviceID string
}

func NewURLOpener(hub *Hub, deviceID string) *URLOpener {
	return &URLOpener{hub: hub, deviceID: deviceID}
}

// OpenURL sends an open_url command when the device is online and has
// advertised the URL's scheme; otherwise the handler is unavailable
func (o *URLOpener) OpenURL(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	scheme := rawURL
	if i := strings.Index(rawURL, ":"); i > 0 {
		scheme = rawURL[:i]
	}

	if !o.hub.IsDeviceConnected(o.deviceID) {
		return fmt.Errorf("device %s offline: %w", o.deviceID, directions.ErrHandlerUnavailable)
	}
	if !o.hub.Supports(o.deviceID, scheme) {
		return fmt.Errorf("device %s cannot open %s: %w", o.deviceID, scheme, directions.ErrHandlerUnavailable)
	}

	o.hub.SendToDevice(o.deviceID, TypeOpenURL, OpenURLCommand{
		RequestID: uuid.NewString(),
		URL:       rawURL,
	})
	return nil
}
