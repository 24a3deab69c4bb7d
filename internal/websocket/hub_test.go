package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"pitfinder-backend/internal/directions"
	"pitfinder-backend/internal/middleware"
	"pitfinder-backend/internal/models"
)

type testEnv struct {
	hub  *Hub
	auth *middleware.Authenticator
	srv  *httptest.Server
}

func newTestEnv(t *testing.T, onLocation LocationHandler) *testEnv {
	t.Helper()
	hub := NewHub()
	hub.OnLocation(onLocation)
	go hub.Run()

	auth := middleware.NewAuthenticator("secret", time.Hour)
	srv := httptest.NewServer(HandleWebSocket(hub, auth))
	t.Cleanup(srv.Close)
	return &testEnv{hub: hub, auth: auth, srv: srv}
}

func (e *testEnv) dial(t *testing.T, deviceID string) *websocket.Conn {
	t.Helper()
	token, err := e.auth.IssueToken(deviceID, models.Session{Role: models.RoleDriver, ID: "s1"})
	if err != nil {
		t.Fatal(err)
	}

	url := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	eventually(t, func() bool { return e.hub.IsDeviceConnected(deviceID) })
	return conn
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func readEnvelope(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	return msg.Type, msg.Data
}

func TestRejectsBadToken(t *testing.T) {
	e := newTestEnv(t, nil)
	url := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/?token=bogus"
	if _, _, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Fatal("expected the handshake to fail")
	}
	if e.hub.GetClientCount() != 0 {
		t.Fatal("no client should register")
	}
}

func TestPingPong(t *testing.T) {
	e := newTestEnv(t, nil)
	conn := e.dial(t, "device-1")

	conn.WriteJSON(map[string]string{"type": TypePing})
	if typ, _ := readEnvelope(t, conn); typ != TypePong {
		t.Fatalf("got %q, want pong", typ)
	}
}

func TestPushNotice(t *testing.T) {
	e := newTestEnv(t, nil)
	conn := e.dial(t, "device-1")

	e.hub.PushNotice("device-1", models.Notice{Title: "Location Saved", Body: "b"})
	typ, data := readEnvelope(t, conn)
	if typ != TypeNotice {
		t.Fatalf("got %q", typ)
	}
	var n models.Notice
	json.Unmarshal(data, &n)
	if n.Title != "Location Saved" {
		t.Fatalf("unexpected notice %+v", n)
	}
}

func TestLocationUpdate(t *testing.T) {
	got := make(chan models.Coordinate, 1)
	e := newTestEnv(t, func(deviceID string, pos models.Coordinate) {
		if deviceID == "device-1" {
			got <- pos
		}
	})
	conn := e.dial(t, "device-1")

	conn.WriteJSON(map[string]interface{}{"type": TypeLocationUpdate, "data": map[string]float64{"longitude": -97.1}})
	conn.WriteJSON(map[string]interface{}{
		"type": TypeLocationUpdate,
		"data": map[string]float64{"latitude": 35.5, "longitude": -97.5},
	})

	select {
	case pos := <-got:
		if pos != (models.Coordinate{Latitude: 35.5, Longitude: -97.5}) {
			t.Fatalf("unexpected position %+v", pos)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("location handler not called")
	}
}

func TestURLOpener(t *testing.T) {
	e := newTestEnv(t, nil)
	ctx := context.Background()

	offline := NewURLOpener(e.hub, "device-1")
	if err := offline.OpenURL(ctx, "maps://?daddr=1,2"); !errors.Is(err, directions.ErrHandlerUnavailable) {
		t.Fatalf("offline device: got %v", err)
	}

	conn := e.dial(t, "device-1")
	conn.WriteJSON(map[string]interface{}{
		"type": TypeCapabilities,
		"data": map[string][]string{"schemes": {"https", "maps:"}},
	})
	eventually(t, func() bool { return e.hub.Supports("device-1", "maps") })

	opener := NewURLOpener(e.hub, "device-1")
	if err := opener.OpenURL(ctx, "comgooglemaps://?daddr=1,2"); !errors.Is(err, directions.ErrHandlerUnavailable) {
		t.Fatalf("unadvertised scheme: got %v", err)
	}
	if err := opener.OpenURL(ctx, "maps://?daddr=1,2&q=X"); err != nil {
		t.Fatal(err)
	}

	typ, data := readEnvelope(t, conn)
	if typ != TypeOpenURL {
		t.Fatalf("got %q", typ)
	}
	var cmd OpenURLCommand
	json.Unmarshal(data, &cmd)
	if cmd.URL != "maps://?daddr=1,2&q=X" || cmd.RequestID == "" {
		t.Fatalf("unexpected command %+v", cmd)
	}
}

func TestDirectionsFallBackOverSocket(t *testing.T) {
	e := newTestEnv(t, nil)
	conn := e.dial(t, "device-1")
	conn.WriteJSON(map[string]interface{}{
		"type": TypeCapabilities,
		"data": map[string][]string{"schemes": {"https"}},
	})
	eventually(t, func() bool { return e.hub.Supports("device-1", "https") })

	site := models.Site{Name: "TULSA, OK", Coordinate: models.Coordinate{Latitude: 36.154, Longitude: -95.9928}}
	res, err := directions.Dispatch(context.Background(), NewURLOpener(e.hub, "device-1"), directions.PlatformIOS, directions.AppGoogle, site)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.Opened, "https://") {
		t.Fatalf("expected web fallback, got %+v", res)
	}
}

func TestReconnectReplacesClient(t *testing.T) {
	e := newTestEnv(t, nil)
	first := e.dial(t, "device-1")
	e.dial(t, "device-1")

	eventually(t, func() bool { return e.hub.GetClientCount() == 1 })

	// the replaced socket is closed by the server
	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Fatal("expected the old connection to close")
	}
}
