package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pitfinder-backend/internal/models"
)

var sess = models.Session{Role: models.RolePit, ID: "abc123xyz"}

func echoDevice(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetDeviceID(r)
		if !ok {
			t.Error("device id missing from context")
		}
		w.Write([]byte(id))
	})
}

func TestIssueAndParse(t *testing.T) {
	a := NewAuthenticator("secret", time.Hour)
	token, err := a.IssueToken("device-1", sess)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := a.ParseToken(token)
	if err != nil {
		t.Fatal(err)
	}
	want := DeviceClaims{DeviceID: "device-1", SessionID: "abc123xyz", Role: models.RolePit}
	if claims != want {
		t.Fatalf("got %+v, want %+v", claims, want)
	}
}

func TestParseRejectsWrongSecretAndExpiry(t *testing.T) {
	a := NewAuthenticator("secret", time.Hour)
	token, _ := a.IssueToken("device-1", sess)

	if _, err := NewAuthenticator("other", time.Hour).ParseToken(token); err == nil {
		t.Fatal("expected signature failure")
	}

	later := NewAuthenticator("secret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := later.ParseToken(token); err == nil {
		t.Fatal("expected expiry failure")
	}
}

func TestAuthMiddleware(t *testing.T) {
	a := NewAuthenticator("secret", time.Hour)
	token, _ := a.IssueToken("device-1", sess)
	h := a.Auth(echoDevice(t))

	tests := []struct {
		name   string
		header string
		device string
		want   int
	}{
		{"valid", "Bearer " + token, "", http.StatusOK},
		{"matching device header", "Bearer " + token, "device-1", http.StatusOK},
		{"mismatched device header", "Bearer " + token, "device-2", http.StatusUnauthorized},
		{"missing header", "", "", http.StatusUnauthorized},
		{"not bearer", "Token " + token, "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/map", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.device != "" {
				req.Header.Set(DeviceIDHeader, tt.device)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK && rec.Body.String() != "device-1" {
				t.Fatalf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestRequireDevice(t *testing.T) {
	h := RequireDevice(echoDevice(t))

	req := httptest.NewRequest(http.MethodGet, "/api/gate", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/gate", nil)
	req.Header.Set(DeviceIDHeader, "phone-42")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "phone-42" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}
