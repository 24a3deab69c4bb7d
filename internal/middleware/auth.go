package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"pitfinder-backend/internal/models"
)

type contextKey string

const (
	DeviceContextKey contextKey = "device"
	DeviceIDKey      contextKey = "device_id"
)

// DeviceIDHeader carries the client's stable install id
const DeviceIDHeader = "X-Device-ID"

// DeviceClaims identifies the device and the session it onboarded with
type DeviceClaims struct {
	DeviceID  string      `json:"device_id"`
	SessionID string      `json:"session_id"`
	Role      models.Role `json:"role"`
}

type tokenClaims struct {
	DeviceClaims
	jwt.RegisteredClaims
}

// Authenticator issues and checks HS256 device tokens
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthenticator(secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// IssueToken signs a token for a freshly onboarded device
func (a *Authenticator) IssueToken(deviceID string, sess models.Session) (string, error) {
	now := a.now()
	claims := tokenClaims{
		DeviceClaims: DeviceClaims{
			DeviceID:  deviceID,
			SessionID: sess.ID,
			Role:      sess.Role,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   deviceID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates signature and expiry and returns the device claims
func (a *Authenticator) ParseToken(tokenString string) (DeviceClaims, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return DeviceClaims{}, err
	}
	if !token.Valid {
		return DeviceClaims{}, jwt.ErrTokenInvalidClaims
	}
	if claims.DeviceID == "" {
		return DeviceClaims{}, errors.New("token has no device id")
	}
	return claims.DeviceClaims, nil
}

// Auth validates the Bearer token and adds device claims to context
func (a *Authenticator) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Printf("❌ No authorization header: %s %s", r.Method, r.URL.Path)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Printf("❌ Invalid authorization header format (parts: %d)", len(parts))
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := a.ParseToken(parts[1])
		if err != nil {
			log.Printf("❌ Invalid token: %v", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// A header, when sent, must agree with the token
		if header := r.Header.Get(DeviceIDHeader); header != "" && header != claims.DeviceID {
			log.Printf("❌ Device mismatch: header %s, token %s", header, claims.DeviceID)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), DeviceContextKey, claims)
		ctx = context.WithValue(ctx, DeviceIDKey, claims.DeviceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireDevice demands an X-Device-ID header on routes used before a
// device has a token (gate, onboarding)
func RequireDevice(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID := strings.TrimSpace(r.Header.Get(DeviceIDHeader))
		if deviceID == "" {
			log.Printf("❌ Missing %s header: %s %s", DeviceIDHeader, r.Method, r.URL.Path)
			http.Error(w, "Missing "+DeviceIDHeader+" header", http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), DeviceIDKey, deviceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetDeviceFromContext extracts token claims set by Auth
func GetDeviceFromContext(r *http.Request) (DeviceClaims, bool) {
	claims, ok := r.Context().Value(DeviceContextKey).(DeviceClaims)
	return claims, ok
}

// GetDeviceID returns the device id set by Auth or RequireDevice
func GetDeviceID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(DeviceIDKey).(string)
	return id, ok && id != ""
}
