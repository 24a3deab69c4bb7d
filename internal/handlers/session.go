package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"pitfinder-backend/internal/middleware"
	"pitfinder-backend/internal/models"
	"pitfinder-backend/internal/onboarding"
	"pitfinder-backend/internal/session"
	"pitfinder-backend/pkg/utils"
)

type RegisterFCMTokenRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"device_type"`
}

// CheckGate tells the client which screen the device belongs on.
// GET /api/gate?screen=onboarding|map
func CheckGate(screens *Screens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, _ := middleware.GetDeviceID(r)

		current := session.Screen(r.URL.Query().Get("screen"))
		if current != session.ScreenOnboarding && current != session.ScreenMap {
			utils.RespondError(w, http.StatusBadRequest, "screen must be 'onboarding' or 'map'")
			return
		}

		decision := session.Check(r.Context(), screens.Store(deviceID), current)
		if decision.Redirect {
			log.Printf("🚪 Gate: device %s %s → %s", deviceID, current, decision.Screen)
		}
		utils.RespondJSON(w, http.StatusOK, decision)
	}
}

// Onboard validates the form, persists the session and issues a device token
func Onboard(screens *Screens, auth *middleware.Authenticator, submitter *onboarding.Submitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("📥 REQUEST: POST /api/onboarding")

		deviceID, _ := middleware.GetDeviceID(r)

		var form onboarding.Form
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			log.Printf("❌ Invalid request body: %v", err)
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		// Onboarding is only reachable without a session; logout first
		store := screens.Store(deviceID)
		if existing, err := store.Load(r.Context()); err == nil && existing != nil {
			log.Printf("⚠️  Device %s already onboarded as %s", deviceID, existing.Role)
			utils.RespondError(w, http.StatusConflict, "Device already has a session")
			return
		}

		sess, err := submitter.Submit(r.Context(), store, form)
		var validationErr *onboarding.ValidationError
		var saveErr *onboarding.SaveError
		switch {
		case errors.As(err, &validationErr):
			log.Printf("❌ Onboarding rejected: %s missing", validationErr.Field)
			utils.RespondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"success": false,
				"error":   validationErr,
			})
			return
		case errors.As(err, &saveErr):
			utils.RespondJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"success": false,
				"error": map[string]string{
					"title":   saveErr.Title,
					"message": saveErr.Message,
				},
			})
			return
		case err != nil:
			log.Printf("❌ Onboarding failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to save session")
			return
		}

		token, err := auth.IssueToken(deviceID, sess)
		if err != nil {
			log.Printf("❌ Failed to issue token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to issue token")
			return
		}

		log.Printf("✅ Device %s onboarded as %s", deviceID, sess.Role)
		utils.RespondJSON(w, http.StatusCreated, models.SessionResponse{Session: sess, Token: token})
	}
}

// GetSession returns the device's stored session
func GetSession(screens *Screens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, _ := middleware.GetDeviceID(r)

		sess, err := screens.Store(deviceID).Load(r.Context())
		if err != nil {
			log.Printf("❌ Failed to load session for %s: %v", deviceID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to load session")
			return
		}
		if sess == nil {
			utils.RespondError(w, http.StatusNotFound, "No session")
			return
		}
		utils.RespondJSON(w, http.StatusOK, sess)
	}
}

// Logout removes the session and unmounts the map. The device goes
// back through onboarding on its next gate check.
func Logout(screens *Screens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, _ := middleware.GetDeviceID(r)

		if err := screens.Store(deviceID).Clear(r.Context()); err != nil {
			log.Printf("❌ Failed to clear session for %s: %v", deviceID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to clear session")
			return
		}
		screens.Drop(deviceID)

		log.Printf("👋 Device %s logged out", deviceID)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

// RegisterFCMToken records the device's Firebase Cloud Messaging token
func RegisterFCMToken(screens *Screens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, _ := middleware.GetDeviceID(r)

		var req RegisterFCMTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Token == "" {
			utils.RespondError(w, http.StatusBadRequest, "token is required")
			return
		}
		if req.DeviceType != "ios" && req.DeviceType != "android" {
			utils.RespondError(w, http.StatusBadRequest, "Invalid device_type (must be 'ios' or 'android')")
			return
		}

		err := screens.Store(deviceID).SavePushToken(r.Context(), session.PushToken{
			Token:      req.Token,
			DeviceType: req.DeviceType,
		})
		if err != nil {
			log.Printf("❌ Error registering FCM token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to register FCM token")
			return
		}

		log.Printf("📱 FCM token registered: %s (%s)", deviceID, req.DeviceType)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "FCM token registered successfully",
		})
	}
}
