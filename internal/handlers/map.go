package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pitfinder-backend/internal/mapstate"
	"pitfinder-backend/internal/middleware"
	"pitfinder-backend/internal/models"
	"pitfinder-backend/pkg/utils"
)

// ReportedLocation is the permission result and fix the device sends
// when the map mounts
type ReportedLocation struct {
	Granted   bool     `json:"granted"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

var errNoFix = errors.New("no position reported")

func (l ReportedLocation) RequestPermission(ctx context.Context) (bool, error) {
	return l.Granted, nil
}

func (l ReportedLocation) CurrentPosition(ctx context.Context) (models.Coordinate, error) {
	if l.Latitude == nil || l.Longitude == nil {
		return models.Coordinate{}, errNoFix
	}
	return models.Coordinate{Latitude: *l.Latitude, Longitude: *l.Longitude}, nil
}

type MountMapRequest struct {
	Location *ReportedLocation `json:"location"`
}

type QueryRequest struct {
	Query string `json:"query"`
}

type SuggestionRequest struct {
	Suggestion string `json:"suggestion"`
}

type ActionRequest struct {
	Action models.DriverAction `json:"action"`
}

type MaterialRequest struct {
	Material string `json:"material"`
}

// screenHandler is a map endpoint that runs against the device's
// mounted screen
type screenHandler func(w http.ResponseWriter, r *http.Request, screen *mapstate.Screen) error

// withScreen looks up the device's screen, runs h and answers with the
// updated view
func withScreen(screens *Screens, h screenHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, _ := middleware.GetDeviceID(r)

		screen, ok := screens.Get(deviceID)
		if !ok {
			utils.RespondError(w, http.StatusNotFound, "Map screen not mounted")
			return
		}

		if err := h(w, r, screen); err != nil {
			respondScreenError(w, err)
			return
		}
		utils.RespondJSON(w, http.StatusOK, screen.View())
	}
}

func respondScreenError(w http.ResponseWriter, err error) {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr),
		errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
	case errors.Is(err, mapstate.ErrInvalidTransition), errors.Is(err, mapstate.ErrNotLoaded):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, mapstate.ErrUnknownMaterial):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, mapstate.ErrUnknownMarker):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("❌ Map request failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// MountMap handles POST /api/map/mount. Any previous screen for the
// device is discarded.
func MountMap(screens *Screens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, _ := middleware.GetDeviceID(r)

		var req MountMapRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
				utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
		}

		// A read failure still mounts a role-less map; a missing session
		// means the device logged out and belongs in onboarding
		sess, err := screens.Store(deviceID).Load(r.Context())
		if err == nil && sess == nil {
			utils.RespondError(w, http.StatusNotFound, "No session")
			return
		}

		var loc mapstate.LocationService
		if req.Location != nil {
			loc = *req.Location
		}

		screen := screens.Mount(r.Context(), deviceID, loc)
		utils.RespondJSON(w, http.StatusOK, screen.View())
	}
}

// GetMap handles GET /api/map
func GetMap(screens *Screens) http.HandlerFunc {
	return withScreen(screens, func(w http.ResponseWriter, r *http.Request, screen *mapstate.Screen) error {
		return nil
	})
}

// OpenSearch handles POST /api/map/search/open
func OpenSearch(screens *Screens) http.HandlerFunc {
	return withScreen(screens, func(w http.ResponseWriter, r *http.Request, screen *mapstate.Screen) error {
		screen.OpenSearch()
		return nil
	})
}

// ClearSearch handles POST /api/map/search/clear, the search bar's X
func ClearSearch(screens *Screens) http.HandlerFunc {
	return withScreen(screens, func(w http.ResponseWriter, r *http.Request, screen *mapstate.Screen) error {
		screen.ClearSearch()
		return nil
	})
}

// SetSearchQuery handles PUT /api/map/search/query
func SetSearchQuery(screens *Screens) http.HandlerFunc {
	return withScreen(screens, func(w http.ResponseWriter, r *http.Request, screen *mapstate.Screen) error {
		var req QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return err
		}
		screen.SetQuery(req.Query)
		return nil
	})
}

// SubmitSearch handles POST /api/map/search/submit
func SubmitSearch(screens *Screens) http.HandlerFunc {
	return withScreen(screens, func(w http.ResponseWriter, r *http.Request, screen *mapstate.Screen) error {
		return screen.Submit()
	})
}

// PickSuggestion handles POST /api/map/search/suggestion
func PickSuggestion(screens *Screens) http.HandlerFunc {
	return withScreen(screens, func(w http.ResponseWriter, r *http.Request, screen *mapstate.Screen) error {
		var req SuggestionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return err
		}
		return screen.PickSuggestion(req.Suggestion)
	})
}

// SelectAction handles POST /api/map/action
func SelectAction(screens *Screens) http.HandlerFunc {
	return withScreen(screens, func(w http.ResponseWriter, r *http.Request, screen *mapstate.Screen) error {
		var req ActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return err
		}
		return screen.SelectAction(req.Action)
	})
}

// SelectMaterial handles POST /api/map/material
func SelectMaterial(screens *Screens) http.HandlerFunc {
	return withScreen(screens, func(w http.ResponseWriter, r *http.Request, screen *mapstate.Screen) error {
		var req MaterialRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return err
		}
		return screen.SelectMaterial(req.Material)
	})
}

// CancelMaterial handles DELETE /api/map/material
func CancelMaterial(screens *Screens) http.HandlerFunc {
	return withScreen(screens, func(w http.ResponseWriter, r *http.Request, screen *mapstate.Screen) error {
		return screen.CancelMaterial()
	})
}

// TapMarker handles POST /api/map/markers/{id}/tap
func TapMarker(screens *Screens) http.HandlerFunc {
	return withScreen(screens, func(w http.ResponseWriter, r *http.Request, screen *mapstate.Screen) error {
		_, err := screen.TapMarker(chi.URLParam(r, "id"))
		return err
	})
}

// CloseDetail handles DELETE /api/map/detail
func CloseDetail(screens *Screens) http.HandlerFunc {
	return withScreen(screens, func(w http.ResponseWriter, r *http.Request, screen *mapstate.Screen) error {
		screen.CloseDetail()
		return nil
	})
}

// TapMap handles POST /api/map/tap
func TapMap(screens *Screens) http.HandlerFunc {
	return withScreen(screens, func(w http.ResponseWriter, r *http.Request, screen *mapstate.Screen) error {
		screen.TapMap()
		return nil
	})
}

// DismissNotices handles DELETE /api/map/notices
func DismissNotices(screens *Screens) http.HandlerFunc {
	return withScreen(screens, func(w http.ResponseWriter, r *http.Request, screen *mapstate.Screen) error {
		screen.DismissNotices()
		return nil
	})
}

// UpdateLocation handles POST /api/map/location, the HTTP twin of the
// socket's location_update
func UpdateLocation(screens *Screens) http.HandlerFunc {
	return withScreen(screens, func(w http.ResponseWriter, r *http.Request, screen *mapstate.Screen) error {
		var pos models.Coordinate
		if err := json.NewDecoder(r.Body).Decode(&pos); err != nil {
			return err
		}
		screen.UpdateUserLocation(pos)
		return nil
	})
}
