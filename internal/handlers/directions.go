package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"pitfinder-backend/internal/directions"
	"pitfinder-backend/internal/middleware"
	"pitfinder-backend/internal/models"
	"pitfinder-backend/pkg/utils"
)

// OpenerFactory returns the URL opener of a device
type OpenerFactory func(deviceID string) directions.Opener

type DirectionsRequest struct {
	MarkerID string             `json:"marker_id"`
	Platform directions.Platform `json:"platform"`
	App      directions.App      `json:"app"`
}

type DirectionsResponse struct {
	Site    models.Site         `json:"site"`
	Chooser *directions.Chooser `json:"chooser,omitempty"`
	Result  *directions.Result  `json:"result,omitempty"`
}

// GetDirections handles POST /api/map/directions. The target is the
// given marker, else the site whose detail card is open. On iOS without
// an app choice the response carries the chooser instead of dispatching.
func GetDirections(screens *Screens, openers OpenerFactory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, _ := middleware.GetDeviceID(r)

		screen, ok := screens.Get(deviceID)
		if !ok {
			utils.RespondError(w, http.StatusNotFound, "Map screen not mounted")
			return
		}

		var req DirectionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var site models.Site
		if req.MarkerID != "" {
			var err error
			site, err = screen.Marker(req.MarkerID)
			if err != nil {
				respondScreenError(w, err)
				return
			}
		} else {
			var selected bool
			site, selected = screen.SelectedSite()
			if !selected {
				utils.RespondError(w, http.StatusBadRequest, "No site selected")
				return
			}
		}

		res, err := directions.Dispatch(r.Context(), openers(deviceID), req.Platform, req.App, site)
		switch {
		case errors.Is(err, directions.ErrChoiceRequired):
			chooser := directions.NewChooser(screen.Language())
			utils.RespondJSON(w, http.StatusOK, DirectionsResponse{Site: site, Chooser: &chooser})
			return
		case errors.Is(err, directions.ErrUnknownPlatform), errors.Is(err, directions.ErrUnknownApp):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			log.Printf("❌ Directions failed for %s: %v", deviceID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		utils.RespondJSON(w, http.StatusOK, DirectionsResponse{Site: site, Result: &res})
	}
}
