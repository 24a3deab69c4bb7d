package handlers

import (
	"net/http"

	"pitfinder-backend/internal/i18n"
	"pitfinder-backend/internal/models"
	"pitfinder-backend/internal/services/cities"
	"pitfinder-backend/pkg/utils"
)

// ContentResponse is everything the client renders statically
type ContentResponse struct {
	Language   models.Language `json:"language"`
	Onboarding i18n.Onboarding `json:"onboarding"`
	Map        i18n.Map        `json:"map"`
	Roles      []i18n.RoleCard `json:"roles"`
	Materials  []string        `json:"materials"`
}

// GetContent handles GET /api/content?lang=en|es
func GetContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := models.Language(r.URL.Query().Get("lang")).OrDefault()

		utils.RespondJSON(w, http.StatusOK, ContentResponse{
			Language:   lang,
			Onboarding: i18n.OnboardingText(lang),
			Map:        i18n.MapText(lang),
			Roles:      i18n.RoleCards(lang),
			Materials:  models.MaterialTypes,
		})
	}
}

// SuggestCities handles GET /api/cities/suggest?q=
func SuggestCities(dir *cities.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"suggestions": dir.Suggest(r.URL.Query().Get("q")),
		})
	}
}

// ResolveCity handles GET /api/cities/resolve?q=
func ResolveCity(dir *cities.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, region, ok := dir.Resolve(r.URL.Query().Get("q"))
		if !ok {
			utils.RespondError(w, http.StatusNotFound, "City not found")
			return
		}
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"city":   key,
			"region": region,
		})
	}
}

// GetSites handles GET /api/sites, the catalogue drivers see
func GetSites(dir *cities.Directory) http.HandlerFunc {
	catalogue := cities.GenerateSites(dir)
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, catalogue)
	}
}

// GetMockSites handles GET /api/sites/mock
func GetMockSites() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, models.MockSites())
	}
}
