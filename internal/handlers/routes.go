package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"pitfinder-backend/internal/middleware"
	"pitfinder-backend/internal/onboarding"
	"pitfinder-backend/internal/services/cities"
)

// RouterDeps is what the HTTP API is built from
type RouterDeps struct {
	Screens   *Screens
	Directory *cities.Directory
	Auth      *middleware.Authenticator
	Submitter *onboarding.Submitter
	Openers   OpenerFactory

	// WebSocket is mounted at /ws when set
	WebSocket http.HandlerFunc
}

// NewRouter wires every endpoint
func NewRouter(deps RouterDeps) http.Handler {
	if deps.Submitter == nil {
		deps.Submitter = onboarding.NewSubmitter()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.DeviceIDHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// WebSocket endpoint (authentication handled in handler via query param)
	if deps.WebSocket != nil {
		r.Get("/ws", deps.WebSocket)
	}

	r.Route("/api", func(r chi.Router) {
		// Static content (no device required)
		r.Get("/content", GetContent())
		r.Get("/cities/suggest", SuggestCities(deps.Directory))
		r.Get("/cities/resolve", ResolveCity(deps.Directory))
		r.Get("/sites", GetSites(deps.Directory))
		r.Get("/sites/mock", GetMockSites())

		// Before a token exists the device identifies itself by header
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireDevice)

			r.Get("/gate", CheckGate(deps.Screens))
			r.Post("/onboarding", Onboard(deps.Screens, deps.Auth, deps.Submitter))
			r.Post("/logs/diagnostic", ReceiveDiagnosticLog())
		})

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Auth)

			r.Get("/session", GetSession(deps.Screens))
			r.Delete("/session", Logout(deps.Screens))
			r.Post("/fcm-token", RegisterFCMToken(deps.Screens))

			r.Route("/map", func(r chi.Router) {
				r.Post("/mount", MountMap(deps.Screens))
				r.Get("/", GetMap(deps.Screens))

				r.Post("/search/open", OpenSearch(deps.Screens))
				r.Post("/search/clear", ClearSearch(deps.Screens))
				r.Put("/search/query", SetSearchQuery(deps.Screens))
				r.Post("/search/submit", SubmitSearch(deps.Screens))
				r.Post("/search/suggestion", PickSuggestion(deps.Screens))

				r.Post("/action", SelectAction(deps.Screens))
				r.Post("/material", SelectMaterial(deps.Screens))
				r.Delete("/material", CancelMaterial(deps.Screens))

				r.Post("/markers/{id}/tap", TapMarker(deps.Screens))
				r.Delete("/detail", CloseDetail(deps.Screens))
				r.Post("/tap", TapMap(deps.Screens))
				r.Delete("/notices", DismissNotices(deps.Screens))
				r.Post("/location", UpdateLocation(deps.Screens))

				if deps.Openers != nil {
					r.Post("/directions", GetDirections(deps.Screens, deps.Openers))
				}
			})
		})
	})

	return r
}
