package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/herbscope/internal/service"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *service.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Dataset.
	r.Get("/dataset", h.DatasetInfo)
	r.Put("/dataset", h.ImportDataset)
	r.Get("/herbs", h.ListHerbs)
	r.Get("/herbs/{name}", h.GetHerb)

	// Engines.
	r.Get("/surface", h.Surface)
	r.Get("/symptoms", h.Symptoms)
	r.Post("/recommend", h.Recommend)
	r.Post("/clinic/diagnose", h.Diagnose)
	r.Get("/graph/summary", h.GraphSummary)
	r.Get("/report", h.Report)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
