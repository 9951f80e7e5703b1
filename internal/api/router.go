package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/hoken/internal/catalog"
)

// RouterConfig holds the transport settings for NewRouter.
type RouterConfig struct {
	CORSOrigins  []string
	MaxBodyBytes int64
	// Events, if non-nil, is mounted at GET /events.
	Events http.Handler
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(svc *catalog.Service, cfg RouterConfig) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(CORSMiddleware(cfg.CORSOrigins))
	r.Use(BodyLimit(cfg.MaxBodyBytes))

	r.Get("/hello", h.Hello)

	r.Get("/categories", h.ListCategories)

	// Materials.
	r.Get("/materials", h.ListMaterials)
	r.Post("/materials", h.CreateMaterial)
	r.Get("/materials/{id}", h.GetMaterial)
	r.Delete("/materials/{id}", h.DeleteMaterial)

	if cfg.Events != nil {
		r.Get("/events", cfg.Events.ServeHTTP)
	}

	return r
}
