package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pairpad/internal/api"
	"pairpad/internal/metrics"
	mw "pairpad/internal/middleware"
	"pairpad/internal/models"
)

// New builds the HTTP surface: the REST glue endpoints, the collaboration
// websocket and the Prometheus scrape endpoint. The websocket route sits
// outside the metrics and rate-limit groups; hijacked connections report no
// useful status and must never be cut off by a limiter.
func New(h *api.Handlers, limiter func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/api/v1/healthz", h.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(metrics.Middleware)
		if limiter != nil {
			r.Use(limiter)
		}
		r.With(mw.ValidateRequest[*models.CompileRequest]()).Post("/api/v1/compile", h.Compile)
		r.Post("/api/v1/ocr", h.OCR)
		r.With(mw.ValidateRequest[*models.ExplainRequest]()).Post("/api/v1/ai/explain", h.Explain)
		r.With(mw.ValidateRequest[*models.CorrectRequest]()).Post("/api/v1/ai/correct", h.Correct)
	})

	r.Get("/ws", h.CollabWS)

	return r
}
