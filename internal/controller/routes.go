package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unclebandit/churn-predictor/internal/handler"
)

// NewRouter mounts every route. metricsHandler may be nil.
func NewRouter(churn *ChurnController, health *handler.HealthHandler, metricsHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/predict", churn.Predict)
	r.Get("/customers/{id}/churn", churn.ScoreCustomer)
	r.Get("/form", churn.Form)
	r.Get("/model", churn.Model)

	r.Get("/health", health.Status)
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}
	return r
}
