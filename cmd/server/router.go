package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/scholar-api/internal/api"
	apimiddleware "github.com/phrazzld/scholar-api/internal/api/middleware"
	"github.com/phrazzld/scholar-api/internal/api/shared"
)

// setupRouter builds the HTTP routing table.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)

	resultTTL := time.Duration(app.config.Cache.ResultTTLSeconds) * time.Second
	jobHandler := api.NewJobHandler(app.jobService, app.resultCache, resultTTL, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/jobs", jobHandler.SubmitJob)
		r.Get("/jobs/{id}", jobHandler.GetJob)
		r.Post("/jobs/{id}/cancel", jobHandler.CancelJob)
		r.Get("/results/{id}", jobHandler.GetResult)
	})

	r.Get("/health", app.healthCheck)

	return r
}

// healthCheck reports liveness and database reachability.
func (app *application) healthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "database unavailable", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
