/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request, picked up by the logger
  2. Logger:     zerolog request logger in the context (api/middleware)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests from the browser UI

ROUTE GROUPS:
  /api/config/*     Rates, deductions, language
  /api/records/*    Daily records
  /api/summary      Monthly salary
  /api/totals       Monthly hours
  /api/history      Salary per month
  /api/shift/*      Weekly default shift
  /api/export       Snapshot download
  /api/import       Snapshot upload
  /api/reset        Delete everything
  /api/events       Server-sent change notifications
  /api/scenarios/*  Demo datasets

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cli/serve.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	horasettmiddleware "github.com/horasett/payroll-engine/api/middleware"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(horasettmiddleware.Logger(&opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
	}))

	r.Route("/api", func(r chi.Router) {
		// Config routes
		r.Route("/config", func(r chi.Router) {
			r.Get("/", h.GetConfig)
			r.Put("/", h.ReplaceConfig)
			r.Patch("/", h.PatchConfig)
			r.Post("/reset", h.ResetConfig)
		})
		r.Get("/language", h.GetLanguage)

		// Record routes
		r.Route("/records", func(r chi.Router) {
			r.Get("/", h.ListRecords)
			r.Get("/{date}", h.GetRecord)
			r.Put("/{date}", h.SaveRecord)
			r.Delete("/{date}", h.DeleteRecord)
		})

		// Salary routes
		r.Get("/summary", h.GetSummary)
		r.Get("/totals", h.GetTotals)
		r.Get("/history", h.GetHistory)

		// Shift routes
		r.Route("/shift/default", func(r chi.Router) {
			r.Get("/", h.GetDefaultShift)
			r.Put("/", h.SetDefaultShift)
			r.Delete("/", h.ClearDefaultShift)
		})

		// Data routes
		r.Get("/export", h.Export)
		r.Post("/import", h.Import)
		r.Post("/reset", h.Reset)

		r.Get("/events", h.Events)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
