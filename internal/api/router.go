package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Health check
	r.Get("/health", s.handleHealth)

	// Wake dispatch
	r.Post("/wake", s.handleWake)

	// Device registry and liveness
	r.Route("/devices", func(r chi.Router) {
		r.Get("/", s.handleListDevices)
		r.Post("/", s.handleCreateDevice)

		r.Get("/status", s.handleDeviceStatus)
		r.Post("/check", s.handleCheckDevices)
		r.Post("/ping/{name}", s.handlePingDevice)

		r.Route("/{name}", func(r chi.Router) {
			r.Put("/", s.handleUpdateDevice)
			r.Delete("/", s.handleDeleteDevice)
		})
	})

	return r
}
