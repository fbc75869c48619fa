package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/lan-wake-core/internal/device"
)

// checkTimeout bounds a background refresh sweep kicked off by
// POST /devices/check.
const checkTimeout = 30 * time.Second

// CheckResponse acknowledges a fire-and-forget refresh request.
type CheckResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleDeviceStatus returns the current status-cache snapshot without
// probing anything.
func (s *Server) handleDeviceStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cache.Snapshot())
}

// handleCheckDevices starts a full refresh sweep in the background and
// returns immediately. Clients poll GET /devices/status for results.
func (s *Server) handleCheckDevices(w http.ResponseWriter, _ *http.Request) {
	targets := make(map[string]string)
	for name, d := range s.store.List() {
		targets[name] = d.IP
	}

	// Detached from the request context: the sweep must outlive this
	// response.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		s.cache.RefreshAll(ctx, targets)
	}()

	writeJSON(w, http.StatusOK, CheckResponse{
		Success: true,
		Message: "status refresh started",
	})
}

// handlePingDevice probes one device synchronously and returns the fresh
// record.
func (s *Server) handlePingDevice(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	d, err := s.store.Get(name)
	if err != nil {
		if errors.Is(err, device.ErrNotFound) {
			writeNotFound(w, err.Error())
			return
		}
		writeInternalError(w, "failed to look up device")
		return
	}

	rec := s.cache.RefreshOne(r.Context(), name, d.IP)
	writeJSON(w, http.StatusOK, rec)
}

// HealthResponse reports service liveness and registry counters.
type HealthResponse struct {
	Status         string `json:"status"`
	Service        string `json:"service"`
	Version        string `json:"version"`
	DevicesTracked int    `json:"devices_tracked"`
	StatusEntries  int    `json:"status_entries"`
}

// handleHealth returns service health and basic counters.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:         "healthy",
		Service:        "lanwake",
		Version:        s.version,
		DevicesTracked: s.store.Count(),
		StatusEntries:  s.cache.Count(),
	})
}
