package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/lan-wake-core/internal/device"
	"github.com/nerrad567/lan-wake-core/internal/status"
)

// DeviceRequest is the body of POST /devices and PUT /devices/{name}.
//
// On update, name renames the device when it differs from the path name.
type DeviceRequest struct {
	Name   string `json:"name"`
	MAC    string `json:"mac"`
	IP     string `json:"ip"`
	Port   int    `json:"port"`
	Subnet string `json:"subnet"`
}

// DeviceView is a registry record merged with its cached liveness status.
type DeviceView struct {
	device.Device
	Status status.Record `json:"status"`
}

// DeleteResponse confirms a registry removal.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// view merges a record with whatever the status cache currently holds.
// A never-probed device reads as status unknown, not as an error.
func (s *Server) view(name string, d device.Device) DeviceView {
	rec, ok := s.cache.Get(name)
	if !ok {
		rec = status.Unknown(d.IP)
	}
	return DeviceView{Device: d, Status: rec}
}

// handleListDevices returns every registered device merged with cached status.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	devices := s.store.List()

	views := make(map[string]DeviceView, len(devices))
	for name, d := range devices {
		views[name] = s.view(name, d)
	}

	writeJSON(w, http.StatusOK, views)
}

// handleCreateDevice registers a device and probes it immediately so the
// response already carries a real online/offline verdict.
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var req DeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	stored, err := s.store.Add(req.Name, device.Device{
		MAC:    req.MAC,
		IP:     req.IP,
		Port:   req.Port,
		Subnet: req.Subnet,
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	rec := s.cache.RefreshOne(r.Context(), req.Name, stored.IP)

	writeJSON(w, http.StatusCreated, DeviceView{Device: stored, Status: rec})
}

// handleUpdateDevice replaces a device record, optionally renaming it.
//
// A rename drops the old cache entry rather than carrying it over; the
// immediate probe repopulates the new name with fresh state.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	oldName := chi.URLParam(r, "name")

	var req DeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	stored, renamed, err := s.store.Update(oldName, req.Name, device.Device{
		MAC:    req.MAC,
		IP:     req.IP,
		Port:   req.Port,
		Subnet: req.Subnet,
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	newName := req.Name
	if newName == "" {
		newName = oldName
	}
	if renamed {
		s.cache.Prune(oldName)
	}

	rec := s.cache.RefreshOne(r.Context(), newName, stored.IP)

	writeJSON(w, http.StatusOK, DeviceView{Device: stored, Status: rec})
}

// handleDeleteDevice removes a device and its cached status.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.store.Delete(name); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.cache.Prune(name)

	writeJSON(w, http.StatusOK, DeleteResponse{
		Success: true,
		Message: "device deleted: " + name,
	})
}

// writeStoreError maps registry errors onto HTTP responses.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, device.ErrNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, device.ErrValidation):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, device.ErrPersist):
		s.logger.Error("registry persist failed", "error", err)
		writeInternalError(w, "failed to persist device registry")
	default:
		s.logger.Error("registry operation failed", "error", err)
		writeInternalError(w, "registry operation failed")
	}
}
