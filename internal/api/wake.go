package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/lan-wake-core/internal/device"
	"github.com/nerrad567/lan-wake-core/internal/wol"
)

// WakeRequest is the body of POST /wake.
//
// Either device_name (resolved against the registry) or an explicit
// mac and ip pair must be supplied. Explicit fields override nothing:
// when device_name is present the registry record wins.
type WakeRequest struct {
	DeviceName string `json:"device_name"`
	MAC        string `json:"mac"`
	IP         string `json:"ip"`
	Port       int    `json:"port"`
}

// WakeResponse reports the outcome of a wake dispatch.
type WakeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// handleWake dispatches a magic packet to a registered or ad-hoc target.
func (s *Server) handleWake(w http.ResponseWriter, r *http.Request) {
	var req WakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	mac, ip, port := req.MAC, req.IP, req.Port

	if req.DeviceName != "" {
		d, err := s.store.Get(req.DeviceName)
		if err != nil {
			if errors.Is(err, device.ErrNotFound) {
				writeNotFound(w, "device not found: "+req.DeviceName)
				return
			}
			writeInternalError(w, "failed to look up device")
			return
		}
		mac, ip, port = d.MAC, d.IP, d.Port
	}

	if mac == "" || ip == "" {
		writeBadRequest(w, "mac and ip are required when device_name is not given")
		return
	}

	details, err := s.waker.Send(r.Context(), mac, ip, port)
	if err != nil {
		switch {
		case errors.Is(err, wol.ErrInvalidAddress):
			writeBadRequest(w, err.Error())
		default:
			s.logger.Error("wake dispatch failed",
				"device", req.DeviceName,
				"mac", mac,
				"error", err,
			)
			writeInternalError(w, "failed to send magic packet")
		}
		return
	}

	s.logger.Info("wake dispatched", "device", req.DeviceName, "mac", mac, "ip", ip)

	writeJSON(w, http.StatusOK, WakeResponse{
		Success: true,
		Message: "magic packet sent",
		Details: details,
	})
}
