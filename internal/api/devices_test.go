package api

import (
	"net/http"
	"testing"
)

func TestCreateDevice_ReturnsRecordWithStatus(t *testing.T) {
	srv, _ := testServer(t)

	w := doRequest(t, srv, http.MethodPost, "/devices",
		`{"name":"nas","mac":"aa-bb-cc-dd-ee-ff","ip":"192.168.0.18"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	resp := decodeBody[DeviceView](t, w)
	if resp.MAC != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("mac = %q, want normalised AA:BB:CC:DD:EE:FF", resp.MAC)
	}
	if resp.Port != 9 {
		t.Errorf("port = %d, want default 9", resp.Port)
	}
	if resp.Subnet != "255.255.255.0" {
		t.Errorf("subnet = %q, want default 255.255.255.0", resp.Subnet)
	}
	if resp.Status.Online == nil || !*resp.Status.Online {
		t.Error("expected immediate probe to report online")
	}
	if resp.Status.CheckedAt == nil {
		t.Error("expected checked_at to be set after immediate probe")
	}
}

func TestCreateDevice_Validation(t *testing.T) {
	srv, _ := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"mac":"AA:BB:CC:DD:EE:FF","ip":"192.168.0.18"}`},
		{"missing mac", `{"name":"nas","ip":"192.168.0.18"}`},
		{"missing ip", `{"name":"nas","mac":"AA:BB:CC:DD:EE:FF"}`},
		{"bad mac", `{"name":"nas","mac":"zz:zz","ip":"192.168.0.18"}`},
		{"bad ip", `{"name":"nas","mac":"AA:BB:CC:DD:EE:FF","ip":"not-an-ip"}`},
		{"not json", `mac=AA:BB:CC:DD:EE:FF`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, srv, http.MethodPost, "/devices", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestListDevices_MergesStatus(t *testing.T) {
	srv, _ := testServer(t)

	srv.mustAddDevice(t, "nas", "AA:BB:CC:DD:EE:FF", "192.168.0.18")
	srv.mustAddDevice(t, "plex", "11:22:33:44:55:66", "192.168.0.19")

	w := doRequest(t, srv, http.MethodGet, "/devices", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	views := decodeBody[map[string]DeviceView](t, w)
	if len(views) != 2 {
		t.Fatalf("got %d devices, want 2", len(views))
	}

	// Neither device has been probed: status must read as unknown, not
	// be absent or invented.
	nas, ok := views["nas"]
	if !ok {
		t.Fatal("nas missing from listing")
	}
	if nas.Status.Online != nil {
		t.Errorf("online = %v, want null before any probe", *nas.Status.Online)
	}
	if nas.Status.IP != "192.168.0.18" {
		t.Errorf("status ip = %q, want 192.168.0.18", nas.Status.IP)
	}
}

func TestUpdateDevice(t *testing.T) {
	srv, _ := testServer(t)

	srv.mustAddDevice(t, "nas", "AA:BB:CC:DD:EE:FF", "192.168.0.18")

	w := doRequest(t, srv, http.MethodPut, "/devices/nas",
		`{"mac":"AA:BB:CC:DD:EE:FF","ip":"192.168.0.20"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	resp := decodeBody[DeviceView](t, w)
	if resp.IP != "192.168.0.20" {
		t.Errorf("ip = %q, want 192.168.0.20", resp.IP)
	}
}

func TestUpdateDevice_RenameDropsOldStatus(t *testing.T) {
	srv, _ := testServer(t)

	srv.mustAddDevice(t, "nas", "AA:BB:CC:DD:EE:FF", "192.168.0.18")

	// Seed a cache entry under the old name.
	doRequest(t, srv, http.MethodPost, "/devices/ping/nas", "")

	w := doRequest(t, srv, http.MethodPut, "/devices/nas",
		`{"name":"storage","mac":"AA:BB:CC:DD:EE:FF","ip":"192.168.0.18"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	if _, ok := srv.cache.Get("nas"); ok {
		t.Error("old cache entry should be pruned after rename")
	}
	if _, ok := srv.cache.Get("storage"); !ok {
		t.Error("new name should have a fresh cache entry after rename")
	}

	if _, err := srv.store.Get("nas"); err == nil {
		t.Error("old registry name should be gone after rename")
	}
	if _, err := srv.store.Get("storage"); err != nil {
		t.Errorf("new registry name missing: %v", err)
	}
}

func TestUpdateDevice_UnknownName(t *testing.T) {
	srv, _ := testServer(t)

	w := doRequest(t, srv, http.MethodPut, "/devices/ghost",
		`{"mac":"AA:BB:CC:DD:EE:FF","ip":"192.168.0.18"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteDevice(t *testing.T) {
	srv, _ := testServer(t)

	srv.mustAddDevice(t, "nas", "AA:BB:CC:DD:EE:FF", "192.168.0.18")
	doRequest(t, srv, http.MethodPost, "/devices/ping/nas", "")

	w := doRequest(t, srv, http.MethodDelete, "/devices/nas", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	resp := decodeBody[DeleteResponse](t, w)
	if !resp.Success {
		t.Error("expected success=true")
	}

	if _, ok := srv.cache.Get("nas"); ok {
		t.Error("cache entry should be pruned after delete")
	}

	// Deleting again is a 404, not a silent success.
	w = doRequest(t, srv, http.MethodDelete, "/devices/nas", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}
