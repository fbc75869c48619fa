package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/nerrad567/lan-wake-core/internal/status"
)

func TestDeviceStatus_EmptyCache(t *testing.T) {
	srv, _ := testServer(t)

	w := doRequest(t, srv, http.MethodGet, "/devices/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	snapshot := decodeBody[map[string]status.Record](t, w)
	if len(snapshot) != 0 {
		t.Errorf("got %d entries, want empty snapshot", len(snapshot))
	}
}

func TestPingDevice(t *testing.T) {
	srv, _ := testServer(t)

	srv.mustAddDevice(t, "nas", "AA:BB:CC:DD:EE:FF", "192.168.0.18")

	w := doRequest(t, srv, http.MethodPost, "/devices/ping/nas", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	rec := decodeBody[status.Record](t, w)
	if rec.Online == nil || !*rec.Online {
		t.Error("expected fresh probe to report online")
	}
	if rec.IP != "192.168.0.18" {
		t.Errorf("ip = %q, want 192.168.0.18", rec.IP)
	}

	// The probe result must also land in the cache.
	if _, ok := srv.cache.Get("nas"); !ok {
		t.Error("ping result missing from cache")
	}
}

func TestPingDevice_Unknown(t *testing.T) {
	srv, _ := testServer(t)

	w := doRequest(t, srv, http.MethodPost, "/devices/ping/ghost", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCheckDevices_FireAndForget(t *testing.T) {
	srv, _ := testServer(t)

	srv.mustAddDevice(t, "nas", "AA:BB:CC:DD:EE:FF", "192.168.0.18")
	srv.mustAddDevice(t, "plex", "11:22:33:44:55:66", "192.168.0.19")

	w := doRequest(t, srv, http.MethodPost, "/devices/check", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	resp := decodeBody[CheckResponse](t, w)
	if !resp.Success {
		t.Error("expected success=true")
	}

	// The sweep runs in the background; wait briefly for the fake prober.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if srv.cache.Count() == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if srv.cache.Count() != 2 {
		t.Errorf("cache entries = %d after sweep, want 2", srv.cache.Count())
	}
}
