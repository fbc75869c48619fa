// Package api provides the HTTP REST API for LanWake Core.
//
// It exposes wake-on-LAN dispatch, device registry CRUD, and liveness
// status endpoints to dashboards, scripts, and phone shortcuts.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
