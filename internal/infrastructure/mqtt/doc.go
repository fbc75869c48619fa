// Package mqtt publishes device status events to an MQTT broker.
//
// This is an optional integration: when enabled, every probe result is
// published as retained JSON to lanwake/device/<name>/status so dashboards
// and automations can track reachability without polling the HTTP API.
// The client maintains a Last Will so subscribers can tell when LanWake
// itself goes offline.
//
// Topic layout:
//
//	lanwake/bridge/state            - retained online/offline for this service
//	lanwake/device/<name>/status    - retained last probe result per device
//
// Delivery is best-effort. Publish failures are logged and dropped; status
// is re-published on the next probe anyway.
//
// Thread Safety: all methods are safe for concurrent use.
package mqtt
