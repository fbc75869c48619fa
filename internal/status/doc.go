// Package status tracks per-device liveness.
//
// A Prober performs one best-effort ICMP echo against a host and classifies
// it online or offline with a round-trip time when one can be measured.
// Probe failures of any kind (timeout, tool missing, permission denied)
// degrade to offline/unknown; nothing propagates past the prober boundary.
//
// The Cache holds the last probe result per device name. Bulk refresh fans
// probes out across a bounded worker pool so total wall-clock stays near a
// constant multiple of the probe timeout regardless of device count. The
// cache mutex guards only the map, never a probe in flight, so one hung
// probe cannot block results from faster ones.
//
// Results are not persisted; the cache starts empty on every boot.
package status
