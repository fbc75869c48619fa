package status

import "time"

// Record is the last known liveness result for a device.
//
// Online is tri-state: nil before the first probe, then true or false.
// RTTMillis is set only when the device answered and a round-trip time
// could be measured.
type Record struct {
	Online    *bool      `json:"online"`
	RTTMillis *float64   `json:"rtt_ms"`
	CheckedAt *time.Time `json:"checked_at"`
	IP        string     `json:"ip"`
}

// Unknown returns a Record for a device that has never been probed.
func Unknown(ip string) Record {
	return Record{IP: ip}
}
