package device

// Defaults applied to device records when the caller omits them.
const (
	// DefaultPort is the UDP port magic packets are sent to.
	DefaultPort = 9

	// DefaultSubnet is stored for future use; broadcast derivation
	// currently assumes /24 regardless of this value.
	DefaultSubnet = "255.255.255.0"
)

// Device is a single registry record. The device name is the map key and
// is not repeated inside the record, matching the on-disk layout.
type Device struct {
	// MAC is the hardware address in canonical colon-separated uppercase
	// form once stored. Input may use any separator style.
	MAC string `json:"mac"`

	// IP is the IPv4 address, used only to derive the subnet broadcast
	// address for the magic packet and as the liveness probe target.
	IP string `json:"ip"`

	// Port is the wake port. Defaults to 9.
	Port int `json:"port"`

	// Subnet is the subnet mask. Defaults to 255.255.255.0. Retained but
	// currently unused in broadcast computation.
	Subnet string `json:"subnet"`
}
