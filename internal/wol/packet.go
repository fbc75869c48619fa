package wol

import (
	"encoding/hex"
	"fmt"
	"net"
	"strings"

	mdlwol "github.com/mdlayher/wol"
)

// DefaultPort is the conventional Wake-on-LAN discard port.
const DefaultPort = 9

// macHexDigits is the length of a MAC address with separators stripped.
const macHexDigits = 12

// Normalize parses a textual MAC address into a hardware address.
//
// Accepted forms: colon-separated, hyphen-separated, bare hex, and any
// mixture of the two separators, in either case. After stripping
// separators the address must be exactly 12 hexadecimal digits.
//
// Returns ErrInvalidAddress for anything else.
func Normalize(mac string) (net.HardwareAddr, error) {
	stripped := strings.NewReplacer(":", "", "-", "").Replace(mac)
	if len(stripped) != macHexDigits {
		return nil, fmt.Errorf("%w: MAC %q must contain exactly 12 hex digits", ErrInvalidAddress, mac)
	}

	raw, err := hex.DecodeString(stripped)
	if err != nil {
		return nil, fmt.Errorf("%w: MAC %q contains non-hex characters", ErrInvalidAddress, mac)
	}

	return net.HardwareAddr(raw), nil
}

// Format renders a hardware address in canonical colon-separated uppercase
// form, e.g. "DE:5E:D3:93:DF:F5".
func Format(hw net.HardwareAddr) string {
	return strings.ToUpper(hw.String())
}

// BroadcastAddr derives the broadcast address for an IPv4 dotted-quad by
// replacing the final octet with 255.
//
// The device's stored subnet mask is deliberately not consulted; the /24
// assumption is preserved behaviour (see package documentation).
func BroadcastAddr(ip string) (string, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.To4() == nil || strings.Contains(ip, ":") {
		return "", fmt.Errorf("%w: IP %q is not an IPv4 dotted-quad", ErrInvalidAddress, ip)
	}

	octets := strings.Split(ip, ".")
	if len(octets) != 4 {
		return "", fmt.Errorf("%w: IP %q is not an IPv4 dotted-quad", ErrInvalidAddress, ip)
	}

	return strings.Join(octets[:3], ".") + ".255", nil
}

// Payload constructs the 102-byte magic packet for a hardware address:
// 6 bytes of 0xFF followed by the 6-byte address repeated 16 times.
func Payload(hw net.HardwareAddr) ([]byte, error) {
	mp := &mdlwol.MagicPacket{Target: hw}
	b, err := mp.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return b, nil
}
