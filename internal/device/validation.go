package device

import (
	"fmt"

	"github.com/nerrad567/lan-wake-core/internal/wol"
)

// normalize validates a record's required fields and fills defaults.
//
// The MAC is rewritten into canonical colon-separated uppercase form so
// that every record read back from the registry compares equal regardless
// of how the caller spelt the address.
//
// Returns ErrValidation with a field-naming message on failure.
func normalize(name string, d Device) (Device, error) {
	if name == "" {
		return Device{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if d.MAC == "" {
		return Device{}, fmt.Errorf("%w: mac is required", ErrValidation)
	}
	if d.IP == "" {
		return Device{}, fmt.Errorf("%w: ip is required", ErrValidation)
	}

	hw, err := wol.Normalize(d.MAC)
	if err != nil {
		return Device{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	d.MAC = wol.Format(hw)

	if _, err := wol.BroadcastAddr(d.IP); err != nil {
		return Device{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if d.Port == 0 {
		d.Port = DefaultPort
	}
	if d.Port < 0 || d.Port > 65535 {
		return Device{}, fmt.Errorf("%w: port %d out of range", ErrValidation, d.Port)
	}

	if d.Subnet == "" {
		d.Subnet = DefaultSubnet
	}

	return d, nil
}
