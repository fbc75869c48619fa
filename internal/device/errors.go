package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when a device name does not exist.
	ErrNotFound = errors.New("device: not found")

	// ErrValidation is returned when a device record is missing or
	// malformed in a required field.
	ErrValidation = errors.New("device: validation failed")

	// ErrPersist is returned when the backing file cannot be written.
	// The in-memory registry keeps the mutation; only durability failed.
	ErrPersist = errors.New("device: persist failed")
)
