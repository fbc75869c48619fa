package wol

import "errors"

// Domain errors for the wol package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, wol.ErrInvalidAddress) {
//	    // report as a client error
//	}
var (
	// ErrInvalidAddress is returned when a MAC or IP address cannot be parsed.
	ErrInvalidAddress = errors.New("wol: invalid address")

	// ErrTransmission is returned when the UDP send fails. The underlying
	// socket error is preserved in the wrap chain for operator visibility.
	ErrTransmission = errors.New("wol: transmission failed")
)
