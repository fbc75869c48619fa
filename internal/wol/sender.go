package wol

import (
	"context"
	"fmt"
	"net"
	"strconv"

	mdlwol "github.com/mdlayher/wol"
)

// Logger defines the logging interface used by the Sender.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// wakeClient abstracts the underlying magic packet transport so tests can
// substitute a fake without opening sockets.
type wakeClient interface {
	Wake(addr string, target net.HardwareAddr) error
	Close() error
}

// Sender transmits Wake-on-LAN magic packets.
//
// There are no retries and no delivery confirmation. A successful Send means
// the datagram left this host, nothing more.
type Sender struct {
	logger      Logger
	defaultPort int
	newClient   func() (wakeClient, error)
}

// NewSender creates a Sender using a UDP socket per send.
//
// Go's net package enables SO_BROADCAST on UDP sockets, so sending to the
// subnet broadcast address needs no extra socket options.
func NewSender() *Sender {
	return &Sender{
		logger:      noopLogger{},
		defaultPort: DefaultPort,
		newClient: func() (wakeClient, error) {
			return mdlwol.NewClient()
		},
	}
}

// SetLogger sets the logger for the sender.
func (s *Sender) SetLogger(logger Logger) {
	s.logger = logger
}

// SetDefaultPort sets the UDP port used when a send request omits one.
// Values outside 1-65535 are ignored and the built-in default (9) stays.
func (s *Sender) SetDefaultPort(port int) {
	if port < 1 || port > 65535 {
		return
	}
	s.defaultPort = port
}

// Send normalizes the MAC address, derives the /24 broadcast address from
// the IP, and transmits one magic packet to (broadcast, port).
//
// A port of 0 means the sender's configured default (9 unless changed
// with SetDefaultPort).
//
// Returns a human-readable confirmation naming the normalized MAC, the
// broadcast address, and the port. Address parse failures return
// ErrInvalidAddress; socket failures return ErrTransmission with the
// underlying error preserved.
func (s *Sender) Send(ctx context.Context, mac, ip string, port int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransmission, err)
	}

	hw, err := Normalize(mac)
	if err != nil {
		return "", err
	}

	bcast, err := BroadcastAddr(ip)
	if err != nil {
		return "", err
	}

	if port == 0 {
		port = s.defaultPort
	}
	if port < 0 || port > 65535 {
		return "", fmt.Errorf("%w: port %d out of range", ErrInvalidAddress, port)
	}

	client, err := s.newClient()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransmission, err)
	}
	defer func() { _ = client.Close() }()

	addr := net.JoinHostPort(bcast, strconv.Itoa(port))
	if err := client.Wake(addr, hw); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransmission, err)
	}

	s.logger.Info("magic packet sent", "mac", Format(hw), "broadcast", bcast, "port", port)

	return fmt.Sprintf("magic packet sent to %s via %s:%d", Format(hw), bcast, port), nil
}
