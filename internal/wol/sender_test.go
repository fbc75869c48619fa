package wol

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
)

// fakeWakeClient records the wake call instead of opening a socket.
type fakeWakeClient struct {
	addr    string
	target  net.HardwareAddr
	wakeErr error
	closed  bool
}

func (f *fakeWakeClient) Wake(addr string, target net.HardwareAddr) error {
	f.addr = addr
	f.target = target
	return f.wakeErr
}

func (f *fakeWakeClient) Close() error {
	f.closed = true
	return nil
}

func newTestSender(fake *fakeWakeClient, newErr error) *Sender {
	s := NewSender()
	s.newClient = func() (wakeClient, error) {
		if newErr != nil {
			return nil, newErr
		}
		return fake, nil
	}
	return s
}

func TestSend_Success(t *testing.T) {
	fake := &fakeWakeClient{}
	s := newTestSender(fake, nil)

	msg, err := s.Send(context.Background(), "de:5e:d3:93:df:f5", "192.168.0.18", 0)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if fake.addr != "192.168.0.255:9" {
		t.Errorf("wake addr = %q, want 192.168.0.255:9", fake.addr)
	}
	if got := Format(fake.target); got != "DE:5E:D3:93:DF:F5" {
		t.Errorf("wake target = %q, want DE:5E:D3:93:DF:F5", got)
	}
	if !fake.closed {
		t.Error("client was not closed")
	}
	if !strings.Contains(msg, "DE:5E:D3:93:DF:F5") || !strings.Contains(msg, "192.168.0.255:9") {
		t.Errorf("confirmation %q missing MAC or broadcast", msg)
	}
}

func TestSend_ExplicitPort(t *testing.T) {
	fake := &fakeWakeClient{}
	s := newTestSender(fake, nil)

	if _, err := s.Send(context.Background(), "AABBCCDDEEFF", "10.0.0.5", 7); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if fake.addr != "10.0.0.255:7" {
		t.Errorf("wake addr = %q, want 10.0.0.255:7", fake.addr)
	}
}

func TestSend_ConfiguredDefaultPort(t *testing.T) {
	fake := &fakeWakeClient{}
	s := newTestSender(fake, nil)
	s.SetDefaultPort(7)

	if _, err := s.Send(context.Background(), "AABBCCDDEEFF", "10.0.0.5", 0); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if fake.addr != "10.0.0.255:7" {
		t.Errorf("wake addr = %q, want configured default 10.0.0.255:7", fake.addr)
	}

	// An explicit port still wins over the configured default.
	if _, err := s.Send(context.Background(), "AABBCCDDEEFF", "10.0.0.5", 40000); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if fake.addr != "10.0.0.255:40000" {
		t.Errorf("wake addr = %q, want 10.0.0.255:40000", fake.addr)
	}
}

func TestSetDefaultPort_IgnoresOutOfRange(t *testing.T) {
	fake := &fakeWakeClient{}
	s := newTestSender(fake, nil)
	s.SetDefaultPort(0)
	s.SetDefaultPort(70000)

	if _, err := s.Send(context.Background(), "AABBCCDDEEFF", "10.0.0.5", 0); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if fake.addr != "10.0.0.255:9" {
		t.Errorf("wake addr = %q, want built-in default 10.0.0.255:9", fake.addr)
	}
}

func TestSend_InvalidMAC(t *testing.T) {
	fake := &fakeWakeClient{}
	s := newTestSender(fake, nil)

	_, err := s.Send(context.Background(), "not-a-mac", "192.168.0.18", 9)
	if !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("Send() error = %v, want ErrInvalidAddress", err)
	}
	if fake.addr != "" {
		t.Error("packet was sent despite invalid MAC")
	}
}

func TestSend_InvalidIP(t *testing.T) {
	s := newTestSender(&fakeWakeClient{}, nil)

	_, err := s.Send(context.Background(), "AA:BB:CC:DD:EE:FF", "::1", 9)
	if !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("Send() error = %v, want ErrInvalidAddress", err)
	}
}

func TestSend_SocketFailure(t *testing.T) {
	sockErr := errors.New("sendto: permission denied")
	fake := &fakeWakeClient{wakeErr: sockErr}
	s := newTestSender(fake, nil)

	_, err := s.Send(context.Background(), "AA:BB:CC:DD:EE:FF", "192.168.0.18", 9)
	if !errors.Is(err, ErrTransmission) {
		t.Fatalf("Send() error = %v, want ErrTransmission", err)
	}
	if !errors.Is(err, sockErr) {
		t.Errorf("underlying socket error not preserved: %v", err)
	}
}

func TestSend_ClientCreationFailure(t *testing.T) {
	s := newTestSender(nil, errors.New("socket: too many open files"))

	_, err := s.Send(context.Background(), "AA:BB:CC:DD:EE:FF", "192.168.0.18", 9)
	if !errors.Is(err, ErrTransmission) {
		t.Fatalf("Send() error = %v, want ErrTransmission", err)
	}
}

func TestSend_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestSender(&fakeWakeClient{}, nil)
	if _, err := s.Send(ctx, "AA:BB:CC:DD:EE:FF", "192.168.0.18", 9); !errors.Is(err, ErrTransmission) {
		t.Fatalf("Send() error = %v, want ErrTransmission", err)
	}
}
