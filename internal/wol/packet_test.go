package wol

import (
	"bytes"
	"errors"
	"net"
	"testing"
)

func TestNormalize_AcceptedForms(t *testing.T) {
	want := net.HardwareAddr{0xDE, 0x5E, 0xD3, 0x93, 0xDF, 0xF5}

	tests := []struct {
		name  string
		input string
	}{
		{name: "colons upper", input: "DE:5E:D3:93:DF:F5"},
		{name: "colons lower", input: "de:5e:d3:93:df:f5"},
		{name: "hyphens", input: "DE-5E-D3-93-DF-F5"},
		{name: "bare hex", input: "DE5ED393DFF5"},
		{name: "bare hex lower", input: "de5ed393dff5"},
		{name: "mixed separators", input: "DE:5E-D3:93-DF:F5"},
		{name: "mixed case", input: "dE:5e:D3:93:Df:F5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hw, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize(%q) error = %v", tt.input, err)
			}
			if !bytes.Equal(hw, want) {
				t.Errorf("Normalize(%q) = %v, want %v", tt.input, hw, want)
			}
		})
	}
}

func TestNormalize_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "too short", input: "DE:5E:D3"},
		{name: "too long", input: "DE:5E:D3:93:DF:F5:AA"},
		{name: "non-hex", input: "GG:5E:D3:93:DF:F5"},
		{name: "dots", input: "DE5E.D393.DFF5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Normalize(tt.input); !errors.Is(err, ErrInvalidAddress) {
				t.Errorf("Normalize(%q) error = %v, want ErrInvalidAddress", tt.input, err)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	hw := net.HardwareAddr{0xDE, 0x5E, 0xD3, 0x93, 0xDF, 0xF5}
	if got := Format(hw); got != "DE:5E:D3:93:DF:F5" {
		t.Errorf("Format() = %q, want DE:5E:D3:93:DF:F5", got)
	}
}

func TestBroadcastAddr(t *testing.T) {
	tests := []struct {
		name    string
		ip      string
		want    string
		wantErr bool
	}{
		{name: "typical lan", ip: "192.168.0.18", want: "192.168.0.255"},
		{name: "ten net", ip: "10.0.0.5", want: "10.0.0.255"},
		{name: "already broadcast", ip: "172.16.4.255", want: "172.16.4.255"},
		{name: "not an ip", ip: "nonsense", wantErr: true},
		{name: "empty", ip: "", wantErr: true},
		{name: "ipv6", ip: "fe80::1", wantErr: true},
		{name: "short quad", ip: "192.168.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BroadcastAddr(tt.ip)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAddress) {
					t.Errorf("BroadcastAddr(%q) error = %v, want ErrInvalidAddress", tt.ip, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BroadcastAddr(%q) error = %v", tt.ip, err)
			}
			if got != tt.want {
				t.Errorf("BroadcastAddr(%q) = %q, want %q", tt.ip, got, tt.want)
			}
		})
	}
}

func TestPayload_Shape(t *testing.T) {
	hw, err := Normalize("AA:BB:CC:DD:EE:FF")
	if err != nil {
		t.Fatal(err)
	}

	payload, err := Payload(hw)
	if err != nil {
		t.Fatalf("Payload() error = %v", err)
	}

	if len(payload) != 102 {
		t.Fatalf("payload length = %d, want 102", len(payload))
	}

	for i := 0; i < 6; i++ {
		if payload[i] != 0xFF {
			t.Fatalf("payload[%d] = %#x, want 0xFF", i, payload[i])
		}
	}

	for rep := 0; rep < 16; rep++ {
		chunk := payload[6+rep*6 : 6+(rep+1)*6]
		if !bytes.Equal(chunk, hw) {
			t.Fatalf("repetition %d = %v, want %v", rep, chunk, hw)
		}
	}
}

func TestPayload_SameForAllTextualForms(t *testing.T) {
	forms := []string{
		"AA:BB:CC:DD:EE:FF",
		"aa-bb-cc-dd-ee-ff",
		"AABBCCDDEEFF",
		"aa:bb-cc:dd-ee:ff",
	}

	var first []byte
	for _, form := range forms {
		hw, err := Normalize(form)
		if err != nil {
			t.Fatalf("Normalize(%q) error = %v", form, err)
		}
		payload, err := Payload(hw)
		if err != nil {
			t.Fatalf("Payload(%q) error = %v", form, err)
		}
		if first == nil {
			first = payload
			continue
		}
		if !bytes.Equal(payload, first) {
			t.Errorf("payload for %q differs from first form", form)
		}
	}
}
