// Package wol builds and transmits Wake-on-LAN magic packets.
//
// A magic packet is 6 bytes of 0xFF followed by 16 repetitions of the
// target's 6-byte hardware address, sent as a single UDP datagram to the
// subnet broadcast address. Delivery is fire-and-forget: UDP gives no
// confirmation and the target may ignore the packet, so callers must not
// assume the device actually woke.
//
// The broadcast address is derived naively from the first three octets of
// the device IP (a /24 assumption). The stored subnet mask is not consulted.
// This matches the behaviour relied upon by existing deployments and is a
// known limitation for non-/24 networks.
//
// Thread Safety: Sender is safe for concurrent use; each send opens its own
// UDP socket.
package wol
