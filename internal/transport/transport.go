// Package transport provides the datagram transport used for SSDP discovery.
//
// Discovery talks to the network only through the Transport interface, so the
// orchestrator can be exercised against in-memory or mocked transports in
// tests. Multicast is the production implementation: a UDPv4 socket joined
// to the SSDP group with golang.org/x/net/ipv4.
package transport

//go:generate mockgen -destination=mock_transport.go -package=transport github.com/muurk/ssdpscan/internal/transport Transport

import (
	"context"
	"net"
)

// Transport abstracts sending and receiving SSDP datagrams.
type Transport interface {
	// Send transmits one datagram to dest.
	Send(ctx context.Context, packet []byte, dest net.Addr) error

	// Receive waits for the next datagram. It returns ctx.Err() once ctx is
	// done, and a non-nil error when the socket fails.
	Receive(ctx context.Context) (packet []byte, src net.Addr, err error)

	// Close releases the socket and unblocks a pending Receive.
	Close() error
}
