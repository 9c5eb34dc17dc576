package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/ipv4"

	"github.com/muurk/ssdpscan/internal/logging"
	"github.com/muurk/ssdpscan/internal/protocol"
)

// Default multicast settings
const (
	DefaultTTL        = 4           // Multicast hop limit for M-SEARCH
	DefaultListenAddr = "0.0.0.0:0" // Ephemeral port; search replies are unicast
	MaxDatagramSize   = 65535       // Largest UDP payload; nothing is truncated
)

// ErrClosed is returned by Send and Receive after Close.
var ErrClosed = errors.New("transport closed")

// Config configures a Multicast transport.
type Config struct {
	Group      string // Multicast group, host:port
	ListenAddr string // Local bind address; use port 1900 to also hear NOTIFY
	Interface  string // Interface name; empty selects the system default
	TTL        int    // Multicast TTL
	Loopback   bool   // Deliver our own multicast back to local listeners
}

// DefaultConfig returns the configuration for the standard SSDP group.
func DefaultConfig() Config {
	return Config{
		Group:      protocol.MulticastAddress,
		ListenAddr: DefaultListenAddr,
		TTL:        DefaultTTL,
	}
}

// Multicast is a Transport over an IPv4 UDP socket joined to a multicast
// group. Replies to our searches arrive unicast on the same socket.
type Multicast struct {
	conn  net.PacketConn
	pc    *ipv4.PacketConn
	group *net.UDPAddr
	iface *net.Interface

	closeOnce sync.Once
	closed    chan struct{}
}

// NewMulticast binds the socket and joins the configured group.
func NewMulticast(cfg Config) (*Multicast, error) {
	if cfg.Group == "" {
		cfg.Group = protocol.MulticastAddress
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	group, err := net.ResolveUDPAddr("udp4", cfg.Group)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve multicast group %q: %w", cfg.Group, err)
	}

	var iface *net.Interface
	if cfg.Interface != "" {
		iface, err = net.InterfaceByName(cfg.Interface)
		if err != nil {
			return nil, fmt.Errorf("failed to find interface %q: %w", cfg.Interface, err)
		}
	}

	conn, err := net.ListenPacket("udp4", cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", cfg.ListenAddr, err)
	}

	pc := ipv4.NewPacketConn(conn)
	if err := pc.JoinGroup(iface, &net.UDPAddr{IP: group.IP}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to join multicast group %s: %w", group.IP, err)
	}
	if iface != nil {
		if err := pc.SetMulticastInterface(iface); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set multicast interface %s: %w", iface.Name, err)
		}
	}
	if err := pc.SetMulticastTTL(cfg.TTL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set multicast TTL: %w", err)
	}
	if err := pc.SetMulticastLoopback(cfg.Loopback); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set multicast loopback: %w", err)
	}

	logging.Debug("Joined multicast group",
		zap.String("group", group.String()),
		zap.String("local_addr", conn.LocalAddr().String()),
		zap.String("interface", interfaceName(iface)),
		zap.Int("ttl", cfg.TTL),
		zap.Bool("loopback", cfg.Loopback),
	)

	return wrap(conn, pc, group, iface), nil
}

func wrap(conn net.PacketConn, pc *ipv4.PacketConn, group *net.UDPAddr, iface *net.Interface) *Multicast {
	return &Multicast{
		conn:   conn,
		pc:     pc,
		group:  group,
		iface:  iface,
		closed: make(chan struct{}),
	}
}

// Group returns the multicast group address searches are sent to.
func (m *Multicast) Group() net.Addr {
	return m.group
}

// LocalAddr returns the bound socket address.
func (m *Multicast) LocalAddr() net.Addr {
	return m.conn.LocalAddr()
}

// Send transmits one datagram to dest.
func (m *Multicast) Send(ctx context.Context, packet []byte, dest net.Addr) error {
	if m.isClosed() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline, _ := ctx.Deadline()
	if err := m.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if _, err := m.pc.WriteTo(packet, nil, dest); err != nil {
		return fmt.Errorf("failed to send to %s: %w", dest, err)
	}

	logging.LogDatagram("sent", dest, packet)
	return nil
}

// Receive waits for the next datagram or for ctx to be done. When ctx ends
// the error is ctx.Err(), never the socket's i/o timeout.
func (m *Multicast) Receive(ctx context.Context) ([]byte, net.Addr, error) {
	if m.isClosed() {
		return nil, nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// The read has no deadline of its own; ctx ending sets one to wake it.
	if err := m.conn.SetReadDeadline(time.Time{}); err != nil {
		return nil, nil, fmt.Errorf("failed to clear read deadline: %w", err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = m.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, MaxDatagramSize)
	for {
		n, _, src, err := m.pc.ReadFrom(buf)
		if err == nil {
			data := bytes.Clone(buf[:n])
			logging.LogDatagram("received", src, data)
			return data, src, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		if m.isClosed() {
			return nil, nil, ErrClosed
		}
		if !errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, nil, fmt.Errorf("failed to receive: %w", err)
		}

		// A wake-up left behind by an earlier Receive. Clear it and read on,
		// unless ctx ended in the meantime.
		if err := m.conn.SetReadDeadline(time.Time{}); err != nil {
			if m.isClosed() {
				return nil, nil, ErrClosed
			}
			return nil, nil, fmt.Errorf("failed to clear read deadline: %w", err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
	}
}

// Close leaves the group and closes the socket.
func (m *Multicast) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.closed)
		_ = m.pc.LeaveGroup(m.iface, &net.UDPAddr{IP: m.group.IP})
		err = m.conn.Close()
	})
	return err
}

func (m *Multicast) isClosed() bool {
	select {
	case <-m.closed:
		return true
	default:
		return false
	}
}

func interfaceName(iface *net.Interface) string {
	if iface == nil {
		return "default"
	}
	return iface.Name
}
