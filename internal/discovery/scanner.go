package discovery

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/ssdpscan/internal/logging"
	"github.com/muurk/ssdpscan/internal/protocol"
	"github.com/muurk/ssdpscan/internal/transport"
	"github.com/muurk/ssdpscan/internal/version"
)

const (
	// DefaultWindow is how long a search listens for replies
	DefaultWindow = 3 * time.Second

	// MinWindow and MaxWindow bound the MX values devices are required to honour.
	// Windows outside this range are sent anyway.
	MinWindow = protocol.MinMaxWait * time.Second
	MaxWindow = protocol.MaxMaxWait * time.Second
)

// ErrTransportFailure wraps socket errors that abort a discovery session.
var ErrTransportFailure = errors.New("transport failure")

// Identity is what the control point says about itself in M-SEARCH requests.
type Identity struct {
	UserAgent        string // USER-AGENT
	FriendlyName     string // CPFN.UPNP.ORG
	ControlPointUUID string // CPUUID.UPNP.ORG
}

// DefaultIdentity returns an identity built from the binary's version.
func DefaultIdentity() Identity {
	return Identity{
		UserAgent:    version.UserAgent(),
		FriendlyName: version.ProductName,
	}
}

// Scanner runs SSDP discovery sessions over a Transport.
type Scanner struct {
	// Transport sends the search and receives the replies
	Transport transport.Transport

	// Group is the destination of the M-SEARCH
	Group net.Addr

	// Identity is sent in every search
	Identity Identity

	// Window is the listen duration used by Find
	Window time.Duration

	// OnResponse, when set, is called after each search response is folded.
	// It runs on the collecting goroutine and must not block.
	OnResponse func(d *Device)

	// now is replaceable in tests
	now func() time.Time
}

// NewScanner creates a scanner sending to the standard SSDP group.
func NewScanner(t transport.Transport) *Scanner {
	group, _ := net.ResolveUDPAddr("udp4", protocol.MulticastAddress)
	return &Scanner{
		Transport: t,
		Group:     group,
		Identity:  DefaultIdentity(),
		Window:    DefaultWindow,
		now:       time.Now,
	}
}

// Find searches for every device (ST ssdp:all) for the scanner's Window.
func (s *Scanner) Find(ctx context.Context) ([]*Device, error) {
	return s.Search(ctx, protocol.SearchAll(), s.Window)
}

// Search sends one M-SEARCH for target and folds the search responses that
// arrive within window into devices.
//
// Datagrams that fail to decode, and messages other than search responses,
// are logged and skipped. A socket failure aborts the session with an error
// wrapping ErrTransportFailure. When nothing answers, Search returns an
// empty slice and no error. Cancelling ctx ends the window early.
func (s *Scanner) Search(ctx context.Context, target protocol.SearchTarget, window time.Duration) ([]*Device, error) {
	if s.Transport == nil {
		return nil, fmt.Errorf("%w: no transport configured", ErrTransportFailure)
	}
	if window < MinWindow || window > MaxWindow {
		logging.Warn("Search window outside the 1-5 second range devices are required to honour",
			zap.Duration("window", window),
		)
	}

	search := protocol.BuildSearch(protocol.SearchOptions{
		Target:           target,
		MaxWait:          maxWait(window),
		UserAgent:        s.Identity.UserAgent,
		FriendlyName:     s.Identity.FriendlyName,
		ControlPointUUID: s.Identity.ControlPointUUID,
	})
	payload, err := protocol.Marshal(search)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search: %w", err)
	}

	logging.Info("Starting SSDP search",
		zap.String("target", target.String()),
		zap.Duration("window", window),
	)

	if err := s.Transport.Send(ctx, payload, s.Group); err != nil {
		return nil, fmt.Errorf("%w: failed to send search: %w", ErrTransportFailure, err)
	}

	devices, err := s.collect(ctx, window)
	if err != nil {
		return nil, err
	}

	logging.Info("SSDP search finished", zap.Int("devices", len(devices)))
	return devices, nil
}

type datagram struct {
	data []byte
	src  net.Addr
	err  error
}

// collect listens until the window closes. The reader goroutine only moves
// datagrams onto a channel; decoding and folding happen on this goroutine.
func (s *Scanner) collect(ctx context.Context, window time.Duration) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	inbox := make(chan datagram)
	go s.receive(ctx, inbox)

	inv := newInventory()
	for {
		// The deadline wins over a datagram that is already waiting.
		select {
		case <-ctx.Done():
			return inv.list(), nil
		default:
		}

		select {
		case <-ctx.Done():
			return inv.list(), nil

		case dg := <-inbox:
			if dg.err != nil {
				if ctx.Err() != nil || isDeadline(dg.err) {
					return inv.list(), nil
				}
				logging.Error("SSDP receive failed", zap.Error(dg.err))
				return nil, fmt.Errorf("%w: %w", ErrTransportFailure, dg.err)
			}
			s.handle(inv, dg)
		}
	}
}

// isDeadline reports whether err is a timeout, which only ever marks the end
// of the window.
func isDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded)
}

func (s *Scanner) receive(ctx context.Context, inbox chan<- datagram) {
	for {
		data, src, err := s.Transport.Receive(ctx)
		select {
		case inbox <- datagram{data: data, src: src, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Scanner) handle(inv *inventory, dg datagram) {
	msg, err := protocol.Unmarshal(dg.data)
	if err != nil {
		logging.LogDecodeFailure(dg.src, err, dg.data)
		return
	}

	resp, ok := msg.(*protocol.SearchResponse)
	if !ok {
		logging.Debug("Ignoring non-response message",
			zap.String("type", protocol.GetMessageTypeName(msg)),
			zap.Stringer("addr", dg.src),
		)
		return
	}

	d := inv.fold(resp, dg.src, s.clock())
	logging.Debug("Search response",
		zap.String("uuid", d.UUID),
		zap.String("target", resp.Target.String()),
		zap.String("location", resp.DescriptionURL()),
		zap.Int("services", len(d.Services)),
	)

	if s.OnResponse != nil {
		s.OnResponse(d)
	}
}

func (s *Scanner) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// maxWait converts a window into an MX value, rounding up to whole seconds.
func maxWait(window time.Duration) uint8 {
	if window <= 0 {
		return 0
	}
	secs := math.Ceil(window.Seconds())
	if secs > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(secs)
}

// Discover opens a multicast transport with cfg, runs one search for every
// device and closes the transport.
func Discover(ctx context.Context, cfg transport.Config, identity Identity, window time.Duration) ([]*Device, error) {
	t, err := transport.NewMulticast(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransportFailure, err)
	}
	defer t.Close()

	scanner := NewScanner(t)
	scanner.Group = t.Group()
	scanner.Identity = identity
	return scanner.Search(ctx, protocol.SearchAll(), window)
}

// QuickScan discovers devices on the default interface with default settings.
func QuickScan(ctx context.Context) ([]*Device, error) {
	return Discover(ctx, transport.DefaultConfig(), DefaultIdentity(), DefaultWindow)
}
