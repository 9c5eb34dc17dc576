package protocol

import (
	"errors"
	"fmt"
)

// Multicast constants
const (
	MulticastAddress = "239.255.255.250:1900" // SSDP IPv4 multicast group and port
	MinMaxWait       = 1                      // Lowest MX a control point should send
	MaxMaxWait       = 5                      // Highest MX a control point should send
)

// ErrUnknownMessage is returned by ToPacket for Message implementations
// that have no variant table.
var ErrUnknownMessage = errors.New("unknown message type")

func variantOf(m Message) (*variant, error) {
	switch m.(type) {
	case *MSearch:
		return &msearchVariant, nil
	case *Available:
		return &availableVariant, nil
	case *SearchResponse:
		return &searchResponseVariant, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMessage, m)
	}
}

// ToPacket maps a Message onto a Packet.
//
// Required fields are always emitted, optional fields only when set, and the
// variant's discriminant header (NTS for Available) is appended last.
func ToPacket(m Message) (*Packet, error) {
	v, err := variantOf(m)
	if err != nil {
		return nil, err
	}

	p := NewPacket(v.packet)
	for _, f := range v.fields {
		if value, ok := f.encode(m); ok {
			p.Headers.Set(f.header, value)
		}
	}
	if v.match != nil {
		p.Headers.Set(v.match.header, v.match.value)
	}

	return p, nil
}

// Marshal encodes a Message into its datagram form.
func Marshal(m Message) ([]byte, error) {
	p, err := ToPacket(m)
	if err != nil {
		return nil, err
	}
	return p.MarshalBinary()
}

// SearchOptions configures BuildSearch.
type SearchOptions struct {
	Target           SearchTarget // ST, SearchAll() for everything
	MaxWait          uint8        // MX in seconds, omitted when zero
	UserAgent        string       // USER-AGENT
	FriendlyName     string       // CPFN.UPNP.ORG
	ControlPointUUID string       // CPUUID.UPNP.ORG
	TCPPort          uint16       // TCPPORT.UPNP.ORG, omitted when zero
}

// BuildSearch constructs the M-SEARCH request a control point multicasts to
// start discovery.
//
// The request is addressed to the standard multicast group:
//
//	M-SEARCH * HTTP/1.1
//	HOST: 239.255.255.250:1900
//	MAN: "ssdp:discover"
//	MX: 3
//	ST: ssdp:all
//	USER-AGENT: linux/6.1 UPnP/2.0 ssdpscan/1.0.0
//	CPFN.UPNP.ORG: ssdpscan
//	CPUUID.UPNP.ORG: 1f0e...
//
// Devices answer with unicast SearchResponse messages after a random delay
// of up to MX seconds.
func BuildSearch(opts SearchOptions) *MSearch {
	m := &MSearch{
		Host:             MulticastAddress,
		Target:           opts.Target,
		UserAgent:        opts.UserAgent,
		FriendlyName:     opts.FriendlyName,
		ControlPointUUID: opts.ControlPointUUID,
	}
	if opts.MaxWait > 0 {
		mx := opts.MaxWait
		m.MaxWait = &mx
	}
	if opts.TCPPort > 0 {
		port := opts.TCPPort
		m.TCPPort = &port
	}
	return m
}
