package discovery

import (
	"fmt"
	"net"
	"time"

	"github.com/muurk/ssdpscan/internal/protocol"
)

// Device represents a UPnP device that answered a search
type Device struct {
	// UUID is the device id taken from the USN (e.g., "fcdb9233-a63f-41da-b42c-7cfeb99c8adf")
	UUID string

	// Server is the SERVER header of the first response (e.g., "eeroOS/latest UPnP/1.0 eero/latest")
	Server string

	// Address is where the first response came from
	Address net.Addr

	// Location is the description URL, the secure location when one was advertised
	Location string

	// Services holds one entry per response received, in arrival order
	Services []Service

	// DiscoveredAt is when the first response arrived
	DiscoveredAt time.Time
}

// Service is one search response folded into a Device
type Service struct {
	// ServiceName is the USN of the response
	ServiceName protocol.UniqueServiceName

	// Target is the ST of the response
	Target protocol.SearchTarget
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("UPnP Device %s (%s) at %s", d.UUID, d.Server, d.IP())
}

// IP returns the host part of Address, or "" when unknown
func (d *Device) IP() string {
	if d.Address == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(d.Address.String())
	if err != nil {
		return d.Address.String()
	}
	return host
}

// Targets returns the distinct search targets the device answered for
func (d *Device) Targets() []protocol.SearchTarget {
	seen := make(map[string]bool, len(d.Services))
	targets := make([]protocol.SearchTarget, 0, len(d.Services))
	for _, s := range d.Services {
		key := s.Target.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		targets = append(targets, s.Target)
	}
	return targets
}

// inventory folds search responses into devices keyed by USN uuid. It is
// owned by a single collection loop and never shared.
type inventory struct {
	devices map[string]*Device
	order   []string
}

func newInventory() *inventory {
	return &inventory{devices: make(map[string]*Device)}
}

// fold records one response. The first response for a uuid creates the
// Device; every response, the first included, appends a Service.
func (inv *inventory) fold(resp *protocol.SearchResponse, src net.Addr, at time.Time) *Device {
	id := resp.USN.UUID

	d, ok := inv.devices[id]
	if !ok {
		d = &Device{
			UUID:         id,
			Server:       resp.Server,
			Address:      src,
			Location:     resp.DescriptionURL(),
			DiscoveredAt: at,
		}
		inv.devices[id] = d
		inv.order = append(inv.order, id)
	}

	d.Services = append(d.Services, Service{
		ServiceName: resp.USN,
		Target:      resp.Target,
	})
	return d
}

// list returns the devices in first-seen order. Never nil.
func (inv *inventory) list() []*Device {
	out := make([]*Device, 0, len(inv.order))
	for _, id := range inv.order {
		out = append(out, inv.devices[id])
	}
	return out
}
