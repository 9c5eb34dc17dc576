package protocol

import (
	"fmt"
	"strings"
)

// Message is a decoded SSDP message.
type Message interface {
	Type() PacketType
	String() string
}

// MSearch is an M-SEARCH request sent by a control point.
type MSearch struct {
	Host             string       // HOST, normally 239.255.255.250:1900
	Man              ManDiscover  // MAN
	CacheControl     string       // CACHE-CONTROL (optional)
	MaxWait          *uint8       // MX, seconds a device may delay its reply (optional)
	Target           SearchTarget // ST
	UserAgent        string       // USER-AGENT (optional)
	TCPPort          *uint16      // TCPPORT.UPNP.ORG (optional)
	FriendlyName     string       // CPFN.UPNP.ORG (optional)
	ControlPointUUID string       // CPUUID.UPNP.ORG (optional)
}

func (m *MSearch) Type() PacketType { return PacketMSearch }

func (m *MSearch) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "MSearch{st=%s", m.Target)
	if m.MaxWait != nil {
		fmt.Fprintf(&b, ", mx=%d", *m.MaxWait)
	}
	if m.FriendlyName != "" {
		fmt.Fprintf(&b, ", cpfn=%q", m.FriendlyName)
	}
	b.WriteString("}")
	return b.String()
}

// Available is a NOTIFY ssdp:alive announcement.
type Available struct {
	Host             string            // HOST
	CacheControl     string            // CACHE-CONTROL
	Location         string            // LOCATION, URL of the device description
	SecureLocation   string            // SECURELOCATION.UPNP.ORG (optional)
	NotificationType SearchTarget      // NT
	Server           string            // SERVER
	USN              UniqueServiceName // USN
	BootID           *int32            // BOOTID.UPNP.ORG (optional)
	ConfigID         *int32            // CONFIGID.UPNP.ORG (optional)
	SearchPort       *uint16           // SEARCHPORT.UPNP.ORG (optional)
}

func (m *Available) Type() PacketType { return PacketNotify }

func (m *Available) String() string {
	return fmt.Sprintf("Available{nt=%s, usn=%s, location=%s}", m.NotificationType, m.USN, m.Location)
}

// SearchResponse is a unicast reply to an M-SEARCH.
type SearchResponse struct {
	CacheControl   string            // CACHE-CONTROL
	Date           string            // DATE (optional)
	Location       string            // LOCATION, URL of the device description
	Ext            Ext               // EXT, always empty
	Server         string            // SERVER
	SecureLocation string            // SECURELOCATION.UPNP.ORG (optional)
	Target         SearchTarget      // ST
	USN            UniqueServiceName // USN
	BootID         *int32            // BOOTID.UPNP.ORG (optional)
	ConfigID       *int32            // CONFIGID.UPNP.ORG (optional)
	SearchPort     *uint16           // SEARCHPORT.UPNP.ORG (optional)
}

func (m *SearchResponse) Type() PacketType { return PacketOK }

func (m *SearchResponse) String() string {
	return fmt.Sprintf("SearchResponse{st=%s, usn=%s, location=%s}", m.Target, m.USN, m.Location)
}

// DescriptionURL returns the secure location when advertised, otherwise
// the plain location.
func (m *SearchResponse) DescriptionURL() string {
	if m.SecureLocation != "" {
		return m.SecureLocation
	}
	return m.Location
}

// DescriptionURL returns the secure location when advertised, otherwise
// the plain location.
func (m *Available) DescriptionURL() string {
	if m.SecureLocation != "" {
		return m.SecureLocation
	}
	return m.Location
}

// GetMessageTypeName returns a short name for the message variant.
func GetMessageTypeName(m Message) string {
	switch m.(type) {
	case *MSearch:
		return "m-search"
	case *Available:
		return "available"
	case *SearchResponse:
		return "search-response"
	default:
		return "unknown"
	}
}
