package protocol

import (
	"bytes"
	"fmt"
	"strings"
)

// Header names as written on the wire
const (
	HeaderHost           = "HOST"
	HeaderMan            = "MAN"
	HeaderCacheControl   = "CACHE-CONTROL"
	HeaderMX             = "MX"
	HeaderST             = "ST"
	HeaderUserAgent      = "USER-AGENT"
	HeaderTCPPort        = "TCPPORT.UPNP.ORG"
	HeaderFriendlyName   = "CPFN.UPNP.ORG"
	HeaderCPUUID         = "CPUUID.UPNP.ORG"
	HeaderLocation       = "LOCATION"
	HeaderSecureLocation = "SECURELOCATION.UPNP.ORG"
	HeaderNT             = "NT"
	HeaderNTS            = "NTS"
	HeaderServer         = "SERVER"
	HeaderUSN            = "USN"
	HeaderBootID         = "BOOTID.UPNP.ORG"
	HeaderConfigID       = "CONFIGID.UPNP.ORG"
	HeaderSearchPort     = "SEARCHPORT.UPNP.ORG"
	HeaderDate           = "DATE"
	HeaderExt            = "EXT"
)

// NTS values
const (
	NTSAlive = "ssdp:alive"
)

// field maps one header onto one message field.
type field struct {
	header   string
	required bool
	decode   func(m Message, raw string) error
	encode   func(m Message) (string, bool)
}

// discriminant is a header whose fixed value selects a variant.
type discriminant struct {
	header string
	value  string
}

// variant describes how one Message type maps onto a packet.
type variant struct {
	name   string
	packet PacketType
	match  *discriminant
	fields []field
	new    func() Message
}

func (v *variant) matches(p *Packet) bool {
	if p.Type != v.packet {
		return false
	}
	if v.match == nil {
		return true
	}
	value, ok := p.Headers.Get(v.match.header)
	return ok && value == v.match.value
}

func stringField[M Message](header string, required bool, ptr func(M) *string) field {
	return field{
		header:   header,
		required: required,
		decode: func(m Message, raw string) error {
			*ptr(m.(M)) = raw
			return nil
		},
		encode: func(m Message) (string, bool) {
			v := *ptr(m.(M))
			return v, required || v != ""
		},
	}
}

func valueField[M Message, T any](header string, ptr func(M) *T, parse func(string) (T, error), format func(T) string) field {
	return field{
		header:   header,
		required: true,
		decode: func(m Message, raw string) error {
			v, err := parse(raw)
			if err != nil {
				return err
			}
			*ptr(m.(M)) = v
			return nil
		},
		encode: func(m Message) (string, bool) {
			return format(*ptr(m.(M))), true
		},
	}
}

func optionalField[M Message, T any](header string, ptr func(M) **T, parse func(string) (T, error), format func(T) string) field {
	return field{
		header: header,
		decode: func(m Message, raw string) error {
			v, err := parse(raw)
			if err != nil {
				return err
			}
			*ptr(m.(M)) = &v
			return nil
		},
		encode: func(m Message) (string, bool) {
			v := *ptr(m.(M))
			if v == nil {
				return "", false
			}
			return format(*v), true
		},
	}
}

func formatTarget(t SearchTarget) string   { return t.String() }
func formatUSN(u UniqueServiceName) string { return u.String() }
func formatMan(ManDiscover) string         { return ManDiscover{}.String() }
func formatExt(Ext) string                 { return "" }

var msearchVariant = variant{
	name:   "MSearch",
	packet: PacketMSearch,
	new:    func() Message { return &MSearch{} },
	fields: []field{
		stringField(HeaderHost, true, func(m *MSearch) *string { return &m.Host }),
		valueField(HeaderMan, func(m *MSearch) *ManDiscover { return &m.Man }, ParseManDiscover, formatMan),
		stringField(HeaderCacheControl, false, func(m *MSearch) *string { return &m.CacheControl }),
		optionalField(HeaderMX, func(m *MSearch) **uint8 { return &m.MaxWait }, parseUint8, formatUint8),
		valueField(HeaderST, func(m *MSearch) *SearchTarget { return &m.Target }, parseSearchTarget, formatTarget),
		stringField(HeaderUserAgent, false, func(m *MSearch) *string { return &m.UserAgent }),
		optionalField(HeaderTCPPort, func(m *MSearch) **uint16 { return &m.TCPPort }, parseUint16, formatUint16),
		stringField(HeaderFriendlyName, false, func(m *MSearch) *string { return &m.FriendlyName }),
		stringField(HeaderCPUUID, false, func(m *MSearch) *string { return &m.ControlPointUUID }),
	},
}

var availableVariant = variant{
	name:   "Available",
	packet: PacketNotify,
	match:  &discriminant{header: HeaderNTS, value: NTSAlive},
	new:    func() Message { return &Available{} },
	fields: []field{
		stringField(HeaderHost, true, func(m *Available) *string { return &m.Host }),
		stringField(HeaderCacheControl, true, func(m *Available) *string { return &m.CacheControl }),
		stringField(HeaderLocation, true, func(m *Available) *string { return &m.Location }),
		stringField(HeaderSecureLocation, false, func(m *Available) *string { return &m.SecureLocation }),
		valueField(HeaderNT, func(m *Available) *SearchTarget { return &m.NotificationType }, parseSearchTarget, formatTarget),
		stringField(HeaderServer, true, func(m *Available) *string { return &m.Server }),
		valueField(HeaderUSN, func(m *Available) *UniqueServiceName { return &m.USN }, ParseUniqueServiceName, formatUSN),
		optionalField(HeaderBootID, func(m *Available) **int32 { return &m.BootID }, parseInt32, formatInt32),
		optionalField(HeaderConfigID, func(m *Available) **int32 { return &m.ConfigID }, parseInt32, formatInt32),
		optionalField(HeaderSearchPort, func(m *Available) **uint16 { return &m.SearchPort }, parseUint16, formatUint16),
	},
}

var searchResponseVariant = variant{
	name:   "SearchResponse",
	packet: PacketOK,
	new:    func() Message { return &SearchResponse{} },
	fields: []field{
		stringField(HeaderCacheControl, true, func(m *SearchResponse) *string { return &m.CacheControl }),
		stringField(HeaderDate, false, func(m *SearchResponse) *string { return &m.Date }),
		stringField(HeaderLocation, true, func(m *SearchResponse) *string { return &m.Location }),
		valueField(HeaderExt, func(m *SearchResponse) *Ext { return &m.Ext }, ParseExt, formatExt),
		stringField(HeaderServer, true, func(m *SearchResponse) *string { return &m.Server }),
		stringField(HeaderSecureLocation, false, func(m *SearchResponse) *string { return &m.SecureLocation }),
		valueField(HeaderST, func(m *SearchResponse) *SearchTarget { return &m.Target }, parseSearchTarget, formatTarget),
		valueField(HeaderUSN, func(m *SearchResponse) *UniqueServiceName { return &m.USN }, ParseUniqueServiceName, formatUSN),
		optionalField(HeaderBootID, func(m *SearchResponse) **int32 { return &m.BootID }, parseInt32, formatInt32),
		optionalField(HeaderConfigID, func(m *SearchResponse) **int32 { return &m.ConfigID }, parseInt32, formatInt32),
		optionalField(HeaderSearchPort, func(m *SearchResponse) **uint16 { return &m.SearchPort }, parseUint16, formatUint16),
	},
}

// variants is searched in order; the first match wins.
var variants = []*variant{&msearchVariant, &availableVariant, &searchResponseVariant}

func init() {
	if err := validateVariants(variants); err != nil {
		panic(err)
	}
}

// validateVariants rejects tables where two variants could claim the same
// packet, or a variant maps the same header twice.
func validateVariants(vs []*variant) error {
	for i, a := range vs {
		seen := make(map[string]bool, len(a.fields))
		for _, f := range a.fields {
			h := strings.ToLower(f.header)
			if seen[h] {
				return fmt.Errorf("variant %s: header %s mapped twice", a.name, h)
			}
			seen[h] = true
		}

		for _, b := range vs[i+1:] {
			if a.packet != b.packet {
				continue
			}
			if a.match == nil || b.match == nil ||
				(strings.EqualFold(a.match.header, b.match.header) && a.match.value == b.match.value) {
				return fmt.Errorf("variants %s and %s are ambiguous for %q", a.name, b.name, a.packet.String())
			}
		}
	}
	return nil
}

// FromPacket maps a packet onto the first variant that matches it.
func FromPacket(p *Packet) (Message, error) {
	for _, v := range variants {
		if !v.matches(p) {
			continue
		}

		m := v.new()
		for _, f := range v.fields {
			raw, ok := p.Headers.Get(f.header)
			if !ok {
				if f.required {
					return nil, missingHeaderError(f.header)
				}
				continue
			}
			if err := f.decode(m, raw); err != nil {
				return nil, fieldValueError(f.header, raw, err)
			}
		}
		return m, nil
	}

	return nil, &Error{Kind: ErrUnrecognizedPacket, Line: p.Type.String()}
}

// DecodeMessage decodes one packet from buf and maps it onto a Message.
// Incomplete input is reported as ErrIncomplete, as with Decode.
func DecodeMessage(buf *bytes.Buffer) (Message, error) {
	p, err := Decode(buf)
	if err != nil {
		return nil, err
	}
	return FromPacket(p)
}

// Unmarshal decodes a single datagram into a Message.
func Unmarshal(data []byte) (Message, error) {
	p, err := DecodeDatagram(data)
	if err != nil {
		return nil, err
	}
	return FromPacket(p)
}
