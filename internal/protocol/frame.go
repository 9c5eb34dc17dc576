package protocol

import (
	"bytes"
	"fmt"
	"strings"
)

// SSDP request lines
const (
	RequestLineMSearch = "M-SEARCH * HTTP/1.1"
	RequestLineNotify  = "NOTIFY * HTTP/1.1"
	RequestLineOK      = "HTTP/1.1 200 OK"
)

const lineBreak = "\r\n"

var terminator = []byte(lineBreak + lineBreak)

// PacketType identifies the request line of a packet.
type PacketType int

// Packet types
const (
	PacketMSearch PacketType = iota
	PacketNotify
	PacketOK
)

// String returns the request line for the packet type
func (t PacketType) String() string {
	switch t {
	case PacketMSearch:
		return RequestLineMSearch
	case PacketNotify:
		return RequestLineNotify
	case PacketOK:
		return RequestLineOK
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ParsePacketType maps a request line onto its PacketType.
func ParsePacketType(line string) (PacketType, error) {
	switch line {
	case RequestLineMSearch:
		return PacketMSearch, nil
	case RequestLineNotify:
		return PacketNotify, nil
	case RequestLineOK:
		return PacketOK, nil
	default:
		return 0, requestLineError(line)
	}
}

// Packet is one framed SSDP message: a request line plus its headers.
type Packet struct {
	Type    PacketType
	Headers *Headers
}

// NewPacket returns a packet of the given type with no headers.
func NewPacket(t PacketType) *Packet {
	return &Packet{Type: t, Headers: NewHeaders()}
}

// String returns a debug representation of the packet
func (p *Packet) String() string {
	return fmt.Sprintf("Packet{Type=%q, Headers=%d}", p.Type.String(), p.Headers.Len())
}

// Decode reads one packet from the front of buf.
//
// When buf does not yet hold a CRLFCRLF terminator, Decode returns
// ErrIncomplete and consumes nothing. Otherwise the packet bytes, terminator
// included, are consumed from buf whether or not the packet is well formed.
func Decode(buf *bytes.Buffer) (*Packet, error) {
	end := bytes.Index(buf.Bytes(), terminator)
	if end < 0 {
		return nil, ErrIncomplete
	}

	frame := buf.Next(end + len(terminator))
	return parsePacket(string(frame[:end]))
}

// DecodeDatagram decodes a packet from a single received datagram.
func DecodeDatagram(data []byte) (*Packet, error) {
	return Decode(bytes.NewBuffer(data))
}

func parsePacket(head string) (*Packet, error) {
	lines := strings.Split(head, lineBreak)

	t, err := ParsePacketType(lines[0])
	if err != nil {
		return nil, err
	}

	p := NewPacket(t)
	for _, line := range lines[1:] {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, headerLineError(line)
		}
		// Repeated keys: the last value wins.
		p.Headers.Set(strings.ToLower(key), strings.TrimLeft(value, " \t"))
	}

	return p, nil
}

// Encode appends the wire form of p to dst.
//
// Keys are written as stored in the packet's Headers. Keys or values that
// would break the line framing are rejected and nothing is written.
func Encode(p *Packet, dst *bytes.Buffer) error {
	line := p.Type.String()
	if _, err := ParsePacketType(line); err != nil {
		return err
	}

	var b bytes.Buffer
	b.WriteString(line)
	b.WriteString(lineBreak)

	var err error
	p.Headers.Each(func(key, value string) {
		if err != nil {
			return
		}
		if key == "" || strings.ContainsAny(key, ":\r\n") || strings.ContainsAny(value, "\r\n") {
			err = headerLineError(key + ":" + value)
			return
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(lineBreak)
	})
	if err != nil {
		return err
	}

	b.WriteString(lineBreak)
	dst.Write(b.Bytes())
	return nil
}

// MarshalBinary returns the wire form of the packet.
func (p *Packet) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
