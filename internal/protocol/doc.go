// Package protocol implements the SSDP wire format used for UPnP discovery.
//
// SSDP messages are HTTP-like text datagrams sent over UDP multicast. This
// package splits raw bytes into packets, maps packets onto typed messages and
// back, and provides the small value codecs those messages are built from.
//
// # Packet Layer
//
// A packet is one of three request lines followed by header lines and an
// empty line:
//
//	M-SEARCH * HTTP/1.1
//	NOTIFY * HTTP/1.1
//	HTTP/1.1 200 OK
//
// Each header line is "key:value". Decoding lower-cases keys, trims leading
// whitespace from values and keeps the last value for a repeated key. If the
// CRLFCRLF terminator has not arrived yet, Decode returns ErrIncomplete and
// leaves the buffer untouched, so callers may append more bytes and retry.
//
// # Message Layer
//
// Three message variants are recognised:
//   - MSearch: M-SEARCH requests sent by control points
//   - Available: NOTIFY announcements with NTS "ssdp:alive"
//   - SearchResponse: unicast HTTP/1.1 200 OK replies to a search
//
// Each variant is described by a table of header fields (name, required
// flag, value codec). FromPacket walks the tables in order and uses the
// first variant whose request line and discriminant header match. ToPacket
// emits every required field and every optional field that is set.
//
// # Usage Example - Parsing
//
//	msg, err := protocol.Unmarshal(datagram)
//	if err != nil {
//	    return err
//	}
//
//	switch m := msg.(type) {
//	case *protocol.SearchResponse:
//	    fmt.Printf("%s at %s\n", m.USN, m.Location)
//	case *protocol.Available:
//	    fmt.Printf("alive: %s\n", m.NotificationType)
//	}
//
// # Usage Example - Construction
//
//	search := protocol.BuildSearch(protocol.SearchOptions{
//	    Target:    protocol.SearchAll(),
//	    MaxWait:   3,
//	    UserAgent: version.UserAgent(),
//	})
//	data, err := protocol.Marshal(search)
//
// # Error Handling
//
// Decoding failures are reported as *Error values carrying the offending
// header or line. Use errors.Is with the Err* sentinels to classify them:
//   - ErrIncomplete: the terminator has not been received yet
//   - ErrMalformedRequestLine, ErrMalformedHeaderLine: framing problems
//   - ErrMissingRequiredHeader, ErrMalformedFieldValue: mapping problems
//   - ErrUnrecognizedPacket: no variant matches the packet
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use. A Headers value
// must not be mutated concurrently.
package protocol
