package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for classifying decode and encode failures with errors.Is.
var (
	ErrIncomplete            = errors.New("incomplete packet")
	ErrMalformedRequestLine  = errors.New("malformed request line")
	ErrMalformedHeaderLine   = errors.New("malformed header line")
	ErrMissingRequiredHeader = errors.New("missing required header")
	ErrMalformedFieldValue   = errors.New("malformed field value")
	ErrUnrecognizedPacket    = errors.New("unrecognized packet")
)

// Error describes a failure to decode or encode a single packet.
type Error struct {
	Kind   error  // One of the Err* sentinels
	Header string // Header name, lower-cased (field errors only)
	Value  string // Raw header value (field errors only)
	Line   string // Offending line (framing errors only)
	Cause  error  // Underlying parse error, if any
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())

	switch {
	case e.Header != "" && e.Value != "":
		fmt.Fprintf(&b, ": %s=%q", e.Header, e.Value)
	case e.Header != "":
		fmt.Fprintf(&b, ": %s", e.Header)
	case e.Line != "":
		fmt.Fprintf(&b, ": %q", e.Line)
	}

	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func requestLineError(line string) error {
	return &Error{Kind: ErrMalformedRequestLine, Line: line}
}

func headerLineError(line string) error {
	return &Error{Kind: ErrMalformedHeaderLine, Line: line}
}

func missingHeaderError(header string) error {
	return &Error{Kind: ErrMissingRequiredHeader, Header: strings.ToLower(header)}
}

func fieldValueError(header, value string, cause error) error {
	return &Error{Kind: ErrMalformedFieldValue, Header: strings.ToLower(header), Value: value, Cause: cause}
}
