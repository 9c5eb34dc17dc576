package description

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeHTTP indicates a non-2xx status code
	ErrTypeHTTP
	// ErrTypeParse indicates the document could not be decoded
	ErrTypeParse
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the device refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeInvalidURL indicates a location that is not a usable http(s) URL
	ErrTypeInvalidURL
)

// NetworkErrorSubtype provides more specific network error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeInvalidURL:
		return "Invalid URL"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// FetchError is returned by Client.Describe
type FetchError struct {
	Type           ErrorType
	Message        string
	Location       string // description URL being fetched
	StatusCode     int    // HTTP status code (if applicable)
	Err            error
	NetworkSubtype NetworkErrorSubtype
	Retryable      bool
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error from the HTTP client
func ClassifyNetworkError(err error, location string) *FetchError {
	if err == nil {
		return nil
	}

	fe := &FetchError{
		Type:      ErrTypeNetwork,
		Message:   "Network error occurred",
		Location:  location,
		Err:       err,
		Retryable: true,
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError

	switch {
	case os.IsTimeout(err):
		fe.Type = ErrTypeTimeout
		fe.Message = "Request timed out"
		fe.NetworkSubtype = NetworkErrorTimeout

	case errors.As(err, &dnsErr):
		fe.Type = ErrTypeDNS
		fe.Message = fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name)
		fe.NetworkSubtype = NetworkErrorDNS
		fe.Retryable = false

	case errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED):
		fe.Type = ErrTypeConnectionRefused
		fe.Message = "Device refused connection"
		fe.NetworkSubtype = NetworkErrorConnectionRefused

	case errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.EHOSTUNREACH):
		fe.Message = "Host unreachable"
		fe.NetworkSubtype = NetworkErrorHostUnreachable

	case errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ENETUNREACH):
		fe.Message = "Network unreachable"
		fe.NetworkSubtype = NetworkErrorNetworkUnreachable
	}

	return fe
}

func newNetworkError(location, message string, err error) *FetchError {
	fe := ClassifyNetworkError(err, location)
	if fe.Type == ErrTypeNetwork && fe.NetworkSubtype == NetworkErrorGeneral {
		fe.Message = message
	}
	return fe
}

func newHTTPError(location string, statusCode int) *FetchError {
	return &FetchError{
		Type:       ErrTypeHTTP,
		Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
		Location:   location,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500,
	}
}

func newParseError(location string, err error) *FetchError {
	return &FetchError{
		Type:     ErrTypeParse,
		Message:  "failed to parse device description",
		Location: location,
		Err:      err,
	}
}

func newInvalidURLError(location string, err error) *FetchError {
	return &FetchError{
		Type:     ErrTypeInvalidURL,
		Message:  fmt.Sprintf("cannot fetch %q", location),
		Location: location,
		Err:      err,
	}
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Retryable
	}
	return false
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return "An unexpected error occurred. Please try again."
	}

	switch fe.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The device did not serve its description in time.",
			"Troubleshooting:",
			"  • Check that the device is still powered on",
			"  • Try increasing --timeout",
			"  • Run discover again; the LOCATION may have changed",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The device refused the connection.",
			"Troubleshooting:",
			"  • The advertised port may be stale - run discover again",
			"  • Some devices only serve descriptions to their own subnet",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the host in the description URL.",
			"Troubleshooting:",
			"  • Use the IP address from the discovery output instead",
			"  • Check your network DNS settings",
		}, "\n")

	case ErrTypeNetwork:
		hint := []string{"Network communication failed."}

		switch fe.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			hint = append(hint, "The device is not reachable on the network.",
				"Troubleshooting:",
				"  • Check that you're on the same network as the device",
				"  • Try pinging the device: ping "+hostOf(fe.Location))

		case NetworkErrorNetworkUnreachable:
			hint = append(hint, "Your computer has no route to the device's network.",
				"Troubleshooting:",
				"  • Check your network adapter settings",
				"  • Verify the interface used for discovery is up")

		default:
			hint = append(hint, "Troubleshooting:",
				"  • Check your network connection",
				"  • Verify the device is powered on")
		}

		return strings.Join(hint, "\n")

	case ErrTypeHTTP:
		if fe.StatusCode >= 500 {
			return strings.Join([]string{
				fmt.Sprintf("The device returned an error (HTTP %d).", fe.StatusCode),
				"Troubleshooting:",
				"  • Try again in a few seconds",
				"  • Try rebooting the device",
			}, "\n")
		}
		return fmt.Sprintf("The device returned HTTP error %d. Check the description URL.", fe.StatusCode)

	case ErrTypeParse:
		return strings.Join([]string{
			"The device description is not a valid UPnP document.",
			"Troubleshooting:",
			"  • Open the URL in a browser to inspect it",
			"  • Run with --log-level debug to see the raw response",
		}, "\n")

	case ErrTypeInvalidURL:
		return "Description URLs must be absolute http:// or https:// URLs."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return err.Error()
	}

	switch fe.Type {
	case ErrTypeTimeout:
		return "Device not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Device refused connection"
	case ErrTypeDNS:
		return "Cannot resolve device hostname"
	case ErrTypeNetwork:
		switch fe.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			return "Device unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable"
		default:
			return "Network error - check connection"
		}
	case ErrTypeHTTP:
		return fmt.Sprintf("Device error (HTTP %d)", fe.StatusCode)
	case ErrTypeParse:
		return "Failed to parse device description"
	default:
		return fe.Message
	}
}

func hostOf(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return location
	}
	return u.Hostname()
}
