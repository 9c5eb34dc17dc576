package description

import (
	"fmt"
	"strings"
)

// StandardDomain is the vendor domain of types defined by the UPnP Forum.
const StandardDomain = "schemas-upnp-org"

// standardServiceIDDomain is the domain used by standard service ids, which
// differs from the type domain.
const standardServiceIDDomain = "upnp-org"

// FieldError reports a description field whose value does not match its grammar.
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("malformed %s: %q", e.Field, e.Value)
}

// DeviceType is a deviceType element: urn:<domain>:device:<type>:<version>.
// VendorDomain is empty for standard device types.
type DeviceType struct {
	VendorDomain string
	Type         string
	Version      string
}

// ParseDeviceType parses a device type URN.
func ParseDeviceType(s string) (DeviceType, error) {
	domain, typ, version, ok := parseTypeURN(s, "device")
	if !ok {
		return DeviceType{}, &FieldError{Field: "deviceType", Value: s}
	}
	return DeviceType{VendorDomain: domain, Type: typ, Version: version}, nil
}

func (t DeviceType) String() string {
	return formatTypeURN(t.VendorDomain, "device", t.Type, t.Version)
}

// MarshalText implements encoding.TextMarshaler
func (t DeviceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *DeviceType) UnmarshalText(text []byte) error {
	parsed, err := ParseDeviceType(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ServiceType is a serviceType element: urn:<domain>:service:<type>:<version>.
type ServiceType struct {
	VendorDomain string
	Type         string
	Version      string
}

// ParseServiceType parses a service type URN.
func ParseServiceType(s string) (ServiceType, error) {
	domain, typ, version, ok := parseTypeURN(s, "service")
	if !ok {
		return ServiceType{}, &FieldError{Field: "serviceType", Value: s}
	}
	return ServiceType{VendorDomain: domain, Type: typ, Version: version}, nil
}

func (t ServiceType) String() string {
	return formatTypeURN(t.VendorDomain, "service", t.Type, t.Version)
}

// MarshalText implements encoding.TextMarshaler
func (t ServiceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *ServiceType) UnmarshalText(text []byte) error {
	parsed, err := ParseServiceType(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ServiceID is a serviceId element: urn:upnp-org:serviceId:<id> for standard
// services, urn:<domain>:serviceId:<id> otherwise.
type ServiceID struct {
	VendorDomain string
	ID           string
}

// ParseServiceID parses a service id URN.
func ParseServiceID(s string) (ServiceID, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 || parts[0] != "urn" || parts[2] != "serviceId" || parts[1] == "" || parts[3] == "" {
		return ServiceID{}, &FieldError{Field: "serviceId", Value: s}
	}
	if parts[1] == standardServiceIDDomain {
		return ServiceID{ID: parts[3]}, nil
	}
	return ServiceID{VendorDomain: parts[1], ID: parts[3]}, nil
}

func (id ServiceID) String() string {
	domain := id.VendorDomain
	if domain == "" {
		domain = standardServiceIDDomain
	}
	return "urn:" + domain + ":serviceId:" + id.ID
}

// MarshalText implements encoding.TextMarshaler
func (id ServiceID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *ServiceID) UnmarshalText(text []byte) error {
	parsed, err := ParseServiceID(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// UniqueDeviceName is a UDN element: uuid:<uuid>.
type UniqueDeviceName struct {
	UUID string
}

// ParseUniqueDeviceName parses a UDN.
func ParseUniqueDeviceName(s string) (UniqueDeviceName, error) {
	id, ok := strings.CutPrefix(s, "uuid:")
	if !ok {
		return UniqueDeviceName{}, &FieldError{Field: "UDN", Value: s}
	}
	return UniqueDeviceName{UUID: id}, nil
}

func (n UniqueDeviceName) String() string {
	return "uuid:" + n.UUID
}

// MarshalText implements encoding.TextMarshaler
func (n UniqueDeviceName) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (n *UniqueDeviceName) UnmarshalText(text []byte) error {
	parsed, err := ParseUniqueDeviceName(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// parseTypeURN splits urn:<domain>:<kind>:<type>:<version>. The standard
// domain is reported as "".
func parseTypeURN(s, kind string) (domain, typ, version string, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 5 || parts[0] != "urn" || parts[2] != kind {
		return "", "", "", false
	}
	if parts[1] == "" || parts[3] == "" || parts[4] == "" {
		return "", "", "", false
	}
	if parts[1] != StandardDomain {
		domain = parts[1]
	}
	return domain, parts[3], parts[4], true
}

func formatTypeURN(domain, kind, typ, version string) string {
	if domain == "" {
		domain = StandardDomain
	}
	return "urn:" + domain + ":" + kind + ":" + typ + ":" + version
}
