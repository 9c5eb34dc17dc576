package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	upnpDomain = "schemas-upnp-org"
	uuidPrefix = "uuid:"
	usnSep     = "::"
)

// TargetKind classifies a SearchTarget.
type TargetKind int

// Search target kinds. The zero value is TargetAll.
const (
	TargetAll TargetKind = iota
	TargetRootDevice
	TargetUUID
	TargetDevice
	TargetService
	TargetVendorDevice
	TargetVendorService
	TargetOther
)

// String returns a short name for the kind
func (k TargetKind) String() string {
	switch k {
	case TargetAll:
		return "all"
	case TargetRootDevice:
		return "rootdevice"
	case TargetUUID:
		return "uuid"
	case TargetDevice:
		return "device"
	case TargetService:
		return "service"
	case TargetVendorDevice:
		return "vendor-device"
	case TargetVendorService:
		return "vendor-service"
	case TargetOther:
		return "other"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// SearchTarget is the value of the ST and NT headers.
//
// Only the fields relevant to Kind are meaningful. Unknown forms are kept
// verbatim as TargetOther so that parsing never fails.
type SearchTarget struct {
	Kind    TargetKind
	UUID    string // TargetUUID: the uuid text as received
	Domain  string // vendor kinds: the vendor domain
	Type    string // device or service type name
	Version string // device or service version
	Raw     string // TargetOther: the original text
}

// SearchAll targets every device and service.
func SearchAll() SearchTarget { return SearchTarget{Kind: TargetAll} }

// RootDeviceTarget targets root devices only.
func RootDeviceTarget() SearchTarget { return SearchTarget{Kind: TargetRootDevice} }

// UUIDTarget targets a single device by uuid.
func UUIDTarget(id string) SearchTarget { return SearchTarget{Kind: TargetUUID, UUID: id} }

// DeviceTarget targets a standard UPnP device type.
func DeviceTarget(typ, ver string) SearchTarget {
	return SearchTarget{Kind: TargetDevice, Type: typ, Version: ver}
}

// ServiceTarget targets a standard UPnP service type.
func ServiceTarget(typ, ver string) SearchTarget {
	return SearchTarget{Kind: TargetService, Type: typ, Version: ver}
}

// VendorDeviceTarget targets a vendor-defined device type.
func VendorDeviceTarget(domain, typ, ver string) SearchTarget {
	return SearchTarget{Kind: TargetVendorDevice, Domain: domain, Type: typ, Version: ver}
}

// VendorServiceTarget targets a vendor-defined service type.
func VendorServiceTarget(domain, typ, ver string) SearchTarget {
	return SearchTarget{Kind: TargetVendorService, Domain: domain, Type: typ, Version: ver}
}

// OtherTarget keeps an unrecognised target verbatim.
func OtherTarget(raw string) SearchTarget { return SearchTarget{Kind: TargetOther, Raw: raw} }

// ParseSearchTarget classifies s. It never fails: anything that does not
// match a known form becomes TargetOther.
func ParseSearchTarget(s string) SearchTarget {
	parts := strings.Split(s, ":")

	switch {
	case s == "ssdp:all":
		return SearchAll()
	case s == "upnp:rootdevice":
		return RootDeviceTarget()
	case len(parts) == 2 && parts[0] == "uuid" && isUUID(parts[1]):
		return UUIDTarget(parts[1])
	case len(parts) == 5 && parts[0] == "urn":
		domain, kind, typ, ver := parts[1], parts[2], parts[3], parts[4]
		switch {
		case domain == upnpDomain && kind == "device":
			return DeviceTarget(typ, ver)
		case domain == upnpDomain && kind == "service":
			return ServiceTarget(typ, ver)
		case kind == "device":
			return VendorDeviceTarget(domain, typ, ver)
		case kind == "service":
			return VendorServiceTarget(domain, typ, ver)
		}
	}

	return OtherTarget(s)
}

// String formats the target in its wire form
func (t SearchTarget) String() string {
	switch t.Kind {
	case TargetAll:
		return "ssdp:all"
	case TargetRootDevice:
		return "upnp:rootdevice"
	case TargetUUID:
		return uuidPrefix + t.UUID
	case TargetDevice:
		return fmt.Sprintf("urn:%s:device:%s:%s", upnpDomain, t.Type, t.Version)
	case TargetService:
		return fmt.Sprintf("urn:%s:service:%s:%s", upnpDomain, t.Type, t.Version)
	case TargetVendorDevice:
		return fmt.Sprintf("urn:%s:device:%s:%s", t.Domain, t.Type, t.Version)
	case TargetVendorService:
		return fmt.Sprintf("urn:%s:service:%s:%s", t.Domain, t.Type, t.Version)
	default:
		return t.Raw
	}
}

// isUUID accepts only the canonical 8-4-4-4-12 hyphenated form.
func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// UniqueServiceName is the value of the USN header:
// "uuid:<device-uuid>" optionally followed by "::<search-target>".
type UniqueServiceName struct {
	UUID   string
	Target *SearchTarget
}

// ErrInvalidUSN is the cause reported for a USN that does not follow the
// uuid grammar.
var ErrInvalidUSN = errors.New("usn must start with \"uuid:\" followed by a device id")

// ParseUniqueServiceName parses a USN header value.
func ParseUniqueServiceName(s string) (UniqueServiceName, error) {
	rest, ok := strings.CutPrefix(s, uuidPrefix)
	if !ok {
		return UniqueServiceName{}, ErrInvalidUSN
	}

	id, target, hasTarget := strings.Cut(rest, usnSep)
	if id == "" {
		return UniqueServiceName{}, ErrInvalidUSN
	}

	usn := UniqueServiceName{UUID: id}
	if hasTarget {
		st := ParseSearchTarget(target)
		usn.Target = &st
	}
	return usn, nil
}

// String formats the USN in its wire form
func (u UniqueServiceName) String() string {
	if u.Target == nil {
		return uuidPrefix + u.UUID
	}
	return uuidPrefix + u.UUID + usnSep + u.Target.String()
}

// ManDiscover is the only legal value of the MAN header.
type ManDiscover struct{}

const manDiscover = "ssdp:discover"

// ParseManDiscover accepts "ssdp:discover" with or without the quotes.
func ParseManDiscover(s string) (ManDiscover, error) {
	if s != manDiscover && s != strconv.Quote(manDiscover) {
		return ManDiscover{}, fmt.Errorf("expected %q", manDiscover)
	}
	return ManDiscover{}, nil
}

// String returns the quoted wire form
func (ManDiscover) String() string {
	return strconv.Quote(manDiscover)
}

// Ext is the EXT header of a search response, which must be empty.
type Ext struct{}

// ParseExt accepts only the empty string.
func ParseExt(s string) (Ext, error) {
	if s != "" {
		return Ext{}, errors.New("ext must be empty")
	}
	return Ext{}, nil
}

// String returns the wire form, which is always empty
func (Ext) String() string { return "" }

func parseUint8(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	return uint8(v), err
}

func parseUint16(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	return uint16(v), err
}

func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	return int32(v), err
}

func formatUint8(v uint8) string   { return strconv.FormatUint(uint64(v), 10) }
func formatUint16(v uint16) string { return strconv.FormatUint(uint64(v), 10) }
func formatInt32(v int32) string   { return strconv.FormatInt(int64(v), 10) }

func parseSearchTarget(s string) (SearchTarget, error) { return ParseSearchTarget(s), nil }
