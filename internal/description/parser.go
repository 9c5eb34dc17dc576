package description

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"

	"golang.org/x/net/html/charset"
)

// Parse decodes a device description document. Documents declaring a
// non-UTF-8 encoding are transcoded.
//
// Typed elements (deviceType, serviceType, serviceId, UDN) must match their
// grammar and every device and service must carry its type, otherwise a
// *FieldError is returned. Descriptive elements may be empty; many routers
// ship blank friendlyName and manufacturer values. Use Validate to list them.
func Parse(r io.Reader) (*Description, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var desc Description
	if err := dec.Decode(&desc); err != nil {
		var fe *FieldError
		if errors.As(err, &fe) {
			return nil, fe
		}
		return nil, fmt.Errorf("failed to decode description: %w", err)
	}

	if err := requireTypes(&desc.Device); err != nil {
		return nil, err
	}
	return &desc, nil
}

func requireTypes(root *Device) error {
	var err error
	root.Walk(func(d *Device, _ int) {
		if err != nil {
			return
		}
		if d.DeviceType.Type == "" {
			err = &FieldError{Field: "deviceType"}
			return
		}
		for _, s := range d.Services {
			if s.ServiceType.Type == "" {
				err = &FieldError{Field: "serviceType"}
				return
			}
			if s.ServiceID.ID == "" {
				err = &FieldError{Field: "serviceId"}
				return
			}
		}
	})
	return err
}

// Validate lists the elements a conforming description should fill in but
// that Parse tolerates being empty. Returns a slice of errors (empty if valid).
func Validate(desc *Description) []error {
	var errs []error

	if desc.SpecVersion.Major == 0 {
		errs = append(errs, &FieldError{Field: "specVersion", Value: desc.SpecVersion.String()})
	}

	desc.Device.Walk(func(d *Device, _ int) {
		if d.FriendlyName == "" {
			errs = append(errs, &FieldError{Field: "friendlyName"})
		}
		if d.Manufacturer == "" {
			errs = append(errs, &FieldError{Field: "manufacturer"})
		}
		if d.UDN.UUID == "" {
			errs = append(errs, &FieldError{Field: "UDN", Value: d.UDN.String()})
		}
	})

	return errs
}

// ResolveURL resolves a URL found in a description (SCPDURL, controlURL,
// presentationURL, ...) against URLBase when present, otherwise against the
// location the document was fetched from.
func (desc *Description) ResolveURL(location, ref string) (string, error) {
	base := location
	if desc.URLBase != "" {
		base = desc.URLBase
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", ref, err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
