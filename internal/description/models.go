package description

import (
	"encoding/xml"
	"fmt"
)

// Description is the root element of a UPnP device description document
type Description struct {
	XMLName xml.Name `xml:"root" json:"-"`

	// ConfigID is the configId attribute of UDA 1.1 and later documents
	ConfigID string `xml:"configId,attr,omitempty" json:"configId,omitempty"`

	// SpecVersion is the UDA version the document claims to follow
	SpecVersion SpecVersion `xml:"specVersion" json:"specVersion"`

	// URLBase is the base for relative URLs (UDA 1.0 only)
	URLBase string `xml:"URLBase,omitempty" json:"urlBase,omitempty"`

	// Device is the root device
	Device Device `xml:"device" json:"device"`
}

// SpecVersion holds the specVersion element
type SpecVersion struct {
	Major uint32 `xml:"major" json:"major,omitempty"`
	Minor uint32 `xml:"minor" json:"minor,omitempty"`
}

func (v SpecVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Device is a device element, the root device or an embedded one
type Device struct {
	DeviceType       DeviceType       `xml:"deviceType" json:"deviceType"`
	FriendlyName     string           `xml:"friendlyName" json:"friendlyName,omitempty"`
	Manufacturer     string           `xml:"manufacturer" json:"manufacturer,omitempty"`
	ManufacturerURL  string           `xml:"manufacturerURL,omitempty" json:"manufacturerURL,omitempty"`
	ModelDescription string           `xml:"modelDescription,omitempty" json:"modelDescription,omitempty"`
	ModelName        string           `xml:"modelName,omitempty" json:"modelName,omitempty"`
	ModelNumber      string           `xml:"modelNumber,omitempty" json:"modelNumber,omitempty"`
	ModelURL         string           `xml:"modelURL,omitempty" json:"modelURL,omitempty"`
	SerialNumber     string           `xml:"serialNumber,omitempty" json:"serialNumber,omitempty"`
	UDN              UniqueDeviceName `xml:"UDN" json:"udn"`
	UPC              string           `xml:"UPC,omitempty" json:"upc,omitempty"`
	Services         []Service        `xml:"serviceList>service" json:"services,omitempty"`
	Devices          []Device         `xml:"deviceList>device" json:"devices,omitempty"`
	PresentationURL  string           `xml:"presentationURL,omitempty" json:"presentationURL,omitempty"`
}

// Service is a service element of a device's serviceList
type Service struct {
	ServiceType ServiceType `xml:"serviceType" json:"serviceType"`
	ServiceID   ServiceID   `xml:"serviceId" json:"serviceId"`
	SCPDURL     string      `xml:"SCPDURL" json:"scpdURL,omitempty"`
	ControlURL  string      `xml:"controlURL" json:"controlURL,omitempty"`
	EventSubURL string      `xml:"eventSubURL" json:"eventSubURL,omitempty"`
}

// Walk calls fn for d and every embedded device, depth first. depth is 0 for d.
func (d *Device) Walk(fn func(dev *Device, depth int)) {
	d.walk(fn, 0)
}

func (d *Device) walk(fn func(dev *Device, depth int), depth int) {
	fn(d, depth)
	for i := range d.Devices {
		d.Devices[i].walk(fn, depth+1)
	}
}

// AllServices returns the services of d and of every embedded device
func (d *Device) AllServices() []Service {
	var services []Service
	d.Walk(func(dev *Device, _ int) {
		services = append(services, dev.Services...)
	})
	return services
}

// FindDevice returns the device, d or an embedded one, whose UDN matches udn
func (d *Device) FindDevice(udn UniqueDeviceName) (*Device, bool) {
	var found *Device
	d.Walk(func(dev *Device, _ int) {
		if found == nil && dev.UDN == udn {
			found = dev
		}
	})
	return found, found != nil
}

// Summary returns a one-line summary of the device
func (d *Device) Summary() string {
	if d.ModelName != "" {
		return fmt.Sprintf("%s (%s %s)", d.FriendlyName, d.Manufacturer, d.ModelName)
	}
	return fmt.Sprintf("%s (%s)", d.FriendlyName, d.Manufacturer)
}
