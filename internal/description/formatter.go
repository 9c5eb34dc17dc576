package description

import (
	"fmt"
	"strings"
)

// FormatDeviceInfo returns the identification block of a single device
func (d *Device) FormatDeviceInfo() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Friendly Name: %s\n", d.FriendlyName))
	b.WriteString(fmt.Sprintf("Device Type:   %s\n", d.DeviceType))
	b.WriteString(fmt.Sprintf("UDN:           %s\n", d.UDN))
	b.WriteString(fmt.Sprintf("Manufacturer:  %s\n", d.Manufacturer))
	if d.ModelName != "" {
		b.WriteString(fmt.Sprintf("Model:         %s %s\n", d.ModelName, d.ModelNumber))
	}
	if d.ModelDescription != "" {
		b.WriteString(fmt.Sprintf("Description:   %s\n", d.ModelDescription))
	}
	if d.SerialNumber != "" {
		b.WriteString(fmt.Sprintf("Serial Number: %s\n", d.SerialNumber))
	}
	if d.PresentationURL != "" {
		b.WriteString(fmt.Sprintf("Presentation:  %s\n", d.PresentationURL))
	}

	return b.String()
}

// FormatTree returns the device hierarchy with the services of every device
func (desc *Description) FormatTree() string {
	var b strings.Builder

	desc.Device.Walk(func(d *Device, depth int) {
		indent := strings.Repeat("  ", depth)
		b.WriteString(fmt.Sprintf("%s%s [%s]\n", indent, d.FriendlyName, d.DeviceType))
		for _, s := range d.Services {
			b.WriteString(fmt.Sprintf("%s  - %s (%s)\n", indent, s.ServiceType, s.ServiceID.ID))
		}
	})

	return b.String()
}

// FormatDetailed returns the full description: header, root device details
// and the device tree
func (desc *Description) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("=== Device Description ===\n")
	b.WriteString(fmt.Sprintf("UPnP Version:  %s\n", desc.SpecVersion))
	if desc.ConfigID != "" {
		b.WriteString(fmt.Sprintf("Config ID:     %s\n", desc.ConfigID))
	}
	if desc.URLBase != "" {
		b.WriteString(fmt.Sprintf("URL Base:      %s\n", desc.URLBase))
	}
	b.WriteString(desc.Device.FormatDeviceInfo())
	b.WriteString("\n")

	b.WriteString("=== Devices and Services ===\n")
	b.WriteString(desc.FormatTree())

	return b.String()
}
