package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/muurk/ssdpscan/internal/discovery"
)

// SortDevices returns a copy of devices ordered by location, then uuid
func SortDevices(devices []*discovery.Device) []*discovery.Device {
	sorted := make([]*discovery.Device, len(devices))
	copy(sorted, devices)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Location != sorted[j].Location {
			return sorted[i].Location < sorted[j].Location
		}
		return sorted[i].UUID < sorted[j].UUID
	})
	return sorted
}

// FormatCompact returns one "<server> at <location>" line per device followed
// by its search targets. The output is unstyled so it can be piped.
func FormatCompact(devices []*discovery.Device) string {
	var b strings.Builder

	for _, d := range SortDevices(devices) {
		b.WriteString(fmt.Sprintf("%s at %s\n", d.Server, d.Location))
		for _, s := range d.Services {
			b.WriteString(fmt.Sprintf("%s %s\n", BranchMarker, s.Target))
		}
	}

	return b.String()
}

// RenderDevice returns the styled block for one device. nickname may be empty.
func RenderDevice(d *discovery.Device, nickname string) string {
	var b strings.Builder

	title := d.Server
	if title == "" {
		title = "(no SERVER header)"
	}
	b.WriteString(DeviceTitleStyle.Render(title))
	if nickname != "" {
		b.WriteString(" " + NoteStyle.Render("("+nickname+")"))
	}
	b.WriteString("\n")

	b.WriteString(ResultKeyStyle.Render("  Location:") + " " + LocationStyle.Render(d.Location) + "\n")
	b.WriteString(ResultKeyStyle.Render("  UUID:") + " " + ResultValueStyle.Render(d.UUID) + "\n")
	if ip := d.IP(); ip != "" {
		b.WriteString(ResultKeyStyle.Render("  Address:") + " " + ResultValueStyle.Render(ip) + "\n")
	}

	targets := d.Targets()
	b.WriteString(ResultKeyStyle.Render("  Targets:") + " " +
		NoteStyle.Render(fmt.Sprintf("%d distinct, %d responses", len(targets), len(d.Services))) + "\n")
	for _, t := range targets {
		b.WriteString(TargetStyle.Render(BranchMarker+" "+t.String()) + "\n")
	}

	return b.String()
}

// RenderDeviceList renders every device, sorted, separated by blank lines.
// nicknames maps device uuid to a user-defined name and may be nil.
func RenderDeviceList(devices []*discovery.Device, nicknames map[string]string) string {
	blocks := make([]string, 0, len(devices))
	for _, d := range SortDevices(devices) {
		blocks = append(blocks, RenderDevice(d, nicknames[d.UUID]))
	}
	return strings.Join(blocks, "\n")
}

// RenderSummary returns the "Found N devices in Xs" line shown after discovery
func RenderSummary(count int, elapsed time.Duration) string {
	noun := "devices"
	if count == 1 {
		noun = "device"
	}
	line := fmt.Sprintf("%s  Found %d %s", SuccessMarker, count, noun)
	return SuccessTitleStyle.Render(line) + " " + NoteStyle.Render("in "+elapsed.Round(10*time.Millisecond).String())
}

// NoDevicesTroubleshooting lists what to check when a discovery hears nothing
func NoDevicesTroubleshooting() []string {
	return []string{
		"Check that you are on the same network segment as the devices",
		"Allow inbound UDP on the search port in your firewall",
		"Pick the interface explicitly with --interface",
		"Increase --timeout (devices may wait up to MX seconds to answer)",
		"Some devices ignore ssdp:all; try --target upnp:rootdevice",
	}
}
