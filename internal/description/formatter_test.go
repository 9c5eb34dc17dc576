package description

import (
	"strings"
	"testing"
)

func TestDescription_FormatTree(t *testing.T) {
	desc, err := Parse(strings.NewReader(renderer))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	expected := "Living Room TV [urn:schemas-upnp-org:device:MediaRenderer:1]\n" +
		"  - urn:schemas-upnp-org:service:AVTransport:1 (AVTransport)\n" +
		"  - urn:dial-multiscreen-org:service:dial:1 (dial)\n"
	if got := desc.FormatTree(); got != expected {
		t.Errorf("FormatTree() =\n%s\nwant\n%s", got, expected)
	}
}

func TestDescription_FormatTreeIndentsEmbeddedDevices(t *testing.T) {
	desc := &Description{Device: Device{
		FriendlyName: "Gateway",
		DeviceType:   DeviceType{Type: "InternetGatewayDevice", Version: "1"},
		Devices: []Device{{
			FriendlyName: "WAN",
			DeviceType:   DeviceType{Type: "WANDevice", Version: "1"},
		}},
	}}

	lines := strings.Split(strings.TrimSuffix(desc.FormatTree(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("FormatTree() returned %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[1], "  WAN [") {
		t.Errorf("embedded device line = %q, want two-space indent", lines[1])
	}
}

func TestDescription_FormatDetailed(t *testing.T) {
	desc, err := Parse(strings.NewReader(renderer))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	output := desc.FormatDetailed()

	for _, want := range []string{
		"=== Device Description ===",
		"UPnP Version:  2.0",
		"Config ID:     1337",
		"UDN:           uuid:2fac1234-31f8-11b4-a222-08002b34c003",
		"Model:         Screen 55 S55",
		"Serial Number: 0042",
		"=== Devices and Services ===",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("FormatDetailed() missing %q", want)
		}
	}
	if strings.Contains(output, "URL Base") {
		t.Error("FormatDetailed() should omit an empty URL base")
	}
}

func TestDevice_Summary(t *testing.T) {
	d := &Device{FriendlyName: "Living Room TV", Manufacturer: "Acme", ModelName: "Screen 55"}
	if got := d.Summary(); got != "Living Room TV (Acme Screen 55)" {
		t.Errorf("Summary() = %q", got)
	}

	d.ModelName = ""
	if got := d.Summary(); got != "Living Room TV (Acme)" {
		t.Errorf("Summary() = %q", got)
	}
}
