package urls

import (
	"strings"
	"testing"
)

func TestDeviceArchitectureSection(t *testing.T) {
	got := DeviceArchitectureSection("1.3.2")
	if !strings.Contains(got, "section 1.3.2") || !strings.Contains(got, DeviceArchitecture) {
		t.Errorf("DeviceArchitectureSection() = %q", got)
	}
}
