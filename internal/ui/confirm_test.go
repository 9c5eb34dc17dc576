package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"exact phrase", "yes\n", true},
		{"surrounding space", "  yes  \n", true},
		{"no trailing newline", "yes", true},
		{"other answer", "y\n", false},
		{"empty input", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := Confirm(strings.NewReader(tt.input), &out, "FORGET", []string{"gone"}, "yes")
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), `type "yes"`) {
				t.Errorf("prompt missing from output:\n%s", out.String())
			}
		})
	}
}

func TestForgetDevicesConfirmation(t *testing.T) {
	var out bytes.Buffer
	if ForgetDevicesConfirmation(strings.NewReader("no\n"), &out, 3) {
		t.Error("ForgetDevicesConfirmation() = true, want false")
	}
	if !strings.Contains(out.String(), "3 remembered devices") {
		t.Errorf("count missing from warning:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Operation cancelled") {
		t.Errorf("cancel note missing:\n%s", out.String())
	}
}
