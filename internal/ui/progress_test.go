package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedProgress(window, elapsed time.Duration) DiscoveryProgress {
	m := NewDiscoveryProgress("Listening", window, nil)
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.Started = start
	m.now = func() time.Time { return start.Add(elapsed) }
	return m
}

func TestDiscoveryProgress_Percent(t *testing.T) {
	tests := []struct {
		name    string
		window  time.Duration
		elapsed time.Duration
		want    float64
	}{
		{"start", 3 * time.Second, 0, 0},
		{"half", 4 * time.Second, 2 * time.Second, 0.5},
		{"past the window", 3 * time.Second, 5 * time.Second, 1},
		{"zero window", 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, fixedProgress(tt.window, tt.elapsed).Percent(), 0.001)
		})
	}
}

func TestDiscoveryProgress_CountsDevices(t *testing.T) {
	var model tea.Model = fixedProgress(3*time.Second, time.Second)

	for _, id := range []string{"a", "a", "b", "a"} {
		model, _ = model.Update(responseMsg{uuid: id})
	}

	m := model.(DiscoveryProgress)
	assert.Equal(t, 4, m.Responses)
	assert.Equal(t, 2, m.Devices)
	assert.Contains(t, m.View(), "2 found")
}

func TestDiscoveryProgress_InterruptCancels(t *testing.T) {
	cancelled := false
	m := NewDiscoveryProgress("Listening", time.Second, func() { cancelled = true })

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	assert.True(t, cancelled)
	assert.Nil(t, cmd, "the model waits for the scan to finish")
	assert.True(t, model.(DiscoveryProgress).Cancelled)
	assert.Contains(t, model.View(), "stopping")
}

func TestDiscoveryProgress_QuitsOnCompletion(t *testing.T) {
	m := fixedProgress(time.Second, 0)

	model, cmd := m.Update(scanCompleteMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, model.(DiscoveryProgress).Done)
	assert.Empty(t, model.View())

	_, cmd = model.Update(tickMsg(time.Now()))
	assert.Nil(t, cmd, "ticks stop once done")
}

func TestDiscoveryProgress_TickReschedules(t *testing.T) {
	_, cmd := fixedProgress(time.Second, 0).Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd)
}
