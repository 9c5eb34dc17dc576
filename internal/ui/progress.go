package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ssdpscan/internal/discovery"
)

// tickInterval is how often the countdown bar is redrawn
const tickInterval = 100 * time.Millisecond

// ScanFunc runs one discovery session. onResponse is called for every search
// response folded into a device.
type ScanFunc func(ctx context.Context, onResponse func(d *discovery.Device)) ([]*discovery.Device, error)

// Messages for async operations
type responseMsg struct {
	uuid string
}
type scanCompleteMsg struct {
	devices []*discovery.Device
	err     error
}
type tickMsg time.Time

// DiscoveryProgress is the Bubble Tea model shown while a search window is open.
// It counts down the window and the devices heard so far, then quits when the
// scan completes.
type DiscoveryProgress struct {
	Label     string
	Window    time.Duration
	Started   time.Time
	Responses int
	Devices   int
	Done      bool
	Cancelled bool

	Spinner spinner.Model
	Bar     progress.Model

	seen   map[string]bool
	cancel context.CancelFunc
	now    func() time.Time
}

// NewDiscoveryProgress creates the countdown model. cancel is called when the
// user interrupts the window and may be nil.
func NewDiscoveryProgress(label string, window time.Duration, cancel context.CancelFunc) DiscoveryProgress {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	barWidth := GetTerminalWidth() - 30
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 50 {
		barWidth = 50
	}

	return DiscoveryProgress{
		Label:   label,
		Window:  window,
		Started: time.Now(),
		Spinner: s,
		Bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
		seen:    make(map[string]bool),
		cancel:  cancel,
		now:     time.Now,
	}
}

// Init implements tea.Model
func (m DiscoveryProgress) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, tick())
}

// Update implements tea.Model
func (m DiscoveryProgress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// Close the window early; the scan reports what it collected.
			m.Cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case responseMsg:
		m.Responses++
		if !m.seen[msg.uuid] {
			m.seen[msg.uuid] = true
			m.Devices++
		}
		return m, nil

	case scanCompleteMsg:
		m.Done = true
		return m, tea.Quit

	case tickMsg:
		if m.Done {
			return m, nil
		}
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model
func (m DiscoveryProgress) View() string {
	if m.Done {
		return ""
	}

	var b strings.Builder
	b.WriteString(ProgressLabelStyle.Render(m.Spinner.View() + " " + m.Label))
	b.WriteString("\n\n")

	remaining := m.Window - m.elapsed()
	if remaining < 0 {
		remaining = 0
	}
	status := fmt.Sprintf("%4.1fs  %d found", remaining.Seconds(), m.Devices)
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(m.Bar.ViewAs(m.Percent()) + "  " + NoteStyle.Render(status)))
	b.WriteString("\n")

	if m.Cancelled {
		b.WriteString(NoteStyle.Render("  stopping...") + "\n")
	}
	return b.String()
}

// Percent returns how much of the window has elapsed, between 0 and 1
func (m DiscoveryProgress) Percent() float64 {
	if m.Window <= 0 {
		return 1
	}
	p := float64(m.elapsed()) / float64(m.Window)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

func (m DiscoveryProgress) elapsed() time.Duration {
	if m.now == nil {
		return time.Since(m.Started)
	}
	return m.now().Sub(m.Started)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// RunDiscovery runs scan while showing a countdown on out. Interrupting the
// countdown cancels the scan's context, which ends the window early with the
// devices collected so far. The returned devices and error are the scan's own.
func RunDiscovery(ctx context.Context, out io.Writer, label string, window time.Duration, scan ScanFunc) ([]*discovery.Device, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewDiscoveryProgress(label, window, cancel)
	p := tea.NewProgram(model, tea.WithOutput(out))

	done := make(chan scanCompleteMsg, 1)
	go func() {
		devices, err := scan(ctx, func(d *discovery.Device) {
			p.Send(responseMsg{uuid: d.UUID})
		})
		result := scanCompleteMsg{devices: devices, err: err}
		done <- result
		p.Send(result)
	}()

	if _, err := p.Run(); err != nil {
		// The display failed; stop the scan and still hand back its result.
		cancel()
	}

	result := <-done
	return result.devices, result.err
}
