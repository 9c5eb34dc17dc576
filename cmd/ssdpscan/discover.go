package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/ssdpscan/internal/config"
	"github.com/muurk/ssdpscan/internal/discovery"
	"github.com/muurk/ssdpscan/internal/logging"
	"github.com/muurk/ssdpscan/internal/protocol"
	"github.com/muurk/ssdpscan/internal/transport"
	"github.com/muurk/ssdpscan/internal/ui"
)

// Output formats shared by discover, describe and devices
const (
	formatDetailed = "detailed"
	formatCompact  = "compact"
	formatJSON     = "json"
)

// Discovery command flags
var (
	discoverTimeout int
	discoverTarget  string
	outputFormat    string
	saveResults     bool
)

func init() {
	addDiscoverFlags(discoverCmd)
	rootCmd.AddCommand(discoverCmd)
}

// addDiscoverFlags registers the discovery flags on cmd. The root command
// shares them so that a bare 'ssdpscan' accepts them too.
func addDiscoverFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&discoverTimeout, "timeout", "t", config.DefaultWindowSeconds, "Seconds to listen for replies (1-5)")
	cmd.Flags().StringVar(&discoverTarget, "target", config.DefaultSearchTarget, "Search target (ST) to send")
	cmd.Flags().StringVar(&outputFormat, "format", formatDetailed, "Output format (detailed, compact, json)")
	cmd.Flags().BoolVar(&saveResults, "save", false, "Remember the discovered devices in the config file")
}

// discoverCmd searches the network for UPnP devices
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover UPnP devices on the network",
	Long: `Discover UPnP devices using SSDP.

This command multicasts an M-SEARCH request and listens for replies for the
given number of seconds. Every device that answers is listed with its SERVER
header, description URL and the search targets it answered for.

Devices must reply within the MX value of the search, which is the timeout.
UPnP requires MX between 1 and 5 seconds.`,
	Example: `  # Search for everything for 3 seconds (default)
  ssdpscan discover

  # Quick 1-second scan for root devices only
  ssdpscan discover --timeout 1 --target upnp:rootdevice

  # Search for media renderers on a specific interface
  ssdpscan discover --target urn:schemas-upnp-org:device:MediaRenderer:1 --interface eth0

  # Plain output for scripts, remembering what was found
  ssdpscan discover --format compact --save`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	reg := loadRegistry()
	prefs := reg.Preferences

	seconds := prefs.Discovery.WindowSeconds
	if cmd.Flags().Changed("timeout") {
		seconds = discoverTimeout
	}
	if err := validateTimeout(seconds); err != nil {
		return err
	}
	window := time.Duration(seconds) * time.Second

	targetText := prefs.Discovery.SearchTarget
	if cmd.Flags().Changed("target") {
		targetText = discoverTarget
	}
	target := protocol.ParseSearchTarget(targetText)
	if target.Kind == protocol.TargetOther {
		logging.Warn("Search target is not a standard form; sending it verbatim", zap.String("target", targetText))
	}

	if err := validateFormat(outputFormat); err != nil {
		return err
	}

	identity := discovery.DefaultIdentity()
	if prefs.Discovery.FriendlyName != "" {
		identity.FriendlyName = prefs.Discovery.FriendlyName
	}
	cpUUID, generated := reg.ControlPointUUID()
	identity.ControlPointUUID = cpUUID
	if generated {
		if err := reg.Save(); err != nil {
			logging.Warn("Failed to persist control point uuid", zap.Error(err))
		}
	}

	out := cmd.OutOrStdout()
	printer := ui.NewPrinter(out)
	interactive := outputFormat == formatDetailed && ui.IsTerminal(os.Stdout)
	tcfg := transportConfig(cmd, prefs)

	if outputFormat == formatDetailed {
		printer.PrintHeader("SSDP Discovery", "ssdpscan discover", discoverParams(target, window, tcfg))
	}

	t, err := transport.NewMulticast(tcfg)
	if err != nil {
		if outputFormat == formatDetailed {
			printer.PrintError("Could not open multicast socket", err, socketTroubleshooting())
		}
		return fmt.Errorf("failed to open multicast socket: %w", err)
	}
	defer t.Close()

	scanner := discovery.NewScanner(t)
	scanner.Group = t.Group()
	scanner.Identity = identity

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	scan := func(ctx context.Context, onResponse func(d *discovery.Device)) ([]*discovery.Device, error) {
		scanner.OnResponse = onResponse
		return scanner.Search(ctx, target, window)
	}

	start := time.Now()
	var devices []*discovery.Device
	if interactive {
		devices, err = ui.RunDiscovery(ctx, os.Stdout, "Listening for responses...", window, scan)
	} else {
		devices, err = scan(ctx, nil)
	}
	elapsed := time.Since(start)

	if err != nil {
		if outputFormat == formatDetailed {
			printer.PrintError("Discovery failed", err, socketTroubleshooting())
		}
		return fmt.Errorf("discovery failed: %w", err)
	}

	if saveResults {
		reg.Record(devices)
		if err := reg.Save(); err != nil {
			return fmt.Errorf("failed to save devices: %w", err)
		}
		logging.Info("Saved discovered devices", zap.Int("devices", len(devices)))
	}

	return printDiscovery(printer, devices, reg.Nicknames(), target, elapsed)
}

// printDiscovery writes the discovery result in the selected output format
func printDiscovery(printer *ui.Printer, devices []*discovery.Device, nicknames map[string]string, target protocol.SearchTarget, elapsed time.Duration) error {
	switch outputFormat {
	case formatCompact:
		printer.Print(ui.FormatCompact(devices))
		return nil

	case formatJSON:
		return writeJSON(printer.Writer(), newDiscoveryJSON(devices, target, elapsed))

	default:
		if len(devices) == 0 {
			printer.PrintResult(ui.NewWarningResult("No devices responded", ui.NoDevicesTroubleshooting(),
				ui.Detail{Key: "Target", Value: target.String()},
				ui.Detail{Key: "Listened", Value: elapsed.Round(10 * time.Millisecond).String()},
			))
			return nil
		}

		printer.PrintDevices(devices, nicknames)
		printer.Newline()
		printer.Println(ui.RenderSummary(len(devices), elapsed))
		if saveResults {
			printer.Println(ui.NoteStyle.Render("  Saved to config. Use 'ssdpscan devices' to list remembered devices."))
		}
		printer.Println(ui.NoteStyle.Render("  Use 'ssdpscan describe <location>' to fetch a device description."))
		return nil
	}
}

// validateTimeout enforces the MX range UPnP requires devices to honour
func validateTimeout(seconds int) error {
	if seconds < protocol.MinMaxWait || seconds > protocol.MaxMaxWait {
		return fmt.Errorf("timeout must be between %d and %d seconds, got %d",
			protocol.MinMaxWait, protocol.MaxMaxWait, seconds)
	}
	return nil
}

func validateFormat(format string) error {
	switch format {
	case formatDetailed, formatCompact, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want %s, %s or %s)", format, formatDetailed, formatCompact, formatJSON)
	}
}

func discoverParams(target protocol.SearchTarget, window time.Duration, cfg transport.Config) map[string]string {
	iface := cfg.Interface
	if iface == "" {
		iface = "system default"
	}
	return map[string]string{
		"Target":    target.String(),
		"Window":    window.String(),
		"Group":     cfg.Group,
		"Interface": iface,
	}
}

func socketTroubleshooting() []string {
	return []string{
		"Check that the interface exists and is up (ip link)",
		"Make sure the interface has an IPv4 address",
		"Some VPN and container interfaces do not support multicast",
		"Run with --log-level debug for socket details",
	}
}

// discoveryJSON is the --format json document for discover
type discoveryJSON struct {
	Target    string       `json:"target"`
	ElapsedMS int64        `json:"elapsed_ms"`
	Devices   []deviceJSON `json:"devices"`
}

type deviceJSON struct {
	UUID         string        `json:"uuid"`
	Server       string        `json:"server"`
	Location     string        `json:"location"`
	Address      string        `json:"address,omitempty"`
	DiscoveredAt time.Time     `json:"discovered_at"`
	Services     []serviceJSON `json:"services"`
}

type serviceJSON struct {
	USN    string `json:"usn"`
	Target string `json:"target"`
}

func newDiscoveryJSON(devices []*discovery.Device, target protocol.SearchTarget, elapsed time.Duration) discoveryJSON {
	doc := discoveryJSON{
		Target:    target.String(),
		ElapsedMS: elapsed.Milliseconds(),
		Devices:   make([]deviceJSON, 0, len(devices)),
	}
	for _, d := range ui.SortDevices(devices) {
		dev := deviceJSON{
			UUID:         d.UUID,
			Server:       d.Server,
			Location:     d.Location,
			Address:      d.IP(),
			DiscoveredAt: d.DiscoveredAt,
			Services:     make([]serviceJSON, 0, len(d.Services)),
		}
		for _, s := range d.Services {
			dev.Services = append(dev.Services, serviceJSON{USN: s.ServiceName.String(), Target: s.Target.String()})
		}
		doc.Devices = append(doc.Devices, dev)
	}
	return doc
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
