// Package ui provides terminal UI components for the ssdpscan CLI.
//
// This package uses Bubble Tea and Lipgloss to render polished terminal output.
// Apart from the discovery countdown, components follow a "run once and exit"
// pattern: they render output but don't require user interaction.
//
// # Architecture
//
// The UI package provides these component types:
//
//   - Header: Command banner showing operation name and parameters
//   - DiscoveryProgress: Countdown bar shown while a search window is open
//   - Device list: Styled (RenderDeviceList) or plain (FormatCompact) output
//   - Result: Success/failure/warning boxes with troubleshooting tips
//   - RawOutput: Muted box for raw datagrams and documents in verbose mode
//
// # Usage Pattern
//
//	printer := ui.NewPrinter(os.Stdout)
//	printer.PrintHeader("SSDP Discovery", "ssdpscan discover", params)
//
//	devices, err := ui.RunDiscovery(ctx, os.Stdout, "Listening for responses...", window,
//	    func(ctx context.Context, onResponse func(*discovery.Device)) ([]*discovery.Device, error) {
//	        scanner.OnResponse = onResponse
//	        return scanner.Search(ctx, target, window)
//	    })
//
//	printer.PrintDevices(devices, nil)
//
// RunDiscovery should only be used when stdout is a terminal (see IsTerminal);
// otherwise run the scan directly and print FormatCompact output.
//
// # Logging Integration
//
// This package expects logging to be controlled via the SSDPSCAN_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly.
package ui
