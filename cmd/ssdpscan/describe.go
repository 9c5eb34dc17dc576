package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/ssdpscan/internal/config"
	"github.com/muurk/ssdpscan/internal/description"
	"github.com/muurk/ssdpscan/internal/logging"
	"github.com/muurk/ssdpscan/internal/ui"
	"github.com/muurk/ssdpscan/internal/urls"
)

// Describe command flags
var (
	describeTimeout int
	describeRetries int
	describeFormat  string
)

func init() {
	describeCmd.Flags().IntVar(&describeTimeout, "timeout", config.DefaultDescriptionTimeout, "HTTP timeout in seconds")
	describeCmd.Flags().IntVar(&describeRetries, "retries", config.DefaultDescriptionRetries, "Retries for network errors and 5xx responses")
	describeCmd.Flags().StringVar(&describeFormat, "format", formatDetailed, "Output format (detailed, compact, json)")

	rootCmd.AddCommand(describeCmd)
}

// describeCmd fetches and prints a device description document
var describeCmd = &cobra.Command{
	Use:   "describe <location|uuid|nickname>",
	Short: "Fetch a device description",
	Long: `Fetch the UPnP device description from a device's LOCATION URL and
print its devices and services.

The argument is either the LOCATION URL printed by discover, or the uuid or
nickname of a device remembered with 'discover --save'.

Network errors and 5xx responses are retried with exponential backoff.`,
	Example: `  # Describe a device by URL
  ssdpscan describe http://192.168.1.1:5000/rootDesc.xml

  # Describe a remembered device
  ssdpscan describe "Living room TV"

  # Only the device and service tree
  ssdpscan describe http://192.168.1.1:5000/rootDesc.xml --format compact`,
	Args: cobra.ExactArgs(1),
	RunE: runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	if err := validateFormat(describeFormat); err != nil {
		return err
	}

	reg := loadRegistry()
	location, err := resolveLocation(reg, args[0])
	if err != nil {
		return err
	}

	client := description.NewClient()
	timeout := time.Duration(reg.Preferences.Description.TimeoutSeconds) * time.Second
	if cmd.Flags().Changed("timeout") {
		timeout = time.Duration(describeTimeout) * time.Second
	}
	retries := reg.Preferences.Description.MaxRetries
	if cmd.Flags().Changed("retries") {
		retries = describeRetries
	}
	client.SetTimeout(timeout)
	client.SetRetry(retries, description.DefaultRetryDelay)

	printer := ui.NewPrinter(cmd.OutOrStdout())
	detailed := describeFormat == formatDetailed
	if detailed {
		printer.PrintHeader("Device Description", "ssdpscan describe", map[string]string{
			"Location": location,
			"Timeout":  timeout.String(),
			"Retries":  strconv.Itoa(retries),
		})
	}

	start := time.Now()
	desc, err := client.Describe(cmd.Context(), location)
	if err != nil {
		if detailed {
			printer.PrintError(description.GetShortErrorMessage(err), err,
				ui.HintLines(description.GetTroubleshootingHint(err)))
		}
		return fmt.Errorf("failed to describe %s: %w", location, err)
	}
	elapsed := time.Since(start)

	problems := description.Validate(desc)
	for _, p := range problems {
		logging.Debug("Description does not follow UDA", zap.String("location", location), zap.Error(p))
	}

	switch describeFormat {
	case formatCompact:
		printer.Print(desc.FormatTree())
	case formatJSON:
		return writeJSON(printer.Writer(), desc)
	default:
		printDescription(printer, desc, elapsed, problems)
	}
	return nil
}

func printDescription(printer *ui.Printer, desc *description.Description, elapsed time.Duration, problems []error) {
	devices := 0
	desc.Device.Walk(func(*description.Device, int) { devices++ })

	printer.PrintResult(ui.NewSuccessResult(desc.Device.Summary(),
		ui.Detail{Key: "Devices", Value: strconv.Itoa(devices)},
		ui.Detail{Key: "Services", Value: strconv.Itoa(len(desc.Device.AllServices()))},
		ui.Detail{Key: "UPnP Version", Value: desc.SpecVersion.String()},
		ui.Detail{Key: "Fetched in", Value: elapsed.Round(time.Millisecond).String()},
	))

	printer.Println(desc.FormatDetailed())

	if len(problems) > 0 {
		tips := make([]string, 0, len(problems))
		for _, p := range problems {
			tips = append(tips, p.Error())
		}
		tips = append(tips, "Document rules: "+urls.DeviceArchitectureSection("2"))
		printer.PrintResult(ui.NewWarningResult("Description does not follow UDA", tips))
	}
}

// resolveLocation accepts a URL, or the uuid or nickname of a remembered device
func resolveLocation(reg *config.Registry, arg string) (string, error) {
	if strings.Contains(arg, "://") {
		return arg, nil
	}

	id := strings.TrimPrefix(arg, "uuid:")
	if d := reg.GetDevice(id); d != nil && d.Location != "" {
		return d.Location, nil
	}

	for _, id := range reg.DeviceIDs() {
		d := reg.Devices[id]
		if d.Nickname != "" && strings.EqualFold(d.Nickname, arg) && d.Location != "" {
			return d.Location, nil
		}
	}

	return "", fmt.Errorf("%q is not a URL or a remembered device (run 'ssdpscan discover --save' first)", arg)
}
