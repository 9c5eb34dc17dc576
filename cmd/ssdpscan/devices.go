package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/ssdpscan/internal/config"
	"github.com/muurk/ssdpscan/internal/ui"
)

// Devices command flags
var (
	devicesFormat string
	forgetAll     bool
	assumeYes     bool
)

func init() {
	devicesCmd.Flags().StringVar(&devicesFormat, "format", formatDetailed, "Output format (detailed, compact, json)")
	forgetCmd.Flags().BoolVar(&forgetAll, "all", false, "Forget every remembered device")
	forgetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	devicesCmd.AddCommand(nameCmd)
	devicesCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(devicesCmd)
}

// devicesCmd lists devices remembered with 'discover --save'
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List remembered devices",
	Long: `List the devices remembered by 'discover --save', most recently seen first.

Remembered devices can be given a nickname, which is shown by discover and
accepted by describe in place of a URL.`,
	Example: `  # List remembered devices
  ssdpscan devices

  # Name a device
  ssdpscan devices name 4d696e69-444c-164e-9d41-001ec0a8d2f1 "Living room TV"

  # Forget everything
  ssdpscan devices forget --all`,
	Args: cobra.NoArgs,
	RunE: runDevices,
}

func runDevices(cmd *cobra.Command, args []string) error {
	if err := validateFormat(devicesFormat); err != nil {
		return err
	}

	reg := loadRegistry()
	printer := ui.NewPrinter(cmd.OutOrStdout())
	ids := reg.DeviceIDs()

	switch devicesFormat {
	case formatJSON:
		list := make([]rememberedJSON, 0, len(ids))
		for _, id := range ids {
			list = append(list, rememberedJSON{UUID: id, Device: reg.Devices[id]})
		}
		return writeJSON(printer.Writer(), list)

	case formatCompact:
		for _, id := range ids {
			d := reg.Devices[id]
			printer.Println(fmt.Sprintf("%s %s %s", id, d.Location, d.Nickname))
		}
		return nil
	}

	if len(ids) == 0 {
		printer.PrintResult(ui.NewWarningResult("No remembered devices", []string{
			"Run 'ssdpscan discover --save' to remember what is found",
		}))
		return nil
	}

	for _, id := range ids {
		printer.Println(renderRemembered(id, reg.Devices[id]))
	}
	if path, err := config.GetConfigPath(); err == nil {
		printer.Println(ui.NoteStyle.Render("  Stored in " + path))
	}
	return nil
}

// rememberedJSON is one entry of 'devices --format json'
type rememberedJSON struct {
	UUID string `json:"uuid"`
	*config.Device
}

func renderRemembered(id string, d *config.Device) string {
	var b strings.Builder

	title := d.Server
	if d.Nickname != "" {
		title = d.Nickname
	}
	if title == "" {
		title = id
	}
	b.WriteString(ui.DeviceTitleStyle.Render(title) + "\n")

	rows := []ui.Detail{
		{Key: "UUID", Value: id},
		{Key: "Server", Value: d.Server},
		{Key: "Location", Value: d.Location},
		{Key: "Address", Value: d.LastAddress},
		{Key: "Last seen", Value: formatSeen(d.LastSeen)},
	}
	for _, r := range rows {
		if r.Value == "" {
			continue
		}
		b.WriteString(ui.ResultKeyStyle.Render("  "+r.Key+":") + " " + ui.ResultValueStyle.Render(r.Value) + "\n")
	}
	for _, t := range d.Targets {
		b.WriteString(ui.TargetStyle.Render(ui.BranchMarker+" "+t) + "\n")
	}
	return b.String()
}

func formatSeen(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// nameCmd sets or clears a device nickname
var nameCmd = &cobra.Command{
	Use:   "name <uuid> [nickname]",
	Short: "Set or clear a device nickname",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := loadRegistry()
		id := strings.TrimPrefix(args[0], "uuid:")
		if reg.GetDevice(id) == nil {
			return fmt.Errorf("no remembered device with uuid %s", id)
		}

		nickname := ""
		if len(args) == 2 {
			nickname = args[1]
		}
		reg.SetDeviceNickname(id, nickname)
		if err := reg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		if nickname == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s Cleared nickname of %s\n", ui.SuccessMarker, id)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now %q\n", ui.SuccessMarker, id, nickname)
		}
		return nil
	},
}

// forgetCmd removes remembered devices
var forgetCmd = &cobra.Command{
	Use:   "forget [uuid]",
	Short: "Forget a remembered device, or all of them with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := loadRegistry()
		out := cmd.OutOrStdout()

		switch {
		case forgetAll:
			if len(args) > 0 {
				return fmt.Errorf("--all takes no uuid")
			}
			if len(reg.Devices) == 0 {
				fmt.Fprintln(out, "No remembered devices.")
				return nil
			}
			if !assumeYes && !ui.ForgetDevicesConfirmation(cmd.InOrStdin(), out, len(reg.Devices)) {
				return nil
			}
			n := reg.ForgetAll()
			if err := reg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(out, "%s Forgot %d devices\n", ui.SuccessMarker, n)

		case len(args) == 1:
			id := strings.TrimPrefix(args[0], "uuid:")
			if !reg.Forget(id) {
				return fmt.Errorf("no remembered device with uuid %s", id)
			}
			if err := reg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(out, "%s Forgot %s\n", ui.SuccessMarker, id)

		default:
			return fmt.Errorf("give a uuid or --all")
		}
		return nil
	},
}
