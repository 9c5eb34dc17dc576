// Ssdpscan finds UPnP devices on the local network using SSDP.
//
// It multicasts an M-SEARCH request, listens for the unicast replies for a
// short window and lists the devices that answered together with the search
// targets they advertised. Device description documents can be fetched and
// captured datagrams decoded for troubleshooting.
//
// Usage:
//
//	ssdpscan [command] [flags]
//
// Running without arguments performs a discovery with default settings.
// See 'ssdpscan --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/ssdpscan/internal/config"
	"github.com/muurk/ssdpscan/internal/logging"
	"github.com/muurk/ssdpscan/internal/transport"
	"github.com/muurk/ssdpscan/internal/version"
)

func main() {
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	logLevel      string
	interfaceName string
	multicastTTL  int
	loopback      bool
)

var rootCmd = &cobra.Command{
	Use:   "ssdpscan",
	Short: "SSDP Device Discovery Utility",
	Long: `A command line utility for finding UPnP devices with SSDP.

Sends an M-SEARCH to the SSDP multicast group, collects the replies for a
few seconds and lists every device that answered.

If no command is specified, a discovery with default settings is run.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: discover when no subcommand provided
		return runDiscover(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides "+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&interfaceName, "interface", "", "Network interface for multicast (default: system choice)")
	rootCmd.PersistentFlags().IntVar(&multicastTTL, "ttl", config.DefaultTTL, "Multicast TTL for the search")
	rootCmd.PersistentFlags().BoolVar(&loopback, "loopback", false, "Receive our own multicast (for testing against local devices)")

	addDiscoverFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ssdpscan %s (commit: %s)\n", version.Version, version.Commit)
		fmt.Fprintf(cmd.OutOrStdout(), "user agent: %s\n", version.UserAgent())
	},
}

// initLogging applies --log-level, then the config file's log level, then
// the environment. Logging stays silent when none is set.
func initLogging(cmd *cobra.Command) error {
	level := logLevel
	if level == "" && os.Getenv(logging.LogLevelEnvVar) == "" {
		if reg, err := config.LoadRegistry(); err == nil && reg.Preferences != nil {
			level = reg.Preferences.LogLevel
		}
	}
	return logging.Initialize(level)
}

// loadRegistry loads the config, falling back to defaults when it is unreadable.
func loadRegistry() *config.Registry {
	reg, err := config.LoadRegistry()
	if err != nil {
		logging.Warn("Ignoring unreadable config file", zap.Error(err))
		return config.NewRegistry()
	}
	return reg
}

// transportConfig merges the config file's network preferences with the
// persistent flags. Flags win when set on the command line.
func transportConfig(cmd *cobra.Command, prefs *config.Preferences) transport.Config {
	cfg := transport.DefaultConfig()
	cfg.Interface = prefs.Network.Interface
	cfg.TTL = prefs.Network.TTL
	cfg.Loopback = prefs.Network.Loopback

	flags := cmd.Flags()
	if flags.Changed("interface") {
		cfg.Interface = interfaceName
	}
	if flags.Changed("ttl") {
		cfg.TTL = multicastTTL
	}
	if flags.Changed("loopback") {
		cfg.Loopback = loopback
	}
	return cfg
}
