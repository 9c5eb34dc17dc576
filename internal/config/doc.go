// Package config provides user configuration management for ssdpscan.
//
// This package manages a YAML-based configuration file holding the devices
// remembered from earlier discoveries and the user's preferences: discovery
// window and search target, multicast interface and TTL, description fetch
// limits and log level. The configuration follows OS-specific conventions
// for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/ssdpscan/config.yaml or $HOME/.config/ssdpscan/config.yaml
//   - macOS: $HOME/.config/ssdpscan/config.yaml
//   - Windows: %LOCALAPPDATA%\ssdpscan\config.yaml
//
// # Control Point Identity
//
// The CPUUID.UPNP.ORG header sent with every search is generated once and
// stored under preferences.discovery.control_point_uuid, so devices see the
// same control point across runs.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	devices, err := scanner.Find(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	registry.Record(devices)
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
