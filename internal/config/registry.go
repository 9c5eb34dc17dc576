package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "ssdpscan"
	configFile = "config.yaml"
)

var (
	loaded     *Registry
	loadedErr  error
	loadOnce   sync.Once
	diskAccess sync.Mutex
)

// GetConfigDir returns the directory holding config.yaml. Windows uses
// %LOCALAPPDATA%; every other platform uses $XDG_CONFIG_HOME, or ~/.config
// when it is unset.
func GetConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, appName), nil
		}
	} else if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate config directory: %w", err)
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "Local", appName), nil
	}
	return filepath.Join(home, ".config", appName), nil
}

// GetConfigPath returns the path of config.yaml.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// LoadRegistry returns the registry, reading it from disk on first use. A
// missing file yields an empty registry with default preferences.
func LoadRegistry() (*Registry, error) {
	loadOnce.Do(func() {
		loaded, loadedErr = readRegistry()
	})
	return loaded, loadedErr
}

// ReloadRegistry drops the cached registry and reads the file again.
func ReloadRegistry() (*Registry, error) {
	diskAccess.Lock()
	defer diskAccess.Unlock()

	loadOnce = sync.Once{}
	return LoadRegistry()
}

func readRegistry() (*Registry, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NewRegistry(), nil
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return decodeRegistry(data)
}

func decodeRegistry(data []byte) (*Registry, error) {
	reg := &Registry{}
	if err := yaml.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if reg.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version %d (this build reads version %d)", reg.Version, CurrentVersion)
	}

	if reg.Devices == nil {
		reg.Devices = make(map[string]*Device)
	}
	reg.applyDefaults()
	return reg, nil
}

// Save writes the registry to config.yaml through a temporary file, so a
// crash leaves either the old or the new file.
func (r *Registry) Save() error {
	diskAccess.Lock()
	defer diskAccess.Unlock()

	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	body, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data := append([]byte(fileBanner), body...)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

const fileBanner = `# ssdpscan: devices remembered by "discover --save" and default flags.
# Edit by hand or with "ssdpscan devices name|forget".

`

// applyDefaults fills preferences missing from an older or hand-edited file.
func (r *Registry) applyDefaults() {
	defaults := DefaultPreferences()
	if r.Preferences == nil {
		r.Preferences = defaults
		return
	}

	p := r.Preferences
	if p.Discovery.WindowSeconds <= 0 {
		p.Discovery.WindowSeconds = defaults.Discovery.WindowSeconds
	}
	if p.Discovery.SearchTarget == "" {
		p.Discovery.SearchTarget = defaults.Discovery.SearchTarget
	}
	if p.Network.TTL <= 0 {
		p.Network.TTL = defaults.Network.TTL
	}
	if p.Description.TimeoutSeconds <= 0 {
		p.Description.TimeoutSeconds = defaults.Description.TimeoutSeconds
	}
	if p.Description.MaxRetries < 0 {
		p.Description.MaxRetries = 0
	}
}
