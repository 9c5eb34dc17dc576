package config

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/muurk/ssdpscan/internal/discovery"
)

const (
	// CurrentVersion is the config file format version
	CurrentVersion = 1

	// DefaultWindowSeconds is how long discover listens by default
	DefaultWindowSeconds = 3

	// DefaultSearchTarget is the ST sent by discover by default
	DefaultSearchTarget = "ssdp:all"

	// DefaultTTL is the default multicast TTL
	DefaultTTL = 4

	// DefaultDescriptionTimeout is the default description fetch timeout in seconds
	DefaultDescriptionTimeout = 10

	// DefaultDescriptionRetries is the default number of description fetch retries
	DefaultDescriptionRetries = 3
)

// Registry represents the entire user configuration file.
// It remembers devices seen by earlier discoveries and the user's preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by device uuid
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device is what the registry remembers about one UPnP device.
type Device struct {
	Nickname    string    `yaml:"nickname,omitempty" json:"nickname,omitempty"`         // User-friendly name
	Server      string    `yaml:"server,omitempty" json:"server,omitempty"`             // SERVER header
	Location    string    `yaml:"location,omitempty" json:"location,omitempty"`         // Description URL
	LastAddress string    `yaml:"last_address,omitempty" json:"last_address,omitempty"` // Last source address
	FirstSeen   time.Time `yaml:"first_seen,omitempty" json:"first_seen,omitempty"`
	LastSeen    time.Time `yaml:"last_seen,omitempty" json:"last_seen,omitempty"`
	Targets     []string  `yaml:"targets,omitempty" json:"targets,omitempty"` // Every search target the device answered for
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	Discovery   DiscoveryPrefs   `yaml:"discovery"`
	Network     NetworkPrefs     `yaml:"network"`
	Description DescriptionPrefs `yaml:"description"`
	LogLevel    string           `yaml:"log_level,omitempty"` // debug, info, warn, error
}

// DiscoveryPrefs controls the M-SEARCH sent by discover.
type DiscoveryPrefs struct {
	WindowSeconds    int    `yaml:"window_seconds"`
	SearchTarget     string `yaml:"search_target"`
	FriendlyName     string `yaml:"friendly_name,omitempty"`      // CPFN.UPNP.ORG
	ControlPointUUID string `yaml:"control_point_uuid,omitempty"` // CPUUID.UPNP.ORG, generated on first use
}

// NetworkPrefs controls the multicast socket.
type NetworkPrefs struct {
	Interface string `yaml:"interface,omitempty"` // Interface name, empty for the system default
	TTL       int    `yaml:"ttl"`
	Loopback  bool   `yaml:"loopback"`
}

// DescriptionPrefs controls description fetches.
type DescriptionPrefs struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	MaxRetries     int `yaml:"max_retries"`
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		Devices:     make(map[string]*Device),
		Preferences: DefaultPreferences(),
	}
}

// DefaultPreferences returns the preferences used when the file has none.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Discovery: DiscoveryPrefs{
			WindowSeconds: DefaultWindowSeconds,
			SearchTarget:  DefaultSearchTarget,
		},
		Network: NetworkPrefs{
			TTL: DefaultTTL,
		},
		Description: DescriptionPrefs{
			TimeoutSeconds: DefaultDescriptionTimeout,
			MaxRetries:     DefaultDescriptionRetries,
		},
	}
}

// Window returns the discovery window as a duration.
func (p *Preferences) Window() time.Duration {
	return time.Duration(p.Discovery.WindowSeconds) * time.Second
}

// GetDevice retrieves device metadata by uuid.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(id string) *Device {
	return r.Devices[id]
}

// EnsureDevice ensures a device entry exists in the registry and returns it.
func (r *Registry) EnsureDevice(id string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[id]; exists {
		return device
	}

	device := &Device{}
	r.Devices[id] = device
	return device
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(id, nickname string) {
	device := r.EnsureDevice(id)
	device.Nickname = nickname
}

// Nicknames returns device uuid to nickname for every named device.
func (r *Registry) Nicknames() map[string]string {
	names := make(map[string]string)
	for id, d := range r.Devices {
		if d.Nickname != "" {
			names[id] = d.Nickname
		}
	}
	return names
}

// Forget removes a device from the registry, reporting whether it was there.
func (r *Registry) Forget(id string) bool {
	if _, ok := r.Devices[id]; !ok {
		return false
	}
	delete(r.Devices, id)
	return true
}

// ForgetAll removes every device and returns how many were removed.
func (r *Registry) ForgetAll() int {
	n := len(r.Devices)
	r.Devices = make(map[string]*Device)
	return n
}

// Record merges the result of a discovery into the registry. Server,
// location and address are overwritten with the latest values; targets
// accumulate across discoveries.
func (r *Registry) Record(devices []*discovery.Device) {
	for _, d := range devices {
		entry := r.EnsureDevice(d.UUID)

		if entry.FirstSeen.IsZero() {
			entry.FirstSeen = d.DiscoveredAt
		}
		if d.DiscoveredAt.After(entry.LastSeen) {
			entry.LastSeen = d.DiscoveredAt
		}
		entry.Server = d.Server
		entry.Location = d.Location
		entry.LastAddress = d.IP()

		for _, target := range d.Targets() {
			entry.addTarget(target.String())
		}
	}
}

func (d *Device) addTarget(target string) {
	for _, t := range d.Targets {
		if t == target {
			return
		}
	}
	d.Targets = append(d.Targets, target)
}

// DeviceIDs returns the registry's device uuids, most recently seen first.
func (r *Registry) DeviceIDs() []string {
	ids := make([]string, 0, len(r.Devices))
	for id := range r.Devices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := r.Devices[ids[i]], r.Devices[ids[j]]
		if !a.LastSeen.Equal(b.LastSeen) {
			return a.LastSeen.After(b.LastSeen)
		}
		return ids[i] < ids[j]
	})
	return ids
}

// ControlPointUUID returns the persisted control point uuid, generating one
// on first use. The second return value reports whether a new uuid was
// generated and the registry needs saving.
func (r *Registry) ControlPointUUID() (string, bool) {
	if r.Preferences == nil {
		r.Preferences = DefaultPreferences()
	}
	if r.Preferences.Discovery.ControlPointUUID != "" {
		return r.Preferences.Discovery.ControlPointUUID, false
	}
	r.Preferences.Discovery.ControlPointUUID = uuid.NewString()
	return r.Preferences.Discovery.ControlPointUUID, true
}
