package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// ProductName identifies this control point in USER-AGENT and CPFN headers.
const ProductName = "ssdpscan"

// upnpVersion is the UPnP Device Architecture version we claim to speak.
const upnpVersion = "UPnP/2.0"

// Version and Commit are stamped by the release build:
//
//	go build -ldflags="-X github.com/muurk/ssdpscan/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/ssdpscan/internal/version.Commit=abc123"
//
// Local builds fall back to the VCS stamp Go embeds in the binary.
var (
	Version = ""
	Commit  = ""
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		stamp := vcsStamp(info.Settings)
		if Commit == "" {
			Commit = stamp.commit()
		}
		if Version == "" {
			Version = stamp.version()
		}
	}

	if Version == "" {
		Version = "dev-" + time.Now().Format("20060102-150405")
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

type vcsInfo struct {
	revision string
	modified bool
	time     time.Time
}

func vcsStamp(settings []debug.BuildSetting) vcsInfo {
	var v vcsInfo
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			v.revision = s.Value
		case "vcs.modified":
			v.modified = s.Value == "true"
		case "vcs.time":
			v.time, _ = time.Parse(time.RFC3339, s.Value)
		}
	}
	return v
}

// commit is the short revision, suffixed with -dirty for modified trees.
func (v vcsInfo) commit() string {
	rev := v.revision
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev != "" && v.modified {
		rev += "-dirty"
	}
	return rev
}

// version has no tag to go on, so it is dated by the commit.
func (v vcsInfo) version() string {
	if v.time.IsZero() {
		return ""
	}
	return "dev-" + v.time.Format("20060102")
}

// Full returns the version with its commit.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent returns the USER-AGENT header value for M-SEARCH requests, in
// the "OS/version UPnP/2.0 product/version" form devices expect.
func UserAgent() string {
	return fmt.Sprintf("%s/%s %s %s/%s", runtime.GOOS, runtime.GOARCH, upnpVersion, ProductName, Version)
}
