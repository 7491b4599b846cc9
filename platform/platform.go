// Package platform resolves where the Minecraft launcher keeps its data on
// the host operating system.
package platform

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// Platform is one of the operating system families the installer knows how
// to resolve a Minecraft directory for.
type Platform int

const (
	Unix Platform = iota
	Windows
	MacOS
)

func (p Platform) String() string {
	switch p {
	case Windows:
		return "windows"
	case MacOS:
		return "macos"
	default:
		return "unix"
	}
}

// FromGOOS maps a GOOS value to a Platform. Anything that is not Windows or
// macOS is treated as a Unix-like system.
func FromGOOS(goos string) Platform {
	switch goos {
	case "windows":
		return Windows
	case "darwin", "ios":
		return MacOS
	default:
		return Unix
	}
}

// Current returns the Platform of the running binary.
func Current() Platform {
	return FromGOOS(runtime.GOOS)
}

// Info describes the host for diagnostics.
type Info struct {
	Platform Platform
	OS       string // runtime.GOOS
	Arch     string // runtime.GOARCH
	Distro   string // e.g. "ubuntu", "darwin", "Microsoft Windows 11 Pro"
	Family   string
	Version  string
}

// Detect identifies the host. Distribution details come from gopsutil and are
// left empty when detection fails; only a cancelled context is an error.
func Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		Platform: Current(),
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
	}

	distro, family, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return info, nil
	}

	info.Distro = distro
	info.Family = family
	info.Version = version
	return info, nil
}
