// Package runinfo describes a single polling run and the host it runs on.
package runinfo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/host"
)

const unknown = "unknown"

type Info struct {
	ID        string    `json:"run_id"`
	Host      string    `json:"host"`
	Platform  string    `json:"platform"`
	StartedAt time.Time `json:"started_at"`
}

// Collect gathers run metadata. Host lookups that fail fall back to
// "unknown"; they never fail the run.
func Collect(now time.Time) Info {
	info := Info{
		ID:        uuid.NewString(),
		Host:      unknown,
		Platform:  unknown,
		StartedAt: now.UTC(),
	}

	hi, err := host.Info()
	if err != nil || hi == nil {
		return info
	}

	if hi.Hostname != "" {
		info.Host = hi.Hostname
	}
	info.Platform = platform(hi)
	return info
}

func platform(hi *host.InfoStat) string {
	switch {
	case hi.Platform != "" && hi.PlatformVersion != "":
		return fmt.Sprintf("%s %s (%s)", hi.Platform, hi.PlatformVersion, hi.KernelArch)
	case hi.Platform != "":
		return hi.Platform
	case hi.OS != "":
		return hi.OS
	}
	return unknown
}
