package memory

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"video-trimmer/internal/logging"
)

// Profile identifies a device-capability class used to bound upload sizes.
type Profile string

const (
	// ProfileDefault is the desktop/server class (no special constraints).
	ProfileDefault Profile = "default"
	// ProfileMobile is for memory-constrained handheld deployments.
	ProfileMobile Profile = "mobile"
	// ProfileLowMemory is for hosts with at most LowMemoryRAMBytes of RAM.
	ProfileLowMemory Profile = "low-memory"
)

const (
	// DefaultMaxUploadBytes is the upload ceiling for the default profile.
	DefaultMaxUploadBytes = 1 << 30 // 1 GiB
	// MobileMaxUploadBytes is the upload ceiling for the mobile profile.
	MobileMaxUploadBytes = 256 << 20 // 256 MiB
	// LowMemoryMaxUploadBytes is the upload ceiling for the low-memory profile.
	LowMemoryMaxUploadBytes = 512 << 20 // 512 MiB

	// LowMemoryRAMBytes is the total-RAM threshold at or below which a host
	// resolves to the low-memory profile.
	LowMemoryRAMBytes = 4 << 30 // 4 GiB
)

// Policy is the resolved size-limit policy. It is computed once at startup
// and injected into the upload path; nothing re-inspects the environment at
// load time.
type Policy struct {
	Profile Profile

	// MaxUploadBytes is the hard ceiling; uploads above it are rejected.
	MaxUploadBytes int64

	// WarnBytes is the soft threshold; uploads above it succeed but carry
	// a non-fatal size warning.
	WarnBytes int64
}

// Limits allows overriding the per-profile ceilings from configuration.
type Limits struct {
	Default   int64
	Mobile    int64
	LowMemory int64
}

// DefaultLimits returns the built-in per-profile ceilings.
func DefaultLimits() Limits {
	return Limits{
		Default:   DefaultMaxUploadBytes,
		Mobile:    MobileMaxUploadBytes,
		LowMemory: LowMemoryMaxUploadBytes,
	}
}

// ResolvePolicy determines the active policy. An explicit profile (from the
// SIZE_PROFILE env var or config) wins; otherwise the host's total RAM
// decides between default and low-memory. The mobile profile is never
// auto-detected — a server cannot sniff the client's form factor, so the
// operator opts in for kiosk-style deployments.
func ResolvePolicy(explicit Profile, limits Limits) Policy {
	profile := explicit
	if profile == "" {
		profile = detectProfile(totalRAMBytes())
	}

	var maxBytes int64
	switch profile {
	case ProfileMobile:
		maxBytes = limits.Mobile
	case ProfileLowMemory:
		maxBytes = limits.LowMemory
	default:
		profile = ProfileDefault
		maxBytes = limits.Default
	}

	policy := Policy{
		Profile:        profile,
		MaxUploadBytes: maxBytes,
		WarnBytes:      maxBytes / 2,
	}

	logging.Info("Size-limit policy: profile=%s max=%s warn=%s",
		policy.Profile, FormatBytes(policy.MaxUploadBytes), FormatBytes(policy.WarnBytes))

	return policy
}

// ParseProfile converts a config/env string into a Profile. Unknown values
// return the empty Profile, which means "auto-detect".
func ParseProfile(s string) Profile {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default", "desktop":
		return ProfileDefault
	case "mobile":
		return ProfileMobile
	case "low-memory", "lowmemory", "low_memory":
		return ProfileLowMemory
	default:
		return ""
	}
}

// detectProfile maps total host RAM to a profile.
func detectProfile(ramBytes int64) Profile {
	if ramBytes > 0 && ramBytes <= LowMemoryRAMBytes {
		return ProfileLowMemory
	}
	return ProfileDefault
}

// totalRAMBytes reads the host's total memory from /proc/meminfo.
// Returns 0 when it cannot be determined (non-Linux hosts, restricted
// containers), in which case detection falls back to the default profile.
func totalRAMBytes() int64 {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		logging.Debug("Cannot read /proc/meminfo: %v", err)
		return 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0
		}
		return kb * 1024
	}
	return 0
}

// FormatBytes formats bytes into a human-readable string
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
