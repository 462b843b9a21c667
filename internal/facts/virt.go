package facts

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/banksean/ds-identify/internal/paths"
)

// collectVirt determines the virtualization/container technology per
// spec.md 4.3 step 2: prefer systemd-detect-virt when systemd is
// present, fall back to sysctl probing on FreeBSD, otherwise
// "unavailable".
func collectVirt(ctx context.Context, p *paths.Paths, r Runner, kernelName string) string {
	if info, err := os.Stat(filepath.Join(p.Run, "systemd")); err == nil && info.IsDir() {
		out, _ := r.Run(ctx, "systemd-detect-virt")
		out = strings.TrimSpace(out)
		if out == "" {
			return "none"
		}
		return out
	}

	if kernelName == "FreeBSD" {
		return collectVirtFreeBSD(ctx, r)
	}

	return Unavailable
}

func collectVirtFreeBSD(ctx context.Context, r Runner) string {
	if jailed, _ := r.Run(ctx, "sysctl", "-qn", "security.jail.jailed"); strings.TrimSpace(jailed) == "1" {
		return "jail"
	}
	guest, _ := r.Run(ctx, "sysctl", "-qn", "kern.vm_guest")
	switch strings.TrimSpace(guest) {
	case "hv":
		return "microsoft"
	case "vbox":
		return "oracle"
	case "generic":
		return "vm-other"
	case "":
		return Unavailable
	default:
		return strings.TrimSpace(guest)
	}
}
