package facts

import (
	"os"
	"strings"

	"github.com/banksean/ds-identify/internal/paths"
)

// collectPID1ProductName reads the NUL-separated KEY=VALUE PID-1 environ
// file and returns the value of the key that lowercases to
// "product_name", or Unavailable if the file is unreadable or the key is
// absent.
func collectPID1ProductName(p *paths.Paths) string {
	data, err := os.ReadFile(p.Proc1Environ)
	if err != nil {
		return Unavailable
	}
	for _, kv := range strings.Split(string(data), "\x00") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if strings.ToLower(k) == "product_name" {
			return v
		}
	}
	return Unavailable
}

// collectKernelCmdline reads the kernel command line, with a
// container-specific fallback: containers don't see a real
// /proc/cmdline, so PID-1's own cmdline stands in for it.
func collectKernelCmdline(p *paths.Paths, isContainer bool) string {
	if isContainer {
		data, err := os.ReadFile(p.Proc1Cmdline)
		if err != nil {
			return UnavailableContainer
		}
		cmdline := strings.ReplaceAll(string(data), "\x00", " ")
		cmdline = strings.TrimSpace(cmdline)
		if cmdline == "" {
			return UnavailableContainer
		}
		return cmdline
	}

	data, err := os.ReadFile(p.ProcCmdline)
	if err != nil {
		return UnavailableNoCmdline
	}
	return string(data)
}
