// Package cache implements the result cache: a short-circuit on rerun
// controlling re-entry semantics (spec.md 4.8).
package cache

import (
	"os"
	"strconv"
	"strings"

	"github.com/banksean/ds-identify/internal/dilog"
	"github.com/banksean/ds-identify/internal/paths"
)

// Lookup returns a cached exit code and true if run_ci_cfg and
// run_di_result both exist, force is false, and run_di_result's trimmed
// content is exactly "0" or "1". Any other content is a cache miss.
func Lookup(p *paths.Paths, force bool, log *dilog.Logger) (code int, hit bool) {
	if force {
		return 0, false
	}
	if _, err := os.Stat(p.RunCICfg); err != nil {
		return 0, false
	}
	data, err := os.ReadFile(p.RunDIResult)
	if err != nil {
		return 0, false
	}
	trimmed := strings.TrimSpace(string(data))
	switch trimmed {
	case "0":
		return 0, true
	case "1":
		return 1, true
	}
	log.Warn("result cache: corrupt content, treating as miss", "content", trimmed)
	return 0, false
}

// Store writes the single ASCII decimal exit code to run_di_result,
// creating run_ci if missing.
func Store(p *paths.Paths, exitCode int, log *dilog.Logger) {
	if err := os.MkdirAll(p.RunCI, 0o755); err != nil {
		log.Error("result cache: cannot create run_ci directory", "error", err)
		return
	}
	if err := os.WriteFile(p.RunDIResult, []byte(strconv.Itoa(exitCode)), 0o644); err != nil {
		log.Error("result cache: write failed", "error", err)
	}
}
