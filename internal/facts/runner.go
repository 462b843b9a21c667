package facts

import (
	"context"
	"os/exec"
	"strings"
)

// Runner executes external host utilities and captures their combined
// output. Every subprocess FactCollector shells out to goes through this
// interface, the same seam system.go uses for the "container" CLI, so
// tests can substitute a fakeRunner instead of touching the real host.
type Runner interface {
	// Run executes name with args and returns trimmed combined
	// stdout+stderr. A non-zero exit is reported as err but output is
	// still returned (some probes care about partial output, e.g.
	// dmidecode --quiet).
	Run(ctx context.Context, name string, args ...string) (output string, err error)
}

type execRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() Runner { return execRunner{} }

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
