// Command ds-identify is a boot-time probe that inspects a host's
// environment and decides which cloud-init datasource to enable, or
// whether to disable cloud-init entirely. See spec.md / SPEC_FULL.md for
// the full contract.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/banksean/ds-identify/internal/cache"
	"github.com/banksean/ds-identify/internal/decide"
	"github.com/banksean/ds-identify/internal/dilog"
	"github.com/banksean/ds-identify/internal/dslist"
	"github.com/banksean/ds-identify/internal/facts"
	"github.com/banksean/ds-identify/internal/factdump"
	"github.com/banksean/ds-identify/internal/output"
	"github.com/banksean/ds-identify/internal/paths"
	"github.com/banksean/ds-identify/internal/policy"
)

// pathDirs is ensured to be on $PATH before any subprocess is invoked,
// per spec.md 6.
var pathDirs = []string{"/sbin", "/usr/sbin", "/bin", "/usr/bin"}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run contains all of main's logic, factored out so tests can drive it
// without touching the real process environment (mirrors
// cmd/sand/main.go's separation of flag parsing from action).
func run(args []string) int {
	ensurePathDirs()

	p := paths.FromEnv()
	debugLevel := envInt("DEBUG_LEVEL", -1)
	logFile := os.Getenv("DI_LOG")
	if logFile == "" {
		logFile = filepath.Join(p.RunCI, "ds-identify.log")
	}
	log := dilog.New(logFile, debugLevel)
	defer log.Close()

	force, extra := parseForce(args)
	if len(extra) > 0 {
		log.Debug(1, "ignoring unrecognized arguments", "args", strings.Join(extra, " "))
	}

	switch mainMode := os.Getenv("DI_MAIN"); mainMode {
	case "", "main":
		return runMain(p, force, log)
	case "print_info":
		return runPrintInfo(p, log)
	default:
		fmt.Fprintf(os.Stderr, "ds-identify: invalid DI_MAIN=%q\n", mainMode)
		return 3
	}
}

func runMain(p *paths.Paths, force bool, log *dilog.Logger) int {
	if code, hit := cache.Lookup(p, force, log); hit {
		log.Debug(1, "result cache hit, skipping probing", "exit_code", code)
		return code
	}

	ctx := context.Background()
	runner := facts.NewExecRunner()
	snap := facts.Collect(ctx, p, runner, log)

	cfg := policy.Resolve(p, snap.KernelCmdline, snap.Uname, log)
	list := dslist.Read(p, log)

	decision := decide.Arbitrate(cfg, list, snap, p, log)
	output.Write(p, decision, log)
	cache.Store(p, decision.ExitCode, log)

	return decision.ExitCode
}

func runPrintInfo(p *paths.Paths, log *dilog.Logger) int {
	ctx := context.Background()
	runner := facts.NewExecRunner()
	snap := facts.Collect(ctx, p, runner, log)
	fmt.Print(factdump.Dump(snap))
	return 0
}

// parseForce recognizes exactly one positional flag, --force, and only
// in first position (spec.md 4.8, 6); every other argument, including a
// later "--force", is tolerated and returned for logging.
func parseForce(args []string) (force bool, unrecognized []string) {
	if len(args) > 0 && args[0] == "--force" {
		force = true
		args = args[1:]
	}
	unrecognized = append(unrecognized, args...)
	return force, unrecognized
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func ensurePathDirs() {
	current := os.Getenv("PATH")
	existing := map[string]bool{}
	for _, d := range strings.Split(current, ":") {
		existing[d] = true
	}
	updated := current
	for _, d := range pathDirs {
		if !existing[d] {
			updated += ":" + d
		}
	}
	os.Setenv("PATH", updated)
}
