// Package decide implements the DecisionArbiter: spec.md 4.7 reduces
// per-probe results into a final datasource list, optional extra
// configuration fragment, and exit code.
package decide

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/banksean/ds-identify/internal/datasource"
	"github.com/banksean/ds-identify/internal/dilog"
	"github.com/banksean/ds-identify/internal/facts"
	"github.com/banksean/ds-identify/internal/paths"
	"github.com/banksean/ds-identify/internal/policy"
	"github.com/banksean/ds-identify/internal/probes"
)

// Decision is the arbiter's output.
type Decision struct {
	Selected    []datasource.Datasource
	ExtraLines  string
	ExitCode    int
	WriteOutput bool // false means no run_ci_cfg write should happen at all
	CommentOnly string
	Mode        policy.Mode
}

// Arbitrate runs the full §4.7 reduction.
func Arbitrate(cfg policy.Config, list []datasource.Datasource, snap *facts.Snapshot, p *paths.Paths, log *dilog.Logger) Decision {
	switch cfg.Policy.Mode {
	case policy.ModeDisabled:
		return Decision{ExitCode: 1, WriteOutput: false, Mode: cfg.Policy.Mode}
	case policy.ModeEnabled:
		return Decision{ExitCode: 0, WriteOutput: false, Mode: cfg.Policy.Mode}
	}

	if cfg.DSName != nil {
		return Decision{
			Selected:    []datasource.Datasource{datasource.New(*cfg.DSName)},
			ExitCode:    0,
			WriteOutput: true,
			Mode:        cfg.Policy.Mode,
		}
	}

	if manualClean(p) {
		return Decision{
			ExitCode:    0,
			WriteOutput: true,
			CommentOnly: "manual-clean marker present; cloud-init left enabled without probing",
			Mode:        cfg.Policy.Mode,
		}
	}

	if len(list) == 1 || (len(list) == 2 && list[1].IsNone()) {
		return Decision{Selected: list, ExitCode: 0, WriteOutput: true, Mode: cfg.Policy.Mode}
	}

	var foundList, maybeList []datasource.Datasource
	var foundExtra, maybeExtra []string

	for _, ds := range list {
		if ds.IsNone() {
			continue
		}
		if ds.Unknown {
			log.Warn("datasource list: unknown datasource, skipping", "name", ds.Name)
			continue
		}
		probe, ok := probes.Lookup(ds.Name)
		if !ok {
			log.Warn("datasource list: no probe registered, skipping", "name", ds.Name)
			continue
		}
		log.Debug(2, "checking for datasource", "name", ds.Name)
		result := probe(snap, probes.SeedDir(p, ds.Name))
		switch result.Status {
		case datasource.Found:
			foundList = append(foundList, ds)
			if result.Extra != "" {
				foundExtra = append(foundExtra, result.Extra)
			}
		case datasource.Maybe:
			maybeList = append(maybeList, ds)
			if result.Extra != "" {
				maybeExtra = append(maybeExtra, result.Extra)
			}
		}
	}

	if len(foundList) > 0 {
		selected := foundList
		if cfg.Policy.OnFound == policy.OnFoundFirst {
			selected = foundList[:1]
		}
		return Decision{
			Selected:    selected,
			ExtraLines:  strings.Join(foundExtra, "\n"),
			ExitCode:    0,
			WriteOutput: true,
			Mode:        cfg.Policy.Mode,
		}
	}

	if len(maybeList) > 0 && cfg.Policy.OnMaybe != policy.OnMaybeNone {
		return Decision{
			Selected:    maybeList,
			ExtraLines:  strings.Join(maybeExtra, "\n"),
			ExitCode:    0,
			WriteOutput: true,
			Mode:        cfg.Policy.Mode,
		}
	}

	return negativeResult(cfg, p, log)
}

func manualClean(p *paths.Paths) bool {
	_, err := os.Stat(filepath.Join(p.VarLibCloud, "instance", "manual-clean"))
	return err == nil
}

// negativeResult implements step 9: nothing was Found or accepted as
// Maybe, so exit per the (mode, on_notfound) matrix in spec.md 4.7.
func negativeResult(cfg policy.Config, p *paths.Paths, log *dilog.Logger) Decision {
	comment := "no datasource found"

	var exitCode int
	switch {
	case cfg.Policy.Mode == policy.ModeSearch && cfg.Policy.OnNotFound == policy.OnNotFoundDisabled:
		exitCode = 1
	case cfg.Policy.Mode == policy.ModeSearch && cfg.Policy.OnNotFound == policy.OnNotFoundEnabled:
		exitCode = 0
	case cfg.Policy.Mode == policy.ModeReport:
		exitCode = 0
		if cfg.Policy.OnNotFound == policy.OnNotFoundDisabled {
			comment = "no datasource found; would disable cloud-init"
		} else {
			comment = "no datasource found; would enable cloud-init"
		}
	default:
		exitCode = 1
	}

	log.Debug(1, "no datasource found", "mode", cfg.Policy.Mode, "on_notfound", cfg.Policy.OnNotFound)
	return Decision{ExitCode: exitCode, WriteOutput: true, CommentOnly: comment, Mode: cfg.Policy.Mode}
}
