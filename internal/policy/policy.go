// Package policy merges defaults, the user config file, and kernel
// cmdline overrides into a Policy and Config (spec.md 4.4).
package policy

import (
	"os"
	"strings"

	"github.com/banksean/ds-identify/internal/cfgtext"
	"github.com/banksean/ds-identify/internal/dilog"
	"github.com/banksean/ds-identify/internal/facts"
	"github.com/banksean/ds-identify/internal/paths"
)

type Mode string

const (
	ModeSearch   Mode = "search"
	ModeReport   Mode = "report"
	ModeEnabled  Mode = "enabled"
	ModeDisabled Mode = "disabled"
)

type OnFound string

const (
	OnFoundFirst OnFound = "first"
	OnFoundAll   OnFound = "all"
)

type OnMaybe string

const (
	OnMaybeAll  OnMaybe = "all"
	OnMaybeNone OnMaybe = "none"
)

type OnNotFound string

const (
	OnNotFoundEnabled  OnNotFound = "enabled"
	OnNotFoundDisabled OnNotFound = "disabled"
)

// Policy is the set of knobs controlling how probe results become a
// decision.
type Policy struct {
	Mode       Mode
	OnFound    OnFound
	OnMaybe    OnMaybe
	OnNotFound OnNotFound
}

// Config is the resolved user intent: an optional explicit datasource
// override plus the merged Policy.
type Config struct {
	DSName *string
	Policy Policy
}

// Default returns the machine-dependent baseline policy. Hosts without
// DMI must not end up accidentally disabled just because no probe fired.
func Default(machine string) Policy {
	if facts.HasDMI(machine) {
		return Policy{Mode: ModeSearch, OnFound: OnFoundAll, OnMaybe: OnMaybeAll, OnNotFound: OnNotFoundDisabled}
	}
	return Policy{Mode: ModeSearch, OnFound: OnFoundAll, OnMaybe: OnMaybeAll, OnNotFound: OnNotFoundEnabled}
}

// Resolve merges Default(uname.Machine), the di_config file, and kernel
// cmdline tokens into a Config.
func Resolve(p *paths.Paths, kernelCmdline string, uname facts.UnameInfo, log *dilog.Logger) Config {
	cfg := Config{Policy: Default(uname.Machine)}

	if data, err := os.ReadFile(p.DIConfig); err == nil {
		applyConfigFile(&cfg, string(data), log)
	}

	applyCmdline(&cfg, kernelCmdline, log)

	return cfg
}

func applyConfigFile(cfg *Config, data string, log *dilog.Logger) {
	for _, line := range strings.Split(data, "\n") {
		line = cfgtext.StripComment(line)
		if line == "" {
			continue
		}
		key, value, ok := cfgtext.SplitKV(line)
		if !ok {
			log.Warn("di_config: malformed line, missing ':'", "line", line)
			continue
		}
		value = cfgtext.Unquote(value)
		switch key {
		case "datasource":
			v := value
			cfg.DSName = &v
		case "policy":
			applyPolicyString(cfg, value, log)
		}
	}
}

func applyCmdline(cfg *Config, cmdline string, log *dilog.Logger) {
	for _, tok := range strings.Fields(cmdline) {
		switch {
		case strings.HasPrefix(tok, "ci.ds="):
			v := strings.TrimPrefix(tok, "ci.ds=")
			cfg.DSName = &v
		case strings.HasPrefix(tok, "ci.datasource="):
			v := strings.TrimPrefix(tok, "ci.datasource=")
			cfg.DSName = &v
		case strings.HasPrefix(tok, "ci.di.policy="):
			applyPolicyString(cfg, strings.TrimPrefix(tok, "ci.di.policy="), log)
		}
	}
}

// applyPolicyString parses a comma-separated policy string: a bare token
// sets Mode, a k=v token updates one named field. Unknown tokens are
// ignored for backward compatibility; invalid values for a known key are
// warned and the prior value retained.
func applyPolicyString(cfg *Config, s string, log *dilog.Logger) {
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		k, v, hasEq := strings.Cut(tok, "=")
		if !hasEq {
			switch Mode(strings.ToLower(k)) {
			case ModeEnabled, ModeDisabled, ModeSearch, ModeReport:
				cfg.Policy.Mode = Mode(strings.ToLower(k))
			default:
				log.Warn("di.policy: unknown mode token, ignoring", "token", tok)
			}
			continue
		}
		v = strings.ToLower(strings.TrimSpace(v))
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "found":
			switch v {
			case "all":
				cfg.Policy.OnFound = OnFoundAll
			case "first":
				cfg.Policy.OnFound = OnFoundFirst
			default:
				log.Warn("di.policy: invalid found= value, keeping default", "value", v)
			}
		case "maybe":
			switch v {
			case "all":
				cfg.Policy.OnMaybe = OnMaybeAll
			case "none":
				cfg.Policy.OnMaybe = OnMaybeNone
			default:
				log.Warn("di.policy: invalid maybe= value, keeping default", "value", v)
			}
		case "notfound":
			switch v {
			case "enable":
				cfg.Policy.OnNotFound = OnNotFoundEnabled
			case "disable":
				cfg.Policy.OnNotFound = OnNotFoundDisabled
			default:
				log.Warn("di.policy: invalid notfound= value, keeping default", "value", v)
			}
		default:
			// Unknown key, ignored for backward compatibility.
		}
	}
}
