// Package paths resolves every filesystem location the engine consults.
// It follows the override pattern cmd/sand/main.go uses for CloneRoot:
// take a root, derive every default location under it, and let a named
// environment variable override any one of them individually.
package paths

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Paths is an immutable record of fully-resolved locations. Construct it
// once via FromEnv or WithRoot; never mutate it afterward.
type Paths struct {
	Root string

	Run          string
	RunCI        string
	RunCICfg     string
	RunDIResult  string
	VarLibCloud  string
	DIConfig     string
	ProcCmdline  string
	Proc1Cmdline string
	Proc1Environ string
	ProcUptime   string
	SysClassDMI  string
	EtcCloud     string
	EtcCICfg     string
	EtcCICfgD    string
}

// envOverride is the PATH_* environment variable name for each field.
var envOverride = map[string]string{
	"Run":          "PATH_RUN",
	"RunCI":        "PATH_RUN_CI",
	"RunCICfg":     "PATH_RUN_CI_CFG",
	"RunDIResult":  "PATH_RUN_DI_RESULT",
	"VarLibCloud":  "PATH_VAR_LIB_CLOUD",
	"DIConfig":     "PATH_DI_CONFIG",
	"ProcCmdline":  "PATH_PROC_CMDLINE",
	"Proc1Cmdline": "PATH_PROC_1_CMDLINE",
	"Proc1Environ": "PATH_PROC_1_ENVIRON",
	"ProcUptime":   "PATH_PROC_UPTIME",
	"SysClassDMI":  "PATH_SYS_CLASS_DMI_ID",
	"EtcCloud":     "PATH_ETC_CLOUD",
	"EtcCICfg":     "PATH_ETC_CI_CFG",
	"EtcCICfgD":    "PATH_ETC_CI_CFG_D",
}

// FromEnv builds a Paths from PATH_ROOT (default "/") and any PATH_*
// overrides present in the environment.
func FromEnv() *Paths {
	root := os.Getenv("PATH_ROOT")
	if root == "" {
		root = "/"
	}
	p := WithRoot(root)
	return p.withOverrides(os.LookupEnv)
}

// WithRoot builds a Paths with every field at its default location under
// root, ignoring the environment. Intended for tests that want isolation
// without environment leakage.
func WithRoot(root string) *Paths {
	j := func(parts ...string) string {
		return filepath.Join(append([]string{root}, parts...)...)
	}
	return &Paths{
		Root:         root,
		Run:          j("run"),
		RunCI:        j("run", "cloud-init"),
		RunCICfg:     j("run", "cloud-init", "cloud.cfg"),
		RunDIResult:  j("run", "cloud-init", ".ds-identify.result"),
		VarLibCloud:  j("var", "lib", "cloud"),
		DIConfig:     j("etc", "cloud", "ds-identify.cfg"),
		ProcCmdline:  j("proc", "cmdline"),
		Proc1Cmdline: j("proc", "1", "cmdline"),
		Proc1Environ: j("proc", "1", "environ"),
		ProcUptime:   j("proc", "uptime"),
		SysClassDMI:  j("sys", "class", "dmi", "id"),
		EtcCloud:     j("etc", "cloud"),
		EtcCICfg:     j("etc", "cloud", "cloud.cfg"),
		EtcCICfgD:    j("etc", "cloud", "cloud.cfg.d"),
	}
}

func (p *Paths) withOverrides(lookup func(string) (string, bool)) *Paths {
	out := *p
	for field, env := range envOverride {
		v, ok := lookup(env)
		if !ok || v == "" {
			continue
		}
		switch field {
		case "Run":
			out.Run = v
		case "RunCI":
			out.RunCI = v
		case "RunCICfg":
			out.RunCICfg = v
		case "RunDIResult":
			out.RunDIResult = v
		case "VarLibCloud":
			out.VarLibCloud = v
		case "DIConfig":
			out.DIConfig = v
		case "ProcCmdline":
			out.ProcCmdline = v
		case "Proc1Cmdline":
			out.Proc1Cmdline = v
		case "Proc1Environ":
			out.Proc1Environ = v
		case "ProcUptime":
			out.ProcUptime = v
		case "SysClassDMI":
			out.SysClassDMI = v
		case "EtcCloud":
			out.EtcCloud = v
		case "EtcCICfg":
			out.EtcCICfg = v
		case "EtcCICfgD":
			out.EtcCICfgD = v
		}
	}
	return &out
}

// EtcCICfgPaths returns etc_ci_cfg followed by every *.cfg entry inside
// etc_ci_cfg_d, in the directory's natural (sorted) order. Traversal is
// non-recursive.
func (p *Paths) EtcCICfgPaths() []string {
	out := []string{p.EtcCICfg}
	entries, err := os.ReadDir(p.EtcCICfgD)
	if err != nil {
		return out
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".cfg") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, n := range names {
		out = append(out, filepath.Join(p.EtcCICfgD, n))
	}
	return out
}
