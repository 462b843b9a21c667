package decide

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/banksean/ds-identify/internal/datasource"
	"github.com/banksean/ds-identify/internal/dilog"
	"github.com/banksean/ds-identify/internal/facts"
	"github.com/banksean/ds-identify/internal/paths"
	"github.com/banksean/ds-identify/internal/policy"
)

func testLogger(t *testing.T) *dilog.Logger {
	t.Helper()
	log := dilog.New("stderr", -1)
	t.Cleanup(func() { log.Close() })
	return log
}

func TestArbitrateDisabledMode(t *testing.T) {
	cfg := policy.Config{Policy: policy.Policy{Mode: policy.ModeDisabled}}
	p := paths.WithRoot(t.TempDir())
	d := Arbitrate(cfg, nil, &facts.Snapshot{}, p, testLogger(t))
	if d.ExitCode != 1 || d.WriteOutput {
		t.Errorf("Decision = %+v, want exit 1, no write", d)
	}
}

func TestArbitrateEnabledMode(t *testing.T) {
	cfg := policy.Config{Policy: policy.Policy{Mode: policy.ModeEnabled}}
	p := paths.WithRoot(t.TempDir())
	d := Arbitrate(cfg, nil, &facts.Snapshot{}, p, testLogger(t))
	if d.ExitCode != 0 || d.WriteOutput {
		t.Errorf("Decision = %+v, want exit 0, no write", d)
	}
}

func TestArbitrateExplicitDSName(t *testing.T) {
	name := "NoCloud"
	cfg := policy.Config{DSName: &name, Policy: policy.Policy{Mode: policy.ModeSearch}}
	p := paths.WithRoot(t.TempDir())
	d := Arbitrate(cfg, []datasource.Datasource{datasource.New("Ec2")}, &facts.Snapshot{}, p, testLogger(t))
	if d.ExitCode != 0 || len(d.Selected) != 1 || d.Selected[0].Name != "NoCloud" {
		t.Errorf("Decision = %+v", d)
	}
}

func TestArbitrateManualClean(t *testing.T) {
	root := t.TempDir()
	p := paths.WithRoot(root)
	if err := os.MkdirAll(filepath.Join(p.VarLibCloud, "instance"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(p.VarLibCloud, "instance", "manual-clean"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := policy.Config{Policy: policy.Policy{Mode: policy.ModeSearch}}
	d := Arbitrate(cfg, []datasource.Datasource{datasource.New("Ec2"), datasource.New("Azure")}, &facts.Snapshot{}, p, testLogger(t))
	if d.ExitCode != 0 || d.CommentOnly == "" {
		t.Errorf("Decision = %+v, want comment-only exit 0", d)
	}
}

func TestArbitrateSingleEntryListBypassesProbing(t *testing.T) {
	cfg := policy.Config{Policy: policy.Policy{Mode: policy.ModeSearch}}
	p := paths.WithRoot(t.TempDir())
	list := []datasource.Datasource{datasource.New("Ec2")}
	d := Arbitrate(cfg, list, &facts.Snapshot{}, p, testLogger(t))
	if len(d.Selected) != 1 || d.Selected[0].Name != "Ec2" {
		t.Errorf("Decision.Selected = %v", d.Selected)
	}
}

func TestArbitrateTwoEntryListWithNoneBypassesProbing(t *testing.T) {
	cfg := policy.Config{Policy: policy.Policy{Mode: policy.ModeSearch}}
	p := paths.WithRoot(t.TempDir())
	list := []datasource.Datasource{datasource.New("Ec2"), datasource.None}
	d := Arbitrate(cfg, list, &facts.Snapshot{}, p, testLogger(t))
	if len(d.Selected) != 2 {
		t.Errorf("Decision.Selected = %v, want verbatim 2-entry list", d.Selected)
	}
}

func TestArbitrateFoundFirst(t *testing.T) {
	cfg := policy.Config{Policy: policy.Policy{Mode: policy.ModeSearch, OnFound: policy.OnFoundFirst}}
	p := paths.WithRoot(t.TempDir())
	snap := &facts.Snapshot{KernelCmdline: "ds=nocloud"}
	list := []datasource.Datasource{datasource.New("NoCloud"), datasource.New("ConfigDrive"), datasource.New("Ec2")}
	d := Arbitrate(cfg, list, snap, p, testLogger(t))
	if len(d.Selected) != 1 || d.Selected[0].Name != "NoCloud" {
		t.Errorf("Decision.Selected = %v, want [NoCloud]", d.Selected)
	}
}

func TestArbitrateUnknownSkipped(t *testing.T) {
	cfg := policy.Config{Policy: policy.Policy{Mode: policy.ModeSearch, OnNotFound: policy.OnNotFoundDisabled}}
	p := paths.WithRoot(t.TempDir())
	list := []datasource.Datasource{datasource.New("TotallyMadeUp"), datasource.New("Ec2"), datasource.New("Azure")}
	d := Arbitrate(cfg, list, &facts.Snapshot{}, p, testLogger(t))
	if d.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1 (nothing found, notfound=disable)", d.ExitCode)
	}
}

func TestArbitrateNotFoundMatrix(t *testing.T) {
	cases := []struct {
		mode       policy.Mode
		onNotFound policy.OnNotFound
		wantExit   int
	}{
		{policy.ModeSearch, policy.OnNotFoundDisabled, 1},
		{policy.ModeSearch, policy.OnNotFoundEnabled, 0},
		{policy.ModeReport, policy.OnNotFoundDisabled, 0},
		{policy.ModeReport, policy.OnNotFoundEnabled, 0},
	}
	p := paths.WithRoot(t.TempDir())
	for _, c := range cases {
		cfg := policy.Config{Policy: policy.Policy{Mode: c.mode, OnNotFound: c.onNotFound}}
		list := []datasource.Datasource{datasource.New("Ec2"), datasource.New("Azure")}
		d := Arbitrate(cfg, list, &facts.Snapshot{}, p, testLogger(t))
		if d.ExitCode != c.wantExit {
			t.Errorf("mode=%v notfound=%v: ExitCode = %d, want %d", c.mode, c.onNotFound, d.ExitCode, c.wantExit)
		}
	}
}
