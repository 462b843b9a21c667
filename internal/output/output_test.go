package output

import (
	"strings"
	"testing"

	"github.com/banksean/ds-identify/internal/datasource"
	"github.com/banksean/ds-identify/internal/decide"
	"github.com/banksean/ds-identify/internal/policy"
)

func TestRenderSearchMode(t *testing.T) {
	d := decide.Decision{
		Selected: []datasource.Datasource{datasource.New("NoCloud")},
		Mode:     policy.ModeSearch,
	}
	got := Render(d)
	if got != "datasource_list: [NoCloud, None]\n" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderDoesNotDoubleAppendNone(t *testing.T) {
	d := decide.Decision{
		Selected: []datasource.Datasource{datasource.New("NoCloud"), datasource.None},
		Mode:     policy.ModeSearch,
	}
	got := Render(d)
	if strings.Count(got, "None") != 1 {
		t.Errorf("Render() = %q, want exactly one None", got)
	}
}

func TestRenderExplicitSingleEntry(t *testing.T) {
	d := decide.Decision{
		Selected: []datasource.Datasource{datasource.New("NoCloud")},
		Mode:     policy.ModeSearch,
	}
	got := Render(d)
	if !strings.HasPrefix(got, "datasource_list: [NoCloud") {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderReportModeIndents(t *testing.T) {
	d := decide.Decision{
		Selected: []datasource.Datasource{datasource.New("Ec2")},
		Mode:     policy.ModeReport,
	}
	got := Render(d)
	if !strings.HasPrefix(got, "di_report:\n") {
		t.Fatalf("Render() = %q, want di_report: header", got)
	}
	if !strings.Contains(got, "  datasource_list: [Ec2, None]") {
		t.Errorf("Render() = %q, want indented body", got)
	}
}

func TestRenderCommentOnly(t *testing.T) {
	d := decide.Decision{CommentOnly: "no datasource found", Mode: policy.ModeSearch}
	got := Render(d)
	if got != "# no datasource found\n" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderWithExtra(t *testing.T) {
	d := decide.Decision{
		Selected:   []datasource.Datasource{datasource.New("NoCloud")},
		ExtraLines: "manual_cache_clean: true",
		Mode:       policy.ModeSearch,
	}
	got := Render(d)
	if !strings.Contains(got, "manual_cache_clean: true") {
		t.Errorf("Render() = %q, missing extra", got)
	}
}
