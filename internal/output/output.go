// Package output serializes a decision as the generated cloud-init
// configuration fragment (spec.md 4.9).
package output

import (
	"os"
	"strings"

	"github.com/banksean/ds-identify/internal/datasource"
	"github.com/banksean/ds-identify/internal/decide"
	"github.com/banksean/ds-identify/internal/dilog"
	"github.com/banksean/ds-identify/internal/paths"
	"github.com/banksean/ds-identify/internal/policy"
)

// Render builds the textual content of run_ci_cfg for d. It does not
// write anything; Write does.
func Render(d decide.Decision) string {
	var body strings.Builder

	if d.CommentOnly != "" {
		for _, line := range strings.Split(d.CommentOnly, "\n") {
			body.WriteString("# " + line + "\n")
		}
	}

	if len(d.Selected) > 0 {
		body.WriteString(renderDatasourceList(d.Selected) + "\n")
		if d.ExtraLines != "" {
			body.WriteString(d.ExtraLines + "\n")
		}
	}

	content := body.String()
	if d.Mode != policy.ModeReport {
		return content
	}
	return reportWrap(content)
}

// renderDatasourceList renders "datasource_list: [a, b, c]", appending
// None as a fallback entry when not already present and there is at
// least one other entry (spec.md 9, recommended rule for an
// underspecified behavior).
func renderDatasourceList(list []datasource.Datasource) string {
	names := make([]string, 0, len(list)+1)
	hasNone := false
	for _, d := range list {
		names = append(names, d.String())
		if d.IsNone() {
			hasNone = true
		}
	}
	if len(names) > 0 && !hasNone {
		names = append(names, "None")
	}
	return "datasource_list: [" + strings.Join(names, ", ") + "]"
}

// reportWrap indents every non-empty line by two spaces beneath a
// leading "di_report:" header, per spec.md 4.9's Report mode shape.
func reportWrap(content string) string {
	var out strings.Builder
	out.WriteString("di_report:\n")
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		if line == "" {
			out.WriteString("\n")
			continue
		}
		out.WriteString("  " + line + "\n")
	}
	return out.String()
}

// Write writes run_ci_cfg for d, unless d.WriteOutput is false (the
// Enabled/Disabled early-exit paths must not touch the output file,
// spec.md testable properties 2 and 3).
func Write(p *paths.Paths, d decide.Decision, log *dilog.Logger) {
	if !d.WriteOutput {
		return
	}
	if err := os.MkdirAll(p.RunCI, 0o755); err != nil {
		log.Error("output: cannot create run_ci directory", "error", err)
		return
	}
	if err := os.WriteFile(p.RunCICfg, []byte(Render(d)), 0o644); err != nil {
		log.Error("output: write failed", "error", err)
	}
}
