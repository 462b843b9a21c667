package facts

import (
	"context"
	"strings"

	"github.com/banksean/ds-identify/internal/paths"
)

// collectFsInfo shells out to blkid and folds its export-format output
// into the three delimited string views probes consult. Containers never
// get real block-device facts; probing failure degrades every field to
// the same sentinel (spec.md 4.3 step 6).
func collectFsInfo(ctx context.Context, p *paths.Paths, r Runner, isContainer bool) FsInfo {
	if isContainer {
		return FsInfo{FSLabels: UnavailableContainer, ISO9660Devs: UnavailableContainer, FSUUIDs: UnavailableContainer}
	}

	out, err := r.Run(ctx, "blkid", "-c", "/dev/null", "-o", "export")
	if err != nil {
		return FsInfo{FSLabels: UnavailableError, ISO9660Devs: UnavailableError, FSUUIDs: UnavailableError}
	}
	return parseBlkidExport(out)
}

// parseBlkidExport parses groups of KEY=VALUE lines separated by blank
// lines, each group beginning with DEVNAME=. LABEL and LABEL_FATBOOT are
// both accepted as the label; per spec.md 9 (open question), first match
// wins when a record has both.
func parseBlkidExport(out string) FsInfo {
	var labels, isoDevs, uuids strings.Builder

	devname, label, uuid, fstype := "", "", "", ""
	flush := func() {
		if label != "" {
			labels.WriteString(label + ",")
		}
		if uuid != "" {
			uuids.WriteString(uuid + ",")
		}
		if fstype == "iso9660" && devname != "" {
			isoDevs.WriteString(devname + "=" + label + ",")
		}
		devname, label, uuid, fstype = "", "", "", ""
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		key, value, ok := splitExportLine(line)
		if !ok {
			continue
		}
		switch key {
		case "DEVNAME":
			devname = value
		case "LABEL":
			if label == "" {
				label = value
			}
		case "LABEL_FATBOOT":
			if label == "" {
				label = value
			}
		case "UUID":
			uuid = value
		case "TYPE":
			fstype = value
		}
	}
	flush()

	result := FsInfo{FSLabels: labels.String(), ISO9660Devs: isoDevs.String(), FSUUIDs: uuids.String()}
	return result
}

func splitExportLine(line string) (key, value string, ok bool) {
	i := strings.IndexByte(line, '=')
	if i < 0 {
		return "", "", false
	}
	return line[:i], line[i+1:], true
}
