// Package dslist resolves the ordered list of datasources to probe
// (spec.md 4.5).
package dslist

import (
	"os"
	"strings"

	"github.com/banksean/ds-identify/internal/cfgtext"
	"github.com/banksean/ds-identify/internal/datasource"
	"github.com/banksean/ds-identify/internal/dilog"
	"github.com/banksean/ds-identify/internal/paths"
)

// defaultList is the built-in fallback when no override is found
// anywhere else.
var defaultList = strings.Fields(
	"MAAS ConfigDrive NoCloud AltCloud Azure Bigstep CloudSigma CloudStack " +
		"DigitalOcean Vultr AliYun Ec2 GCE OpenNebula OpenStack OVF SmartOS " +
		"Scaleway Hetzner IBMCloud Oracle Exoscale RbxCloud UpCloud VMware LXD NWCS",
)

// Read resolves the datasource list: DI_DSNAME env override first, then
// the last datasource_list: line across the config drop-in chain, then
// the built-in default.
func Read(p *paths.Paths, log *dilog.Logger) []datasource.Datasource {
	if env := os.Getenv("DI_DSNAME"); env != "" {
		return toDatasources(strings.Fields(env))
	}

	if names, ok := readFromConfigFiles(p, log); ok {
		return toDatasources(names)
	}

	return toDatasources(defaultList)
}

func toDatasources(names []string) []datasource.Datasource {
	out := make([]datasource.Datasource, 0, len(names))
	for _, n := range names {
		out = append(out, datasource.New(n))
	}
	return out
}

// readFromConfigFiles scans etc_ci_cfg_paths() in order, keeping the
// last datasource_list: line seen in any of them (a later drop-in wins).
func readFromConfigFiles(p *paths.Paths, log *dilog.Logger) ([]string, bool) {
	var lastValue string
	var found bool

	for _, path := range p.EtcCICfgPaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = cfgtext.StripComment(line)
			if line == "" {
				continue
			}
			key, value, ok := cfgtext.SplitKV(line)
			if !ok || key != "datasource_list" {
				continue
			}
			lastValue = value
			found = true
		}
	}

	if !found {
		return nil, false
	}
	items := cfgtext.ParseYAMLArray(lastValue)
	if len(items) == 0 {
		log.Warn("datasource_list: present but empty after parsing", "raw", lastValue)
		return nil, false
	}
	return items, true
}
