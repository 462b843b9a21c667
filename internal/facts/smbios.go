package facts

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/banksean/ds-identify/internal/dilog"
	"github.com/banksean/ds-identify/internal/paths"
)

// dmiFieldFiles maps SmbiosFields members to their /sys/class/dmi/id
// file names.
var dmiFieldFiles = []struct {
	file string
	set  func(*SmbiosFields, string)
}{
	{"sys_vendor", func(s *SmbiosFields, v string) { s.SysVendor = &v }},
	{"product_name", func(s *SmbiosFields, v string) { s.ProductName = &v }},
	{"product_uuid", func(s *SmbiosFields, v string) { s.ProductUUID = &v }},
	{"product_serial", func(s *SmbiosFields, v string) { s.ProductSerial = &v }},
	{"chassis_asset_tag", func(s *SmbiosFields, v string) { s.ChassisAssetTag = &v }},
	{"board_name", func(s *SmbiosFields, v string) { s.BoardName = &v }},
}

// dmidecodeFields is the subset dmidecode --string exposes the same way
// sysfs does; board_name has no dmidecode --string equivalent.
var dmidecodeFields = []struct {
	arg string
	set func(*SmbiosFields, string)
}{
	{"system-manufacturer", func(s *SmbiosFields, v string) { s.SysVendor = &v }},
	{"system-product-name", func(s *SmbiosFields, v string) { s.ProductName = &v }},
	{"system-uuid", func(s *SmbiosFields, v string) { s.ProductUUID = &v }},
	{"system-serial-number", func(s *SmbiosFields, v string) { s.ProductSerial = &v }},
	{"chassis-asset-tag", func(s *SmbiosFields, v string) { s.ChassisAssetTag = &v }},
}

// collectSmbios reads /sys/class/dmi/id/* when present; otherwise it
// shells out to dmidecode. On FreeBSD neither path applies and every
// field degrades to unread (spec.md 4.3 step 5, SPEC_FULL.md §D).
func collectSmbios(ctx context.Context, p *paths.Paths, r Runner, log *dilog.Logger) SmbiosFields {
	if runtime.GOOS == "freebsd" {
		log.Debug(1, "SMBIOS reading is unimplemented on FreeBSD, all fields unread")
		return SmbiosFields{}
	}

	if info, err := os.Stat(p.SysClassDMI); err == nil && info.IsDir() {
		var s SmbiosFields
		for _, f := range dmiFieldFiles {
			data, err := os.ReadFile(filepath.Join(p.SysClassDMI, f.file))
			if err != nil {
				continue // permission denied or missing file: leave nil
			}
			f.set(&s, strings.TrimSpace(string(data)))
		}
		return s
	}

	var s SmbiosFields
	for _, f := range dmidecodeFields {
		out, err := r.Run(ctx, "dmidecode", "--quiet", "--string="+f.arg)
		if err != nil {
			continue
		}
		f.set(&s, strings.TrimSpace(out))
	}
	return s
}
