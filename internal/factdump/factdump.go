// Package factdump implements the legacy DI_MAIN=print_info textual
// dump of a FactSnapshot (SPEC_FULL.md §D, grounded in
// original_source/tools/ds-identify/src/info.rs).
package factdump

import (
	"fmt"
	"strings"

	"github.com/banksean/ds-identify/internal/facts"
)

// Dump renders snap as flat key=value lines, the format the original
// implementation's info dump uses.
func Dump(snap *facts.Snapshot) string {
	var b strings.Builder
	line := func(k, v string) { fmt.Fprintf(&b, "%s=%s\n", k, v) }

	line("pid_1_product_name", snap.PID1ProductName)
	line("kernel_name", snap.Uname.KernelName)
	line("kernel_release", snap.Uname.KernelRelease)
	line("kernel_version", snap.Uname.KernelVersion)
	line("machine", snap.Uname.Machine)
	line("variant", snap.Uname.OS)
	line("nodename", snap.Uname.NodeName)
	line("virt", snap.Virt)
	line("kernel_cmdline", snap.KernelCmdline)
	line("sys_vendor", orNone(snap.Smbios.SysVendor))
	line("product_name", orNone(snap.Smbios.ProductName))
	line("product_uuid", orNone(snap.Smbios.ProductUUID))
	line("product_serial", orNone(snap.Smbios.ProductSerial))
	line("chassis_asset_tag", orNone(snap.Smbios.ChassisAssetTag))
	line("board_name", orNone(snap.Smbios.BoardName))
	line("fs_labels", snap.FS.FSLabels)
	line("fs_uuids", snap.FS.FSUUIDs)
	line("iso9660_devs", snap.FS.ISO9660Devs)

	return b.String()
}

func orNone(s *string) string {
	if s == nil {
		return "None"
	}
	return *s
}
