// Package probes implements the per-datasource detection predicates
// spec.md 4.6 describes as a catalogue, not an architecture: each probe
// consumes a *facts.Snapshot and returns a datasource.Classification,
// reading nothing but the snapshot, well-known seed paths, and (for LXD)
// the /dev/lxd/sock socket.
package probes

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/banksean/ds-identify/internal/datasource"
	"github.com/banksean/ds-identify/internal/facts"
	"github.com/banksean/ds-identify/internal/paths"
)

// ProbeFunc is the probe contract: pure with respect to the snapshot, no
// I/O against mutable state. seedDir is the datasource's subdirectory
// under var_lib_cloud/seed, already resolved for this invocation.
type ProbeFunc func(snap *facts.Snapshot, seedDir string) datasource.Classification

// catalogue maps every known datasource identifier to its probe. It is
// populated by init() so the set is compile-time enumerable the moment
// the package is imported.
var catalogue = map[string]ProbeFunc{}

func register(name string, fn ProbeFunc) {
	datasource.Register(name)
	catalogue[name] = fn
}

// Lookup returns the probe for a known datasource name, or false if the
// name is not in the catalogue (the Unknown case, handled by the
// decision arbiter).
func Lookup(name string) (ProbeFunc, bool) {
	fn, ok := catalogue[name]
	return fn, ok
}

// seedHasMetaData reports whether dir contains a meta-data file, the
// marker original cloud-init seed directories use.
func seedHasMetaData(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "meta-data"))
	return err == nil && !info.IsDir()
}

func init() {
	register("NoCloud", probeNoCloud)
	register("LXD", probeLXD)
	register("ConfigDrive", probeConfigDrive)
	register("AltCloud", probeSeedOnly)
	register("Azure", probeAzure)
	register("Bigstep", probeSeedOnly)
	register("CloudSigma", probeSeedOnly)
	register("CloudStack", probeSeedOnly)
	register("DigitalOcean", probeDigitalOcean)
	register("Vultr", probeVultr)
	register("AliYun", probeAliYun)
	register("Ec2", probeEc2)
	register("GCE", probeGCE)
	register("OpenNebula", probeSeedOnly)
	register("OpenStack", probeOpenStack)
	register("OVF", probeSeedOnly)
	register("SmartOS", probeSeedOnly)
	register("Scaleway", probeScaleway)
	register("Hetzner", probeHetzner)
	register("IBMCloud", probeSeedOnly)
	register("Oracle", probeOracle)
	register("Exoscale", probeSeedOnly)
	register("RbxCloud", probeSeedOnly)
	register("UpCloud", probeUpCloud)
	register("VMware", probeVMware)
	register("NWCS", probeSeedOnly)
}

// probeSeedOnly is the fallback shape for datasources whose only
// spec-given signal is "a seed directory with meta-data exists" — the
// pattern NoCloud's own seed-directory arm follows.
func probeSeedOnly(snap *facts.Snapshot, seedDir string) datasource.Classification {
	if seedHasMetaData(seedDir) {
		return datasource.FoundWith("")
	}
	return datasource.NotFoundResult()
}

// probeNoCloud implements spec.md 4.6's fully worked example: kernel
// cmdline marker, SMBIOS serial marker, a cidata-labeled filesystem, or a
// seed directory.
func probeNoCloud(snap *facts.Snapshot, seedDir string) datasource.Classification {
	if strings.Contains(strings.ToLower(snap.KernelCmdline), "ds=nocloud") {
		return datasource.FoundWith("")
	}
	if snap.Smbios.ProductSerial != nil && strings.Contains(strings.ToLower(*snap.Smbios.ProductSerial), "ds=nocloud") {
		return datasource.FoundWith("")
	}
	if snap.FS.HasLabel("cidata") || snap.FS.HasLabel("CIDATA") {
		return datasource.FoundWith("")
	}
	if seedHasMetaData(seedDir) || seedHasMetaData(seedDir+"-net") {
		return datasource.FoundWith("")
	}
	return datasource.NotFoundResult()
}

// probeLXD implements spec.md 4.6's second worked example.
func probeLXD(snap *facts.Snapshot, seedDir string) datasource.Classification {
	if info, err := os.Stat("/dev/lxd/sock"); err == nil && info.Mode()&os.ModeSocket != 0 {
		return datasource.FoundWith("")
	}
	if (snap.Virt == "kvm" || snap.Virt == "qemu") && snap.Smbios.BoardName != nil && *snap.Smbios.BoardName == "LXD" {
		return datasource.FoundWith("")
	}
	return datasource.NotFoundResult()
}

func vendorContains(snap *facts.Snapshot, substr string) bool {
	if snap.Smbios.SysVendor == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*snap.Smbios.SysVendor), strings.ToLower(substr))
}

func productContains(snap *facts.Snapshot, substr string) bool {
	if snap.Smbios.ProductName == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*snap.Smbios.ProductName), strings.ToLower(substr))
}

func probeAzure(snap *facts.Snapshot, seedDir string) datasource.Classification {
	if vendorContains(snap, "Microsoft Corporation") {
		return datasource.FoundWith("")
	}
	return probeSeedOnly(snap, seedDir)
}

func probeEc2(snap *facts.Snapshot, seedDir string) datasource.Classification {
	if vendorContains(snap, "Amazon EC2") || productContains(snap, "amazon") {
		return datasource.FoundWith("")
	}
	return probeSeedOnly(snap, seedDir)
}

func probeGCE(snap *facts.Snapshot, seedDir string) datasource.Classification {
	if vendorContains(snap, "Google") {
		return datasource.FoundWith("")
	}
	return probeSeedOnly(snap, seedDir)
}

func probeOpenStack(snap *facts.Snapshot, seedDir string) datasource.Classification {
	if vendorContains(snap, "OpenStack") {
		return datasource.FoundWith("")
	}
	if snap.Virt == "kvm" && productContains(snap, "openstack") {
		return datasource.FoundWith("")
	}
	return probeSeedOnly(snap, seedDir)
}

func probeOracle(snap *facts.Snapshot, seedDir string) datasource.Classification {
	if snap.Virt == "oracle" || vendorContains(snap, "Oracle Corporation") {
		return datasource.FoundWith("")
	}
	return probeSeedOnly(snap, seedDir)
}

func probeVMware(snap *facts.Snapshot, seedDir string) datasource.Classification {
	if snap.Virt == "vmware" || vendorContains(snap, "VMware") {
		return datasource.FoundWith("")
	}
	return probeSeedOnly(snap, seedDir)
}

func probeDigitalOcean(snap *facts.Snapshot, seedDir string) datasource.Classification {
	if vendorContains(snap, "DigitalOcean") {
		return datasource.FoundWith("")
	}
	return probeSeedOnly(snap, seedDir)
}

func probeVultr(snap *facts.Snapshot, seedDir string) datasource.Classification {
	if vendorContains(snap, "Vultr") {
		return datasource.FoundWith("")
	}
	return probeSeedOnly(snap, seedDir)
}

func probeAliYun(snap *facts.Snapshot, seedDir string) datasource.Classification {
	if vendorContains(snap, "Alibaba Cloud") {
		return datasource.FoundWith("")
	}
	return probeSeedOnly(snap, seedDir)
}

func probeScaleway(snap *facts.Snapshot, seedDir string) datasource.Classification {
	if vendorContains(snap, "Scaleway") {
		return datasource.FoundWith("")
	}
	return probeSeedOnly(snap, seedDir)
}

func probeHetzner(snap *facts.Snapshot, seedDir string) datasource.Classification {
	if vendorContains(snap, "Hetzner") {
		return datasource.FoundWith("")
	}
	return probeSeedOnly(snap, seedDir)
}

func probeUpCloud(snap *facts.Snapshot, seedDir string) datasource.Classification {
	if vendorContains(snap, "UpCloud") {
		return datasource.FoundWith("")
	}
	return probeSeedOnly(snap, seedDir)
}

func probeConfigDrive(snap *facts.Snapshot, seedDir string) datasource.Classification {
	if snap.FS.HasLabel("config-2") || snap.FS.HasLabel("CONFIG-2") {
		return datasource.FoundWith("")
	}
	return probeSeedOnly(snap, seedDir)
}

// SeedDir resolves the seed directory for a datasource name under
// var_lib_cloud.
func SeedDir(p *paths.Paths, name string) string {
	return filepath.Join(p.VarLibCloud, "seed", strings.ToLower(name))
}
