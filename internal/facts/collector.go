package facts

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/banksean/ds-identify/internal/dilog"
	"github.com/banksean/ds-identify/internal/paths"
)

// Collect assembles the one-shot FactSnapshot. Every step is
// best-effort: a failure degrades the corresponding field to a sentinel
// rather than aborting the run (spec.md 4.3, 7). Only a uname failure is
// also accumulated into the soft-error list logged once at debug level;
// the other steps record a failure solely through their sentinel.
func Collect(ctx context.Context, p *paths.Paths, r Runner, log *dilog.Logger) *Snapshot {
	var soft error

	uname, err := collectUname(ctx, r)
	if err != nil {
		soft = multierror.Append(soft, err)
	}

	virt := collectVirt(ctx, p, r, uname.KernelName)
	isContainer := IsContainer(virt)

	snap := &Snapshot{
		Uname:           uname,
		Virt:            virt,
		PID1ProductName: collectPID1ProductName(p),
		KernelCmdline:   collectKernelCmdline(p, isContainer),
		Smbios:          collectSmbios(ctx, p, r, log),
		FS:              collectFsInfo(ctx, p, r, isContainer),
	}

	if soft != nil {
		log.Debug(1, "fact collection had soft failures", "errors", soft.Error())
	}
	return snap
}
