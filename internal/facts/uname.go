package facts

import (
	"context"
	"strings"
)

// collectUname invokes `uname -s -n -r -v -m -o` and parses its output
// defensively: the first three tokens are kernel-name, node-name,
// kernel-release; the last two are machine, operating-system; everything
// between them (which may itself contain spaces, e.g. a build date) is
// kernel-version.
func collectUname(ctx context.Context, r Runner) (UnameInfo, error) {
	out, err := r.Run(ctx, "uname", "-s", "-n", "-r", "-v", "-m", "-o")
	if err != nil {
		return UnameInfo{
			KernelName: Unavailable, NodeName: Unavailable, KernelRelease: Unavailable,
			KernelVersion: Unavailable, Machine: Unavailable, OS: Unavailable,
		}, err
	}
	return parseUname(out), nil
}

func parseUname(out string) UnameInfo {
	fields := strings.Fields(out)
	if len(fields) < 5 {
		u := UnameInfo{KernelName: Unavailable, NodeName: Unavailable, KernelRelease: Unavailable,
			KernelVersion: Unavailable, Machine: Unavailable, OS: Unavailable}
		// Fill in whatever we actually got, best-effort.
		for i, f := range fields {
			switch i {
			case 0:
				u.KernelName = f
			case 1:
				u.NodeName = f
			case 2:
				u.KernelRelease = f
			}
		}
		return u
	}
	return UnameInfo{
		KernelName:    fields[0],
		NodeName:      fields[1],
		KernelRelease: fields[2],
		KernelVersion: strings.Join(fields[3:len(fields)-2], " "),
		Machine:       fields[len(fields)-2],
		OS:            fields[len(fields)-1],
	}
}

// HasDMI reports whether uname.Machine belongs to the closed set of
// architectures expected to expose DMI/SMBIOS tables.
func HasDMI(machine string) bool {
	switch machine {
	case "i386", "i686", "x86_64":
		return true
	}
	return false
}
