package platform

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"

	"go.jacobcolvin.com/benchprof/option"
)

// Property names consulted by [Detect]. They match the system properties a
// Java runtime reports, so a harness can pass its target's values through.
const (
	PropOSName    = "os.name"
	PropOSArch    = "os.arch"
	PropDataModel = "sun.arch.data.model"
	PropBitMode   = "com.ibm.vm.bitmode"
	PropVMName    = "java.vm.name"
)

// HostInfo returns indicators for the machine this process runs on. It
// prefers the kernel's view of the architecture over the Go build target,
// since a 32-bit build may be running on a 64-bit kernel.
func HostInfo(ctx context.Context) Indicators {
	ind := Indicators{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	info, err := host.InfoWithContext(ctx)
	if err != nil || info == nil {
		return ind
	}

	if info.OS != "" {
		ind.OS = info.OS
	}

	if info.KernelArch != "" {
		ind.Arch = info.KernelArch
	}

	return ind
}

// Detect gathers indicators from src, filling the gaps from fallback, and
// classifies them. IBM runtimes report the data model as [PropBitMode].
func Detect(src option.Source, fallback Indicators) Host {
	ind := fallback

	if v, ok := src.Lookup(PropOSName); ok {
		ind.OS = v
	}

	if v, ok := src.Lookup(PropOSArch); ok {
		ind.Arch = v
	}

	if v, ok := option.First(src, PropDataModel, PropBitMode); ok {
		ind.DataModel = v
	}

	if v, ok := src.Lookup(PropVMName); ok {
		ind.VMName = v
	}

	return Classify(ind)
}
