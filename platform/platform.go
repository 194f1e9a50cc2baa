// Package platform classifies the host operating system, CPU architecture,
// address width and Java VM from well-known indicator strings.
//
// Classification is best-effort. Every parser maps unrecognized input to an
// explicit Unknown value, and a [Table] lookup for an unclassified host
// reports nothing rather than guessing. Callers should treat a failed lookup
// as "feature unavailable here".
package platform

import (
	"strings"
)

// OS is an operating system family.
type OS int

// Operating system families.
const (
	OSUnknown OS = iota
	Windows
	Linux
	Solaris
	Mac
	HPUX
	AIX
	FreeBSD
)

var osNames = map[OS]string{
	OSUnknown: "unknown",
	Windows:   "windows",
	Linux:     "linux",
	Solaris:   "solaris",
	Mac:       "mac",
	HPUX:      "hp-ux",
	AIX:       "aix",
	FreeBSD:   "freebsd",
}

func (o OS) String() string {
	if s, ok := osNames[o]; ok {
		return s
	}

	return osNames[OSUnknown]
}

// ParseOS classifies an "os.name" style indicator, such as "Linux",
// "Mac OS X", "SunOS" or "windows" (as reported by Go's runtime.GOOS).
func ParseOS(s string) OS {
	s = strings.ToLower(strings.TrimSpace(s))

	switch {
	case strings.HasPrefix(s, "windows"):
		return Windows
	case strings.HasPrefix(s, "linux"):
		return Linux
	case strings.HasPrefix(s, "sunos"), strings.HasPrefix(s, "solaris"):
		return Solaris
	case strings.HasPrefix(s, "mac"), strings.HasPrefix(s, "darwin"):
		return Mac
	case strings.HasPrefix(s, "hp-ux"), strings.HasPrefix(s, "hpux"):
		return HPUX
	case strings.HasPrefix(s, "aix"):
		return AIX
	case strings.HasPrefix(s, "freebsd"):
		return FreeBSD
	}

	return OSUnknown
}

// Arch is a CPU architecture.
type Arch int

// CPU architectures.
const (
	ArchUnknown Arch = iota
	X86
	AMD64
	ARM
	ARM64
	PPC
	PPC64
	SPARC
	IA64
)

var archNames = map[Arch]string{
	ArchUnknown: "unknown",
	X86:         "x86",
	AMD64:       "amd64",
	ARM:         "arm",
	ARM64:       "arm64",
	PPC:         "ppc",
	PPC64:       "ppc64",
	SPARC:       "sparc",
	IA64:        "ia64",
}

func (a Arch) String() string {
	if s, ok := archNames[a]; ok {
		return s
	}

	return archNames[ArchUnknown]
}

// ParseArch classifies an "os.arch" style indicator. Both JVM spellings
// ("x86_64", "i686") and Go spellings ("amd64", "386") are recognized.
func ParseArch(s string) Arch {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x86", "386", "i386", "i486", "i586", "i686":
		return X86
	case "x86_64", "x86-64", "amd64":
		return AMD64
	case "arm", "armv6l", "armv7l", "aarch32":
		return ARM
	case "arm64", "aarch64":
		return ARM64
	case "ppc", "powerpc":
		return PPC
	case "ppc64", "ppc64le":
		return PPC64
	case "sparc", "sparcv9":
		return SPARC
	case "ia64", "ia64n", "ia64w":
		return IA64
	}

	return ArchUnknown
}

// Bits returns the natural address width of the architecture. SPARC
// processors run both widths, so it reports [BitnessUnknown].
func (a Arch) Bits() Bitness {
	switch a {
	case X86, ARM, PPC:
		return Bits32
	case AMD64, ARM64, PPC64, IA64:
		return Bits64
	case ArchUnknown, SPARC:
	}

	return BitnessUnknown
}

// Bitness is a process address width.
type Bitness int

// Address widths.
const (
	BitnessUnknown Bitness = iota
	Bits32
	Bits64
)

func (b Bitness) String() string {
	switch b {
	case Bits32:
		return "32"
	case Bits64:
		return "64"
	case BitnessUnknown:
	}

	return "unknown"
}

// ParseBitness classifies a "sun.arch.data.model" style indicator.
func ParseBitness(s string) Bitness {
	switch strings.TrimSpace(s) {
	case "32":
		return Bits32
	case "64":
		return Bits64
	}

	return BitnessUnknown
}

// VM is a Java virtual machine implementation.
type VM int

// Java virtual machines.
const (
	VMUnknown VM = iota
	HotSpot
	JRockit
	Zing
	J9
	Graal
)

var vmNames = map[VM]string{
	VMUnknown: "unknown",
	HotSpot:   "hotspot",
	JRockit:   "jrockit",
	Zing:      "zing",
	J9:        "j9",
	Graal:     "graal",
}

func (v VM) String() string {
	if s, ok := vmNames[v]; ok {
		return s
	}

	return vmNames[VMUnknown]
}

// ParseVM classifies a "java.vm.name" style indicator, such as
// "OpenJDK 64-Bit Server VM" or "Eclipse OpenJ9 VM".
func ParseVM(s string) VM {
	s = strings.ToLower(s)

	switch {
	case strings.Contains(s, "graal"):
		return Graal
	case strings.Contains(s, "openj9"), strings.Contains(s, "j9"):
		return J9
	case strings.Contains(s, "jrockit"):
		return JRockit
	case strings.Contains(s, "zing"), strings.Contains(s, "azul"):
		return Zing
	case strings.Contains(s, "openjdk"), strings.Contains(s, "hotspot"):
		return HotSpot
	}

	return VMUnknown
}

// Host is a classified platform.
type Host struct {
	OS      OS
	Arch    Arch
	Bitness Bitness
	VM      VM
}

func (h Host) String() string {
	return h.OS.String() + "/" + h.Arch.String() + "/" + h.Bitness.String()
}

// Indicators are the raw strings a [Host] is classified from.
type Indicators struct {
	OS        string
	Arch      string
	DataModel string
	VMName    string
}

// Classify classifies each indicator independently. When DataModel is
// empty the bitness falls back to [Arch.Bits].
func Classify(ind Indicators) Host {
	h := Host{
		OS:      ParseOS(ind.OS),
		Arch:    ParseArch(ind.Arch),
		Bitness: ParseBitness(ind.DataModel),
		VM:      ParseVM(ind.VMName),
	}

	if strings.TrimSpace(ind.DataModel) == "" {
		h.Bitness = h.Arch.Bits()
	}

	return h
}
