package yourkit

import "go.jacobcolvin.com/benchprof/platform"

// AgentLibs maps each supported platform to the agent library path,
// relative to the Yourkit home directory.
var AgentLibs = platform.Table{
	{OS: platform.Windows, Bitness: platform.Bits32, Path: `bin\win32\yjpagent.dll`},
	{OS: platform.Windows, Bitness: platform.Bits64, Path: `bin\win64\yjpagent.dll`},

	{OS: platform.Linux, Arch: platform.X86, Bitness: platform.Bits32, Path: "bin/linux-x86-32/libyjpagent.so"},
	{OS: platform.Linux, Arch: platform.X86, Bitness: platform.Bits64, Path: "bin/linux-x86-64/libyjpagent.so"},
	{OS: platform.Linux, Arch: platform.AMD64, Bitness: platform.Bits32, Path: "bin/linux-x86-32/libyjpagent.so"},
	{OS: platform.Linux, Arch: platform.AMD64, Bitness: platform.Bits64, Path: "bin/linux-x86-64/libyjpagent.so"},
	{OS: platform.Linux, Arch: platform.PPC, Path: "bin/linux-ppc-32/libyjpagent.so"},
	{OS: platform.Linux, Arch: platform.PPC64, Path: "bin/linux-ppc-64/libyjpagent.so"},
	{OS: platform.Linux, Arch: platform.ARM, Path: "bin/linux-arm-32/libyjpagent.so"},
	{OS: platform.Linux, Arch: platform.ARM64, Path: "bin/linux-aarch64/libyjpagent.so"},

	{OS: platform.Solaris, Arch: platform.X86, Bitness: platform.Bits32, Path: "bin/solaris-x86-32/libyjpagent.so"},
	{OS: platform.Solaris, Arch: platform.X86, Bitness: platform.Bits64, Path: "bin/solaris-x86-64/libyjpagent.so"},
	{OS: platform.Solaris, Arch: platform.AMD64, Bitness: platform.Bits32, Path: "bin/solaris-x86-32/libyjpagent.so"},
	{OS: platform.Solaris, Arch: platform.AMD64, Bitness: platform.Bits64, Path: "bin/solaris-x86-64/libyjpagent.so"},
	{OS: platform.Solaris, Arch: platform.SPARC, Bitness: platform.Bits32, Path: "bin/solaris-sparc-32/libyjpagent.so"},
	{OS: platform.Solaris, Arch: platform.SPARC, Bitness: platform.Bits64, Path: "bin/solaris-sparc-64/libyjpagent.so"},

	{OS: platform.Mac, Path: "bin/mac/libyjpagent.jnilib"},

	{OS: platform.HPUX, Bitness: platform.Bits32, Path: "bin/hpux-ia64-32/libyjpagent.so"},
	{OS: platform.HPUX, Bitness: platform.Bits64, Path: "bin/hpux-ia64-64/libyjpagent.so"},

	{OS: platform.AIX, Bitness: platform.Bits32, Path: "bin/aix-ppc-32/libyjpagent.so"},
	{OS: platform.AIX, Bitness: platform.Bits64, Path: "bin/aix-ppc-64/libyjpagent.so"},

	{OS: platform.FreeBSD, Bitness: platform.Bits32, Path: "bin/freebsd-x86-32/libyjpagent.so"},
	{OS: platform.FreeBSD, Bitness: platform.Bits64, Path: "bin/freebsd-x86-64/libyjpagent.so"},
}
