package deb

import (
	"fmt"
	"runtime"
)

// Architecture represents a Debian architecture
type Architecture string

const (
	ArchAmd64    Architecture = "amd64"   // x86_64
	ArchI386     Architecture = "i386"    // x86 32-bit
	ArchArm64    Architecture = "arm64"   // ARM 64-bit
	ArchArmhf    Architecture = "armhf"   // ARM hard float
	ArchArmel    Architecture = "armel"   // ARM soft float
	ArchPpc64el  Architecture = "ppc64el" // PowerPC 64-bit little endian
	ArchS390x    Architecture = "s390x"   // IBM S/390
	ArchMips64el Architecture = "mips64el"
	ArchRiscv64  Architecture = "riscv64"
	ArchAll      Architecture = "all" // Architecture-independent
)

// AllArchitectures contains all supported Debian architectures
var AllArchitectures = []Architecture{
	ArchAmd64,
	ArchI386,
	ArchArm64,
	ArchArmhf,
	ArchArmel,
	ArchPpc64el,
	ArchS390x,
	ArchMips64el,
	ArchRiscv64,
	ArchAll,
}

var goarchToDebian = map[string]Architecture{
	"amd64":    ArchAmd64,
	"386":      ArchI386,
	"arm64":    ArchArm64,
	"arm":      ArchArmhf,
	"ppc64le":  ArchPpc64el,
	"s390x":    ArchS390x,
	"mips64le": ArchMips64el,
	"riscv64":  ArchRiscv64,
}

// DetectArchitecture maps the running GOARCH to its Debian name
func DetectArchitecture() (Architecture, error) {
	return FromGOARCH(runtime.GOARCH)
}

// FromGOARCH maps a Go architecture name to its Debian name
func FromGOARCH(goarch string) (Architecture, error) {
	if arch, ok := goarchToDebian[goarch]; ok {
		return arch, nil
	}
	return "", fmt.Errorf("unsupported architecture: %s", goarch)
}

// ParseArchitecture accepts either a Debian or a Go architecture name
func ParseArchitecture(s string) (Architecture, error) {
	if a := Architecture(s); a.IsValid() {
		return a, nil
	}
	return FromGOARCH(s)
}

// String returns the string representation of the architecture
func (a Architecture) String() string {
	return string(a)
}

// IsValid checks if the architecture is valid
func (a Architecture) IsValid() bool {
	for _, valid := range AllArchitectures {
		if a == valid {
			return true
		}
	}
	return false
}
