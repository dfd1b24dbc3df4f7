package platform

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Architecture is a normalized architecture token understood by the asset catalog.
type Architecture string

const (
	// ArchX64 covers the 64-bit x86 family (x86_64, amd64, AMD64).
	ArchX64 Architecture = "x64"
	// ArchX32 covers 32-bit x86 identifiers reported as i386/386.
	ArchX32 Architecture = "x32"
	// ArchX86 is the catalog's plain x86 token.
	ArchX86 Architecture = "x86"
	// ArchAArch64 covers 64-bit ARM (aarch64, arm64).
	ArchAArch64 Architecture = "aarch64"
)

// ErrUnsupportedArchitecture is returned when the machine identifier is not
// in the supported mapping.
var ErrUnsupportedArchitecture = errors.New("unsupported architecture")

// String returns the token as sent to the catalog.
func (a Architecture) String() string {
	return string(a)
}

// ResolveArchitecture maps a raw machine-architecture identifier to the
// catalog's architecture vocabulary. The mapping is a closed enumeration;
// anything outside it fails with ErrUnsupportedArchitecture.
func ResolveArchitecture(machine string) (Architecture, error) {
	switch strings.ToLower(strings.TrimSpace(machine)) {
	case "x86_64", "amd64", "x64":
		return ArchX64, nil
	case "i386", "386", "x32":
		return ArchX32, nil
	case "x86":
		return ArchX86, nil
	case "aarch64", "arm64":
		return ArchAArch64, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedArchitecture, machine)
	}
}

// Detect resolves the architecture of the running host.
// The operating system dimension is intentionally not detected: the catalog
// query is fixed to a single supported OS by configuration.
func Detect() (Architecture, error) {
	return ResolveArchitecture(runtime.GOARCH)
}
