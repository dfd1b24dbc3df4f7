package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestResolveArchitecture verifies the identifier mapping, including that
// x86_64 and AMD64 collapse to the same token.
func TestResolveArchitecture(t *testing.T) {
	t.Parallel()

	cases := map[string]Architecture{
		"x86_64":  ArchX64,
		"AMD64":   ArchX64,
		"amd64":   ArchX64,
		"i386":    ArchX32,
		"386":     ArchX32,
		"x86":     ArchX86,
		"aarch64": ArchAArch64,
		"arm64":   ArchAArch64,
	}
	for machine, want := range cases {
		got, err := ResolveArchitecture(machine)
		require.NoError(t, err, machine)
		require.Equal(t, want, got, machine)
	}

	same64, err := ResolveArchitecture("x86_64")
	require.NoError(t, err)

	sameAMD, err := ResolveArchitecture("AMD64")
	require.NoError(t, err)
	require.Equal(t, same64, sameAMD)
}

// TestResolveArchitecture_Unsupported ensures unknown identifiers fail.
func TestResolveArchitecture_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := ResolveArchitecture("sparc64")
	require.ErrorIs(t, err, ErrUnsupportedArchitecture)

	_, err = ResolveArchitecture("")
	require.ErrorIs(t, err, ErrUnsupportedArchitecture)
}
