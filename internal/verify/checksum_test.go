package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile writes contents to a fresh file under a temp dir and returns its path.
func writeFile(t *testing.T, contents []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "asset.bin")
	require.NoError(t, os.WriteFile(path, contents, 0o600))

	return path
}

// TestChecksum_Match ensures matching content passes verification.
func TestChecksum_Match(t *testing.T) {
	t.Parallel()

	contents := []byte("a perfectly ordinary jdk archive")
	digest := sha256.Sum256(contents)

	path := writeFile(t, contents)
	require.NoError(t, Checksum(path, hex.EncodeToString(digest[:])))
}

// TestChecksum_SingleByteMutation ensures any single-byte change is detected.
func TestChecksum_SingleByteMutation(t *testing.T) {
	t.Parallel()

	contents := []byte("a perfectly ordinary jdk archive")
	digest := sha256.Sum256(contents)

	mutated := append([]byte(nil), contents...)
	mutated[7] ^= 0x01

	path := writeFile(t, mutated)
	require.ErrorIs(t, Checksum(path, hex.EncodeToString(digest[:])), ErrChecksumMismatch)
}

// TestChecksum_BadDeclaredDigest covers malformed and truncated declared checksums.
func TestChecksum_BadDeclaredDigest(t *testing.T) {
	t.Parallel()

	path := writeFile(t, []byte("contents"))

	// Not hex at all.
	err := Checksum(path, "zz not hex zz")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrChecksumMismatch)

	// Valid hex but truncated; must not be treated as a prefix match.
	digest := sha256.Sum256([]byte("contents"))
	err = Checksum(path, hex.EncodeToString(digest[:8]))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrChecksumMismatch)
}

// TestChecksum_MissingFile ensures verification of a missing file fails cleanly.
func TestChecksum_MissingFile(t *testing.T) {
	t.Parallel()

	digest := sha256.Sum256([]byte("anything"))
	err := Checksum(filepath.Join(t.TempDir(), "missing.bin"), hex.EncodeToString(digest[:]))
	require.Error(t, err)
}
