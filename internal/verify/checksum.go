package verify

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrChecksumMismatch is returned when the recomputed digest differs from the
// catalog-declared one. Callers must treat it as non-recoverable: bytes that
// fail verification are never extracted or used.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// checksumChunkSize is the read size used when streaming file contents
// through the hash.
const checksumChunkSize = 8 * 1024

// Checksum recomputes the sha256 digest of the file at path and compares it
// byte-for-byte against the hex-encoded declared digest. The check is pure:
// nothing is fetched or mutated.
func Checksum(path, declaredHex string) error {
	declared, err := hex.DecodeString(declaredHex)
	if err != nil {
		return fmt.Errorf("decode declared checksum: %w", err)
	}

	if len(declared) != sha256.Size {
		return fmt.Errorf("declared checksum is %d bytes, want %d", len(declared), sha256.Size)
	}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	defer func() {
		_ = file.Close()
	}()

	hasher := sha256.New()
	if _, err = io.CopyBuffer(hasher, file, make([]byte, checksumChunkSize)); err != nil {
		return fmt.Errorf("hash %s: %w", path, err)
	}

	computed := hasher.Sum(nil)
	if !bytes.Equal(computed, declared) {
		return fmt.Errorf("%w: computed %s, declared %s",
			ErrChecksumMismatch, hex.EncodeToString(computed), declaredHex)
	}

	return nil
}
