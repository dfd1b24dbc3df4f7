package provisioner

import (
	"context"
	"crypto"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	goupdate "github.com/doitdistributed/go-update"
	"github.com/mitchellh/go-ps"

	"github.com/oshokin/jdkget/internal/logger"

	// Ensure SHA256 is available for checksum-gated persistence.
	_ "crypto/sha256"
)

const (
	// MarkerFilename marks that a provisioning run owns the destination
	// directory right now, to avoid parallel runs racing on the same files.
	MarkerFilename = "jdkget-run-marker.bin"

	// PersistChecksumFunction re-validates package bytes while they are
	// copied to their final destination.
	PersistChecksumFunction crypto.Hash = crypto.SHA256

	// verifiedFileMode is used for packages persisted to the destination.
	verifiedFileMode os.FileMode = 0o644

	// reportFileMode is used for the JSON report artifact.
	reportFileMode os.FileMode = 0o644

	// markerLifetime is the period after which a run marker is considered
	// stale and eligible for reclaim. Full JDK downloads can take a while.
	markerLifetime = 30 * time.Minute
)

// errAlreadyRunning indicates the destination is owned by another live run.
var errAlreadyRunning = errors.New("another provisioning run owns this destination")

// IsProvisionerRunningNow checks presence of a run marker in the destination
// directory and attempts recovery if it looks stale.
func IsProvisionerRunningNow(ctx context.Context, markerPath string) bool {
	logger.Info(ctx, "Checking for the presence of a run marker")

	fileInfo, err := os.Stat(markerPath)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The run marker is stale, attempting cleanup")

		if markerProcessAlive(markerPath) {
			return true
		}

		if err = os.Remove(markerPath); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		logger.Info(ctx, "Run marker not found, continuing")
		return false
	}

	logger.Infof(ctx, "Unable to read run marker: %v", err)

	return false
}

// writeMarker records this process as the owner of the destination.
func writeMarker(markerPath string) error {
	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(markerPath, []byte(pid), verifiedFileMode); err != nil {
		return fmt.Errorf("write run marker: %w", err)
	}

	return nil
}

// markerProcessAlive reports whether the process recorded in a stale marker
// still exists. An unreadable marker counts as dead.
func markerProcessAlive(markerPath string) bool {
	contents, err := os.ReadFile(filepath.Clean(markerPath))
	if err != nil {
		return false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
	if err != nil || pid == os.Getpid() {
		return false
	}

	process, err := ps.FindProcess(pid)

	return err == nil && process != nil
}

// persistVerified copies already-verified package bytes to their final
// destination path, re-validating the checksum during the copy so the
// destination file can never hold bytes that differ from the declared digest.
func persistVerified(sourcePath, targetPath, checksumHex string) error {
	checksum, err := hex.DecodeString(checksumHex)
	if err != nil {
		return fmt.Errorf("decode checksum: %w", err)
	}

	source, err := os.Open(filepath.Clean(sourcePath))
	if err != nil {
		return fmt.Errorf("open %s: %w", sourcePath, err)
	}

	defer func() {
		_ = source.Close()
	}()

	// The apply target must exist beforehand.
	if _, err = os.Stat(targetPath); err != nil && errors.Is(err, os.ErrNotExist) {
		var placeholder *os.File

		if placeholder, err = os.Create(filepath.Clean(targetPath)); err != nil {
			return fmt.Errorf("create %s: %w", targetPath, err)
		}

		if err = placeholder.Close(); err != nil {
			return fmt.Errorf("close %s: %w", targetPath, err)
		}
	}

	options := goupdate.Options{
		TargetPath: targetPath,
		TargetMode: verifiedFileMode,
		Checksum:   checksum,
		Hash:       PersistChecksumFunction,
	}
	if err = goupdate.Apply(source, options); err != nil {
		return fmt.Errorf("persist %s: %w", targetPath, err)
	}

	oldPath := targetPath + ".old"
	if _, err = os.Stat(oldPath); err == nil {
		_ = os.Remove(oldPath)
	}

	return nil
}

// copyFile duplicates a small auxiliary file (the detached signature) into
// the destination directory so its reported path outlives the scratch dir.
func copyFile(sourcePath, targetPath string) error {
	contents, err := os.ReadFile(filepath.Clean(sourcePath))
	if err != nil {
		return fmt.Errorf("read %s: %w", sourcePath, err)
	}

	if err = os.WriteFile(filepath.Clean(targetPath), contents, verifiedFileMode); err != nil {
		return fmt.Errorf("write %s: %w", targetPath, err)
	}

	return nil
}
