package archive

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is a closed enumeration of supported archive container formats,
// resolved once from the archive filename suffix.
type Format int

const (
	// FormatUnknown marks an unrecognized archive suffix.
	FormatUnknown Format = iota
	// FormatTarGz is a gzip-compressed tar archive (.tar.gz, .tgz).
	FormatTarGz
	// FormatTarBz2 is a bzip2-compressed tar archive (.tar.bz2, .tbz).
	FormatTarBz2
)

var (
	// ErrUnsupportedFormat is returned for archive suffixes outside the enumeration.
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	// ErrNoRootDir is returned when the archive contains no directory entry,
	// so no root directory name can be determined.
	ErrNoRootDir = errors.New("archive contains no root directory entry")
)

// String returns a human-readable format name.
func (f Format) String() string {
	switch f {
	case FormatTarGz:
		return "tar.gz"
	case FormatTarBz2:
		return "tar.bz2"
	case FormatUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// DetectFormat dispatches on the archive filename suffix.
func DetectFormat(name string) (Format, error) {
	switch {
	case strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".tgz"):
		return FormatTarGz, nil
	case strings.HasSuffix(name, ".tar.bz2") || strings.HasSuffix(name, ".tbz"):
		return FormatTarBz2, nil
	default:
		return FormatUnknown, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
}

// Extract unpacks the archive at archivePath into the archive's parent
// directory and returns the path of the root directory produced.
//
// Extraction is sibling-level by design: entries land beside the archive
// file, under whatever top-level directory the archive's internal paths
// declare. Well-formed JDK archives nest everything below a single root
// directory; the first directory entry seen names it. Archives without any
// directory entry fail with ErrNoRootDir.
func Extract(archivePath string) (string, error) {
	format, err := DetectFormat(archivePath)
	if err != nil {
		return "", err
	}

	archiveFile, err := os.Open(filepath.Clean(archivePath))
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}

	defer func() {
		_ = archiveFile.Close()
	}()

	var decompressed io.Reader

	switch format {
	case FormatTarGz:
		gzipReader, gzErr := gzip.NewReader(archiveFile)
		if gzErr != nil {
			return "", fmt.Errorf("create gzip reader: %w", gzErr)
		}

		defer func() {
			_ = gzipReader.Close()
		}()

		decompressed = gzipReader
	case FormatTarBz2:
		decompressed = bzip2.NewReader(archiveFile)
	case FormatUnknown:
		return "", fmt.Errorf("%s: %w", archivePath, ErrUnsupportedFormat)
	default:
		return "", fmt.Errorf("%s: %w", archivePath, ErrUnsupportedFormat)
	}

	destDir := filepath.Dir(archivePath)

	rootName, err := extractAll(tar.NewReader(decompressed), destDir)
	if err != nil {
		return "", err
	}

	if rootName == "" {
		return "", fmt.Errorf("%s: %w", archivePath, ErrNoRootDir)
	}

	return filepath.Join(destDir, rootName), nil
}

// extractAll writes every tar entry below destDir and returns the name of the
// first directory entry seen.
func extractAll(tarReader *tar.Reader, destDir string) (string, error) {
	rootName := ""

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("read tar header: %w", err)
		}

		target := filepath.Join(destDir, header.Name) //nolint:gosec // Traversal checked below.
		cleanDest := filepath.Clean(destDir)

		// GNU tars often open with a bare "./" entry for the archive root;
		// it names the destination itself and needs no work.
		if target == cleanDest {
			if header.Typeflag == tar.TypeDir {
				continue
			}

			return "", fmt.Errorf("illegal entry path: %s", header.Name)
		}

		// Reject path traversal outside the destination.
		if !strings.HasPrefix(target, cleanDest+string(os.PathSeparator)) {
			return "", fmt.Errorf("illegal entry path: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if rootName == "" {
				rootName = filepath.Clean(header.Name)
			}

			if err = os.MkdirAll(target, 0o755); err != nil {
				return "", fmt.Errorf("create directory %s: %w", target, err)
			}

		case tar.TypeReg:
			if err = writeRegularFile(tarReader, target, header.FileInfo().Mode()); err != nil {
				return "", err
			}

		case tar.TypeSymlink:
			if err = checkLinkTarget(header.Linkname, target, cleanDest); err != nil {
				return "", err
			}

			if err = os.Symlink(header.Linkname, target); err != nil {
				return "", fmt.Errorf("create symlink %s: %w", target, err)
			}

		default:
			// Skip other entry types (devices, fifos, ...).
			continue
		}
	}

	return rootName, nil
}

// checkLinkTarget rejects symlink entries whose target resolves outside the
// destination directory, so later entries cannot be routed through the link
// to escape it.
func checkLinkTarget(linkname, entryPath, cleanDest string) error {
	if filepath.IsAbs(linkname) {
		return fmt.Errorf("illegal link target: %s", linkname)
	}

	resolved := filepath.Join(filepath.Dir(entryPath), linkname)
	if resolved != cleanDest && !strings.HasPrefix(resolved, cleanDest+string(os.PathSeparator)) {
		return fmt.Errorf("illegal link target: %s", linkname)
	}

	return nil
}

// writeRegularFile streams one tar entry to disk, preserving its mode.
func writeRegularFile(tarReader *tar.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}

	outFile, err := os.OpenFile(filepath.Clean(target), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}

	if _, err = io.Copy(outFile, tarReader); err != nil { //nolint:gosec // Archive sizes are bounded by the verified package.
		_ = outFile.Close()

		return fmt.Errorf("write file %s: %w", target, err)
	}

	if err = outFile.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", target, err)
	}

	return nil
}
