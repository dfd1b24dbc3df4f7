package provisioner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/oshokin/jdkget/internal/archive"
	"github.com/oshokin/jdkget/internal/catalog"
	"github.com/oshokin/jdkget/internal/config"
	"github.com/oshokin/jdkget/internal/fetch"
	"github.com/oshokin/jdkget/internal/logger"
	"github.com/oshokin/jdkget/internal/platform"
	"github.com/oshokin/jdkget/internal/verify"
)

// Options are inputs accepted by the provisioner entry point.
type Options struct {
	// ConfigPath is the optional path to the provisioning profile YAML file.
	ConfigPath string
	// DestinationDir is where verified packages are persisted and extracted.
	// Created if absent.
	DestinationDir string
	// OutputPath is the optional path for the JSON report.
	// When empty, the report prints to standard output.
	OutputPath string
}

// Asset describes one provisioned JDK build in the final report.
type Asset struct {
	// Name is the package name declared by the catalog.
	Name string `json:"name"`
	// Checksum is the hex-encoded sha256 digest the package was verified against.
	Checksum string `json:"checksum"`
	// Signature is the local path of the detached signature, when the catalog offered one.
	Signature string `json:"signature,omitempty"`
	// Path is the final extracted directory.
	Path string `json:"path"`
}

// runner holds the state and collaborators for a single provisioning run.
// It is intentionally unexported—call Run(ctx, Options) from callers.
type runner struct {
	cfg            *config.Config        // Provisioning profile.
	arch           platform.Architecture // Host architecture, resolved once.
	catalogClient  *catalog.Client       // Resolves versions to asset descriptors.
	fetcher        *fetch.Fetcher        // Downloads packages and signatures.
	destinationDir string                // Final home for verified packages.
	outputPath     string                // Report destination ("" = stdout).
	markerPath     string                // Single-run guard inside the destination.
	assets         []*Asset              // Successfully extracted assets, in request order.
}

// Run executes the provisioning lifecycle and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name and a per-run correlation id.
	ctx = logger.WithName(ctx, "jdkget")
	ctx = logger.WithKV(ctx, "run_id", uuid.NewString())

	r, err := newRunner(ctx, opts)
	if err != nil {
		return err
	}

	defer r.cleanup(ctx)

	if err = r.Run(ctx); err != nil {
		logger.ErrorKV(ctx, "Provisioning run failed", "error", err)
		return err
	}

	logger.Info(ctx, "Provisioning completed")

	return nil
}

// newRunner loads the profile, claims the destination directory and resolves
// the host architecture before any network call is made.
func newRunner(ctx context.Context, opts *Options) (*runner, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	destinationDir, err := filepath.Abs(opts.DestinationDir)
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}

	if err = os.MkdirAll(destinationDir, 0o755); err != nil {
		return nil, fmt.Errorf("create destination: %w", err)
	}

	r := &runner{
		cfg:            cfg,
		destinationDir: destinationDir,
		outputPath:     opts.OutputPath,
		markerPath:     filepath.Join(destinationDir, MarkerFilename),
	}

	if IsProvisionerRunningNow(ctx, r.markerPath) {
		return nil, errAlreadyRunning
	}

	if err = writeMarker(r.markerPath); err != nil {
		return nil, err
	}

	r.arch, err = platform.Detect()
	if err != nil {
		// Release the destination: the run never started.
		_ = os.Remove(r.markerPath)

		return nil, err
	}

	r.catalogClient = catalog.NewClient(cfg.APIBaseURL, cfg.UserAgent, cfg.Timeout, catalog.Query{
		OS:        cfg.OS,
		Vendor:    cfg.Vendor,
		ImageType: cfg.ImageType,
	})
	r.fetcher = fetch.NewFetcher(cfg.Timeout, cfg.UserAgent)

	return r, nil
}

// Run drives the pipeline across the requested versions:
// 1) Resolve each version against the catalog.
// 2) Fetch package and signature into a scoped temporary directory.
// 3) Verify the checksum before trusting the bytes.
// 4) Persist the verified package to the destination.
// 5) Extract everything that survived, dropping versions that fail.
// 6) Emit the JSON report.
func (r *runner) Run(ctx context.Context) error {
	logger.InfoKV(ctx, "Resolved host architecture", "architecture", r.arch.String())

	fetched := make([]*Asset, 0, len(r.cfg.Versions))

	for _, jdkVersion := range r.cfg.Versions {
		asset, err := r.provisionVersion(ctx, jdkVersion)

		// Missing checksum is a soft skip; everything else in this
		// phase (empty catalog, network failures, checksum mismatch)
		// aborts the whole run.
		if errors.Is(err, catalog.ErrNoChecksum) {
			logger.WarnKV(ctx, "Skipping version, no checksum provided", "version", jdkVersion)
			continue
		}

		if err != nil {
			return fmt.Errorf("provision jdk %s: %w", jdkVersion, err)
		}

		fetched = append(fetched, asset)
	}

	r.assets = r.extractAssets(ctx, fetched)

	return r.writeReport(ctx)
}

// provisionVersion takes one requested version through resolve, fetch,
// verify and persist. The scratch directory is removed on every path.
func (r *runner) provisionVersion(ctx context.Context, jdkVersion string) (*Asset, error) {
	descriptor, err := r.catalogClient.ResolveLatest(ctx, jdkVersion, r.arch)
	if err != nil {
		return nil, err
	}

	scratchDir, err := os.MkdirTemp("", "jdkget-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}

	defer func() {
		_ = os.RemoveAll(scratchDir)
	}()

	logger.InfoKV(ctx, "Created scoped temporary directory",
		"version", jdkVersion, "path", scratchDir)

	asset := &Asset{
		Name:     descriptor.Name,
		Checksum: descriptor.Checksum,
	}

	// The detached signature is fetched for attribution but not verified:
	// signature verification against a trusted key is a deferred feature.
	if descriptor.SignatureLink != "" {
		var signatureScratch string

		signatureScratch, err = r.fetcher.Download(ctx, descriptor.SignatureLink, scratchDir)
		if err != nil {
			return nil, fmt.Errorf("download signature: %w", err)
		}

		asset.Signature = signatureScratch
	}

	packageScratch, err := r.fetcher.Download(ctx, descriptor.PackageLink, scratchDir)
	if err != nil {
		return nil, fmt.Errorf("download package: %w", err)
	}

	logger.InfoKV(ctx, "Downloaded package", "version", jdkVersion, "path", packageScratch)

	if err = verify.Checksum(packageScratch, descriptor.Checksum); err != nil {
		return nil, err
	}

	packagePath := filepath.Join(r.destinationDir, descriptor.Name)
	if err = persistVerified(packageScratch, packagePath, descriptor.Checksum); err != nil {
		return nil, err
	}

	asset.Path = packagePath

	// Re-home the signature next to the package before the scratch dir goes away.
	if asset.Signature != "" {
		signaturePath := filepath.Join(r.destinationDir, filepath.Base(asset.Signature))
		if err = copyFile(asset.Signature, signaturePath); err != nil {
			return nil, err
		}

		asset.Signature = signaturePath
	}

	logger.InfoKV(ctx, "Verified and persisted package",
		"version", jdkVersion, "path", packagePath)

	return asset, nil
}

// extractAssets unpacks each verified package and rewrites its path to the
// extracted root directory. Extraction failures drop only that version.
func (r *runner) extractAssets(ctx context.Context, fetched []*Asset) []*Asset {
	extracted := make([]*Asset, 0, len(fetched))

	for _, asset := range fetched {
		rootPath, err := archive.Extract(asset.Path)
		if err != nil {
			logger.WarnKV(ctx, "Dropping asset, extraction failed",
				"name", asset.Name, "error", err)
			continue
		}

		asset.Path = rootPath
		extracted = append(extracted, asset)

		logger.InfoKV(ctx, "Extracted package", "name", asset.Name, "path", rootPath)
	}

	return extracted
}

// writeReport emits the ordered list of extracted assets as indented JSON,
// to standard output or to the configured report file.
func (r *runner) writeReport(ctx context.Context) error {
	data, err := json.MarshalIndent(r.assets, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if r.outputPath == "" {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		if err != nil {
			return fmt.Errorf("print report: %w", err)
		}

		return nil
	}

	if err = os.WriteFile(r.outputPath, data, reportFileMode); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.InfoKV(ctx, "Wrote provisioning report",
		"path", r.outputPath, "assets", len(r.assets))

	return nil
}

// cleanup releases the destination by removing the run marker.
func (r *runner) cleanup(ctx context.Context) {
	if _, err := os.Stat(r.markerPath); err == nil {
		_ = os.Remove(r.markerPath)
	}

	logger.Info(ctx, "The provisioner has been stopped")
}
