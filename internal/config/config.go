package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	goversion "github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/jdkget/internal/version"
)

// Config holds the provisioning profile: which JDK builds to request and
// how to reach the asset catalog.
type Config struct {
	// Versions lists the major JDK versions to provision, in order.
	Versions []string `yaml:"versions"`
	// OS is the operating system requested from the catalog.
	// Only "linux" is supported for now; the value is not detected dynamically.
	OS string `yaml:"os"`
	// Vendor is the JDK vendor requested from the catalog.
	Vendor string `yaml:"vendor"`
	// ImageType selects the image flavor (jdk, jre, ...). Only "jdk" is exercised.
	ImageType string `yaml:"image_type"`
	// APIBaseURL is the root of the asset catalog API.
	APIBaseURL string `yaml:"api_base_url"`
	// UserAgent identifies this client in catalog queries and downloads.
	UserAgent string `yaml:"user_agent"`
	// Timeout bounds every HTTP request.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for the provisioning profile.
	DefaultConfigFilename = "jdkget-settings.yaml"

	// DefaultAPIBaseURL is the Adoptium v3 API root.
	DefaultAPIBaseURL = "https://api.adoptium.net"

	// DefaultOS is the only operating system value currently requested.
	DefaultOS = "linux"

	// DefaultVendor is the JDK vendor requested by default.
	DefaultVendor = "eclipse"

	// DefaultImageType is the image flavor requested by default.
	DefaultImageType = "jdk"

	// DefaultTimeout is the default bound for HTTP requests.
	// Large enough for full JDK archives on slow links.
	DefaultTimeout = 5 * time.Minute

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNoVersions is returned when the profile requests nothing.
	errNoVersions = errors.New("at least one JDK version must be requested")
)

// defaultVersions are the major versions provisioned when no profile exists.
//
//nolint:gochecknoglobals // Shared read-only default.
var defaultVersions = []string{"11", "16"}

// Default returns a profile with all fields set to their defaults.
func Default() *Config {
	return &Config{
		Versions:   append([]string(nil), defaultVersions...),
		OS:         DefaultOS,
		Vendor:     DefaultVendor,
		ImageType:  DefaultImageType,
		APIBaseURL: DefaultAPIBaseURL,
		UserAgent:  version.UserAgent(),
		Timeout:    DefaultTimeout,
	}
}

// Load reads the provisioning profile from the provided path and validates it.
// A missing file is not an error: the defaults are returned instead, so the
// tool works out of the box.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the profile to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided profile for required fields and fills defaults
// for the optional ones.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if len(cfg.Versions) == 0 {
		return errNoVersions
	}

	// Reject garbage version strings before any network call.
	for _, v := range cfg.Versions {
		if _, err := goversion.NewVersion(v); err != nil {
			return fmt.Errorf("invalid JDK version %q: %w", v, err)
		}
	}

	if cfg.OS == "" {
		cfg.OS = DefaultOS
	}

	if cfg.Vendor == "" {
		cfg.Vendor = DefaultVendor
	}

	if cfg.ImageType == "" {
		cfg.ImageType = DefaultImageType
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}

	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = version.UserAgent()
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return nil
}
