package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and default filling for the profile.
func TestValidate(t *testing.T) {
	t.Parallel()

	// No versions requested.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Garbage version string.
	cfg = &Config{
		Versions: []string{"11", "not-a-version!"},
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Bad API base URL.
	cfg = &Config{
		Versions:   []string{"11"},
		APIBaseURL: "not a url",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Minimal profile gets defaults filled in.
	cfg = &Config{
		Versions: []string{"17"},
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultOS, cfg.OS)
	require.Equal(t, DefaultVendor, cfg.Vendor)
	require.Equal(t, DefaultImageType, cfg.ImageType)
	require.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.NotEmpty(t, cfg.UserAgent)
}

// TestLoad_MissingFile ensures a missing profile yields the defaults.
func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default().Versions, cfg.Versions)
	require.Equal(t, DefaultVendor, cfg.Vendor)
}

// TestSaveLoadRoundtrip ensures the profile is persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := &Config{
		Versions:   []string{"11", "17"},
		OS:         "linux",
		Vendor:     "eclipse",
		ImageType:  "jdk",
		APIBaseURL: "https://catalog.local",
		UserAgent:  "jdkget-test/0.0",
		Timeout:    time.Minute,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Versions, loaded.Versions)
	require.Equal(t, cfg.APIBaseURL, loaded.APIBaseURL)
	require.Equal(t, cfg.Timeout, loaded.Timeout)
}
