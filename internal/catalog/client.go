package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/oshokin/jdkget/internal/platform"
)

var (
	// ErrCatalogEmpty is returned when the catalog has no asset matching the query.
	ErrCatalogEmpty = errors.New("no matching assets found in catalog")
	// ErrNoChecksum is returned when the selected asset declares no checksum.
	// Callers must skip such assets instead of proceeding without verification.
	ErrNoChecksum = errors.New("no checksum provided for asset")
	// errBadHTTPStatus is returned for non-200 catalog responses.
	errBadHTTPStatus = errors.New("unexpected http status")
)

// Asset identifies one downloadable JDK build resolved from the catalog.
// It is immutable once returned.
type Asset struct {
	// Name is the logical package name declared by the catalog.
	Name string
	// Checksum is the hex-encoded sha256 digest of the package bytes.
	Checksum string
	// PackageLink is the download URL for the package archive.
	PackageLink string
	// SignatureLink is the download URL for the detached signature (may be empty).
	SignatureLink string
}

// Query holds the fixed dimensions sent with every catalog request.
type Query struct {
	// OS is the requested operating system value.
	OS string
	// Vendor is the requested JDK vendor.
	Vendor string
	// ImageType is the requested image flavor (jdk, jre, ...).
	ImageType string
}

// Client resolves logical (version, architecture) requests against the
// Adoptium v3 asset catalog.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	query      Query
}

// NewClient creates a catalog client for the provided API root.
func NewClient(baseURL, userAgent string, timeout time.Duration, query Query) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   baseURL,
		userAgent: userAgent,
		query:     query,
	}
}

// release mirrors the subset of the catalog's asset object we consume:
// the nested binary.package descriptor.
type release struct {
	Binary struct {
		Package struct {
			Name          string `json:"name"`
			Checksum      string `json:"checksum"`
			Link          string `json:"link"`
			SignatureLink string `json:"signature_link"`
		} `json:"package"`
	} `json:"binary"`
}

// ResolveLatest queries the latest release of the requested major version for
// the given architecture and returns the best matching asset descriptor.
//
// The catalog responds with a JSON array; when several entries match, the last
// element is selected as canonical, inheriting the catalog's own ordering.
func (c *Client) ResolveLatest(ctx context.Context, jdkVersion string, arch platform.Architecture) (*Asset, error) {
	endpoint, err := c.latestReleaseURL(jdkVersion, arch)
	if err != nil {
		return nil, fmt.Errorf("build catalog URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s, %s: %w", endpoint, response.Status, errBadHTTPStatus)
	}

	var releases []release
	if err = json.NewDecoder(response.Body).Decode(&releases); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	if len(releases) == 0 {
		return nil, fmt.Errorf("jdk %s (%s): %w", jdkVersion, arch, ErrCatalogEmpty)
	}

	// Last element wins.
	pkg := releases[len(releases)-1].Binary.Package
	if pkg.Checksum == "" {
		return nil, fmt.Errorf("jdk %s (%s): %w", jdkVersion, arch, ErrNoChecksum)
	}

	return &Asset{
		Name:          pkg.Name,
		Checksum:      pkg.Checksum,
		PackageLink:   pkg.Link,
		SignatureLink: pkg.SignatureLink,
	}, nil
}

// latestReleaseURL composes the versioned "latest release" endpoint with the
// fixed query dimensions and the resolved architecture.
func (c *Client) latestReleaseURL(jdkVersion string, arch platform.Architecture) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	endpoint := base.JoinPath("v3", "assets", "latest", jdkVersion, "hotspot")

	values := url.Values{}
	values.Set("architecture", arch.String())
	values.Set("image_type", c.query.ImageType)
	values.Set("os", c.query.OS)
	values.Set("vendor", c.query.Vendor)
	endpoint.RawQuery = values.Encode()

	return endpoint.String(), nil
}
