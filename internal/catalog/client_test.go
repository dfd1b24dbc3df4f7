package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/jdkget/internal/platform"
)

// testQuery is the fixed query profile used across client tests.
func testQuery() Query {
	return Query{
		OS:        "linux",
		Vendor:    "eclipse",
		ImageType: "jdk",
	}
}

// releaseJSON renders a catalog entry with the provided package fields.
func releaseJSON(name, checksum, link, signatureLink string) string {
	return fmt.Sprintf(
		`{"binary":{"package":{"name":%q,"checksum":%q,"link":%q,"signature_link":%q}}}`,
		name, checksum, link, signatureLink,
	)
}

// TestResolveLatest_SelectsLastElement pins the tie-break rule: with N>0
// entries, element N-1 wins, not element 0.
func TestResolveLatest_SelectsLastElement(t *testing.T) {
	t.Parallel()

	var gotPath, gotAgent string

	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		gotQuery = map[string]string{
			"architecture": r.URL.Query().Get("architecture"),
			"image_type":   r.URL.Query().Get("image_type"),
			"os":           r.URL.Query().Get("os"),
			"vendor":       r.URL.Query().Get("vendor"),
		}

		body := "[" +
			releaseJSON("first.tar.gz", "aa11", "https://dl.local/first", "") + "," +
			releaseJSON("second.tar.gz", "bb22", "https://dl.local/second", "https://dl.local/second.sig") +
			"]"
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewClient(server.URL, "jdkget-test/0.0", time.Minute, testQuery())

	asset, err := client.ResolveLatest(context.Background(), "11", platform.ArchX64)
	require.NoError(t, err)
	require.Equal(t, "second.tar.gz", asset.Name)
	require.Equal(t, "bb22", asset.Checksum)
	require.Equal(t, "https://dl.local/second", asset.PackageLink)
	require.Equal(t, "https://dl.local/second.sig", asset.SignatureLink)

	require.Equal(t, "/v3/assets/latest/11/hotspot", gotPath)
	require.Equal(t, "jdkget-test/0.0", gotAgent)
	require.Equal(t, map[string]string{
		"architecture": "x64",
		"image_type":   "jdk",
		"os":           "linux",
		"vendor":       "eclipse",
	}, gotQuery)
}

// TestResolveLatest_EmptyCatalog ensures an empty array fails with ErrCatalogEmpty.
func TestResolveLatest_EmptyCatalog(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "jdkget-test/0.0", time.Minute, testQuery())

	_, err := client.ResolveLatest(context.Background(), "16", platform.ArchX64)
	require.ErrorIs(t, err, ErrCatalogEmpty)
}

// TestResolveLatest_NoChecksum ensures a checksum-less asset is reported as such.
func TestResolveLatest_NoChecksum(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[" + releaseJSON("x.tar.gz", "", "https://dl.local/x", "") + "]"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "jdkget-test/0.0", time.Minute, testQuery())

	_, err := client.ResolveLatest(context.Background(), "11", platform.ArchX64)
	require.ErrorIs(t, err, ErrNoChecksum)
}

// TestResolveLatest_BadStatus ensures non-200 catalog responses fail.
func TestResolveLatest_BadStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "jdkget-test/0.0", time.Minute, testQuery())

	_, err := client.ResolveLatest(context.Background(), "11", platform.ArchX64)
	require.Error(t, err)
}
