// Package catalog queries the remote asset catalog (the Adoptium v3 API) for
// the latest JDK build matching a requested version and architecture.
//
// The catalog is treated as an opaque HTTP JSON API: a versioned "latest
// release" endpoint returning an array of asset objects, of which the nested
// binary.package descriptor yields the package name, checksum and download
// links. When several entries match, the last array element is selected,
// inheriting the catalog's own ordering.
package catalog
