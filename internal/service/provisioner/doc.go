// Package provisioner orchestrates the full JDK provisioning lifecycle:
// resolving requested versions against the Adoptium catalog, downloading
// packages and detached signatures into scoped temporary directories,
// verifying checksums before trusting any bytes, persisting verified
// packages to the destination, extracting them in place and emitting a
// JSON report of everything that survived.
//
// A marker file in the destination directory guards against concurrent
// runs; stale markers left by dead processes are reclaimed automatically.
package provisioner
