// Package archive unpacks verified JDK archives and reports the root
// directory they produce.
//
// The container format is a closed enumeration (gzip-compressed tar and
// bzip2-compressed tar) resolved once from the filename suffix. Extraction is
// deliberately sibling-level: entries are written into the parent directory
// of the archive file, mirroring the provisioning layout this tool has always
// produced.
package archive
