// Package fetch downloads catalog assets to a scoped temporary location.
//
// The destination filename is always derived from the server's
// Content-Disposition metadata, never from the URL path; servers that omit it
// cause ErrFilenameMissing. Bodies are streamed straight to disk.
package fetch
