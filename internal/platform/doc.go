// Package platform normalizes host machine identifiers into the architecture
// vocabulary used by the asset catalog.
//
// The mapping is a fixed enumeration: 64-bit x86 variants collapse to "x64",
// 32-bit variants to "x32"/"x86", and 64-bit ARM to "aarch64". Identifiers
// outside the mapping fail with ErrUnsupportedArchitecture before any network
// call is made.
package platform
