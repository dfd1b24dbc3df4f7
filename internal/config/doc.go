// Package config defines the provisioning profile used by jdkget and provides
// helpers to load, validate and save it in YAML format.
//
// The Config type holds the requested JDK versions and the fixed catalog
// query dimensions (OS, vendor, image type) along with HTTP client settings.
package config
