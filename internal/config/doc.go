// Package config defines the lightlid settings file and provides helpers to
// load, validate and save it in YAML format.
//
// Validate fills defaults for omitted fields, so a file that only sets the
// clip paths is enough to run the monitor.
package config
