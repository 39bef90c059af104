// Package probe samples the configured frame source a few times and prints
// the brightness levels, to check a camera setup and pick a sensitivity.
package probe
