// Package lid contains the light-transition detector that decides when a
// container was opened or closed.
//
// Detector consumes one brightness level per tick and reports an Event when
// the level jumps past the sensitivity threshold in the direction that flips
// the open/closed state. A fixed cooldown window after every trigger blocks
// both new triggers and baseline updates.
package lid
