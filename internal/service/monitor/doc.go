// Package monitor runs a light-transition detection session.
//
// A Session samples a frame source on a fixed tick, reduces each frame to
// one brightness level, feeds it to the detector and plays the matching clip
// on every transition. Sampling and playback failures only change the
// status text; they never reach the detector.
package monitor
