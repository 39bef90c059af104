// Package replay feeds a recorded brightness trace through the lid detector
// and prints the transitions it would have reported.
//
// A trace is plain text, one sample per line:
//
//	# offset level
//	0      40
//	500ms  90
//	2600   35
//
// The offset is a Go duration or an integer number of milliseconds since the
// start of the trace. Blank lines and lines starting with # are ignored.
package replay
