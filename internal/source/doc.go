// Package source provides the frame sources the monitor samples.
//
// Every adapter implements Source. Adapters that cannot produce a frame yet
// (camera warming up, capture file not written) return an error wrapping
// ErrNotReady; callers log it and try again on the next tick.
//
// The camera adapter uses GStreamer and is only compiled with the gst build tag.
package source
