//go:build !gst

package source

//nolint:ireturn // Mirrors the gst build.
func newCamera(string) (Source, error) {
	return nil, ErrCameraUnsupported
}
