package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"runtime"
	"strings"
)

// deviceToken is replaced with the configured device in capture commands.
const deviceToken = "{device}"

var (
	// ErrEmptyCommand is returned when no capture command could be determined.
	ErrEmptyCommand = errors.New("capture command is empty")
	// ErrDeviceRequired is returned when the platform default needs a device name.
	ErrDeviceRequired = errors.New("camera device must be configured on this platform")
)

// Command runs an external capture program per frame and decodes its stdout.
type Command struct {
	args []string
}

// NewCommand creates a command source. An empty args slice selects the
// ffmpeg invocation for the current OS.
func NewCommand(args []string, device string) (*Command, error) {
	if len(args) == 0 {
		var err error

		args, err = DefaultCaptureCommand(device)
		if err != nil {
			return nil, err
		}
	}

	expanded := make([]string, len(args))
	for i, arg := range args {
		expanded[i] = strings.ReplaceAll(arg, deviceToken, device)
	}

	if expanded[0] == "" {
		return nil, ErrEmptyCommand
	}

	return &Command{
		args: expanded,
	}, nil
}

// DefaultCaptureCommand returns an ffmpeg command grabbing one PNG frame:
// - Linux:   v4l2, default device /dev/video0
// - macOS:   avfoundation, default device index 0
// - Windows: dshow, device name required.
func DefaultCaptureCommand(device string) ([]string, error) {
	osName := strings.ToLower(runtime.GOOS)
	output := []string{"-frames:v", "1", "-f", "image2pipe", "-vcodec", "png", "-"}

	switch {
	case strings.Contains(osName, "linux"):
		if device == "" {
			device = "/dev/video0"
		}

		return append([]string{"ffmpeg", "-loglevel", "error", "-f", "v4l2", "-i", device}, output...), nil
	case strings.Contains(osName, "darwin"):
		if device == "" {
			device = "0"
		}

		return append([]string{"ffmpeg", "-loglevel", "error", "-f", "avfoundation", "-framerate", "30", "-i", device}, output...), nil
	case strings.Contains(osName, "windows"):
		if device == "" {
			return nil, ErrDeviceRequired
		}

		return append([]string{"ffmpeg.exe", "-loglevel", "error", "-f", "dshow", "-i", "video=" + device}, output...), nil
	default:
		return nil, fmt.Errorf("no default capture command for %s: %w", runtime.GOOS, ErrEmptyCommand)
	}
}

// Args returns the expanded command line.
func (c *Command) Args() []string {
	return append([]string(nil), c.args...)
}

// Frame runs the capture command and decodes the frame it prints.
func (c *Command) Frame(ctx context.Context) (image.Image, error) {
	var stdout, stderr bytes.Buffer

	//nolint:gosec // The command comes from the operator's own settings file.
	cmd := exec.CommandContext(ctx, c.args[0], c.args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run capture command %s: %w: %s", c.args[0], err, strings.TrimSpace(stderr.String()))
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("capture command %s printed nothing: %w", c.args[0], ErrNotReady)
	}

	img, _, err := image.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("decode captured frame: %w", err)
	}

	return img, nil
}

// Close is a no-op; every frame uses its own process.
func (c *Command) Close() error {
	return nil
}
