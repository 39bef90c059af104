//go:build gst

package source

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"github.com/oshokin/lightlid/internal/brightness"
)

// Camera reads a live camera through GStreamer. The pipeline scales every
// frame down to a single RGB pixel and the appsink callback keeps only the
// latest one, so Frame never waits for the camera.
type Camera struct {
	pipeline *gst.Pipeline

	// latest holds the last pixel level, -1 until the first frame arrives.
	latest atomic.Int32
	// frames counts received frames.
	frames atomic.Uint64

	closeOnce sync.Once
}

// NewCamera builds and starts the pipeline. An empty device uses autovideosrc.
func NewCamera(device string) (*Camera, error) {
	// Safe to call multiple times.
	gst.Init(nil)

	src := "autovideosrc"
	if device != "" {
		src = fmt.Sprintf("v4l2src device=%s", device)
	}

	launch := src + " ! videoconvert ! videoscale" +
		" ! video/x-raw,format=RGB,width=1,height=1" +
		" ! appsink name=sink max-buffers=1 drop=true sync=false"

	pipeline, err := gst.NewPipelineFromString(launch)
	if err != nil {
		return nil, fmt.Errorf("create camera pipeline: %w", err)
	}

	element, err := pipeline.GetElementByName("sink")
	if err != nil {
		return nil, fmt.Errorf("find appsink: %w", err)
	}

	c := &Camera{
		pipeline: pipeline,
	}
	c.latest.Store(-1)

	app.SinkFromElement(element).SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: c.onSample,
	})

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return nil, fmt.Errorf("start camera pipeline: %w", err)
	}

	return c, nil
}

//nolint:ireturn // Matches the stub signature.
func newCamera(device string) (Source, error) {
	c, err := NewCamera(device)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// onSample stores the level of the single pixel in the sample.
func (c *Camera) onSample(sink *app.Sink) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		return gst.FlowOK
	}

	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}

	data := buffer.Map(gst.MapRead).Bytes()
	if len(data) >= 3 {
		c.latest.Store(int32((int(data[0]) + int(data[1]) + int(data[2])) / 3)) //nolint:gosec // At most 255.
		c.frames.Add(1)
	}

	buffer.Unmap()

	return gst.FlowOK
}

// Frame returns the latest pixel as a 1x1 frame.
func (c *Camera) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	level := c.latest.Load()
	if level < 0 {
		return nil, fmt.Errorf("camera has not delivered a frame: %w", ErrNotReady)
	}

	return brightness.Uniform(int(level), 1, 1), nil
}

// Frames returns how many frames the pipeline delivered.
func (c *Camera) Frames() uint64 {
	return c.frames.Load()
}

// Close stops the pipeline.
func (c *Camera) Close() error {
	var err error

	c.closeOnce.Do(func() {
		err = c.pipeline.SetState(gst.StateNull)
	})

	return err
}
