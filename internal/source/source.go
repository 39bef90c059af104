package source

import (
	"context"
	"errors"
	"fmt"
	"image"

	// Standard decoders for the file and command sources.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/oshokin/lightlid/internal/config"
)

// Source produces the current frame on demand.
type Source interface {
	// Frame returns the most recent frame.
	Frame(ctx context.Context) (image.Image, error)
	// Close releases any resources.
	Close() error
}

var (
	// ErrNotReady indicates the source has no frame to offer yet.
	ErrNotReady = errors.New("source not ready")
	// ErrCameraUnsupported indicates the binary was built without camera support.
	ErrCameraUnsupported = errors.New("camera source requires a build with -tags gst")
	// ErrUnknownKind is returned by New for an unsupported source kind.
	ErrUnknownKind = errors.New("unknown source kind")
)

// New builds the source described by cfg.
//
//nolint:ireturn // Factory over several adapters.
func New(cfg *config.Config) (Source, error) {
	switch cfg.Source.Kind {
	case config.SourceCamera:
		return newCamera(cfg.Source.Device)
	case config.SourceCommand:
		return NewCommand(cfg.Source.Command, cfg.Source.Device)
	case config.SourceFile:
		return NewFile(cfg.Source.Path), nil
	case config.SourceSynthetic:
		return NewSynthetic(cfg.Synthetic, nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Source.Kind)
	}
}
