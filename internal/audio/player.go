package audio

import (
	"context"
	"errors"

	"github.com/oshokin/lightlid/internal/domain/lid"
	"github.com/oshokin/lightlid/internal/logger"
)

// Player plays the clip bound to a transition.
type Player interface {
	// Play starts the clip from the beginning and returns without waiting for it to end.
	Play(ctx context.Context, clip lid.Transition) error
	// Close stops playback and releases resources.
	Close() error
}

var (
	// ErrLocked indicates playback waits for a user interaction.
	ErrLocked = errors.New("audio playback is locked until a user interaction")
	// ErrUnsupportedOS indicates there is no default player for this OS.
	ErrUnsupportedOS = errors.New("unsupported operating system")
	// ErrNoPlayer indicates none of the default player programs is installed.
	ErrNoPlayer = errors.New("no audio player program found")
	// ErrUnknownClip is returned for a transition without a clip.
	ErrUnknownClip = errors.New("no clip for transition")
	// ErrBadClip is returned when a clip file is missing or not a regular file.
	ErrBadClip = errors.New("clip is not a readable file")
)

// Mute logs transitions instead of playing them.
type Mute struct{}

// Play logs the clip name.
func (Mute) Play(ctx context.Context, clip lid.Transition) error {
	logger.InfoKV(ctx, "Audio muted, skipping clip", "clip", clip)

	return nil
}

// Close is a no-op.
func (Mute) Close() error {
	return nil
}
