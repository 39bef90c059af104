package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/oshokin/lightlid/internal/domain/lid"
	"github.com/oshokin/lightlid/internal/logger"
)

// Gate defers playback until it is unlocked. While locked, and after any
// failed playback, the requested clip is kept as pending; Unlock plays the
// pending clip once. Only the most recent pending clip is kept.
type Gate struct {
	next Player

	mu      sync.Mutex
	locked  bool
	pending lid.Transition
}

// NewGate wraps next. A locked gate holds every clip until Unlock.
func NewGate(next Player, locked bool) *Gate {
	return &Gate{
		next:   next,
		locked: locked,
	}
}

// Play forwards the clip unless the gate is locked.
func (g *Gate) Play(ctx context.Context, clip lid.Transition) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.locked {
		g.pending = clip

		return ErrLocked
	}

	if err := g.next.Play(ctx, clip); err != nil {
		g.pending = clip

		return fmt.Errorf("play %s clip: %w", clip, err)
	}

	g.pending = ""

	return nil
}

// Unlock opens the gate and retries the pending clip, if any.
func (g *Gate) Unlock(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.locked = false

	if g.pending == "" {
		return nil
	}

	clip := g.pending

	logger.InfoKV(ctx, "Retrying deferred clip", "clip", clip)

	if err := g.next.Play(ctx, clip); err != nil {
		return fmt.Errorf("retry %s clip: %w", clip, err)
	}

	g.pending = ""

	return nil
}

// Locked reports whether playback is still waiting for a user interaction.
func (g *Gate) Locked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.locked
}

// Pending returns the clip waiting for Unlock.
func (g *Gate) Pending() (lid.Transition, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.pending, g.pending != ""
}

// Close closes the wrapped player.
func (g *Gate) Close() error {
	return g.next.Close()
}
