package source

import (
	"context"
	"image"
	"math/rand/v2"
	"sync"

	"github.com/oshokin/lightlid/internal/brightness"
	"github.com/oshokin/lightlid/internal/config"
)

// syntheticSide is the side of the frames produced by Synthetic.
const syntheticSide = 4

// Synthetic simulates a lid that flips between dark and bright every
// Period frames, for development without a camera.
type Synthetic struct {
	cfg config.Synthetic
	rng *rand.Rand

	mu    sync.Mutex
	frame int
}

// NewSynthetic creates the fake source. A nil rng uses the global generator.
func NewSynthetic(cfg config.Synthetic, rng *rand.Rand) *Synthetic {
	if cfg.Period <= 0 {
		cfg.Period = 1
	}

	return &Synthetic{
		cfg: cfg,
		rng: rng,
	}
}

// Frame returns a uniform frame for the next position of the script.
func (s *Synthetic) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return brightness.Uniform(s.next(), syntheticSide, syntheticSide), nil
}

// Close is a no-op for the synthetic source.
func (s *Synthetic) Close() error {
	return nil
}

func (s *Synthetic) next() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	level := s.cfg.Dark
	if (s.frame/s.cfg.Period)%2 == 1 {
		level = s.cfg.Bright
	}

	s.frame++

	if s.cfg.Jitter > 0 {
		level += s.intN(2*s.cfg.Jitter+1) - s.cfg.Jitter
	}

	return level
}

func (s *Synthetic) intN(n int) int {
	if s.rng != nil {
		return s.rng.IntN(n)
	}

	return rand.IntN(n) //nolint:gosec // Simulated noise.
}
