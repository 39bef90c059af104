package audio

import (
	"github.com/oshokin/lightlid/internal/config"
)

// New builds the gated player described by cfg. Disabled or muted audio
// produces an unlocked gate over Mute.
func New(cfg config.Audio, mute bool) (*Gate, error) {
	if mute || !cfg.Enabled {
		return NewGate(Mute{}, false), nil
	}

	player, err := NewCommandPlayer(cfg.Opened, cfg.Closed, cfg.Command)
	if err != nil {
		return nil, err
	}

	return NewGate(player, cfg.RequireUnlock), nil
}
