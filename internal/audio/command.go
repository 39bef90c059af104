package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/oshokin/lightlid/internal/domain/lid"
	"github.com/oshokin/lightlid/internal/logger"
)

const (
	// fileToken is replaced with the clip path in player commands.
	fileToken = "{file}"
	// quotedFileToken is replaced with the clip path with every ' doubled,
	// for paths inside single-quoted PowerShell strings.
	quotedFileToken = "{file-sq}"
)

// CommandPlayer plays clips by spawning an external player program.
type CommandPlayer struct {
	// clips maps each transition to its audio file.
	clips map[lid.Transition]string
	// command is the player command line with fileToken placeholders.
	command []string

	// mu protects running.
	mu sync.Mutex
	// running holds the player process of each clip that may still be playing.
	running map[lid.Transition]*exec.Cmd
}

// NewCommandPlayer checks both clip files up front and resolves the player
// command. An empty command selects the default for the current OS.
func NewCommandPlayer(opened, closed string, command []string) (*CommandPlayer, error) {
	clips := map[lid.Transition]string{
		lid.Opened: filepath.Clean(opened),
		lid.Closed: filepath.Clean(closed),
	}

	for clip, path := range clips {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%s clip %s: %w: %w", clip, path, ErrBadClip, err)
		}

		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("%s clip %s: %w", clip, path, ErrBadClip)
		}
	}

	if len(command) == 0 {
		var err error

		command, err = DefaultPlayerCommand()
		if err != nil {
			return nil, err
		}
	}

	return &CommandPlayer{
		clips:   clips,
		command: command,
		running: make(map[lid.Transition]*exec.Cmd, len(clips)),
	}, nil
}

// DefaultPlayerCommand returns the built-in player for the current OS:
// - macOS:   afplay
// - Linux:   paplay, falling back to aplay
// - Windows: PowerShell Media.SoundPlayer.
func DefaultPlayerCommand() ([]string, error) {
	osName := strings.ToLower(runtime.GOOS)

	switch {
	case strings.Contains(osName, "darwin"):
		return []string{"afplay", fileToken}, nil
	case strings.Contains(osName, "linux"):
		if _, err := exec.LookPath("paplay"); err == nil {
			return []string{"paplay", fileToken}, nil
		}

		if _, err := exec.LookPath("aplay"); err == nil {
			return []string{"aplay", "-q", fileToken}, nil
		}

		return nil, ErrNoPlayer
	case strings.Contains(osName, "windows"):
		return powerShellCommand(), nil
	default:
		return nil, fmt.Errorf("no default audio player for %s: %w", runtime.GOOS, ErrUnsupportedOS)
	}
}

// powerShellCommand plays a clip with Media.SoundPlayer.
func powerShellCommand() []string {
	script := fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", quotedFileToken)

	return []string{"powershell.exe", "-NoProfile", "-NonInteractive", "-Command", script}
}

// expandArgs substitutes the clip path into command.
func expandArgs(command []string, path string) []string {
	replacer := strings.NewReplacer(
		quotedFileToken, strings.ReplaceAll(path, "'", "''"),
		fileToken, path,
	)

	args := make([]string, len(command))
	for i, arg := range command {
		args[i] = replacer.Replace(arg)
	}

	return args
}

// Play stops the clip if it is still playing and starts it again.
func (p *CommandPlayer) Play(ctx context.Context, clip lid.Transition) error {
	path, ok := p.clips[clip]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownClip, clip)
	}

	args := expandArgs(p.command, path)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked(clip)

	// Playback outlives the tick that started it, so it is not bound to ctx.
	cmd := exec.Command(args[0], args[1:]...) //nolint:gosec,noctx // Operator-provided player.
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start player %s: %w", args[0], err)
	}

	p.running[clip] = cmd

	logger.DebugKV(ctx, "Playing clip", "clip", clip, "file", path, "pid", cmd.Process.Pid)

	go p.reap(clip, cmd)

	return nil
}

// Close stops every clip that is still playing.
func (p *CommandPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for clip := range p.running {
		p.stopLocked(clip)
	}

	return nil
}

func (p *CommandPlayer) stopLocked(clip lid.Transition) {
	cmd, ok := p.running[clip]
	if !ok {
		return
	}

	// The process may have exited already; reap handles Wait.
	_ = cmd.Process.Kill()

	delete(p.running, clip)
}

func (p *CommandPlayer) reap(clip lid.Transition, cmd *exec.Cmd) {
	_ = cmd.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running[clip] == cmd {
		delete(p.running, clip)
	}
}
