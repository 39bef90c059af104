package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/lightlid/internal/audio"
	"github.com/oshokin/lightlid/internal/brightness"
	"github.com/oshokin/lightlid/internal/config"
	"github.com/oshokin/lightlid/internal/domain/lid"
	"github.com/oshokin/lightlid/internal/logger"
	"github.com/oshokin/lightlid/internal/source"
)

// recentEvents is how many events Status keeps.
const recentEvents = 16

// Status texts shown to the user.
const (
	TextIdle         = "Idle"
	TextMonitoring   = "Monitoring"
	TextPaused       = "Paused"
	TextOpened       = "Lid opened"
	TextClosed       = "Lid closed"
	TextNotReady     = "Waiting for the camera"
	TextSoundLocked  = "Sound locked: press Enter to enable it"
	textSampleFailed = "Camera error: %v"
)

// ErrAlreadyRunning is returned by Start when the session is already running.
var ErrAlreadyRunning = errors.New("session is already running")

// Status is a snapshot of a session.
type Status struct {
	// ID identifies the session in logs.
	ID string
	// State is the detector state.
	State lid.State
	// Running reports whether the scheduler loop is active.
	Running bool
	// Paused reports whether ticks are being skipped.
	Paused bool
	// Ticks counts ticks that tried to sample a frame.
	Ticks uint64
	// SampleErrors counts ticks whose frame could not be read.
	SampleErrors uint64
	// Events counts detected transitions.
	Events uint64
	// LastLevel is the most recent brightness level, -1 before the first sample.
	LastLevel int
	// Text is the human-readable status line.
	Text string
	// Recent holds the latest events, oldest first.
	Recent []lid.Event
}

// Session owns a detector and drives it from a frame source.
type Session struct {
	// id identifies the session in logs.
	id string
	// source provides frames.
	source source.Source
	// reduce turns a frame into a brightness level.
	reduce brightness.Reducer
	// player plays clips on transitions.
	player *audio.Gate
	// interval is the tick period.
	interval time.Duration

	// mu protects everything below; the detector is not goroutine safe.
	mu       sync.Mutex
	detector *lid.Detector
	running  bool
	paused   bool
	cancel   context.CancelFunc
	done     chan struct{}
	status   Status

	closeOnce sync.Once
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithInterval sets the tick period.
func WithInterval(interval time.Duration) SessionOption {
	return func(s *Session) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithSensitivity sets the initial detector sensitivity.
func WithSensitivity(sensitivity int) SessionOption {
	return func(s *Session) {
		s.detector.SetSensitivity(sensitivity)
	}
}

// WithReducer sets the frame reduction.
func WithReducer(reduce brightness.Reducer) SessionOption {
	return func(s *Session) {
		if reduce != nil {
			s.reduce = reduce
		}
	}
}

// NewSession creates a stopped session.
func NewSession(src source.Source, player *audio.Gate, opts ...SessionOption) *Session {
	s := &Session{
		id:       uuid.NewString(),
		source:   src,
		reduce:   brightness.Level,
		player:   player,
		interval: config.DefaultInterval,
		detector: lid.NewDetector(),
		status: Status{
			LastLevel: -1,
			Text:      TextIdle,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.status.ID = s.id

	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Start runs the scheduler loop until ctx is done or Stop is called.
// Every start begins with a fresh detector that keeps the current sensitivity.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()

		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.running = true
	s.cancel = cancel
	s.done = done
	s.detector = lid.NewDetector(lid.WithSensitivity(s.detector.Sensitivity()))
	s.status.Text = TextMonitoring
	s.mu.Unlock()

	defer func() {
		cancel()

		s.mu.Lock()
		s.running = false
		s.cancel = nil
		s.status.Text = TextIdle
		s.mu.Unlock()

		close(done)
	}()

	ctx = logger.WithKV(logger.WithName(ctx, "session"), "session_id", s.id)

	logger.InfoKV(ctx, "Monitoring started", "interval", s.interval.String(), "sensitivity", s.Sensitivity())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Sample immediately on start.
	s.Tick(ctx, time.Now())

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Monitoring stopped")

			return nil
		case now := <-ticker.C:
			s.Tick(ctx, now)
		}
	}
}

// Stop ends the scheduler loop and waits for it. It is a no-op when stopped.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
}

// Close stops the session and releases the source and the player.
func (s *Session) Close() error {
	s.Stop()

	var err error

	s.closeOnce.Do(func() {
		err = errors.Join(s.source.Close(), s.player.Close())
	})

	return err
}

// Tick samples one frame and feeds it to the detector.
func (s *Session) Tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	paused := s.paused
	s.mu.Unlock()

	if paused {
		return
	}

	// Reading a frame may block on an external process, so it runs unlocked.
	img, err := s.source.Frame(ctx)
	if err != nil {
		s.sampleFailed(ctx, err)

		return
	}

	level := s.reduce(img)

	s.mu.Lock()
	// Pause may have returned while the frame was being read.
	if s.paused {
		s.mu.Unlock()

		return
	}

	s.status.Ticks++
	s.status.LastLevel = level
	event, ok := s.detector.Observe(level, now)

	if ok {
		s.recordLocked(event)
	} else if s.status.Text != TextSoundLocked {
		s.status.Text = s.idleTextLocked()
	}
	s.mu.Unlock()

	logger.DebugKV(ctx, "Sampled frame", "level", level)

	if ok {
		s.play(ctx, event)
	}
}

// Pause skips ticks until Resume. Detector state is preserved.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = true
	s.status.Text = TextPaused
}

// Resume continues ticking after Pause.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = false
	s.status.Text = s.idleTextLocked()
}

// TogglePause flips between paused and running and reports the new state.
func (s *Session) TogglePause() bool {
	s.mu.Lock()
	paused := s.paused
	s.mu.Unlock()

	if paused {
		s.Resume()
	} else {
		s.Pause()
	}

	return !paused
}

// SetSensitivity changes the detector threshold for the next tick.
func (s *Session) SetSensitivity(sensitivity int) error {
	if err := config.ValidateSensitivity(sensitivity); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.detector.SetSensitivity(sensitivity)

	return nil
}

// Sensitivity returns the current detector threshold.
func (s *Session) Sensitivity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.detector.Sensitivity()
}

// Unlock records a user interaction: playback is unlocked and a deferred clip is replayed.
func (s *Session) Unlock(ctx context.Context) error {
	err := s.player.Unlock(ctx)

	s.mu.Lock()
	if s.status.Text == TextSoundLocked {
		s.status.Text = s.idleTextLocked()
	}
	s.mu.Unlock()

	return err
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.status
	st.State = s.detector.Snapshot()
	st.Running = s.running
	st.Paused = s.paused
	st.Recent = append([]lid.Event(nil), s.status.Recent...)

	return st
}

func (s *Session) sampleFailed(ctx context.Context, err error) {
	s.mu.Lock()
	if s.paused {
		s.mu.Unlock()

		return
	}

	s.status.Ticks++
	s.status.SampleErrors++

	if errors.Is(err, source.ErrNotReady) {
		s.status.Text = TextNotReady
	} else {
		s.status.Text = fmt.Sprintf(textSampleFailed, err)
	}
	s.mu.Unlock()

	if errors.Is(err, source.ErrNotReady) || errors.Is(err, context.Canceled) {
		logger.DebugKV(ctx, "Frame not available", "error", err)

		return
	}

	logger.WarnKV(ctx, "Failed to sample frame", "error", err)
}

func (s *Session) recordLocked(event lid.Event) {
	s.status.Events++

	s.status.Recent = append(s.status.Recent, event)
	if len(s.status.Recent) > recentEvents {
		s.status.Recent = s.status.Recent[len(s.status.Recent)-recentEvents:]
	}

	if event.Transition == lid.Opened {
		s.status.Text = TextOpened
	} else {
		s.status.Text = TextClosed
	}
}

// idleTextLocked is the status line when nothing happened on the last tick.
func (s *Session) idleTextLocked() string {
	switch {
	case s.paused:
		return TextPaused
	case s.detector.IsOpen():
		return TextOpened
	case s.status.Events > 0:
		return TextClosed
	default:
		return TextMonitoring
	}
}

func (s *Session) play(ctx context.Context, event lid.Event) {
	logger.InfoKV(ctx, "Lid "+event.Transition.String(), "level", event.Level, "delta", event.Delta)

	err := s.player.Play(ctx, event.Transition)
	switch {
	case err == nil:
	case errors.Is(err, audio.ErrLocked):
		s.mu.Lock()
		s.status.Text = TextSoundLocked
		s.mu.Unlock()

		logger.Info(ctx, "Sound is locked until the first interaction, press Enter to enable it")
	default:
		logger.WarnKV(ctx, "Failed to play clip", "clip", event.Transition, "error", err)
	}
}
