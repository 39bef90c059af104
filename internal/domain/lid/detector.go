package lid

import "time"

const (
	// DefaultSensitivity is the delta threshold used when none is configured.
	DefaultSensitivity = 10
	// CooldownDuration is the lockout window after every trigger.
	CooldownDuration = 2 * time.Second

	// MinLevel is the darkest brightness sample.
	MinLevel = 0
	// MaxLevel is the brightest brightness sample.
	MaxLevel = 255
)

// Detector is a hysteresis state machine over brightness samples.
// It is not safe for concurrent use; callers serialise Observe calls.
type Detector struct {
	state    State
	cooldown time.Duration
}

// Option configures a Detector.
type Option func(*Detector)

// WithSensitivity sets the initial sensitivity.
func WithSensitivity(sensitivity int) Option {
	return func(d *Detector) {
		d.state.Sensitivity = sensitivity
	}
}

// WithBaseline primes the level the first sample is compared with.
func WithBaseline(level int) Option {
	return func(d *Detector) {
		d.state.PreviousLevel = level
	}
}

// NewDetector creates a closed detector with a zero baseline that has never triggered.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		state: State{
			Sensitivity: DefaultSensitivity,
		},
		cooldown: CooldownDuration,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Observe feeds one brightness sample taken at now and reports the
// transition it caused, if any.
//
// Inside the cooldown window the sample is ignored entirely: no event and no
// baseline update. The baseline is also left untouched on the tick that
// triggers, so it stays at the pre-trigger level until the window elapses.
func (d *Detector) Observe(level int, now time.Time) (Event, bool) {
	if d.inCooldown(now) {
		return Event{}, false
	}

	var (
		event     Event
		triggered bool
		delta     = level - d.state.PreviousLevel
	)

	switch {
	case delta > d.state.Sensitivity && !d.state.IsOpen:
		d.state.IsOpen = true
		event, triggered = d.trigger(Opened, level, delta, now), true
	case delta < -d.state.Sensitivity && d.state.IsOpen:
		d.state.IsOpen = false
		event, triggered = d.trigger(Closed, level, delta, now), true
	}

	if !d.inCooldown(now) {
		d.state.PreviousLevel = level
	}

	return event, triggered
}

// SetSensitivity changes the threshold used by the next Observe call.
func (d *Detector) SetSensitivity(sensitivity int) {
	d.state.Sensitivity = sensitivity
}

// Sensitivity returns the current threshold.
func (d *Detector) Sensitivity() int {
	return d.state.Sensitivity
}

// IsOpen reports whether the container is considered open.
func (d *Detector) IsOpen() bool {
	return d.state.IsOpen
}

// Snapshot returns a copy of the current state.
func (d *Detector) Snapshot() State {
	return d.state
}

func (d *Detector) trigger(transition Transition, level, delta int, now time.Time) Event {
	d.state.Triggered = true
	d.state.LastTrigger = now

	return Event{
		Transition: transition,
		Level:      level,
		Delta:      delta,
		At:         now,
	}
}

// inCooldown reports whether now falls inside the lockout window.
func (d *Detector) inCooldown(now time.Time) bool {
	if !d.state.Triggered {
		return false
	}

	return now.Sub(d.state.LastTrigger) < d.cooldown
}
