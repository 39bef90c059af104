package lid

import "time"

// Transition names the direction of a detected state change.
type Transition string

const (
	// Opened is reported when the light level jumps up while closed.
	Opened Transition = "opened"
	// Closed is reported when the light level drops while open.
	Closed Transition = "closed"
)

// String returns the transition name.
func (t Transition) String() string {
	return string(t)
}

// Event describes a single detected transition.
type Event struct {
	// Transition is the new state of the container.
	Transition Transition
	// Level is the brightness sample that caused the transition.
	Level int
	// Delta is the difference between Level and the baseline it was compared with.
	Delta int
	// At is the time the sample was observed.
	At time.Time
}

// State is the detector status at a specific point in time.
type State struct {
	// PreviousLevel is the baseline the next sample is compared with.
	PreviousLevel int
	// IsOpen reports whether the container is currently considered open.
	IsOpen bool
	// Triggered reports whether any transition has fired yet.
	Triggered bool
	// LastTrigger is when the last transition fired. Meaningful only when Triggered.
	LastTrigger time.Time
	// Sensitivity is the minimum absolute delta that counts as a transition.
	Sensitivity int
}

// Clone returns a copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	cloned := *s

	return &cloned
}

// Status returns "open" or "closed".
func (s *State) Status() string {
	if s.IsOpen {
		return "open"
	}

	return "closed"
}
