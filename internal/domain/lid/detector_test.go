package lid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// base is an arbitrary non-zero reference time for the scenarios below.
var base = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return base.Add(time.Duration(ms) * time.Millisecond)
}

// TestNewDetector_Defaults checks the initial state of a fresh detector.
func TestNewDetector_Defaults(t *testing.T) {
	t.Parallel()

	d := NewDetector()
	s := d.Snapshot()

	require.Equal(t, DefaultSensitivity, s.Sensitivity)
	require.Zero(t, s.PreviousLevel)
	require.False(t, s.IsOpen)
	require.False(t, s.Triggered)
}

// TestObserve_ConstantLevelNeverEmits feeds flat sequences and expects silence.
func TestObserve_ConstantLevelNeverEmits(t *testing.T) {
	t.Parallel()

	for _, level := range []int{0, 1, 50, 128, 255} {
		d := NewDetector(WithBaseline(level))

		for i := range 50 {
			_, ok := d.Observe(level, at(i*200))
			require.False(t, ok, "level %d tick %d", level, i)
		}

		require.False(t, d.IsOpen())
	}
}

// TestObserve_Thresholds covers the strict inequality on both directions.
func TestObserve_Thresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		open     bool
		baseline int
		level    int
		want     bool
	}{
		{name: "rise above sensitivity opens", baseline: 50, level: 61, want: true},
		{name: "rise equal to sensitivity ignored", baseline: 50, level: 60},
		{name: "drop while closed ignored", baseline: 50, level: 0},
		{name: "drop below sensitivity closes", open: true, baseline: 50, level: 39, want: true},
		{name: "drop equal to sensitivity ignored", open: true, baseline: 50, level: 40},
		{name: "rise while open ignored", open: true, baseline: 50, level: 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := NewDetector(WithBaseline(tt.baseline))
			d.state.IsOpen = tt.open

			_, ok := d.Observe(tt.level, at(0))
			require.Equal(t, tt.want, ok)
			require.Equal(t, tt.open != tt.want, d.IsOpen())
		})
	}
}

// TestObserve_OpenThenClose runs a full cycle with cooldowns elapsed in between.
func TestObserve_OpenThenClose(t *testing.T) {
	t.Parallel()

	d := NewDetector(WithBaseline(20))

	ev, ok := d.Observe(120, at(0))
	require.True(t, ok)
	require.Equal(t, Opened, ev.Transition)
	require.Equal(t, 120, ev.Level)
	require.Equal(t, 100, ev.Delta)
	require.Equal(t, at(0), ev.At)
	require.True(t, d.IsOpen())

	// Cooldown elapsed, level steady: baseline moves to 120.
	_, ok = d.Observe(120, at(2000))
	require.False(t, ok)
	require.Equal(t, 120, d.Snapshot().PreviousLevel)

	ev, ok = d.Observe(20, at(2200))
	require.True(t, ok)
	require.Equal(t, Closed, ev.Transition)
	require.Equal(t, -100, ev.Delta)
	require.False(t, d.IsOpen())
	require.Equal(t, at(2200), d.Snapshot().LastTrigger)
}

// TestObserve_CooldownLocksOut asserts nothing fires inside the window, whatever the magnitude.
func TestObserve_CooldownLocksOut(t *testing.T) {
	t.Parallel()

	d := NewDetector(WithBaseline(0))

	_, ok := d.Observe(200, at(0))
	require.True(t, ok)

	for _, ms := range []int{1, 100, 999, 1500, 1999} {
		for _, level := range []int{0, 255} {
			_, ok = d.Observe(level, at(ms))
			require.False(t, ok, "t=%dms level=%d", ms, level)
		}
	}

	require.True(t, d.IsOpen())
	require.Zero(t, d.Snapshot().PreviousLevel)

	// Exactly at the window boundary evaluation resumes.
	ev, ok := d.Observe(0, at(2000))
	require.False(t, ok, "delta is measured against the frozen baseline of 0")
	require.Zero(t, ev)
}

// TestObserve_RepeatedDeltaIsIdempotent checks that re-triggering in the same state is a no-op.
func TestObserve_RepeatedDeltaIsIdempotent(t *testing.T) {
	t.Parallel()

	d := NewDetector(WithBaseline(0))

	_, ok := d.Observe(100, at(0))
	require.True(t, ok)

	// Back to 0 after the cooldown: the frozen baseline is still 0, so no delta.
	_, ok = d.Observe(0, at(3000))
	require.False(t, ok)

	// Same +100 jump again while already open.
	_, ok = d.Observe(100, at(6000))
	require.False(t, ok)
	require.True(t, d.IsOpen())
}

// TestObserve_FrozenBaselineScenario reproduces the reference open/close sequence.
func TestObserve_FrozenBaselineScenario(t *testing.T) {
	t.Parallel()

	d := NewDetector(WithSensitivity(10), WithBaseline(50))

	ev, ok := d.Observe(70, at(0))
	require.True(t, ok)
	require.Equal(t, Opened, ev.Transition)
	require.True(t, d.IsOpen())
	require.Equal(t, at(0), d.Snapshot().LastTrigger)
	require.Equal(t, 50, d.Snapshot().PreviousLevel, "trigger tick does not re-base")

	_, ok = d.Observe(20, at(500))
	require.False(t, ok)
	require.Equal(t, 50, d.Snapshot().PreviousLevel)

	ev, ok = d.Observe(20, at(2100))
	require.True(t, ok)
	require.Equal(t, Closed, ev.Transition)
	require.Equal(t, -30, ev.Delta)
	require.False(t, d.IsOpen())
}

// TestObserve_CooldownFromZeroTime runs the reference sequence on a clock
// whose epoch is the zero time.
func TestObserve_CooldownFromZeroTime(t *testing.T) {
	t.Parallel()

	var epoch time.Time

	d := NewDetector(WithSensitivity(10), WithBaseline(50))

	ev, ok := d.Observe(70, epoch)
	require.True(t, ok)
	require.Equal(t, Opened, ev.Transition)
	require.True(t, d.Snapshot().Triggered)

	_, ok = d.Observe(20, epoch.Add(500*time.Millisecond))
	require.False(t, ok, "inside the cooldown of a trigger at the zero time")
	require.True(t, d.IsOpen())
	require.Equal(t, 50, d.Snapshot().PreviousLevel)

	ev, ok = d.Observe(20, epoch.Add(2100*time.Millisecond))
	require.True(t, ok)
	require.Equal(t, Closed, ev.Transition)
	require.Equal(t, -30, ev.Delta)
}

// TestSetSensitivity_TakesEffectOnNextObserve raises the threshold between samples.
func TestSetSensitivity_TakesEffectOnNextObserve(t *testing.T) {
	t.Parallel()

	d := NewDetector(WithBaseline(100))
	d.SetSensitivity(60)
	require.Equal(t, 60, d.Sensitivity())

	_, ok := d.Observe(150, at(0))
	require.False(t, ok)

	d.SetSensitivity(5)

	_, ok = d.Observe(160, at(200))
	require.True(t, ok)
}

// TestStateCloneAndStatus verifies Clone copies values and handles nil.
func TestStateCloneAndStatus(t *testing.T) {
	t.Parallel()

	require.Nil(t, (*State)(nil).Clone())

	s := &State{PreviousLevel: 42, IsOpen: true, LastTrigger: base, Sensitivity: 7}
	c := s.Clone()

	require.Equal(t, s, c)
	require.NotSame(t, s, c)
	require.Equal(t, "open", s.Status())

	c.IsOpen = false
	require.Equal(t, "closed", c.Status())
	require.True(t, s.IsOpen)
}
