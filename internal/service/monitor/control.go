package monitor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/oshokin/lightlid/internal/logger"
)

// controlHelp lists the commands understood by Control.
const controlHelp = `commands:
  <enter>, u      enable sound (counts as a user interaction)
  <n>, s <n>      set sensitivity to n (1-255)
  p               pause or resume sampling
  ?               print status
  q               stop monitoring`

// Control reads line commands from r and applies them to the session,
// writing replies to w. It returns on EOF, on "q", or when ctx is done.
//
//nolint:cyclop // One case per command.
func (s *Session) Control(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx = logger.WithName(ctx, "control")

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		readErr <- scanner.Err()
	}()

	_, _ = fmt.Fprintln(w, controlHelp)

	for {
		var line string

		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line = <-lines:
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			fields = []string{"u"}
		}

		switch cmd := strings.ToLower(fields[0]); cmd {
		case "u":
			if err := s.Unlock(ctx); err != nil {
				_, _ = fmt.Fprintf(w, "sound: %v\n", err)
			} else {
				_, _ = fmt.Fprintln(w, "sound enabled")
			}
		case "p":
			if s.TogglePause() {
				_, _ = fmt.Fprintln(w, "paused")
			} else {
				_, _ = fmt.Fprintln(w, "resumed")
			}
		case "?", "status":
			_, _ = fmt.Fprintln(w, FormatStatus(s.Status()))
		case "q", "quit":
			s.Stop()
			_, _ = fmt.Fprintln(w, "stopped")

			return nil
		case "s":
			if len(fields) < 2 {
				_, _ = fmt.Fprintln(w, "usage: s <n>")

				continue
			}

			s.applySensitivity(ctx, w, fields[1])
		default:
			if _, err := strconv.Atoi(cmd); err == nil {
				s.applySensitivity(ctx, w, cmd)

				continue
			}

			_, _ = fmt.Fprintf(w, "unknown command %q\n%s\n", line, controlHelp)
		}
	}
}

func (s *Session) applySensitivity(ctx context.Context, w io.Writer, value string) {
	n, err := strconv.Atoi(value)
	if err == nil {
		err = s.SetSensitivity(n)
	}

	if err != nil {
		_, _ = fmt.Fprintf(w, "sensitivity: %v\n", err)

		return
	}

	logger.InfoKV(ctx, "Sensitivity changed", "sensitivity", n)
	_, _ = fmt.Fprintf(w, "sensitivity set to %d\n", n)
}

// FormatStatus renders a status snapshot on one line.
func FormatStatus(st Status) string {
	level := "n/a"
	if st.LastLevel >= 0 {
		level = strconv.Itoa(st.LastLevel)
	}

	return fmt.Sprintf(
		"%s | lid %s | level %s | baseline %d | sensitivity %d | ticks %d | errors %d | events %d",
		st.Text, st.State.Status(), level, st.State.PreviousLevel, st.State.Sensitivity,
		st.Ticks, st.SampleErrors, st.Events,
	)
}
