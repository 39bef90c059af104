package monitor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-ps"
)

// linuxCommLength is the length Linux truncates process names to.
const linuxCommLength = 15

// ErrAnotherInstance is returned when another monitor already owns the camera.
var ErrAnotherInstance = errors.New("another lightlid monitor is already running")

// checkSingleInstance fails if another process runs the same executable.
func checkSingleInstance() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	pid, found, err := findOtherProcess(filepath.Base(exe), os.Getpid(), ps.Processes)
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	if found {
		return fmt.Errorf("%w (pid %d)", ErrAnotherInstance, pid)
	}

	return nil
}

// findOtherProcess looks for a process named name other than self.
func findOtherProcess(name string, self int, list func() ([]ps.Process, error)) (int, bool, error) {
	if runtime.GOOS == "linux" && len(name) > linuxCommLength {
		name = name[:linuxCommLength]
	}

	processes, err := list()
	if err != nil {
		return 0, false, err
	}

	for _, process := range processes {
		if process.Pid() == self {
			continue
		}

		if process.Executable() == name {
			return process.Pid(), true, nil
		}
	}

	return 0, false, nil
}
