package monitor

import (
	"errors"
	"runtime"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"
)

var errProcessTable = errors.New("process table unavailable")

type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.name }

func listOf(processes ...fakeProcess) func() ([]ps.Process, error) {
	return func() ([]ps.Process, error) {
		result := make([]ps.Process, 0, len(processes))
		for _, p := range processes {
			result = append(result, p)
		}

		return result, nil
	}
}

func TestFindOtherProcess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		processes []fakeProcess
		wantPID   int
		wantFound bool
	}{
		{
			name:      "only self",
			processes: []fakeProcess{{pid: 10, name: "lightlid"}},
		},
		{
			name:      "unrelated processes",
			processes: []fakeProcess{{pid: 10, name: "lightlid"}, {pid: 11, name: "bash"}},
		},
		{
			name:      "another monitor",
			processes: []fakeProcess{{pid: 10, name: "lightlid"}, {pid: 12, name: "lightlid"}},
			wantPID:   12,
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pid, found, err := findOtherProcess("lightlid", 10, listOf(tt.processes...))
			require.NoError(t, err)
			require.Equal(t, tt.wantFound, found)
			require.Equal(t, tt.wantPID, pid)
		})
	}
}

func TestFindOtherProcess_TruncatedName(t *testing.T) {
	t.Parallel()

	if runtime.GOOS != "linux" {
		t.Skip("process names are truncated on linux only")
	}

	pid, found, err := findOtherProcess(
		"lightlid-monitor-long",
		10,
		listOf(fakeProcess{pid: 20, name: "lightlid-monito"}),
	)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 20, pid)
}

func TestFindOtherProcess_ListError(t *testing.T) {
	t.Parallel()

	_, _, err := findOtherProcess("lightlid", 10, func() ([]ps.Process, error) {
		return nil, errProcessTable
	})
	require.ErrorIs(t, err, errProcessTable)
}
