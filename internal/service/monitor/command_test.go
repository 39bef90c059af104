package monitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/lightlid/internal/config"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadSettings_Overrides(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "sensitivity: 25\ninterval: 500ms\nsource:\n  kind: synthetic\n")

	cfg, err := LoadSettings(path, 0, 0, "")
	require.NoError(t, err)
	require.Equal(t, 25, cfg.Sensitivity)
	require.Equal(t, 500*time.Millisecond, cfg.Interval)

	cfg, err = LoadSettings(path, 40, time.Second, "debug")
	require.NoError(t, err)
	require.Equal(t, 40, cfg.Sensitivity)
	require.Equal(t, time.Second, cfg.Interval)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadSettings_Errors(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "source:\n  kind: synthetic\n")

	_, err := LoadSettings(path, 300, 0, "")
	require.ErrorIs(t, err, config.ErrInvalidSensitivity)

	_, err = LoadSettings(path, 0, time.Millisecond, "")
	require.ErrorIs(t, err, config.ErrInvalidInterval)

	_, err = LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"), 0, 0, "")
	require.Error(t, err)
}

func TestRun_StopsWithContext(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "log_level: error\nsource:\n  kind: synthetic\naudio:\n  enabled: false\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, &Options{
		ConfigPath:    path,
		AllowMultiple: true,
	})
	require.NoError(t, err)
}

func TestRun_InvalidSettings(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "source:\n  kind: tape\n")

	err := Run(context.Background(), &Options{ConfigPath: path, AllowMultiple: true})
	require.Error(t, err)
}
