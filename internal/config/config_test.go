package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/lightlid/internal/domain/lid"
)

// TestValidate_FillsDefaults checks that an empty config becomes a runnable one.
func TestValidate_FillsDefaults(t *testing.T) {
	t.Parallel()

	cfg := new(Config)
	require.NoError(t, Validate(cfg))

	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, lid.DefaultSensitivity, cfg.Sensitivity)
	require.Equal(t, DefaultInterval, cfg.Interval)
	require.Equal(t, MethodScale, cfg.Brightness.Method)
	require.Equal(t, DefaultRegion, cfg.Brightness.Region)
	require.Equal(t, SourceCamera, cfg.Source.Kind)
	require.Equal(t, 15, cfg.Synthetic.Dark)
	require.Equal(t, 180, cfg.Synthetic.Bright)
	require.Equal(t, 20, cfg.Synthetic.Period)
}

// TestValidate_Rejects covers every field with a bad value.
func TestValidate_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		err  error
	}{
		{name: "sensitivity too high", cfg: Config{Sensitivity: 256}, err: ErrInvalidSensitivity},
		{name: "negative sensitivity", cfg: Config{Sensitivity: -1}, err: ErrInvalidSensitivity},
		{name: "interval too short", cfg: Config{Interval: time.Millisecond}, err: ErrInvalidInterval},
		{name: "interval too long", cfg: Config{Interval: time.Minute}, err: ErrInvalidInterval},
		{name: "log level", cfg: Config{LogLevel: "loud"}, err: errUnknownLogLevel},
		{name: "method", cfg: Config{Brightness: Brightness{Method: "median"}}, err: errUnknownMethod},
		{name: "source kind", cfg: Config{Source: Source{Kind: "rtsp"}}, err: errUnknownSourceKind},
		{name: "file source path", cfg: Config{Source: Source{Kind: SourceFile}}, err: errSourceField},
		{name: "audio clips", cfg: Config{Audio: Audio{Enabled: true, Opened: "a.wav"}}, err: errClipsRequired},
		{name: "synthetic range", cfg: Config{Synthetic: Synthetic{Bright: 300}}, err: errSyntheticRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.cfg
			require.ErrorIs(t, Validate(&cfg), tt.err)
		})
	}

	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)
}

// TestDefault uses the synthetic source so it runs without a camera.
func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.Equal(t, SourceSynthetic, cfg.Source.Kind)
	require.False(t, cfg.Audio.Enabled)
	require.NoError(t, Validate(cfg))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lightlid.yaml")

	cfg := Default()
	cfg.Sensitivity = 25
	cfg.Interval = 500 * time.Millisecond
	cfg.Source = Source{Kind: SourceCommand, Command: []string{"capture", "--stdout"}}
	cfg.Audio = Audio{Enabled: true, Opened: "open.wav", Closed: "close.wav", RequireUnlock: true}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(DefaultFilePermissions), info.Mode().Perm())
}

// TestLoad_PartialFile keeps explicit values and fills the rest.
func TestLoad_PartialFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "partial.yaml")
	contents := "sensitivity: 30\ninterval: 1s\nsource:\n  kind: file\n  path: /tmp/frame.jpg\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 30, cfg.Sensitivity)
	require.Equal(t, time.Second, cfg.Interval)
	require.Equal(t, "/tmp/frame.jpg", cfg.Source.Path)
	require.Equal(t, MethodScale, cfg.Brightness.Method)
}

// TestLoad_Missing reports a read error.
func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

// TestLoadOrDefault falls back only for the default filename.
func TestLoadOrDefault(t *testing.T) {
	t.Parallel()

	_, fallback, err := LoadOrDefault(filepath.Join(t.TempDir(), "other.yaml"))
	require.Error(t, err)
	require.False(t, fallback)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, Save(path, Default()))

	cfg, fallback, err := LoadOrDefault(path)
	require.NoError(t, err)
	require.False(t, fallback)
	require.Equal(t, SourceSynthetic, cfg.Source.Kind)
}
