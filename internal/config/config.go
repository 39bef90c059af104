package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/lightlid/internal/domain/lid"
	"github.com/oshokin/lightlid/internal/logger"
)

// Config holds every setting of the monitor and its collaborators.
type Config struct {
	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// Sensitivity is the minimum brightness delta that counts as a transition.
	Sensitivity int `yaml:"sensitivity"`
	// Interval is the period between two samples.
	Interval time.Duration `yaml:"interval"`
	// Brightness selects how a frame is reduced to one level.
	Brightness Brightness `yaml:"brightness"`
	// Source describes where frames come from.
	Source Source `yaml:"source"`
	// Synthetic tunes the fake source used for development.
	Synthetic Synthetic `yaml:"synthetic"`
	// Audio describes the clips played on transitions.
	Audio Audio `yaml:"audio"`
}

// Brightness configures frame reduction.
type Brightness struct {
	// Method is "scale" (whole frame to one pixel) or "region" (centre square mean).
	Method string `yaml:"method"`
	// Region is the side of the centre square in pixels, used by the region method.
	Region int `yaml:"region"`
}

// Source configures the frame source.
type Source struct {
	// Kind is one of camera, command, file, synthetic.
	Kind string `yaml:"kind"`
	// Path is the image file read by the file source.
	Path string `yaml:"path,omitempty"`
	// Command is the capture command of the command source. It must write one
	// encoded frame to stdout.
	Command []string `yaml:"command,omitempty"`
	// Device is the camera device; empty picks the system default.
	Device string `yaml:"device,omitempty"`
}

// Synthetic configures the development source.
type Synthetic struct {
	// Dark is the level reported while the simulated lid is closed.
	Dark int `yaml:"dark"`
	// Bright is the level reported while the simulated lid is open.
	Bright int `yaml:"bright"`
	// Period is the number of frames between simulated lid flips.
	Period int `yaml:"period"`
	// Jitter is the maximum random deviation added to each frame.
	Jitter int `yaml:"jitter"`
}

// Audio configures playback.
type Audio struct {
	// Enabled turns playback on. Disabled audio only logs transitions.
	Enabled bool `yaml:"enabled"`
	// Opened is the clip played when the lid opens.
	Opened string `yaml:"opened"`
	// Closed is the clip played when the lid closes.
	Closed string `yaml:"closed"`
	// Command overrides the OS player. "{file}" is replaced with the clip path,
	// "{file-sq}" with the path escaped for a single-quoted PowerShell string.
	Command []string `yaml:"command,omitempty"`
	// RequireUnlock holds playback until the first user interaction.
	RequireUnlock bool `yaml:"require_unlock"`
}

const (
	// DefaultConfigFilename is the default settings filename.
	DefaultConfigFilename = "lightlid.yaml"

	// DefaultInterval is the default sampling period.
	DefaultInterval = 250 * time.Millisecond
	// MinInterval is the shortest accepted sampling period.
	MinInterval = 50 * time.Millisecond
	// MaxInterval is the longest accepted sampling period.
	MaxInterval = 10 * time.Second

	// DefaultRegion is the default side of the centre sampling square.
	DefaultRegion = 4

	// DefaultFilePermissions is the permission used when saving settings.
	DefaultFilePermissions = 0o600
)

// Source kinds.
const (
	SourceCamera    = "camera"
	SourceCommand   = "command"
	SourceFile      = "file"
	SourceSynthetic = "synthetic"
)

// Brightness methods.
const (
	MethodScale  = "scale"
	MethodRegion = "region"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// ErrInvalidSensitivity is returned for a sensitivity outside [1, 255].
	ErrInvalidSensitivity = errors.New("sensitivity must be between 1 and 255")
	// ErrInvalidInterval is returned for an interval outside [MinInterval, MaxInterval].
	ErrInvalidInterval = errors.New("interval out of range")
	// errUnknownLogLevel is returned for an unparsable log level.
	errUnknownLogLevel = errors.New("unknown log level")
	// errUnknownSourceKind is returned for an unsupported source kind.
	errUnknownSourceKind = errors.New("unknown source kind")
	// errUnknownMethod is returned for an unsupported brightness method.
	errUnknownMethod = errors.New("unknown brightness method")
	// errSourceField is returned when a source kind misses its required field.
	errSourceField = errors.New("source field is required")
	// errClipsRequired is returned when audio is enabled without clip paths.
	errClipsRequired = errors.New("audio clips must be provided when audio is enabled")
	// errSyntheticRange is returned for synthetic levels outside [0, 255].
	errSyntheticRange = errors.New("synthetic levels must be between 0 and 255")
)

// Default returns a configuration that runs against the synthetic source with audio off.
func Default() *Config {
	cfg := &Config{
		Source: Source{Kind: SourceSynthetic},
	}

	// Defaults never fail validation.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load, but falls back to Default when path is the
// default filename and that file does not exist. The boolean reports the fallback.
func LoadOrDefault(path string) (*Config, bool, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	cfg, err := Load(path)
	if err == nil {
		return cfg, false, nil
	}

	if path == DefaultConfigFilename && errors.Is(err, os.ErrNotExist) {
		return Default(), true, nil
	}

	return nil, false, err
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults for omitted fields and checks the rest.
//
//nolint:cyclop // One flat check per field.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	if cfg.Sensitivity == 0 {
		cfg.Sensitivity = lid.DefaultSensitivity
	}

	if err := ValidateSensitivity(cfg.Sensitivity); err != nil {
		return err
	}

	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}

	if cfg.Interval < MinInterval || cfg.Interval > MaxInterval {
		return fmt.Errorf("%w: %s not in [%s, %s]", ErrInvalidInterval, cfg.Interval, MinInterval, MaxInterval)
	}

	if err := validateBrightness(&cfg.Brightness); err != nil {
		return err
	}

	if err := validateSource(&cfg.Source); err != nil {
		return err
	}

	if err := validateSynthetic(&cfg.Synthetic); err != nil {
		return err
	}

	if cfg.Audio.Enabled && (cfg.Audio.Opened == "" || cfg.Audio.Closed == "") {
		return errClipsRequired
	}

	return nil
}

// ValidateSensitivity checks a sensitivity value set at runtime.
func ValidateSensitivity(sensitivity int) error {
	if sensitivity < 1 || sensitivity > lid.MaxLevel {
		return fmt.Errorf("%w: got %d", ErrInvalidSensitivity, sensitivity)
	}

	return nil
}

func validateBrightness(b *Brightness) error {
	if b.Method == "" {
		b.Method = MethodScale
	}

	if b.Region <= 0 {
		b.Region = DefaultRegion
	}

	switch b.Method {
	case MethodScale, MethodRegion:
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownMethod, b.Method)
	}
}

func validateSource(s *Source) error {
	if s.Kind == "" {
		s.Kind = SourceCamera
	}

	switch s.Kind {
	case SourceCamera, SourceSynthetic:
		return nil
	case SourceFile:
		if s.Path == "" {
			return fmt.Errorf("%w: path for %s source", errSourceField, s.Kind)
		}

		return nil
	case SourceCommand:
		// An empty command falls back to the per-OS default.
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownSourceKind, s.Kind)
	}
}

func validateSynthetic(s *Synthetic) error {
	if s.Bright == 0 && s.Dark == 0 {
		s.Dark, s.Bright = 15, 180
	}

	if s.Period <= 0 {
		s.Period = 20
	}

	if s.Jitter < 0 {
		s.Jitter = 0
	}

	for _, level := range []int{s.Dark, s.Bright} {
		if level < lid.MinLevel || level > lid.MaxLevel {
			return fmt.Errorf("%w: got %d", errSyntheticRange, level)
		}
	}

	return nil
}
