package say

import (
	"fmt"
	"strings"
	"time"
)

// Config contains all configuration for the synthesis and playback core.
// The launcher passes these via environment variables; a yaml config file
// provides the persistent defaults.
type Config struct {
	Backend  BackendConfig  `yaml:"backend" envPrefix:"SAYS_"`
	Playback PlaybackConfig `yaml:"playback" envPrefix:"SAYS_"`
	Artifact ArtifactConfig `yaml:"artifact" envPrefix:"SAYS_"`

	// SynthesisTimeout bounds a single synthesis invocation, including any
	// SSH round trip. Exceeding it fails the job.
	SynthesisTimeout time.Duration `yaml:"synthesis_timeout" env:"SAYS_SYNTHESIS_TIMEOUT"`

	// QueryTimeout bounds metadata queries such as list-models.
	QueryTimeout time.Duration `yaml:"query_timeout" env:"SAYS_QUERY_TIMEOUT"`
}

// BackendConfig describes the synthesis backend invocation.
type BackendConfig struct {
	// Executable is the path to the TTS binary, local or on the remote host.
	Executable string `yaml:"executable" env:"TTS"`

	// Host is the SSH host alias for remote synthesis. Empty, "localhost"
	// or "127.0.0.1" select local execution.
	Host string `yaml:"host" env:"HOST"`

	// Device selects the inference device; anything other than empty or
	// "cpu" enables the CUDA flag with that device name.
	Device string `yaml:"device" env:"DEVICE"`
}

// UseCuda reports whether the configured device enables GPU inference.
func (c BackendConfig) UseCuda() bool {
	d := strings.TrimSpace(c.Device)
	return d != "" && !strings.EqualFold(d, "cpu")
}

// BackendKind resolves the backend variant from the configured host.
func (c BackendConfig) BackendKind() Backend {
	return ParseBackend(c.Host)
}

// PlaybackConfig describes the audio players.
type PlaybackConfig struct {
	// Preferred is the player tried first.
	Preferred string `yaml:"preferred" env:"PLAYER"`

	// PreferredArgs are extra arguments placed before the file path.
	PreferredArgs []string `yaml:"preferred_args" env:"PLAYER_ARGS"`

	// Fallback is tried exactly once when the preferred player fails.
	Fallback string `yaml:"fallback" env:"FALLBACK_PLAYER"`

	// FallbackArgs are extra arguments placed before the file path.
	FallbackArgs []string `yaml:"fallback_args" env:"FALLBACK_PLAYER_ARGS"`

	// Transcoder optionally converts the artifact before playback
	// (ffmpeg-compatible: -y -i in out). Empty disables transcoding.
	Transcoder string `yaml:"transcoder" env:"TRANSCODER"`

	// Timeout bounds a single player invocation.
	Timeout time.Duration `yaml:"timeout" env:"PLAYBACK_TIMEOUT"`
}

// RetentionPolicy selects what happens to superseded artifacts.
type RetentionPolicy string

const (
	// RetentionReplace keeps a single artifact file that each job overwrites.
	RetentionReplace RetentionPolicy = "replace"
	// RetentionArchive compresses superseded artifacts into an indexed archive.
	RetentionArchive RetentionPolicy = "archive"
)

// UnmarshalText implements encoding.TextUnmarshaler so the policy can be
// set from environment variables.
func (p *RetentionPolicy) UnmarshalText(text []byte) error {
	*p = RetentionPolicy(text)
	return nil
}

// ArtifactConfig describes where artifacts live and how long they are kept.
type ArtifactConfig struct {
	// Dir is the cache directory for artifacts. Empty selects the
	// platform cache dir for the application.
	Dir string `yaml:"dir" env:"CACHE_DIR"`

	Retention RetentionPolicy `yaml:"retention" env:"RETENTION"`

	// MaxArchived caps the archive entry count (archive retention only).
	MaxArchived int `yaml:"max_archived" env:"MAX_ARCHIVED"`

	// MaxAge expires archived artifacts (archive retention only).
	MaxAge time.Duration `yaml:"max_age" env:"MAX_AGE"`

	// CompressionLevel is the zstd level for archived artifacts, 0 disables
	// compression.
	CompressionLevel int `yaml:"compression_level" env:"COMPRESSION_LEVEL"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			Device: "cpu",
		},
		Playback: PlaybackConfig{
			Preferred: "afplay",
			Fallback:  "mpv",
			Timeout:   10 * time.Minute,
		},
		Artifact: ArtifactConfig{
			Retention:        RetentionReplace,
			MaxArchived:      20,
			MaxAge:           7 * 24 * time.Hour,
			CompressionLevel: 3,
		},
		SynthesisTimeout: 3 * time.Minute,
		QueryTimeout:     2 * time.Minute,
	}
}

// Validate checks structural constraints. Presence of the backend
// executable is checked at planning time, so commands that never touch the
// backend still work on a sparse configuration.
func (c *Config) Validate() error {
	if c.SynthesisTimeout < time.Second {
		return fmt.Errorf("%w: synthesis_timeout must be at least 1s, got %v", ErrInvalidConfig, c.SynthesisTimeout)
	}

	if strings.TrimSpace(c.Playback.Preferred) == "" {
		return fmt.Errorf("%w: playback.preferred player cannot be empty", ErrInvalidConfig)
	}

	switch c.Artifact.Retention {
	case RetentionReplace, RetentionArchive:
	default:
		return fmt.Errorf("%w: artifact.retention must be %q or %q, got %q",
			ErrInvalidConfig, RetentionReplace, RetentionArchive, c.Artifact.Retention)
	}

	if c.Artifact.Retention == RetentionArchive {
		if c.Artifact.MaxArchived < 1 {
			return fmt.Errorf("%w: artifact.max_archived must be at least 1, got %d",
				ErrInvalidConfig, c.Artifact.MaxArchived)
		}
		if c.Artifact.CompressionLevel < 0 || c.Artifact.CompressionLevel > 22 {
			return fmt.Errorf("%w: artifact.compression_level must be between 0 and 22, got %d",
				ErrInvalidConfig, c.Artifact.CompressionLevel)
		}
	}

	return nil
}

// NewRequest builds a SynthesisRequest for the given text from this
// configuration and an optional voice profile.
func (c *Config) NewRequest(text string, profile *Profile) SynthesisRequest {
	req := SynthesisRequest{
		Text:    text,
		Backend: c.Backend.BackendKind(),
		Host:    c.Backend.Host,
		UseCuda: c.Backend.UseCuda(),
	}
	if profile != nil {
		req.Model = profile.Model
		req.Speaker = profile.Speaker
	}
	return req
}
