package say

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// LoadConfigFromViper loads configuration from Viper on top of the
// defaults. Only keys the user actually set are applied, so the yaml file
// may be sparse.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("backend.executable") {
		cfg.Backend.Executable = viper.GetString("backend.executable")
	}
	if viper.IsSet("backend.host") {
		cfg.Backend.Host = viper.GetString("backend.host")
	}
	if viper.IsSet("backend.device") {
		cfg.Backend.Device = viper.GetString("backend.device")
	}

	if viper.IsSet("playback.preferred") {
		cfg.Playback.Preferred = viper.GetString("playback.preferred")
	}
	if viper.IsSet("playback.preferred_args") {
		cfg.Playback.PreferredArgs = viper.GetStringSlice("playback.preferred_args")
	}
	if viper.IsSet("playback.fallback") {
		cfg.Playback.Fallback = viper.GetString("playback.fallback")
	}
	if viper.IsSet("playback.fallback_args") {
		cfg.Playback.FallbackArgs = viper.GetStringSlice("playback.fallback_args")
	}
	if viper.IsSet("playback.transcoder") {
		cfg.Playback.Transcoder = viper.GetString("playback.transcoder")
	}
	if viper.IsSet("playback.timeout") {
		cfg.Playback.Timeout = viper.GetDuration("playback.timeout")
	}

	if viper.IsSet("artifact.dir") {
		cfg.Artifact.Dir = viper.GetString("artifact.dir")
	}
	if viper.IsSet("artifact.retention") {
		cfg.Artifact.Retention = RetentionPolicy(viper.GetString("artifact.retention"))
	}
	if viper.IsSet("artifact.max_archived") {
		cfg.Artifact.MaxArchived = viper.GetInt("artifact.max_archived")
	}
	if viper.IsSet("artifact.max_age") {
		cfg.Artifact.MaxAge = viper.GetDuration("artifact.max_age")
	}
	if viper.IsSet("artifact.compression_level") {
		cfg.Artifact.CompressionLevel = viper.GetInt("artifact.compression_level")
	}

	if viper.IsSet("synthesis_timeout") {
		cfg.SynthesisTimeout = viper.GetDuration("synthesis_timeout")
	}
	if viper.IsSet("query_timeout") {
		cfg.QueryTimeout = viper.GetDuration("query_timeout")
	}

	if cfg.SynthesisTimeout == 0 {
		cfg.SynthesisTimeout = 3 * time.Minute
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
