package say

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// SynthesisMetrics tracks one synthesis run for diagnostic logging.
type SynthesisMetrics struct {
	Backend    string
	TextLength int
	Start      time.Time
	Duration   time.Duration
	AudioBytes int64
	Err        error
}

// StartSynthesis begins tracking a synthesis run.
func StartSynthesis(backend, text string) *SynthesisMetrics {
	m := &SynthesisMetrics{
		Backend:    backend,
		TextLength: len(text),
		Start:      time.Now(),
	}
	log.Debug("synthesis started", "backend", backend, "text_length", m.TextLength)
	return m
}

// End completes tracking and logs the outcome.
func (m *SynthesisMetrics) End(audioBytes int64, err error) {
	m.Duration = time.Since(m.Start)
	m.AudioBytes = audioBytes
	m.Err = err

	if err != nil {
		log.Error("synthesis failed",
			"backend", m.Backend,
			"duration", m.Duration,
			"error", err)
		return
	}
	log.Info("synthesis completed",
		"backend", m.Backend,
		"text_length", m.TextLength,
		"audio_bytes", audioBytes,
		"duration", m.Duration)
}

// sizeOf returns the file size, or zero when it cannot be read.
func sizeOf(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
