package say

import "strings"

// Backend represents where the synthesis process runs.
type Backend int

const (
	// BackendLocal runs the synthesis executable on this machine.
	BackendLocal Backend = iota
	// BackendRemote runs the synthesis executable on a configured SSH host.
	BackendRemote
)

// String returns the string representation of the backend.
func (b Backend) String() string {
	switch b {
	case BackendLocal:
		return "local"
	case BackendRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// ParseBackend resolves a backend name from configuration. An empty name,
// "localhost" or "127.0.0.1" select the local backend, matching the
// host-alias convention of the launcher environment.
func ParseBackend(host string) Backend {
	switch strings.TrimSpace(host) {
	case "", "localhost", "127.0.0.1":
		return BackendLocal
	default:
		return BackendRemote
	}
}

// SynthesisRequest describes a single utterance to synthesize.
// Immutable once created.
type SynthesisRequest struct {
	Text    string  // Utterance, must be non-empty
	Backend Backend // Where synthesis runs
	Host    string  // SSH host alias, required for BackendRemote
	UseCuda bool    // Pass the CUDA flag to the backend
	Model   string  // Optional model override
	Speaker string  // Optional speaker override
}

// Validate checks the request against its input constraints.
func (r SynthesisRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	if r.Backend == BackendRemote && strings.TrimSpace(r.Host) == "" {
		return ErrMissingHost
	}
	return nil
}
