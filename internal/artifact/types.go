package artifact

import (
	"errors"
	"time"
)

// Common errors for artifact operations.
var (
	// ErrNoCurrent is returned when no current artifact exists on disk.
	ErrNoCurrent = errors.New("no current artifact")

	// ErrNotFound is returned when an archived artifact is missing.
	ErrNotFound = errors.New("archived artifact not found")

	// ErrCorruptIndex is returned when the archive index cannot be read.
	ErrCorruptIndex = errors.New("archive index corrupted")
)

// Entry describes one archived artifact.
type Entry struct {
	ID           string    `json:"id"`            // Job ID that produced the artifact
	File         string    `json:"file"`          // File name inside the archive dir
	Size         int64     `json:"size"`          // Size on disk (compressed)
	OriginalSize int64     `json:"original_size"` // Size before compression
	CreatedAt    time.Time `json:"created_at"`
	Compressed   bool      `json:"compressed"`
}

// Score calculates the pruning score for an entry: older and larger
// entries score higher and are pruned first.
func (e Entry) Score(now time.Time) float64 {
	age := now.Sub(e.CreatedAt).Hours()
	sizeMB := float64(e.OriginalSize) / (1024 * 1024)
	return age * (1 + sizeMB)
}

// Stats holds archive metrics.
type Stats struct {
	Entries        int   // Number of archived artifacts
	Size           int64 // Bytes on disk (compressed)
	OriginalSize   int64 // Bytes before compression
	TotalArchived  int64 // Artifacts archived over the store's lifetime
	TotalPruned    int64 // Artifacts removed by pruning
	TotalRestored  int64 // Artifacts decompressed for replay
}

// Options configures a Store.
type Options struct {
	// Archive enables retention of superseded artifacts. When false the
	// store keeps only the current artifact, which each job overwrites.
	Archive bool

	// MaxArchived caps the number of retained entries.
	MaxArchived int

	// MaxAge expires entries regardless of count. Zero disables age pruning.
	MaxAge time.Duration

	// CompressionLevel is the zstd level for archived entries; zero stores
	// them uncompressed.
	CompressionLevel int
}
