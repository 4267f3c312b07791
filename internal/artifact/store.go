package artifact

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

const (
	currentName = "speech.wav"
	stagingName = ".speech.partial"
	archiveDir  = "archive"
	indexName   = "index.json"
)

// Store owns the artifact directory. The current artifact lives at a fixed
// path so the launcher can reference it across invocations; superseded
// artifacts optionally move into a compressed, indexed archive.
type Store struct {
	basePath string
	opts     Options

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu    sync.Mutex
	index []Entry
	stats Stats
}

// NewStore creates a store rooted at basePath, creating directories and
// loading any existing archive index.
func NewStore(basePath string, opts Options) (*Store, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create artifact directory: %w", err)
	}

	s := &Store{basePath: basePath, opts: opts}

	if opts.Archive {
		if err := os.MkdirAll(s.archivePath(), 0o755); err != nil {
			return nil, fmt.Errorf("unable to create archive directory: %w", err)
		}
		if opts.CompressionLevel > 0 {
			var err error
			s.encoder, err = zstd.NewWriter(nil,
				zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(opts.CompressionLevel)))
			if err != nil {
				return nil, fmt.Errorf("unable to create zstd encoder: %w", err)
			}
			s.decoder, err = zstd.NewReader(nil)
			if err != nil {
				return nil, fmt.Errorf("unable to create zstd decoder: %w", err)
			}
		}
		if err := s.loadIndex(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// CurrentPath returns the fixed path of the current artifact. The file may
// not exist yet.
func (s *Store) CurrentPath() string {
	return filepath.Join(s.basePath, currentName)
}

// HasCurrent reports whether a non-empty current artifact exists.
func (s *Store) HasCurrent() bool {
	info, err := os.Stat(s.CurrentPath())
	return err == nil && info.Size() > 0
}

// Create opens the staging file a job streams its audio into. The staging
// file never becomes visible at the current path until Commit.
func (s *Store) Create() (io.WriteCloser, error) {
	f, err := os.OpenFile(s.stagingPath(), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("unable to create staging artifact: %w", err)
	}
	return f, nil
}

// Abort discards the staging file after a failed job.
func (s *Store) Abort() {
	_ = os.Remove(s.stagingPath())
}

// Commit promotes the staging file to the current artifact. The previous
// current artifact is archived first when archiving is enabled, otherwise
// overwritten. jobID names the archived entry.
func (s *Store) Commit(jobID string) (string, error) {
	info, err := os.Stat(s.stagingPath())
	if err != nil {
		return "", fmt.Errorf("staging artifact missing: %w", err)
	}
	if info.Size() == 0 {
		s.Abort()
		return "", fmt.Errorf("staging artifact is empty")
	}

	if s.opts.Archive && s.HasCurrent() {
		if err := s.archiveCurrent(jobID); err != nil {
			return "", err
		}
	}

	if err := os.Rename(s.stagingPath(), s.CurrentPath()); err != nil {
		return "", fmt.Errorf("unable to promote artifact: %w", err)
	}
	return s.CurrentPath(), nil
}

// History returns archived entries, newest first.
func (s *Store) History() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.index))
	copy(out, s.index)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Restore materializes an archived artifact into a temp file and returns
// its path. The caller owns the returned file.
func (s *Store) Restore(id string) (string, error) {
	s.mu.Lock()
	var entry *Entry
	for i := range s.index {
		if s.index[i].ID == id {
			entry = &s.index[i]
			break
		}
	}
	s.mu.Unlock()

	if entry == nil {
		return "", ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.archivePath(), entry.File))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, entry.ID)
	}
	if entry.Compressed {
		if s.decoder == nil {
			return "", fmt.Errorf("%w: entry %s is compressed but compression is disabled", ErrCorruptIndex, entry.ID)
		}
		data, err = s.decoder.DecodeAll(data, nil)
		if err != nil {
			return "", fmt.Errorf("unable to decompress artifact %s: %w", entry.ID, err)
		}
	}

	f, err := os.CreateTemp("", "says-restore-*.wav")
	if err != nil {
		return "", fmt.Errorf("unable to create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("unable to write restored artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.stats.TotalRestored++
	s.mu.Unlock()
	return f.Name(), nil
}

// Stats returns a snapshot of archive metrics.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stats
	st.Entries = len(s.index)
	st.Size = 0
	st.OriginalSize = 0
	for _, e := range s.index {
		st.Size += e.Size
		st.OriginalSize += e.OriginalSize
	}
	return st
}

// Close releases compression resources.
func (s *Store) Close() error {
	if s.encoder != nil {
		s.encoder.Close()
	}
	if s.decoder != nil {
		s.decoder.Close()
	}
	return nil
}

func (s *Store) stagingPath() string {
	return filepath.Join(s.basePath, stagingName)
}

func (s *Store) archivePath() string {
	return filepath.Join(s.basePath, archiveDir)
}

func (s *Store) indexPath() string {
	return filepath.Join(s.archivePath(), indexName)
}

// archiveCurrent moves the current artifact into the archive under the
// superseding job's ID, then prunes.
func (s *Store) archiveCurrent(jobID string) error {
	data, err := os.ReadFile(s.CurrentPath())
	if err != nil {
		return fmt.Errorf("unable to read current artifact: %w", err)
	}

	entry := Entry{
		ID:           jobID,
		File:         jobID + ".wav",
		OriginalSize: int64(len(data)),
		CreatedAt:    time.Now(),
	}

	if s.encoder != nil {
		data = s.encoder.EncodeAll(data, nil)
		entry.File += ".zst"
		entry.Compressed = true
	}
	entry.Size = int64(len(data))

	if err := os.WriteFile(filepath.Join(s.archivePath(), entry.File), data, 0o644); err != nil {
		return fmt.Errorf("unable to write archived artifact: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = append(s.index, entry)
	s.stats.TotalArchived++
	s.pruneLocked()
	return s.saveIndexLocked()
}

// pruneLocked removes expired entries and, when over capacity, the entries
// with the highest pruning score. Caller holds mu.
func (s *Store) pruneLocked() {
	now := time.Now()
	kept := s.index[:0]
	for _, e := range s.index {
		if s.opts.MaxAge > 0 && now.Sub(e.CreatedAt) > s.opts.MaxAge {
			s.removeEntry(e)
			continue
		}
		kept = append(kept, e)
	}
	s.index = kept

	if s.opts.MaxArchived > 0 && len(s.index) > s.opts.MaxArchived {
		sort.Slice(s.index, func(i, j int) bool {
			return s.index[i].Score(now) < s.index[j].Score(now)
		})
		for _, e := range s.index[s.opts.MaxArchived:] {
			s.removeEntry(e)
		}
		s.index = s.index[:s.opts.MaxArchived]
	}
}

func (s *Store) removeEntry(e Entry) {
	_ = os.Remove(filepath.Join(s.archivePath(), e.File))
	s.stats.TotalPruned++
}

// loadIndex reads the archive index, tolerating a missing file.
func (s *Store) loadIndex() error {
	data, err := os.ReadFile(s.indexPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("unable to read archive index: %w", err)
	}
	if err := json.Unmarshal(data, &s.index); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}
	return nil
}

// saveIndexLocked writes the index atomically. Caller holds mu.
func (s *Store) saveIndexLocked() error {
	data, err := json.MarshalIndent(s.index, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode archive index: %w", err)
	}
	tmp := s.indexPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("unable to write archive index: %w", err)
	}
	return os.Rename(tmp, s.indexPath())
}

// CopyCurrentTo duplicates the current artifact into w, for callers that
// need the raw audio without touching the canonical file.
func (s *Store) CopyCurrentTo(w io.Writer) error {
	f, err := os.Open(s.CurrentPath())
	if err != nil {
		return ErrNoCurrent
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
