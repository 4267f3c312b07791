package say

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Profile is the persisted voice selection: which model and speaker the
// backend should synthesize with. Both fields are optional; empty values
// defer to the backend's defaults.
type Profile struct {
	Model   string `json:"model"`
	Speaker string `json:"speaker,omitempty"`
}

// ProfileStore persists the profile as a small JSON file in the app data
// directory.
type ProfileStore struct {
	path string
}

// NewProfileStore creates a store backed by the given file path.
func NewProfileStore(path string) *ProfileStore {
	return &ProfileStore{path: path}
}

// Load reads the saved profile. A missing file yields a nil profile and no
// error: nothing has been saved yet.
func (ps *ProfileStore) Load() (*Profile, error) {
	data, err := os.ReadFile(ps.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unable to parse profile: %w", err)
	}
	return &p, nil
}

// Save writes the profile, creating the data directory if needed.
func (ps *ProfileStore) Save(p Profile) error {
	if err := os.MkdirAll(filepath.Dir(ps.path), 0o755); err != nil {
		return fmt.Errorf("unable to create data directory: %w", err)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("unable to encode profile: %w", err)
	}
	if err := os.WriteFile(ps.path, data, 0o644); err != nil {
		return fmt.Errorf("unable to write profile: %w", err)
	}
	return nil
}

// Items renders the profile (or its defaults) as script-filter items for
// the check-profile command.
func (p *Profile) Items() []Item {
	model := "<default model>"
	speaker := "<default speaker>"
	var modelCopy, speakerCopy string
	if p != nil && p.Model != "" {
		model = p.Model
		modelCopy = p.Model
	}
	if p != nil && p.Speaker != "" {
		speaker = p.Speaker
		speakerCopy = p.Speaker
	}
	return []Item{
		{
			Title: "Model: " + model,
			Text:  &ItemText{Copy: modelCopy, LargeType: model},
		},
		{
			Title: "Speaker: " + speaker,
			Text:  &ItemText{Copy: speakerCopy, LargeType: speaker},
		},
	}
}
