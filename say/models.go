package say

import (
	"bufio"
	"context"
	"fmt"
	"regexp"
	"strings"
)

// ModelInfo describes one model the backend can synthesize with.
type ModelInfo struct {
	Name      string // Full model name, e.g. tts_models/en/ljspeech/glow-tts
	Lang      string
	Dataset   string
	Base      string
	Installed bool // Already downloaded on the backend host
}

// Item renders the model as a script-filter item.
func (m ModelInfo) Item() Item {
	title := m.Name
	if m.Installed {
		title += " [installed]"
	}
	return Item{
		UID:      m.Name,
		Title:    title,
		Subtitle: fmt.Sprintf("lang: %s | dataset: %s | base: %s", m.Lang, m.Dataset, m.Base),
		Arg:      m.Name,
		Match:    strings.ReplaceAll(m.Name, "/", " "),
	}
}

// modelLine matches one entry of the backend's --list_models output.
var modelLine = regexp.MustCompile(`^\d+: *(tts_models/[-/\w]+)( *\[already downloaded\])?`)

// parseModelList extracts models from the backend's --list_models output.
func parseModelList(output []byte) []ModelInfo {
	var models []ModelInfo
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		m := modelLine.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if m == nil {
			continue
		}
		info := ModelInfo{Name: m[1], Installed: m[2] != ""}
		// tts_models/<lang>/<dataset>/<base>
		if parts := strings.Split(m[1], "/"); len(parts) == 4 {
			info.Lang = parts[1]
			info.Dataset = parts[2]
			info.Base = parts[3]
		}
		models = append(models, info)
	}
	return models
}

// parseSpeakerList extracts speaker names from the backend's
// --list_speaker_idxs output, which prints a Python dict_keys line.
func parseSpeakerList(output []byte) []string {
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "dict_keys([") || !strings.HasSuffix(line, "])") {
			continue
		}
		line = strings.TrimSuffix(strings.TrimPrefix(line, "dict_keys(["), "])")
		if line == "" {
			return nil
		}
		var names []string
		for _, raw := range strings.Split(line, ", ") {
			names = append(names, strings.Trim(raw, "'\""))
		}
		return names
	}
	return nil
}

// ModelCatalog queries the backend for available models and speakers
// through the same local/remote invocation plans as synthesis.
type ModelCatalog struct {
	planner *Planner
	exec    Executor
	backend Backend
	host    string
}

// NewModelCatalog creates a catalog bound to the configured backend.
func NewModelCatalog(planner *Planner, exec Executor, cfg BackendConfig) *ModelCatalog {
	return &ModelCatalog{
		planner: planner,
		exec:    exec,
		backend: cfg.BackendKind(),
		host:    cfg.Host,
	}
}

// ListModels returns the models the backend offers.
func (mc *ModelCatalog) ListModels(ctx context.Context) ([]ModelInfo, error) {
	plan, err := mc.planner.PlanQuery(mc.backend, mc.host, "--list_models")
	if err != nil {
		return nil, err
	}
	out, err := mc.exec.Execute(ctx, plan.Command(), plan.Args()...)
	if err != nil {
		return nil, fmt.Errorf("unable to list models: %w", err)
	}
	return parseModelList(out), nil
}

// ListSpeakers returns the speaker names of the given model. Stdin is
// pre-seeded with an agreement answer for backends that gate model
// downloads behind a license prompt.
func (mc *ModelCatalog) ListSpeakers(ctx context.Context, model string) ([]string, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: model name required to list speakers", ErrInvalidConfig)
	}
	plan, err := mc.planner.PlanQuery(mc.backend, mc.host,
		"--model_name", model, "--list_speaker_idxs", "--progress_bar", "false")
	if err != nil {
		return nil, err
	}
	out, err := mc.exec.ExecuteWithStdin(ctx, "y\n", plan.Command(), plan.Args()...)
	if err != nil {
		return nil, fmt.Errorf("unable to list speakers: %w", err)
	}
	return parseSpeakerList(out), nil
}
