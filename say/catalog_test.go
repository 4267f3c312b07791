package say_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dgnsrekt/says/say"
)

func TestCatalogListModels(t *testing.T) {
	ex := newFakeExecutor()
	ex.setResult("tts", []byte(" 1: tts_models/en/ljspeech/glow-tts [already downloaded]\n"), nil)

	cfg := say.BackendConfig{Executable: "tts"}
	catalog := say.NewModelCatalog(say.NewPlanner(cfg), ex, cfg)

	models, err := catalog.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(models) != 1 || models[0].Name != "tts_models/en/ljspeech/glow-tts" {
		t.Fatalf("models = %v", models)
	}
	if !models[0].Installed {
		t.Error("model should be marked installed")
	}

	argv := lastArgvFor(ex, "tts")
	if argv != "--list_models" {
		t.Errorf("final argument = %q, want --list_models", argv)
	}
}

func TestCatalogListModelsRemote(t *testing.T) {
	ex := newFakeExecutor()
	ex.setResult("ssh", []byte(" 1: tts_models/en/vctk/vits\n"), nil)

	cfg := say.BackendConfig{Executable: "tts", Host: "gpu-box"}
	catalog := say.NewModelCatalog(say.NewPlanner(cfg), ex, cfg)

	if _, err := catalog.ListModels(context.Background()); err != nil {
		t.Fatalf("ListModels: %v", err)
	}

	ex.mu.Lock()
	argv := ex.argvSeen[len(ex.argvSeen)-1]
	ex.mu.Unlock()
	if len(argv) < 3 || argv[0] != "ssh" || argv[1] != "gpu-box" || argv[2] != "tts" {
		t.Errorf("argv = %v, want ssh gpu-box tts ...", argv)
	}
}

func TestCatalogListSpeakers(t *testing.T) {
	ex := newFakeExecutor()
	ex.setResult("tts", []byte("dict_keys(['p225', 'p226'])\n"), nil)

	cfg := say.BackendConfig{Executable: "tts"}
	catalog := say.NewModelCatalog(say.NewPlanner(cfg), ex, cfg)

	speakers, err := catalog.ListSpeakers(context.Background(), "tts_models/en/vctk/vits")
	if err != nil {
		t.Fatalf("ListSpeakers: %v", err)
	}
	if len(speakers) != 2 || speakers[0] != "p225" {
		t.Fatalf("speakers = %v", speakers)
	}

	// Stdin carries the license-prompt agreement.
	ex.mu.Lock()
	stdin := ex.stdinSeen[len(ex.stdinSeen)-1]
	ex.mu.Unlock()
	if stdin != "y\n" {
		t.Errorf("stdin = %q, want the agreement answer", stdin)
	}
}

func TestCatalogListSpeakersRequiresModel(t *testing.T) {
	ex := newFakeExecutor()
	cfg := say.BackendConfig{Executable: "tts"}
	catalog := say.NewModelCatalog(say.NewPlanner(cfg), ex, cfg)

	if _, err := catalog.ListSpeakers(context.Background(), "  "); !errors.Is(err, say.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
	if len(ex.executeCalls) != 0 {
		t.Error("backend queried without a model name")
	}
}

func TestCatalogQueryFailure(t *testing.T) {
	ex := newFakeExecutor()
	ex.setResult("tts", nil, errors.New("exit status 1"))

	cfg := say.BackendConfig{Executable: "tts"}
	catalog := say.NewModelCatalog(say.NewPlanner(cfg), ex, cfg)

	if _, err := catalog.ListModels(context.Background()); err == nil {
		t.Fatal("expected an error from the failing backend")
	}
}
