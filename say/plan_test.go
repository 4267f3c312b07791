package say_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgnsrekt/says/say"
)

func TestPlanSynthesisLocal(t *testing.T) {
	planner := say.NewPlanner(say.BackendConfig{Executable: "/opt/tts/bin/tts", Device: "cpu"})

	plan, err := planner.PlanSynthesis(say.SynthesisRequest{
		Text:    "Hello world",
		Backend: say.BackendLocal,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := plan.Command(); got != "bash" {
		t.Errorf("expected local plan to run bash, got %q", got)
	}
	if len(plan.Args()) != 0 {
		t.Errorf("expected no args for local bash, got %v", plan.Args())
	}
	if !strings.Contains(plan.Script, "--text 'Hello world'") {
		t.Errorf("script missing quoted text:\n%s", plan.Script)
	}
	if !strings.Contains(plan.Script, "--pipe_out") {
		t.Errorf("script missing --pipe_out:\n%s", plan.Script)
	}
	if strings.Contains(plan.Script, "--use_cuda") {
		t.Errorf("cpu request should not carry CUDA flag:\n%s", plan.Script)
	}
}

func TestPlanSynthesisRemoteWithCuda(t *testing.T) {
	planner := say.NewPlanner(say.BackendConfig{Executable: "tts", Device: "cuda"})

	plan, err := planner.PlanSynthesis(say.SynthesisRequest{
		Text:    "hi",
		Backend: say.BackendRemote,
		Host:    "gpubox",
		UseCuda: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := plan.Command(); got != "ssh" {
		t.Errorf("expected remote plan to run ssh, got %q", got)
	}
	wantArgs := []string{"gpubox", "bash"}
	if len(plan.Args()) != 2 || plan.Args()[0] != wantArgs[0] || plan.Args()[1] != wantArgs[1] {
		t.Errorf("expected args %v, got %v", wantArgs, plan.Args())
	}
	if !strings.Contains(plan.Script, "--use_cuda cuda") {
		t.Errorf("script missing CUDA flag:\n%s", plan.Script)
	}
}

func TestPlanSynthesisCarriesProfile(t *testing.T) {
	planner := say.NewPlanner(say.BackendConfig{Executable: "tts"})

	plan, err := planner.PlanSynthesis(say.SynthesisRequest{
		Text:    "hi",
		Model:   "tts_models/en/vctk/vits",
		Speaker: "p225",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(plan.Script, "--model_name tts_models/en/vctk/vits") {
		t.Errorf("script missing model:\n%s", plan.Script)
	}
	if !strings.Contains(plan.Script, "--speaker_idx p225") {
		t.Errorf("script missing speaker:\n%s", plan.Script)
	}
}

func TestPlanSynthesisGuardsStaleOutput(t *testing.T) {
	planner := say.NewPlanner(say.BackendConfig{Executable: "tts"})

	plan, err := planner.PlanSynthesis(say.SynthesisRequest{Text: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(plan.Script, "if [ -f ") {
		t.Errorf("script should guard against an existing temp file:\n%s", plan.Script)
	}
	if !strings.Contains(plan.Script, "rm -f ") {
		t.Errorf("script should clean up the temp file:\n%s", plan.Script)
	}
}

func TestPlanSynthesisConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     say.BackendConfig
		req     say.SynthesisRequest
		wantErr error
	}{
		{
			name:    "empty text",
			cfg:     say.BackendConfig{Executable: "tts"},
			req:     say.SynthesisRequest{Text: "   "},
			wantErr: say.ErrEmptyText,
		},
		{
			name:    "remote without host",
			cfg:     say.BackendConfig{Executable: "tts"},
			req:     say.SynthesisRequest{Text: "hi", Backend: say.BackendRemote},
			wantErr: say.ErrMissingHost,
		},
		{
			name:    "missing executable",
			cfg:     say.BackendConfig{},
			req:     say.SynthesisRequest{Text: "hi"},
			wantErr: say.ErrMissingBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := say.NewPlanner(tt.cfg).PlanSynthesis(tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPlanQuery(t *testing.T) {
	planner := say.NewPlanner(say.BackendConfig{Executable: "tts"})

	local, err := planner.PlanQuery(say.BackendLocal, "", "--list_models")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local.Command() != "tts" || len(local.Args()) != 1 || local.Args()[0] != "--list_models" {
		t.Errorf("unexpected local query plan: %v", local.Argv)
	}

	remote, err := planner.PlanQuery(say.BackendRemote, "gpubox", "--list_models")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remote.Command() != "ssh" {
		t.Errorf("expected ssh wrapper, got %v", remote.Argv)
	}

	if _, err := planner.PlanQuery(say.BackendRemote, "", "--list_models"); !errors.Is(err, say.ErrMissingHost) {
		t.Errorf("expected ErrMissingHost, got %v", err)
	}
}

func TestParseBackend(t *testing.T) {
	for host, want := range map[string]say.Backend{
		"":          say.BackendLocal,
		"localhost": say.BackendLocal,
		"127.0.0.1": say.BackendLocal,
		"gpubox":    say.BackendRemote,
	} {
		if got := say.ParseBackend(host); got != want {
			t.Errorf("ParseBackend(%q) = %v, want %v", host, got, want)
		}
	}
}
