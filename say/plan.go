package say

import (
	"fmt"
	"strings"
)

// remoteTempPath is where the backend writes its output before piping it
// back over stdout. It lives on whichever machine runs the backend.
const remoteTempPath = "/tmp/says_output.wav"

// InvocationPlan is an executable description of one backend invocation.
// Plans are produced by pure planning functions and carry no handles to
// running processes.
type InvocationPlan struct {
	Argv   []string // Command line to execute locally
	Script string   // Script piped to stdin, empty for direct invocations
	Stdin  string   // Literal stdin for direct invocations
}

// Command returns the executable name of the plan.
func (p InvocationPlan) Command() string {
	if len(p.Argv) == 0 {
		return ""
	}
	return p.Argv[0]
}

// Args returns the arguments of the plan.
func (p InvocationPlan) Args() []string {
	if len(p.Argv) <= 1 {
		return nil
	}
	return p.Argv[1:]
}

// String renders the plan for logging.
func (p InvocationPlan) String() string {
	return strings.Join(p.Argv, " ")
}

// Planner builds invocation plans from configuration. It is the only place
// that knows how to wrap a command for remote execution.
type Planner struct {
	cfg BackendConfig
}

// NewPlanner creates a planner for the given backend configuration.
func NewPlanner(cfg BackendConfig) *Planner {
	return &Planner{cfg: cfg}
}

// PlanSynthesis builds the plan for synthesizing a request. The produced
// plan pipes a shell script to bash (locally or via ssh) which runs the
// backend with --pipe_out, so the audio artifact always arrives on the
// plan's stdout regardless of where synthesis ran.
func (p *Planner) PlanSynthesis(req SynthesisRequest) (InvocationPlan, error) {
	if err := req.Validate(); err != nil {
		return InvocationPlan{}, err
	}
	if strings.TrimSpace(p.cfg.Executable) == "" {
		return InvocationPlan{}, ErrMissingBackend
	}

	cmd := []string{
		p.cfg.Executable,
		"--text", req.Text,
		"--out_path", remoteTempPath,
		"--pipe_out",
	}
	if req.UseCuda {
		cmd = append(cmd, "--use_cuda", p.cfg.Device)
	}
	if req.Model != "" {
		cmd = append(cmd, "--model_name", req.Model)
	}
	if req.Speaker != "" {
		cmd = append(cmd, "--speaker_idx", req.Speaker)
	}

	var script strings.Builder
	fmt.Fprintf(&script, "if [ -f %s ]; then\n", remoteTempPath)
	fmt.Fprintf(&script, "echo %s already exists >&2\n", remoteTempPath)
	script.WriteString("exit 1\n")
	script.WriteString("fi\n")
	script.WriteString(shellJoin(cmd) + "\n")
	fmt.Fprintf(&script, "rm -f %s\n", remoteTempPath)

	return InvocationPlan{
		Argv:   p.shellArgv(req.Backend, req.Host),
		Script: script.String(),
	}, nil
}

// PlanQuery builds a direct backend invocation for metadata queries such as
// --list_models, without the stdout-piping wrapper.
func (p *Planner) PlanQuery(backend Backend, host string, args ...string) (InvocationPlan, error) {
	if strings.TrimSpace(p.cfg.Executable) == "" {
		return InvocationPlan{}, ErrMissingBackend
	}
	if backend == BackendRemote && strings.TrimSpace(host) == "" {
		return InvocationPlan{}, ErrMissingHost
	}

	argv := []string{}
	if backend == BackendRemote {
		argv = append(argv, "ssh", host)
	}
	argv = append(argv, p.cfg.Executable)
	argv = append(argv, args...)
	return InvocationPlan{Argv: argv}, nil
}

// shellArgv returns the command line that receives the synthesis script.
func (p *Planner) shellArgv(backend Backend, host string) []string {
	if backend == BackendRemote {
		return []string{"ssh", host, "bash"}
	}
	return []string{"bash"}
}

// shellJoin quotes and joins argv for inclusion in a shell script.
func shellJoin(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = shellQuote(arg)
	}
	return strings.Join(quoted, " ")
}

// shellQuote single-quotes an argument when it contains characters the
// shell would otherwise interpret.
func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n\"'`$\\!*?[]{}()<>|&;#~") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'"'"'`) + "'"
}
