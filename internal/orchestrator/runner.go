package orchestrator

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"

	"github.com/pkg/errors"
)

// Process is a launched child; Wait blocks until it exits and returns its
// exit code. A non-nil error means the exit status couldn't be determined.
type Process interface {
	Wait() (int, error)
}

type Runner interface {
	Start(ctx context.Context, program string, args ...string) (Process, error)
}

type execRunner struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type execProcess struct {
	program string
	*exec.Cmd
}

// NewExecRunner runs children attached to the given stdio; nil falls back
// to the process' own stdin, stdout and stderr.
func NewExecRunner(stdin io.Reader, stdout, stderr io.Writer) Runner {
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &execRunner{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

// Start doesn't tie the child to ctx: a running creator or reporter is
// always waited for. ctx only supplies the correlation id.
func (r *execRunner) Start(ctx context.Context, program string, args ...string) (Process, error) {
	cmd := exec.Command(program, args...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = r.stdin, r.stdout, r.stderr
	cmd.Env = os.Environ()
	if correlationId := internal.CorrelationIdFromCtx(ctx); correlationId != "" {
		cmd.Env = append(cmd.Env, internal.EnvCorrelationId+"="+correlationId)
	}
	if err := cmd.Start(); err != nil {
		return nil, data.Wrapf(data.ErrProcess, err, "failed to launch %s", program)
	}
	return &execProcess{program: program, Cmd: cmd}, nil
}

func (p *execProcess) Wait() (int, error) {
	err := p.Cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}
	return -1, data.Wrapf(data.ErrProcess, err, "failed to wait for %s", p.program)
}
