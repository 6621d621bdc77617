package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/vmaslov/refresh-runner/internal/config"
	"github.com/vmaslov/refresh-runner/internal/logger"
	"github.com/vmaslov/refresh-runner/internal/secret"
)

// errNoCommand is returned when the pipeline argv is empty.
var errNoCommand = errors.New("pipeline command is not configured")

// Pipeline runs the external update pipeline command.
type Pipeline struct {
	// command is the pipeline argv without the token parameter.
	command []string
	// tokenParameter is the name of the appended token parameter.
	tokenParameter string
	// dir is the working directory for the pipeline process.
	dir string
}

// New builds a Pipeline from validated settings.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		command:        cfg.PipelineCommand,
		tokenParameter: cfg.TokenParameter,
		dir:            cfg.RepositoryPath,
	}
}

// Run executes the pipeline with the token appended as token=<value>.
// The pipeline output is logged; a non-zero exit is fatal for the run.
func (p *Pipeline) Run(ctx context.Context, token secret.Secret) error {
	if len(p.command) == 0 {
		return errNoCommand
	}

	args := append(append([]string{}, p.command[1:]...), p.tokenArgument(token.Value()))

	logger.InfoKV(ctx, "Running update pipeline", "command", p.MaskedCommand())

	cmd := exec.CommandContext(ctx, p.command[0], args...)
	cmd.Dir = p.dir
	// Never let a child prompt for credentials on a headless run.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		logger.Infof(ctx, "Pipeline output:\n%s", output)
	}

	if err != nil {
		return fmt.Errorf("update pipeline failed: %w", err)
	}

	return nil
}

// MaskedCommand renders the full command line with the token redacted.
func (p *Pipeline) MaskedCommand() string {
	parts := append(append([]string{}, p.command...), p.tokenArgument(secret.Redacted))

	return strings.Join(parts, " ")
}

func (p *Pipeline) tokenArgument(value string) string {
	return p.tokenParameter + "=" + value
}
