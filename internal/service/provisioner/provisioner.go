package provisioner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/vmaslov/refresh-runner/internal/config"
	"github.com/vmaslov/refresh-runner/internal/logger"
)

// runtimeVersionEnv exposes the declared runtime version to the provisioner.
const runtimeVersionEnv = "RUNTIME_VERSION"

// Provisioner runs the configured environment manager command.
type Provisioner struct {
	// command is the provisioner argv; empty disables provisioning.
	command []string
	// environmentFile is the specification file appended to the argv.
	environmentFile string
	// runtimeVersion is exported to the provisioner process.
	runtimeVersion string
	// dir is the working directory for the provisioner process.
	dir string
}

// New builds a Provisioner from validated settings.
func New(cfg *config.Config) *Provisioner {
	return &Provisioner{
		command:         cfg.ProvisionCommand,
		environmentFile: cfg.EnvironmentFile,
		runtimeVersion:  cfg.RuntimeVersion,
		dir:             cfg.RepositoryPath,
	}
}

// Provision materializes the environment. It is a no-op when no provisioner
// command is configured, since the host may have prepared the environment
// already.
func (p *Provisioner) Provision(ctx context.Context) error {
	if len(p.command) == 0 {
		logger.Info(ctx, "No provisioner configured, using the ambient environment")
		return nil
	}

	args := p.command[1:]
	if p.environmentFile != "" {
		args = append(append([]string{}, args...), p.environmentFile)
	}

	logger.InfoKV(ctx, "Provisioning execution environment",
		"command", strings.Join(append([]string{p.command[0]}, args...), " "),
		"runtime_version", p.runtimeVersion)

	cmd := exec.CommandContext(ctx, p.command[0], args...)
	cmd.Dir = p.dir
	cmd.Env = os.Environ()

	if p.runtimeVersion != "" {
		cmd.Env = append(cmd.Env, runtimeVersionEnv+"="+p.runtimeVersion)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("provision environment: %w, output: %s", err, output)
	}

	if len(output) > 0 {
		logger.Debugf(ctx, "Provisioner output:\n%s", output)
	}

	return nil
}
