package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds run parameters for the refresh runner.
type Config struct {
	// RepositoryPath is the working tree the pipeline mutates.
	RepositoryPath string `yaml:"repository_path"`
	// Branch, when set, must match the branch the working tree is on.
	// The push always targets the originating branch; this field only guards
	// against running on an unexpected checkout.
	Branch string `yaml:"branch"`
	// Remote is the git remote receiving the push.
	Remote string `yaml:"remote"`

	// PipelineCommand is the update pipeline argv. The token parameter is
	// appended by the runner, it must not appear here.
	PipelineCommand []string `yaml:"pipeline_command"`
	// TokenParameter is the name of the pipeline's token parameter.
	TokenParameter string `yaml:"token_parameter"`

	// ProvisionCommand is the environment provisioner argv. Empty means the
	// environment is already materialized by the host.
	ProvisionCommand []string `yaml:"provision_command"`
	// EnvironmentFile is the environment specification consumed by the provisioner.
	EnvironmentFile string `yaml:"environment_file"`
	// RuntimeVersion is the runtime version declared to the provisioner.
	RuntimeVersion string `yaml:"runtime_version"`

	// AuthorName and AuthorEmail form the fixed commit identity.
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
	// CommitMessage is the fixed message used for every update commit.
	CommitMessage string `yaml:"commit_message"`

	// PipelineTokenEnv names the variable holding the pipeline access token.
	PipelineTokenEnv string `yaml:"pipeline_token_env"`
	// PushTokenEnv names the variable holding the push token.
	PushTokenEnv string `yaml:"push_token_env"`

	// Timeout bounds the provisioner and pipeline commands and the push.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for run settings.
	DefaultConfigFilename = "refresh-runner-settings.yaml"

	// DefaultRemote is the remote pushed to when none is configured.
	DefaultRemote = "origin"

	// DefaultTokenParameter is the pipeline token parameter name.
	DefaultTokenParameter = "token"

	// DefaultAuthorName is the fixed commit author name.
	DefaultAuthorName = "Refresh Runner"

	// DefaultAuthorEmail is the fixed commit author email.
	DefaultAuthorEmail = "refresh-runner@users.noreply.github.com"

	// DefaultCommitMessage is the fixed update commit message.
	DefaultCommitMessage = "Auto-update repository data"

	// DefaultPipelineTokenEnv holds the pipeline access token.
	DefaultPipelineTokenEnv = "REFRESH_PIPELINE_TOKEN"

	// DefaultPushTokenEnv holds the push token.
	DefaultPushTokenEnv = "REFRESH_PUSH_TOKEN"

	// DefaultTimeout bounds external commands and the push.
	DefaultTimeout = 30 * time.Minute

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errPipelineRequired is returned when the pipeline command is missing.
	errPipelineRequired = errors.New("pipeline command must be provided")
	// errOrphanEnvironmentFile is returned when an environment file is set
	// without a provisioner to consume it.
	errOrphanEnvironmentFile = errors.New("environment file set without a provision command")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if len(cfg.PipelineCommand) == 0 || cfg.PipelineCommand[0] == "" {
		return errPipelineRequired
	}

	if len(cfg.ProvisionCommand) == 0 && cfg.EnvironmentFile != "" {
		return fmt.Errorf("%w: %s", errOrphanEnvironmentFile, cfg.EnvironmentFile)
	}

	if cfg.RepositoryPath == "" {
		cfg.RepositoryPath = "."
	}

	if cfg.Remote == "" {
		cfg.Remote = DefaultRemote
	}

	if cfg.TokenParameter == "" {
		cfg.TokenParameter = DefaultTokenParameter
	}

	if cfg.AuthorName == "" {
		cfg.AuthorName = DefaultAuthorName
	}

	if cfg.AuthorEmail == "" {
		cfg.AuthorEmail = DefaultAuthorEmail
	}

	if cfg.CommitMessage == "" {
		cfg.CommitMessage = DefaultCommitMessage
	}

	if cfg.PipelineTokenEnv == "" {
		cfg.PipelineTokenEnv = DefaultPipelineTokenEnv
	}

	if cfg.PushTokenEnv == "" {
		cfg.PushTokenEnv = DefaultPushTokenEnv
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return nil
}
