package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmaslov/refresh-runner/internal/config"
	"github.com/vmaslov/refresh-runner/internal/domain/run"
	"github.com/vmaslov/refresh-runner/internal/logger"
	"github.com/vmaslov/refresh-runner/internal/repository/gitrepo"
	"github.com/vmaslov/refresh-runner/internal/secret"
	"github.com/vmaslov/refresh-runner/internal/service/pipeline"
	"github.com/vmaslov/refresh-runner/internal/service/provisioner"
)

// errWrongBranch is returned when the working tree is not on the configured branch.
var errWrongBranch = errors.New("working tree is on an unexpected branch")

// Options are inputs accepted by the runner entry point.
type Options struct {
	// ConfigPath is the optional path to settings YAML file.
	ConfigPath string
	// Trigger is how the run was started; defaults to manual.
	Trigger run.TriggerKind
}

// environmentProvisioner materializes the declared execution environment.
type environmentProvisioner interface {
	Provision(ctx context.Context) error
}

// updatePipeline invokes the external update pipeline with the access token.
type updatePipeline interface {
	Run(ctx context.Context, token secret.Secret) error
}

// runner holds the collaborators for a single update execution.
// It is intentionally unexported: call Run(ctx, Options) from callers.
type runner struct {
	cfg         *config.Config
	repo        gitrepo.Repository
	provisioner environmentProvisioner
	pipeline    updatePipeline
}

// Run executes one update run and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) (*run.Result, error) {
	ctx = logger.WithName(ctx, "refresh-runner")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	marker := markerPath(cfg.RepositoryPath)

	// The marker outlives the run only when the process crashed, so anything
	// older than the run bound is stale.
	if err = acquireMarker(ctx, marker, cfg.Timeout); err != nil {
		return nil, err
	}

	defer releaseMarker(marker)

	repo, err := gitrepo.Open(cfg.RepositoryPath)
	if err != nil {
		return nil, err
	}

	r := &runner{
		cfg:         cfg,
		repo:        repo,
		provisioner: provisioner.New(cfg),
		pipeline:    pipeline.New(cfg),
	}

	result, err := r.execute(ctx, opts.trigger())
	if err != nil {
		logger.ErrorKV(ctx, "Run failed", "error", err)
		return nil, err
	}

	logger.InfoKV(ctx, "Run completed",
		"outcome", result.Outcome,
		"commit", result.CommitHash,
		"changed_files", result.ChangedFiles,
		"duration", result.Duration())

	return result, nil
}

// trigger resolves the trigger event for this invocation.
func (o *Options) trigger() run.Trigger {
	kind := o.Trigger
	if kind == "" {
		kind = run.TriggerManual
	}

	return run.Trigger{
		Kind: kind,
		Time: time.Now(),
	}
}

// execute performs the linear run flow: provision, pipeline, stage, commit, push.
func (r *runner) execute(ctx context.Context, trigger run.Trigger) (*run.Result, error) {
	result := &run.Result{
		Trigger:   trigger,
		StartedAt: time.Now(),
	}

	if err := r.checkBranch(ctx); err != nil {
		return nil, err
	}

	pipelineToken, err := secret.FromEnv(r.cfg.PipelineTokenEnv)
	if err != nil {
		return nil, fmt.Errorf("load pipeline token: %w", err)
	}

	if err = r.withTimeout(ctx, r.provisioner.Provision); err != nil {
		return nil, err
	}

	if err = r.withTimeout(ctx, func(c context.Context) error {
		return r.pipeline.Run(c, pipelineToken)
	}); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Staging working tree changes")

	if err = r.repo.StageAll(ctx); err != nil {
		return nil, err
	}

	paths, err := r.repo.ChangedPaths(ctx)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		return r.finishWithoutChanges(ctx, result), nil
	}

	logger.InfoKV(ctx, "Committing changes", "paths", paths)

	hash, err := r.commit(ctx)
	if err != nil {
		if errors.Is(err, gitrepo.ErrNoChanges) {
			return r.finishWithoutChanges(ctx, result), nil
		}

		return nil, err
	}

	if err = r.push(ctx); err != nil {
		return nil, err
	}

	result.Outcome = run.OutcomeChanges
	result.CommitHash = hash
	result.ChangedFiles = len(paths)
	result.FinishedAt = time.Now()

	return result, nil
}

// checkBranch rejects a working tree that is not on the configured branch.
func (r *runner) checkBranch(ctx context.Context) error {
	if r.cfg.Branch == "" {
		return nil
	}

	branch, err := r.repo.CurrentBranch(ctx)
	if err != nil {
		return err
	}

	if branch != r.cfg.Branch {
		return fmt.Errorf("%w: on %q, expected %q", errWrongBranch, branch, r.cfg.Branch)
	}

	return nil
}

// commit creates the update commit with the fixed identity and message.
func (r *runner) commit(ctx context.Context) (string, error) {
	return r.repo.Commit(ctx, r.cfg.CommitMessage, gitrepo.Author{
		Name:  r.cfg.AuthorName,
		Email: r.cfg.AuthorEmail,
	})
}

// push updates the originating branch on the remote. A missing push token is
// tolerated with a warning, since local and ssh remotes carry their own auth.
func (r *runner) push(ctx context.Context) error {
	branch, err := r.repo.CurrentBranch(ctx)
	if err != nil {
		return err
	}

	pushToken, err := secret.FromEnv(r.cfg.PushTokenEnv)
	if err != nil {
		logger.Warnf(ctx, "No push token in %s, pushing unauthenticated", r.cfg.PushTokenEnv)
	}

	logger.InfoKV(ctx, "Pushing branch", "remote", r.cfg.Remote, "branch", branch)

	return r.withTimeout(ctx, func(c context.Context) error {
		return r.repo.Push(c, r.cfg.Remote, branch, pushToken)
	})
}

// finishWithoutChanges records the no-op outcome. Absence of changes is success.
func (r *runner) finishWithoutChanges(ctx context.Context, result *run.Result) *run.Result {
	logger.Info(ctx, "No changes to commit")

	result.Outcome = run.OutcomeNoChanges
	result.FinishedAt = time.Now()

	return result
}

// withTimeout bounds a step with the configured run timeout.
func (r *runner) withTimeout(ctx context.Context, step func(context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	return step(stepCtx)
}
