package gitrepo

import (
	"context"
	"errors"

	"github.com/vmaslov/refresh-runner/internal/secret"
)

// Author is the fixed commit identity applied to every update commit.
type Author struct {
	// Name is the commit author name.
	Name string
	// Email is the commit author email.
	Email string
}

var (
	// ErrNoChanges is returned by Commit when the working tree is clean.
	ErrNoChanges = errors.New("no changes to commit")
)

// Repository defines the version-control operations a run performs.
type Repository interface {
	// CurrentBranch returns the branch HEAD points at.
	CurrentBranch(ctx context.Context) (string, error)
	// StageAll stages every working-tree change, including deletions and
	// untracked files.
	StageAll(ctx context.Context) error
	// ChangedPaths returns the staged paths, sorted. Empty means a clean tree.
	ChangedPaths(ctx context.Context) ([]string, error)
	// Commit creates a commit with the provided message and author.
	// It returns ErrNoChanges when nothing is staged.
	Commit(ctx context.Context, message string, author Author) (string, error)
	// Push updates the named branch on the remote, authenticated by token.
	// A remote already at the pushed state is not an error.
	Push(ctx context.Context, remote, branch string, token secret.Secret) error
}
