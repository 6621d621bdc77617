package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/vmaslov/refresh-runner/internal/secret"
)

// tokenUsername is the placeholder username HTTP token auth expects.
const tokenUsername = "x-access-token"

// errDetachedHead is returned when the working tree is not on a branch.
var errDetachedHead = errors.New("HEAD is not on a branch")

// GoGitRepository implements Repository over an existing working tree using go-git.
type GoGitRepository struct {
	repo     *git.Repository
	worktree *git.Worktree
}

// Open opens the working tree at path.
func Open(path string) (*GoGitRepository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}

	return &GoGitRepository{
		repo:     repo,
		worktree: worktree,
	}, nil
}

// CurrentBranch returns the branch HEAD points at.
func (r *GoGitRepository) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", errDetachedHead
	}

	return head.Name().Short(), nil
}

// StageAll stages every change in the working tree, including deletions
// and untracked files.
func (r *GoGitRepository) StageAll(_ context.Context) error {
	if err := r.worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("stage changes: %w", err)
	}

	return nil
}

// ChangedPaths returns the paths that differ from HEAD, sorted.
func (r *GoGitRepository) ChangedPaths(_ context.Context) ([]string, error) {
	status, err := r.worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("read status: %w", err)
	}

	if status.IsClean() {
		return nil, nil
	}

	paths := make([]string, 0, len(status))
	for path := range status {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	return paths, nil
}

// Commit creates a commit with the fixed identity and message.
// A clean tree yields ErrNoChanges instead of an empty commit.
func (r *GoGitRepository) Commit(_ context.Context, message string, author Author) (string, error) {
	status, err := r.worktree.Status()
	if err != nil {
		return "", fmt.Errorf("read status: %w", err)
	}

	if status.IsClean() {
		return "", ErrNoChanges
	}

	hash, err := r.worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  author.Name,
			Email: author.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			return "", ErrNoChanges
		}

		return "", fmt.Errorf("create commit: %w", err)
	}

	return hash.String(), nil
}

// Push updates the branch on the remote. The token authenticates HTTP
// remotes; local and ssh remotes ignore it.
func (r *GoGitRepository) Push(ctx context.Context, remote, branch string, token secret.Secret) error {
	refName := plumbing.NewBranchReferenceName(branch)
	options := &git.PushOptions{
		RemoteName: remote,
		RefSpecs: []gitconfig.RefSpec{
			gitconfig.RefSpec(fmt.Sprintf("%s:%s", refName, refName)),
		},
	}

	if !token.IsZero() {
		options.Auth = &githttp.BasicAuth{
			Username: tokenUsername,
			Password: token.Value(),
		}
	}

	if err := r.repo.PushContext(ctx, options); err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil
		}

		return fmt.Errorf("push %s to %s: %w", branch, remote, err)
	}

	return nil
}
