package gitrepo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"

	"github.com/vmaslov/refresh-runner/internal/secret"
)

// initWorkRepo creates a working repository with a single initial commit.
func initWorkRepo(t *testing.T) (string, *GoGitRepository) {
	t.Helper()

	dir := t.TempDir()

	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# data\n"), 0o600))

	repo, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, repo.StageAll(context.Background()))

	_, err = repo.Commit(context.Background(), "initial", Author{
		Name:  "Tester",
		Email: "tester@example.com",
	})
	require.NoError(t, err)

	return dir, repo
}

// TestCurrentBranch returns the branch the default HEAD points at.
func TestCurrentBranch(t *testing.T) {
	t.Parallel()

	_, repo := initWorkRepo(t)

	branch, err := repo.CurrentBranch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "master", branch)
}

// TestStageCommitCycle stages a new file, commits it with the fixed identity,
// and verifies the tree is clean afterwards.
func TestStageCommitCycle(t *testing.T) {
	t.Parallel()

	dir, repo := initWorkRepo(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte("a,b\n1,2\n"), 0o600))

	require.NoError(t, repo.StageAll(ctx))

	paths, err := repo.ChangedPaths(ctx)
	require.NoError(t, err)
	require.Contains(t, paths, "data.csv")

	author := Author{
		Name:  "Refresh Runner",
		Email: "refresh-runner@users.noreply.github.com",
	}

	hash, err := repo.Commit(ctx, "Auto-update repository data", author)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// Fixed identity and message land on the commit object.
	commit, err := repo.repo.CommitObject(plumbing.NewHash(hash))
	require.NoError(t, err)
	require.Equal(t, author.Name, commit.Author.Name)
	require.Equal(t, author.Email, commit.Author.Email)
	require.Contains(t, commit.Message, "Auto-update")

	paths, err = repo.ChangedPaths(ctx)
	require.NoError(t, err)
	require.Empty(t, paths)
}

// TestCommitCleanTree reports ErrNoChanges instead of creating an empty commit.
func TestCommitCleanTree(t *testing.T) {
	t.Parallel()

	_, repo := initWorkRepo(t)

	_, err := repo.Commit(context.Background(), "Auto-update repository data", Author{
		Name:  "Refresh Runner",
		Email: "refresh-runner@users.noreply.github.com",
	})
	require.ErrorIs(t, err, ErrNoChanges)
}

// TestPushToLocalRemote pushes the branch to a bare repository and verifies
// the remote ref matches the local head.
func TestPushToLocalRemote(t *testing.T) {
	t.Parallel()

	// The file transport shells out to git-receive-pack.
	if _, err := exec.LookPath("git-receive-pack"); err != nil {
		t.Skip("git-receive-pack not available")
	}

	dir, repo := initWorkRepo(t)
	ctx := context.Background()

	bareDir := t.TempDir()
	_, err := git.PlainInit(bareDir, true)
	require.NoError(t, err)

	_, err = repo.repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{bareDir},
	})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte("a,b\n"), 0o600))
	require.NoError(t, repo.StageAll(ctx))

	hash, err := repo.Commit(ctx, "Auto-update repository data", Author{
		Name:  "Refresh Runner",
		Email: "refresh-runner@users.noreply.github.com",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Push(ctx, "origin", "master", secret.Secret{}))

	// Pushing again with nothing new is not an error.
	require.NoError(t, repo.Push(ctx, "origin", "master", secret.Secret{}))

	remote, err := git.PlainOpen(bareDir)
	require.NoError(t, err)

	ref, err := remote.Reference(plumbing.NewBranchReferenceName("master"), true)
	require.NoError(t, err)
	require.Equal(t, hash, ref.Hash().String())
}
