package pipeline

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vmaslov/refresh-runner/internal/config"
	"github.com/vmaslov/refresh-runner/internal/secret"
)

// requireShell skips the test when no POSIX shell is available.
func requireShell(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

// TestRunForwardsToken passes the token as a single token=<value> parameter.
func TestRunForwardsToken(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()

	// With sh -c the appended parameter becomes $0 of the script.
	p := New(&config.Config{
		RepositoryPath:  dir,
		PipelineCommand: []string{"sh", "-c", `printf '%s' "$0" > param.txt`},
		TokenParameter:  "token",
	})

	require.NoError(t, p.Run(context.Background(), secret.New("s3cr3t")))

	contents, err := os.ReadFile(filepath.Join(dir, "param.txt"))
	require.NoError(t, err)
	require.Equal(t, "token=s3cr3t", string(contents))
}

// TestRunFailure surfaces a non-zero pipeline exit as an error.
func TestRunFailure(t *testing.T) {
	t.Parallel()
	requireShell(t)

	p := New(&config.Config{
		RepositoryPath:  t.TempDir(),
		PipelineCommand: []string{"sh", "-c", "exit 1"},
		TokenParameter:  "token",
	})

	require.Error(t, p.Run(context.Background(), secret.New("s3cr3t")))
}

// TestMaskedCommand never contains the raw token.
func TestMaskedCommand(t *testing.T) {
	t.Parallel()

	p := New(&config.Config{
		PipelineCommand: []string{"doit", "update_readme"},
		TokenParameter:  "token",
	})

	masked := p.MaskedCommand()
	require.Equal(t, "doit update_readme token="+secret.Redacted, masked)
	require.NotContains(t, masked, "s3cr3t")
}

// TestRunWithoutCommand rejects an unconfigured pipeline.
func TestRunWithoutCommand(t *testing.T) {
	t.Parallel()

	p := &Pipeline{}

	require.Error(t, p.Run(context.Background(), secret.New("s3cr3t")))
}
