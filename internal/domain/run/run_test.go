package run

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestResultHelpers exercises Duration and CreatedCommit for both outcomes.
func TestResultHelpers(t *testing.T) {
	t.Parallel()

	start := time.Unix(100, 0)

	withChanges := &Result{
		Outcome:    OutcomeChanges,
		CommitHash: "abc123",
		StartedAt:  start,
		FinishedAt: start.Add(time.Minute),
	}

	require.Equal(t, time.Minute, withChanges.Duration())
	require.True(t, withChanges.CreatedCommit())

	noChanges := &Result{
		Outcome:    OutcomeNoChanges,
		StartedAt:  start,
		FinishedAt: start,
	}

	require.False(t, noChanges.CreatedCommit())
}
