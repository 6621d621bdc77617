package run

import "time"

// TriggerKind distinguishes scheduled invocations from manual ones.
type TriggerKind string

const (
	// TriggerSchedule marks a run started by the host scheduler.
	TriggerSchedule TriggerKind = "schedule"
	// TriggerManual marks a run started by hand.
	TriggerManual TriggerKind = "manual"
)

// Trigger describes the event that started a run.
type Trigger struct {
	// Kind is how the run was started.
	Kind TriggerKind
	// Time is when the trigger fired.
	Time time.Time
}

// Outcome is the terminal state of a successful run.
type Outcome string

const (
	// OutcomeChanges means the pipeline produced changes and a commit was pushed.
	OutcomeChanges Outcome = "ran-with-changes"
	// OutcomeNoChanges means the pipeline produced no changes and the run was a no-op.
	OutcomeNoChanges Outcome = "ran-without-changes"
)

// Result summarizes a completed run.
type Result struct {
	// Trigger is the event that started the run.
	Trigger Trigger
	// Outcome is the terminal state of the run.
	Outcome Outcome
	// CommitHash is the created commit, empty for no-op runs.
	CommitHash string
	// ChangedFiles is the number of paths staged into the commit.
	ChangedFiles int
	// StartedAt and FinishedAt bound the run's execution.
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the run took.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// CreatedCommit reports whether the run produced a commit.
func (r *Result) CreatedCommit() bool {
	return r.Outcome == OutcomeChanges && r.CommitHash != ""
}
