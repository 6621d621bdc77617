// Package runner orchestrates a single update run: provision the execution
// environment, invoke the update pipeline with its access token, stage all
// resulting changes, commit them with the fixed identity when non-empty, and
// push the originating branch to its remote.
//
// A marker file guards against overlapping runs; stale markers left behind
// by crashed runs are recovered by terminating any lingering runner process.
package runner
