// Package run defines the value types describing a single runner execution:
// the trigger that started it, the two terminal outcomes, and the result
// returned to callers.
package run
