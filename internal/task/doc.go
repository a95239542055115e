// Package task implements the job lifecycle manager: a background
// runner with a bounded worker pool, the discovery task that drives a
// job through its state machine, a cancel registry for cooperative
// per-job cancellation, and the status reporter used by running tasks
// to publish progress.
//
// State is owned by the job store; this package only requests guarded
// transitions, so a task that loses a race against a cancellation (or
// any other terminal write) observes store.ErrJobFinalized and stands
// down instead of overwriting the terminal state.
package task
