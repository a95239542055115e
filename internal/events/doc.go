// Package events decouples job submission from background task creation.
// The service layer emits a TaskRequestEvent when a job is accepted; a
// handler in the task layer turns the event into a runnable task. Neither
// side imports the other, which keeps the dependency graph acyclic.
package events
