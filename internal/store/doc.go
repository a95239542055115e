// Package store defines the persistence contracts for the application.
// It contains no business logic; implementations live under
// internal/platform. All job state transitions go through guarded
// updates so that a write racing a terminal transition loses cleanly.
package store
