// Package postgres implements the storage interfaces from internal/store
// on PostgreSQL. Job state transitions are expressed as guarded UPDATE
// statements whose WHERE clause names the states the transition is legal
// from, so concurrent writers race at the row and the database decides
// the winner.
package postgres
