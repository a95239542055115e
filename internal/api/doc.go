// Package api contains the HTTP handlers for the job lifecycle API:
// submitting discovery jobs, polling their status, cancelling them and
// fetching normalized results.
package api
