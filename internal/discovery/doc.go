// Package discovery defines the boundary between the job lifecycle core
// and the external long-running process that turns course/book inputs
// into a raw textual report. The lifecycle manager works against the
// Discoverer interface and never depends on what the discovery task does
// internally; the production implementation (Gemini) lives under
// internal/platform/gemini.
package discovery
