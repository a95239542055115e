// Package normalize converts the free-form textual report produced by a
// discovery task into a validated, deduplicated list of resource records.
//
// Parsing is organized as an ordered list of pure strategies. Each
// strategy is tried in sequence and the first one to yield any records
// wins; if none do, Normalize returns an empty slice. Normalization is
// total: malformed input degrades to fewer (or zero) records, never to
// an error.
package normalize
