// Package gemini implements the discovery.Discoverer interface against
// Google's Gemini API. It renders a prompt from the job inputs, optionally
// enriched with the text of the course page, and returns the model's
// textual report for normalization downstream.
package gemini
