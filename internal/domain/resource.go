package domain

import "errors"

// ResourceType is the categorical tag assigned to a discovered resource.
type ResourceType string

// The fixed set of resource types. The normalizer assigns one of these
// from contextual cues, defaulting to ResourceTypeOther when ambiguous.
const (
	ResourceTypeTextbook     ResourceType = "textbook"
	ResourceTypeProblemSet   ResourceType = "problem-set"
	ResourceTypeExam         ResourceType = "exam"
	ResourceTypeLectureVideo ResourceType = "lecture-video"
	ResourceTypeOther        ResourceType = "other"
)

// Common validation errors for ResourceRecord
var (
	ErrEmptyResourceTitle  = errors.New("resource title cannot be empty")
	ErrEmptyResourceURL    = errors.New("resource URL cannot be empty")
	ErrInvalidResourceType = errors.New("invalid resource type")
)

// ResourceRecord is one normalized, typed learning resource extracted
// from a raw discovery report. Records are created in bulk by the
// normalizer and never individually mutated.
type ResourceRecord struct {
	Title    string            `json:"title"`
	URL      string            `json:"url"`
	Type     ResourceType      `json:"type"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks if the ResourceRecord has valid data.
func (r *ResourceRecord) Validate() error {
	if r.Title == "" {
		return ErrEmptyResourceTitle
	}

	if r.URL == "" {
		return ErrEmptyResourceURL
	}

	if !isValidResourceType(r.Type) {
		return ErrInvalidResourceType
	}

	return nil
}

// isValidResourceType checks if the given type is in the fixed set.
func isValidResourceType(t ResourceType) bool {
	switch t {
	case ResourceTypeTextbook, ResourceTypeProblemSet, ResourceTypeExam,
		ResourceTypeLectureVideo, ResourceTypeOther:
		return true
	default:
		return false
	}
}
