package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the processing state of a discovery job.
type JobStatus string

// Possible job status values
const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Common validation errors for Job
var (
	ErrEmptyJobID       = errors.New("job ID cannot be empty")
	ErrEmptyJobInputs   = errors.New("job inputs cannot be empty")
	ErrInvalidJobStatus = errors.New("invalid job status")
)

// DiscoveryInputs is the immutable parameter set supplied at submission.
// Every field is optional on its own; the HTTP layer enforces that at
// least one is present before a job is created.
type DiscoveryInputs struct {
	UniversityName string `json:"university_name,omitempty"`
	Subject        string `json:"subject,omitempty"`
	CourseNumber   string `json:"course_number,omitempty"`
	CourseName     string `json:"course_name,omitempty"`
	CourseURL      string `json:"course_url,omitempty"`
	BookTitle      string `json:"book_title,omitempty"`
	BookAuthor     string `json:"book_author,omitempty"`
	ISBN           string `json:"isbn,omitempty"`
	Syllabus       string `json:"syllabus,omitempty"`
	Topics         string `json:"topics,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// IsEmpty reports whether no discovery input field was provided.
func (in DiscoveryInputs) IsEmpty() bool {
	return in.UniversityName == "" && in.Subject == "" && in.CourseNumber == "" &&
		in.CourseName == "" && in.CourseURL == "" && in.BookTitle == "" &&
		in.BookAuthor == "" && in.ISBN == "" && in.Syllabus == "" &&
		in.Topics == "" && in.AdditionalInfo == ""
}

// SearchTitle derives a short human-readable label for the job from its
// inputs, used in status responses and shareable result pages.
func (in DiscoveryInputs) SearchTitle() string {
	switch {
	case in.CourseName != "":
		if in.UniversityName != "" {
			return in.UniversityName + " — " + in.CourseName
		}
		return in.CourseName
	case in.BookTitle != "":
		if in.BookAuthor != "" {
			return in.BookTitle + " by " + in.BookAuthor
		}
		return in.BookTitle
	case in.Subject != "":
		if in.UniversityName != "" {
			return in.UniversityName + " — " + in.Subject
		}
		return in.Subject
	case in.UniversityName != "":
		return in.UniversityName
	case in.CourseURL != "":
		return in.CourseURL
	default:
		return "Resource discovery"
	}
}

// Job represents one submitted discovery request and its tracked outcome.
// The inputs are immutable after creation; RawOutput and Result are set
// exactly once on success, Error exactly once on failure.
type Job struct {
	ID            uuid.UUID        `json:"id"`
	Status        JobStatus        `json:"status"`
	Inputs        DiscoveryInputs  `json:"inputs"`
	StatusMessage string           `json:"status_message,omitempty"`
	RawOutput     string           `json:"raw_output,omitempty"`
	Result        []ResourceRecord `json:"result,omitempty"`
	Error         string           `json:"error,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
}

// NewJob creates a new Job in pending status with a fresh UUID.
// Returns an error if the inputs are entirely empty.
func NewJob(inputs DiscoveryInputs) (*Job, error) {
	job := &Job{
		ID:        uuid.New(),
		Status:    JobStatusPending,
		Inputs:    inputs,
		CreatedAt: time.Now().UTC(),
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Validate checks if the Job has valid data.
func (j *Job) Validate() error {
	if j.ID == uuid.Nil {
		return ErrEmptyJobID
	}

	if j.Inputs.IsEmpty() {
		return ErrEmptyJobInputs
	}

	if !isValidJobStatus(j.Status) {
		return ErrInvalidJobStatus
	}

	return j.checkOutcomeConsistency()
}

// checkOutcomeConsistency enforces the invariant that exactly one of
// {result present, error present, neither} holds, matching the status.
func (j *Job) checkOutcomeConsistency() error {
	hasResult := j.Result != nil
	hasError := j.Error != ""

	switch j.Status {
	case JobStatusCompleted:
		if !hasResult || hasError {
			return ErrInvalidJobStatus
		}
	case JobStatusFailed:
		if hasResult || !hasError {
			return ErrInvalidJobStatus
		}
	default:
		if hasResult || hasError {
			return ErrInvalidJobStatus
		}
	}

	return nil
}

// IsTerminal reports whether the job's status permits no further transitions.
func (j *Job) IsTerminal() bool {
	return j.Status.IsTerminal()
}

// IsTerminal reports whether the status is completed, failed, or cancelled.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	default:
		return false
	}
}

// isValidJobStatus checks if the given status is a valid JobStatus.
func isValidJobStatus(status JobStatus) bool {
	switch status {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted,
		JobStatusFailed, JobStatusCancelled:
		return true
	default:
		return false
	}
}
