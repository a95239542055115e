package api

import (
	"errors"
	"time"

	"github.com/phrazzld/scholar-api/internal/domain"
)

// ErrNoSearchableInput is returned when a submission carries no field
// worth searching on.
var ErrNoSearchableInput = errors.New("at least one searchable input is required")

// SubmitJobRequest is the body for POST /api/jobs. All fields are
// optional individually, but at least one searchable field must be set.
type SubmitJobRequest struct {
	UniversityName string `json:"university_name,omitempty"`
	Subject        string `json:"subject,omitempty"`
	CourseNumber   string `json:"course_number,omitempty"`
	CourseName     string `json:"course_name,omitempty"`
	CourseURL      string `json:"course_url,omitempty"      validate:"omitempty,url"`
	BookTitle      string `json:"book_title,omitempty"`
	BookAuthor     string `json:"book_author,omitempty"`
	ISBN           string `json:"isbn,omitempty"`
	Syllabus       string `json:"syllabus,omitempty"`
	Topics         string `json:"topics,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// ToInputs converts the request to domain inputs.
func (r *SubmitJobRequest) ToInputs() domain.DiscoveryInputs {
	return domain.DiscoveryInputs{
		UniversityName: r.UniversityName,
		Subject:        r.Subject,
		CourseNumber:   r.CourseNumber,
		CourseName:     r.CourseName,
		CourseURL:      r.CourseURL,
		BookTitle:      r.BookTitle,
		BookAuthor:     r.BookAuthor,
		ISBN:           r.ISBN,
		Syllabus:       r.Syllabus,
		Topics:         r.Topics,
		AdditionalInfo: r.AdditionalInfo,
	}
}


// ResourceRecordResponse is the wire form of a normalized resource.
type ResourceRecordResponse struct {
	Title    string            `json:"title"`
	URL      string            `json:"url"`
	Type     string            `json:"type"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// JobResponse is the wire form of a job.
type JobResponse struct {
	ID            string                   `json:"id"`
	Status        string                   `json:"status"`
	StatusMessage string                   `json:"status_message,omitempty"`
	Result        []ResourceRecordResponse `json:"result,omitempty"`
	Error         string                   `json:"error,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	CompletedAt   *time.Time               `json:"completed_at,omitempty"`
}

// ResultResponse is the body for GET /api/results/{id}.
type ResultResponse struct {
	JobID     string                   `json:"job_id"`
	Resources []ResourceRecordResponse `json:"resources"`
	Count     int                      `json:"count"`
}

func recordsToResponse(records []domain.ResourceRecord) []ResourceRecordResponse {
	if records == nil {
		return nil
	}
	out := make([]ResourceRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, ResourceRecordResponse{
			Title:    rec.Title,
			URL:      rec.URL,
			Type:     string(rec.Type),
			Metadata: rec.Metadata,
		})
	}
	return out
}

func jobToResponse(job *domain.Job) JobResponse {
	return JobResponse{
		ID:            job.ID.String(),
		Status:        string(job.Status),
		StatusMessage: job.StatusMessage,
		Result:        recordsToResponse(job.Result),
		Error:         job.Error,
		CreatedAt:     job.CreatedAt,
		CompletedAt:   job.CompletedAt,
	}
}
