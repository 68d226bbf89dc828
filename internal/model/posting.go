package model

import "time"

// PostingKind distinguishes job postings (companies) from course postings
// (institutions). The two are structurally identical for the client.
type PostingKind string

const (
	PostingJob    PostingKind = "job"
	PostingCourse PostingKind = "course"
)

// Posting status values.
const (
	PostingStatusActive = "active"
	PostingStatusClosed = "closed"
)

// Posting is a job or course offered on the platform.
type Posting struct {
	// ID is the backend identifier of the posting.
	ID string `json:"id"`

	// Kind reports whether this is a job or a course.
	Kind PostingKind `json:"kind"`

	// OwnerID is the uid of the publishing company or institution.
	OwnerID string `json:"ownerId"`

	// OwnerName is the publisher's display name, joined in by the backend
	// or by the client-side enrichment pass.
	OwnerName string `json:"ownerName"`

	// Title is the job title or course name.
	Title string `json:"title"`

	// Description is the full posting text.
	Description string `json:"description"`

	// Location is the work or study location (jobs and courses).
	Location string `json:"location,omitempty"`

	// SalaryRange is free-form salary text (jobs only).
	SalaryRange string `json:"salaryRange,omitempty"`

	// JobType is e.g. "full-time" or "internship" (jobs only).
	JobType string `json:"jobType,omitempty"`

	// Requirements lists prerequisite skills or qualifications.
	Requirements []string `json:"requirements,omitempty"`

	// Faculty is the offering faculty (courses only).
	Faculty string `json:"faculty,omitempty"`

	// Duration is the course length, e.g. "3 years" (courses only).
	Duration string `json:"duration,omitempty"`

	// StudyLevel is e.g. "bachelor" or "master" (courses only).
	StudyLevel string `json:"studyLevel,omitempty"`

	// Deadline is the application cutoff. Nil for postings without one.
	Deadline *time.Time `json:"deadline,omitempty"`

	// Status is active or closed.
	Status string `json:"status"`

	// CreatedAt is when the posting was published.
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the posting's deadline has passed at the given
// instant. Postings without a deadline never expire.
func (p Posting) Expired(now time.Time) bool {
	return p.Deadline != nil && p.Deadline.Before(now)
}

// Open reports whether the posting accepts applications at the given instant.
func (p Posting) Open(now time.Time) bool {
	return p.Status == PostingStatusActive && !p.Expired(now)
}
