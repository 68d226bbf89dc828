package api

import (
	"context"
	"fmt"
	"time"

	"github.com/careerconnect/client/internal/model"
)

// ListJobs fetches the active job postings visible to applicants.
func (c *Client) ListJobs(ctx context.Context) ([]model.Posting, error) {
	var wire []wirePosting
	if err := c.Get(ctx, "/api/jobs", &wire); err != nil {
		return nil, err
	}
	return convertPostings(wire, model.PostingJob), nil
}

// ListCourses fetches the active course postings visible to applicants.
func (c *Client) ListCourses(ctx context.Context) ([]model.Posting, error) {
	var wire []wirePosting
	if err := c.Get(ctx, "/api/courses", &wire); err != nil {
		return nil, err
	}
	return convertPostings(wire, model.PostingCourse), nil
}

// ListOwnJobs fetches all job postings owned by the calling company,
// including closed ones.
func (c *Client) ListOwnJobs(ctx context.Context) ([]model.Posting, error) {
	var wire []wirePosting
	if err := c.Get(ctx, "/api/companies/jobs", &wire); err != nil {
		return nil, err
	}
	return convertPostings(wire, model.PostingJob), nil
}

// ListOwnCourses fetches all course postings owned by the calling
// institution, including closed ones.
func (c *Client) ListOwnCourses(ctx context.Context) ([]model.Posting, error) {
	var wire []wirePosting
	if err := c.Get(ctx, "/api/institutions/courses", &wire); err != nil {
		return nil, err
	}
	return convertPostings(wire, model.PostingCourse), nil
}

// NewJob is the payload for creating a job posting.
type NewJob struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
	SalaryRange  string     `json:"salaryRange"`
	JobType      string     `json:"jobType"`
	Requirements []string   `json:"requirements"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

// CreateJob publishes a new job posting and returns the server's record.
func (c *Client) CreateJob(ctx context.Context, job NewJob) (model.Posting, error) {
	var wire wirePosting
	if err := c.Post(ctx, "/api/companies/jobs", job, &wire); err != nil {
		return model.Posting{}, err
	}
	return wire.toPosting(model.PostingJob), nil
}

// NewCourse is the payload for creating a course posting.
type NewCourse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Faculty     string `json:"faculty"`
	Duration    string `json:"duration"`
	StudyLevel  string `json:"studyLevel"`
	Location    string `json:"location"`
}

// CreateCourse publishes a new course posting and returns the server's record.
func (c *Client) CreateCourse(ctx context.Context, course NewCourse) (model.Posting, error) {
	var wire wirePosting
	if err := c.Post(ctx, "/api/institutions/courses", course, &wire); err != nil {
		return model.Posting{}, err
	}
	return wire.toPosting(model.PostingCourse), nil
}

// ClosePosting marks one of the caller's postings as closed.
func (c *Client) ClosePosting(ctx context.Context, p model.Posting) error {
	var path string
	switch p.Kind {
	case model.PostingJob:
		path = fmt.Sprintf("/api/companies/jobs/%s/close", p.ID)
	case model.PostingCourse:
		path = fmt.Sprintf("/api/institutions/courses/%s/close", p.ID)
	default:
		return fmt.Errorf("unknown posting kind %q", p.Kind)
	}
	return c.Put(ctx, path, nil, nil)
}

func convertPostings(wire []wirePosting, kind model.PostingKind) []model.Posting {
	postings := make([]model.Posting, len(wire))
	for i, w := range wire {
		postings[i] = w.toPosting(kind)
	}
	return postings
}
