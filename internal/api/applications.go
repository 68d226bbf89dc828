package api

import (
	"context"
	"fmt"

	"github.com/careerconnect/client/internal/model"
)

// applyRequest is the payload for submitting an application.
type applyRequest struct {
	JobID       string `json:"jobId"`
	CoverLetter string `json:"coverLetter,omitempty"`
}

// Apply submits an application to a posting. Deadline and duplicate checks
// are authoritative on the server; rejections come back as ServerError with
// the backend's reason.
func (c *Client) Apply(ctx context.Context, postingID, coverLetter string) (model.Application, error) {
	var wire wireApplication
	req := applyRequest{JobID: postingID, CoverLetter: coverLetter}
	if err := c.Post(ctx, "/api/job-applications/apply", req, &wire); err != nil {
		return model.Application{}, err
	}
	return wire.toApplication(), nil
}

// Withdraw deletes one of the caller's applications.
func (c *Client) Withdraw(ctx context.Context, applicationID string) error {
	return c.Delete(ctx, "/api/job-applications/"+applicationID)
}

// MyApplications fetches the caller's applications.
func (c *Client) MyApplications(ctx context.Context) ([]model.Application, error) {
	var wire []wireApplication
	if err := c.Get(ctx, "/api/job-applications/my-applications", &wire); err != nil {
		return nil, err
	}
	return convertApplications(wire), nil
}

// OwnerApplications fetches applications received against the caller's
// postings (institution or company view).
func (c *Client) OwnerApplications(ctx context.Context) ([]model.Application, error) {
	var wire []wireApplication
	if err := c.Get(ctx, "/api/applications/institution", &wire); err != nil {
		return nil, err
	}
	return convertApplications(wire), nil
}

// statusRequest is the payload for an owner-side status change.
type statusRequest struct {
	Status string `json:"status"`
}

// SetApplicationStatus updates the status of an application received on one
// of the caller's postings.
func (c *Client) SetApplicationStatus(ctx context.Context, applicationID, status string) error {
	path := fmt.Sprintf("/api/applications/%s/status", applicationID)
	return c.Put(ctx, path, statusRequest{Status: status}, nil)
}

func convertApplications(wire []wireApplication) []model.Application {
	apps := make([]model.Application, len(wire))
	for i, w := range wire {
		apps[i] = w.toApplication()
	}
	return apps
}
