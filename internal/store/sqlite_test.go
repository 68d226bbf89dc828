package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/careerconnect/client/internal/model"
	"github.com/careerconnect/client/tests/testutil"
)

func TestReplaceAndGetPostings(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	deadline := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	jobs := []model.Posting{
		{
			ID:           "j1",
			Kind:         model.PostingJob,
			OwnerID:      "c1",
			OwnerName:    "Acme Corp",
			Title:        "Backend Developer",
			Description:  "Build services",
			Location:     "Oslo",
			SalaryRange:  "600k-800k",
			JobType:      "full-time",
			Requirements: []string{"Go", "SQL"},
			Deadline:     &deadline,
			Status:       model.PostingStatusActive,
			CreatedAt:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	courses := []model.Posting{
		{
			ID:         "c1",
			Kind:       model.PostingCourse,
			OwnerName:  "State University",
			Title:      "Computer Science",
			Faculty:    "Engineering",
			Duration:   "3 years",
			StudyLevel: "bachelor",
			Status:     model.PostingStatusActive,
		},
	}

	if err := s.ReplacePostings(ctx, model.PostingJob, jobs); err != nil {
		t.Fatalf("replace jobs: %v", err)
	}
	if err := s.ReplacePostings(ctx, model.PostingCourse, courses); err != nil {
		t.Fatalf("replace courses: %v", err)
	}

	gotJobs, err := s.GetPostings(ctx, model.PostingJob)
	if err != nil {
		t.Fatalf("get jobs: %v", err)
	}
	if len(gotJobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(gotJobs))
	}
	got := gotJobs[0]
	if got.Title != "Backend Developer" || got.JobType != "full-time" {
		t.Fatalf("unexpected job %+v", got)
	}
	if len(got.Requirements) != 2 || got.Requirements[0] != "Go" {
		t.Fatalf("requirements not round-tripped: %v", got.Requirements)
	}
	if got.Deadline == nil || !got.Deadline.Equal(deadline) {
		t.Fatalf("deadline not round-tripped: %v", got.Deadline)
	}

	// Kinds are cached independently.
	gotCourses, err := s.GetPostings(ctx, model.PostingCourse)
	if err != nil {
		t.Fatalf("get courses: %v", err)
	}
	if len(gotCourses) != 1 || gotCourses[0].Faculty != "Engineering" {
		t.Fatalf("unexpected courses %+v", gotCourses)
	}
}

func TestReplacePostingsOverwritesKind(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first := []model.Posting{{ID: "j1", Kind: model.PostingJob, Title: "Old"}}
	second := []model.Posting{{ID: "j2", Kind: model.PostingJob, Title: "New"}}

	if err := s.ReplacePostings(ctx, model.PostingJob, first); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := s.ReplacePostings(ctx, model.PostingJob, second); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := s.GetPostings(ctx, model.PostingJob)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0].ID != "j2" {
		t.Fatalf("expected the old collection replaced, got %+v", got)
	}
}

func TestApplicationsRoundTripAndDelete(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	apps := []model.Application{
		{
			ID:           "a1",
			PostingID:    "j1",
			ApplicantID:  "u1",
			Status:       model.ApplicationPending,
			AppliedAt:    time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC),
			CoverLetter:  "Hello",
			PostingTitle: "Backend Developer",
			OwnerName:    "Acme Corp",
		},
		{
			ID:        "a2",
			PostingID: "j2",
			Status:    model.ApplicationAdmitted,
			AppliedAt: time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC),
		},
	}
	if err := s.ReplaceApplications(ctx, apps); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := s.GetApplications(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(got))
	}
	// Newest first.
	if got[0].ID != "a1" || got[0].PostingTitle != "Backend Developer" {
		t.Fatalf("unexpected first application %+v", got[0])
	}

	if err := s.DeleteApplication(ctx, "a1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = s.GetApplications(ctx)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a2" {
		t.Fatalf("expected a1 removed, got %+v", got)
	}
}

func TestNotificationsRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	notifications := []model.Notification{
		{
			ID:        "n1",
			Title:     "Application update",
			Message:   "Your application was admitted",
			Read:      false,
			CreatedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        "n2",
			Title:     "Welcome",
			Read:      true,
			CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		},
	}
	if err := s.ReplaceNotifications(ctx, notifications); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := s.GetNotifications(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0].ID != "n1" || got[0].Read {
		t.Fatalf("unexpected first notification %+v", got[0])
	}
	if !got[1].Read {
		t.Fatal("read flag not round-tripped")
	}
}

func TestClearWipesAllCollections(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.ReplacePostings(ctx, model.PostingJob, []model.Posting{{ID: "j1", Kind: model.PostingJob}}); err != nil {
		t.Fatalf("replace postings: %v", err)
	}
	if err := s.ReplaceApplications(ctx, []model.Application{{ID: "a1"}}); err != nil {
		t.Fatalf("replace applications: %v", err)
	}
	if err := s.ReplaceNotifications(ctx, []model.Notification{{ID: "n1"}}); err != nil {
		t.Fatalf("replace notifications: %v", err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if got, _ := s.GetPostings(ctx, model.PostingJob); len(got) != 0 {
		t.Fatalf("postings survived clear: %+v", got)
	}
	if got, _ := s.GetApplications(ctx); len(got) != 0 {
		t.Fatalf("applications survived clear: %+v", got)
	}
	if got, _ := s.GetNotifications(ctx); len(got) != 0 {
		t.Fatalf("notifications survived clear: %+v", got)
	}
}
