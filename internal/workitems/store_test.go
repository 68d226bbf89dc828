package workitems

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/careerconnect/client/internal/api"
	"github.com/careerconnect/client/internal/model"
)

// fakeBackend is an in-memory Backend for tests.
type fakeBackend struct {
	jobs       []model.Posting
	courses    []model.Posting
	ownJobs    []model.Posting
	apps       []model.Application
	ownerApps  []model.Application
	listErr    error
	applyErr   error
	applyCalls int

	withdrawErr   error
	withdrawCalls []string
	statusCalls   []string
}

func (f *fakeBackend) ListJobs(context.Context) ([]model.Posting, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.jobs, nil
}

func (f *fakeBackend) ListCourses(context.Context) ([]model.Posting, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.courses, nil
}

func (f *fakeBackend) ListOwnJobs(context.Context) ([]model.Posting, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.ownJobs, nil
}

func (f *fakeBackend) ListOwnCourses(context.Context) ([]model.Posting, error) {
	return nil, nil
}

func (f *fakeBackend) CreateJob(_ context.Context, job api.NewJob) (model.Posting, error) {
	return model.Posting{ID: "created", Kind: model.PostingJob, Title: job.Title}, nil
}

func (f *fakeBackend) CreateCourse(_ context.Context, course api.NewCourse) (model.Posting, error) {
	return model.Posting{ID: "created", Kind: model.PostingCourse, Title: course.Name}, nil
}

func (f *fakeBackend) ClosePosting(context.Context, model.Posting) error { return nil }

func (f *fakeBackend) Apply(_ context.Context, postingID, _ string) (model.Application, error) {
	f.applyCalls++
	if f.applyErr != nil {
		return model.Application{}, f.applyErr
	}
	a := model.Application{ID: "app-new", PostingID: postingID, Status: model.ApplicationPending}
	f.apps = append(f.apps, a)
	return a, nil
}

func (f *fakeBackend) Withdraw(_ context.Context, applicationID string) error {
	f.withdrawCalls = append(f.withdrawCalls, applicationID)
	return f.withdrawErr
}

func (f *fakeBackend) MyApplications(context.Context) ([]model.Application, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.apps, nil
}

func (f *fakeBackend) OwnerApplications(context.Context) ([]model.Application, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.ownerApps, nil
}

func (f *fakeBackend) SetApplicationStatus(_ context.Context, applicationID, status string) error {
	f.statusCalls = append(f.statusCalls, applicationID+":"+status)
	return nil
}

func posting(id, title string) model.Posting {
	return model.Posting{
		ID:     id,
		Kind:   model.PostingJob,
		Title:  title,
		Status: model.PostingStatusActive,
	}
}

func TestLoadPostingsKeepsStaleDataOnFailure(t *testing.T) {
	backend := &fakeBackend{jobs: []model.Posting{posting("p1", "Backend Dev")}}
	s := New(backend)

	if _, err := s.LoadPostings(context.Background(), model.PostingJob); err != nil {
		t.Fatalf("initial load: %v", err)
	}

	backend.listErr = &api.TransportError{Op: "GET /api/jobs", Err: errors.New("refused")}

	stale, err := s.LoadPostings(context.Background(), model.PostingJob)
	if err == nil {
		t.Fatal("expected error from failed refresh")
	}
	if len(stale) != 1 || stale[0].ID != "p1" {
		t.Fatalf("expected stale snapshot to survive, got %+v", stale)
	}
	if s.LastError() == nil {
		t.Fatal("expected error flag to be set")
	}

	// A later success clears the flag.
	backend.listErr = nil
	if _, err := s.LoadPostings(context.Background(), model.PostingJob); err != nil {
		t.Fatalf("recovery load: %v", err)
	}
	if s.LastError() != nil {
		t.Fatalf("error flag should clear after success, got %v", s.LastError())
	}
}

func TestApplyExpiredPostingNeverHitsNetwork(t *testing.T) {
	deadline := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	expired := posting("p1", "Old Job")
	expired.Deadline = &deadline

	backend := &fakeBackend{jobs: []model.Posting{expired}}
	now := func() time.Time { return deadline.Add(24 * time.Hour) }
	s := New(backend, WithClock(now))

	if _, err := s.LoadPostings(context.Background(), model.PostingJob); err != nil {
		t.Fatalf("load: %v", err)
	}

	err := s.Apply(context.Background(), "p1", "")
	if err == nil {
		t.Fatal("expected expiry error")
	}
	if api.Reason(err) != "expired" {
		t.Fatalf("expected reason \"expired\" got %q", api.Reason(err))
	}
	if backend.applyCalls != 0 {
		t.Fatalf("expired pre-check must block the network call, got %d calls", backend.applyCalls)
	}
}

func TestApplyRefreshesApplications(t *testing.T) {
	backend := &fakeBackend{jobs: []model.Posting{posting("p1", "Backend Dev")}}
	s := New(backend)

	if _, err := s.LoadPostings(context.Background(), model.PostingJob); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := s.Apply(context.Background(), "p1", "hello"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	apps := s.Applications()
	if len(apps) != 1 || apps[0].PostingID != "p1" {
		t.Fatalf("expected refreshed application list, got %+v", apps)
	}
	// The join fills the posting title from the loaded catalog.
	if apps[0].PostingTitle != "Backend Dev" {
		t.Fatalf("expected joined title got %q", apps[0].PostingTitle)
	}
}

func TestApplyServerRejectionIsReturned(t *testing.T) {
	backend := &fakeBackend{
		jobs:     []model.Posting{posting("p1", "Backend Dev")},
		applyErr: &api.ServerError{Status: 409, Reason: "already applied"},
	}
	s := New(backend)

	if _, err := s.LoadPostings(context.Background(), model.PostingJob); err != nil {
		t.Fatalf("load: %v", err)
	}

	err := s.Apply(context.Background(), "p1", "")
	if api.Reason(err) != "already applied" {
		t.Fatalf("expected server reason, got %v", err)
	}
	if len(s.Applications()) != 0 {
		t.Fatal("failed apply must not change the local list")
	}
}

func TestWithdrawRemovesAfterAcknowledge(t *testing.T) {
	backend := &fakeBackend{apps: []model.Application{
		{ID: "a1", PostingID: "p1", Status: model.ApplicationPending},
		{ID: "a2", PostingID: "p2", Status: model.ApplicationPending},
	}}
	s := New(backend)

	if _, err := s.LoadApplications(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := s.Withdraw(context.Background(), "a1"); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	apps := s.Applications()
	if len(apps) != 1 || apps[0].ID != "a2" {
		t.Fatalf("expected a1 removed, got %+v", apps)
	}
}

func TestWithdrawFailureLeavesListUnchanged(t *testing.T) {
	backend := &fakeBackend{
		apps:        []model.Application{{ID: "a1", Status: model.ApplicationPending}},
		withdrawErr: &api.TransportError{Op: "DELETE", Err: errors.New("refused")},
	}
	s := New(backend)

	if _, err := s.LoadApplications(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := s.Withdraw(context.Background(), "a1"); err == nil {
		t.Fatal("expected withdraw error")
	}
	if len(s.Applications()) != 1 {
		t.Fatal("failed withdraw must not remove the local entry")
	}
}

func TestLoadApplicationsJoinsPlaceholderForMissingPosting(t *testing.T) {
	backend := &fakeBackend{apps: []model.Application{
		{ID: "a1", PostingID: "gone", Status: model.ApplicationPending},
	}}
	s := New(backend)

	apps, err := s.LoadApplications(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if apps[0].PostingTitle != model.UnknownPostingLabel {
		t.Fatalf("expected placeholder title got %q", apps[0].PostingTitle)
	}
}

func TestSetApplicationStatusRefetchesOwnerList(t *testing.T) {
	backend := &fakeBackend{ownerApps: []model.Application{
		{ID: "a1", PostingID: "p1", Status: model.ApplicationPending},
	}}
	s := New(backend)

	if err := s.SetApplicationStatus(context.Background(), "a1", model.ApplicationAdmitted); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if len(backend.statusCalls) != 1 || backend.statusCalls[0] != "a1:admitted" {
		t.Fatalf("unexpected status calls %v", backend.statusCalls)
	}
	// The owner list was re-fetched, not patched.
	if len(s.OwnerApplications()) != 1 {
		t.Fatal("expected refreshed owner list")
	}
}

func TestCreatePostingPrependsToOwnList(t *testing.T) {
	backend := &fakeBackend{ownJobs: []model.Posting{posting("old", "Old Job")}}
	s := New(backend)

	if _, err := s.LoadOwnPostings(context.Background(), model.PostingJob); err != nil {
		t.Fatalf("load: %v", err)
	}

	created, err := s.CreatePosting(context.Background(), model.PostingJob,
		api.NewJob{Title: "New Job"}, api.NewCourse{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Title != "New Job" {
		t.Fatalf("unexpected created posting %+v", created)
	}

	own := s.OwnPostings(model.PostingJob)
	if len(own) != 2 || own[0].ID != "created" {
		t.Fatalf("expected new posting first, got %+v", own)
	}
}

func TestClosePostingPatchesLocalStatus(t *testing.T) {
	backend := &fakeBackend{ownJobs: []model.Posting{posting("p1", "Backend Dev")}}
	s := New(backend)

	if _, err := s.LoadOwnPostings(context.Background(), model.PostingJob); err != nil {
		t.Fatalf("load: %v", err)
	}

	target := s.OwnPostings(model.PostingJob)[0]
	if err := s.ClosePosting(context.Background(), target); err != nil {
		t.Fatalf("close: %v", err)
	}

	own := s.OwnPostings(model.PostingJob)
	if own[0].Status != model.PostingStatusClosed {
		t.Fatalf("expected closed status got %q", own[0].Status)
	}
}

func TestResetClearsEverything(t *testing.T) {
	backend := &fakeBackend{
		jobs: []model.Posting{posting("p1", "Backend Dev")},
		apps: []model.Application{{ID: "a1"}},
	}
	s := New(backend)

	_, _ = s.LoadPostings(context.Background(), model.PostingJob)
	_, _ = s.LoadApplications(context.Background())

	s.Reset(context.Background())

	if len(s.Postings(model.PostingJob)) != 0 || len(s.Applications()) != 0 {
		t.Fatal("reset must drop all collections")
	}
}
