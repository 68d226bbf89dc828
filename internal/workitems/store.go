// Package workitems owns the postings visible to the current role and the
// user's applications against them. All server mutation goes through this
// store, which resynchronizes local state afterwards: apply re-fetches the
// application list (server-side validation is authoritative), withdraw
// removes locally after the server acknowledges.
package workitems

import (
	"context"
	"sync"
	"time"

	"github.com/careerconnect/client/internal/api"
	"github.com/careerconnect/client/internal/model"
	"github.com/careerconnect/client/internal/store"
)

// Backend is the slice of the REST API the store consumes.
type Backend interface {
	ListJobs(ctx context.Context) ([]model.Posting, error)
	ListCourses(ctx context.Context) ([]model.Posting, error)
	ListOwnJobs(ctx context.Context) ([]model.Posting, error)
	ListOwnCourses(ctx context.Context) ([]model.Posting, error)
	CreateJob(ctx context.Context, job api.NewJob) (model.Posting, error)
	CreateCourse(ctx context.Context, course api.NewCourse) (model.Posting, error)
	ClosePosting(ctx context.Context, p model.Posting) error
	Apply(ctx context.Context, postingID, coverLetter string) (model.Application, error)
	Withdraw(ctx context.Context, applicationID string) error
	MyApplications(ctx context.Context) ([]model.Application, error)
	OwnerApplications(ctx context.Context) ([]model.Application, error)
	SetApplicationStatus(ctx context.Context, applicationID, status string) error
}

// Store holds the work-item collections. Reads return copies of the latest
// snapshot; mutation happens only through the store's own operations.
type Store struct {
	backend Backend
	cache   store.Store
	now     func() time.Time

	mu        sync.Mutex
	postings  map[model.PostingKind][]model.Posting
	ownPosts  map[model.PostingKind][]model.Posting
	apps      []model.Application
	ownerApps []model.Application
	listErr   error
}

// Option configures a Store.
type Option func(*Store)

// WithCache attaches a local cache used as the stale fallback.
func WithCache(c store.Store) Option {
	return func(s *Store) { s.cache = c }
}

// WithClock overrides the time source for deadline checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a work-item store over the given backend.
func New(backend Backend, opts ...Option) *Store {
	if backend == nil {
		panic("workitems: backend must not be nil")
	}
	s := &Store{
		backend:  backend,
		now:      time.Now,
		postings: make(map[model.PostingKind][]model.Posting),
		ownPosts: make(map[model.PostingKind][]model.Posting),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate loads the cached collections so the first render shows the last
// known data while fresh fetches are in flight.
func (s *Store) Hydrate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kind := range []model.PostingKind{model.PostingJob, model.PostingCourse} {
		if cached, err := s.cache.GetPostings(ctx, kind); err == nil && len(cached) > 0 {
			s.postings[kind] = cached
		}
	}
	if cached, err := s.cache.GetApplications(ctx); err == nil && len(cached) > 0 {
		s.apps = cached
	}
}

// Reset clears all local and cached collections. Called on sign-out.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.postings = make(map[model.PostingKind][]model.Posting)
	s.ownPosts = make(map[model.PostingKind][]model.Posting)
	s.apps = nil
	s.ownerApps = nil
	s.listErr = nil
	s.mu.Unlock()

	if s.cache != nil {
		_ = s.cache.Clear(ctx)
	}
}

// LoadPostings fetches the active postings of one kind for the applicant
// view. On transport failure the previous collection stays in place and the
// error flag is set; the stale snapshot is returned alongside the error.
func (s *Store) LoadPostings(ctx context.Context, kind model.PostingKind) ([]model.Posting, error) {
	var fetched []model.Posting
	var err error
	switch kind {
	case model.PostingCourse:
		fetched, err = s.backend.ListCourses(ctx)
	default:
		fetched, err = s.backend.ListJobs(ctx)
	}

	s.mu.Lock()
	if err != nil {
		s.listErr = err
		stale := copyPostings(s.postings[kind])
		s.mu.Unlock()
		return stale, err
	}
	s.postings[kind] = fetched
	s.listErr = nil
	snapshot := copyPostings(fetched)
	s.mu.Unlock()

	if s.cache != nil {
		_ = s.cache.ReplacePostings(ctx, kind, fetched)
	}
	return snapshot, nil
}

// LoadOwnPostings fetches all postings owned by the caller (including
// closed ones) for the owner dashboard.
func (s *Store) LoadOwnPostings(ctx context.Context, kind model.PostingKind) ([]model.Posting, error) {
	var fetched []model.Posting
	var err error
	switch kind {
	case model.PostingCourse:
		fetched, err = s.backend.ListOwnCourses(ctx)
	default:
		fetched, err = s.backend.ListOwnJobs(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.listErr = err
		return copyPostings(s.ownPosts[kind]), err
	}
	s.ownPosts[kind] = fetched
	s.listErr = nil
	return copyPostings(fetched), nil
}

// Postings returns the latest applicant-facing snapshot of one kind.
func (s *Store) Postings(kind model.PostingKind) []model.Posting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyPostings(s.postings[kind])
}

// OwnPostings returns the latest owner-facing snapshot of one kind.
func (s *Store) OwnPostings(kind model.PostingKind) []model.Posting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyPostings(s.ownPosts[kind])
}

// LastError returns the error flag from the most recent list operation,
// nil after a success.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listErr
}

// Apply submits an application. Expired postings are rejected before any
// network call; the server remains authoritative for everything else
// (duplicates, closed postings). On success the application list is
// re-fetched rather than patched optimistically. The UI must disable the
// apply control while the call is in flight.
func (s *Store) Apply(ctx context.Context, postingID, coverLetter string) error {
	if posting, ok := s.findPosting(postingID); ok && posting.Expired(s.now()) {
		return &api.ServerError{Reason: "expired"}
	}

	if _, err := s.backend.Apply(ctx, postingID, coverLetter); err != nil {
		return err
	}

	if _, err := s.LoadApplications(ctx); err != nil {
		// The application went through; only the refresh failed. The
		// error flag keeps the stale list visible with a retry banner.
		return nil
	}
	return nil
}

// Withdraw deletes an application. The local entry is removed only after
// the server acknowledges; a failure leaves the collection unchanged.
func (s *Store) Withdraw(ctx context.Context, applicationID string) error {
	if err := s.backend.Withdraw(ctx, applicationID); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.apps[:0:0]
	for _, a := range s.apps {
		if a.ID != applicationID {
			kept = append(kept, a)
		}
	}
	s.apps = kept
	s.mu.Unlock()

	if s.cache != nil {
		_ = s.cache.DeleteApplication(ctx, applicationID)
	}
	return nil
}

// LoadApplications fetches the caller's applications and joins each with
// posting and owner display data. A missing posting degrades to a
// placeholder label, never an error.
func (s *Store) LoadApplications(ctx context.Context) ([]model.Application, error) {
	fetched, err := s.backend.MyApplications(ctx)

	s.mu.Lock()
	if err != nil {
		s.listErr = err
		stale := copyApplications(s.apps)
		s.mu.Unlock()
		return stale, err
	}

	for i := range fetched {
		s.enrichLocked(&fetched[i])
	}
	s.apps = fetched
	s.listErr = nil
	snapshot := copyApplications(fetched)
	s.mu.Unlock()

	if s.cache != nil {
		_ = s.cache.ReplaceApplications(ctx, fetched)
	}
	return snapshot, nil
}

// Applications returns the latest snapshot of the caller's applications.
func (s *Store) Applications() []model.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyApplications(s.apps)
}

// LoadOwnerApplications fetches applications received on the caller's
// postings.
func (s *Store) LoadOwnerApplications(ctx context.Context) ([]model.Application, error) {
	fetched, err := s.backend.OwnerApplications(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.listErr = err
		return copyApplications(s.ownerApps), err
	}
	for i := range fetched {
		s.enrichLocked(&fetched[i])
	}
	s.ownerApps = fetched
	s.listErr = nil
	return copyApplications(fetched), nil
}

// OwnerApplications returns the latest owner-facing application snapshot.
func (s *Store) OwnerApplications() []model.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyApplications(s.ownerApps)
}

// SetApplicationStatus updates a received application's status and
// re-fetches the owner list so the authoritative record is shown.
func (s *Store) SetApplicationStatus(ctx context.Context, applicationID, status string) error {
	if err := s.backend.SetApplicationStatus(ctx, applicationID, status); err != nil {
		return err
	}
	_, err := s.LoadOwnerApplications(ctx)
	return err
}

// CreatePosting publishes a job or course and prepends it to the owner
// collection after the server acknowledges.
func (s *Store) CreatePosting(ctx context.Context, kind model.PostingKind, job api.NewJob, course api.NewCourse) (model.Posting, error) {
	var created model.Posting
	var err error
	switch kind {
	case model.PostingCourse:
		created, err = s.backend.CreateCourse(ctx, course)
	default:
		created, err = s.backend.CreateJob(ctx, job)
	}
	if err != nil {
		return model.Posting{}, err
	}

	s.mu.Lock()
	s.ownPosts[kind] = append([]model.Posting{created}, s.ownPosts[kind]...)
	s.mu.Unlock()
	return created, nil
}

// ClosePosting marks one of the caller's postings closed and patches the
// local snapshot after the server acknowledges.
func (s *Store) ClosePosting(ctx context.Context, p model.Posting) error {
	if err := s.backend.ClosePosting(ctx, p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	own := s.ownPosts[p.Kind]
	for i := range own {
		if own[i].ID == p.ID {
			own[i].Status = model.PostingStatusClosed
		}
	}
	return nil
}

// enrichLocked fills the display join fields from the known postings.
func (s *Store) enrichLocked(a *model.Application) {
	if a.PostingTitle != "" {
		return
	}
	for _, collection := range []map[model.PostingKind][]model.Posting{s.postings, s.ownPosts} {
		for _, postings := range collection {
			for _, p := range postings {
				if p.ID == a.PostingID {
					a.PostingTitle = p.Title
					if a.OwnerName == "" {
						a.OwnerName = p.OwnerName
					}
					return
				}
			}
		}
	}
	a.PostingTitle = model.UnknownPostingLabel
}

// findPosting looks up a posting by id across the applicant collections.
func (s *Store) findPosting(id string) (model.Posting, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, postings := range s.postings {
		for _, p := range postings {
			if p.ID == id {
				return p, true
			}
		}
	}
	return model.Posting{}, false
}

func copyPostings(src []model.Posting) []model.Posting {
	out := make([]model.Posting, len(src))
	copy(out, src)
	return out
}

func copyApplications(src []model.Application) []model.Application {
	out := make([]model.Application, len(src))
	copy(out, src)
	return out
}
