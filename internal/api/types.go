package api

import (
	"github.com/careerconnect/client/internal/model"
)

// Wire types mirror the backend JSON payloads. All timestamps pass through
// model.Timestamp so shape normalization happens exactly once, here.

// wireOwner is the embedded publisher record on postings and applications.
type wireOwner struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
}

// wirePosting covers both job and course payloads; courses use "name"
// instead of "title" and have no deadline.
type wirePosting struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"ownerId"`
	CompanyID     string          `json:"companyId"`
	InstitutionID string          `json:"institutionId"`
	Company       *wireOwner      `json:"company"`
	Institution   *wireOwner      `json:"institution"`
	Title         string          `json:"title"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	SalaryRange   string          `json:"salaryRange"`
	JobType       string          `json:"jobType"`
	Requirements  []string        `json:"requirements"`
	Faculty       string          `json:"faculty"`
	Duration      string          `json:"duration"`
	StudyLevel    string          `json:"studyLevel"`
	Deadline      model.Timestamp `json:"deadline"`
	Status        string          `json:"status"`
	CreatedAt     model.Timestamp `json:"createdAt"`
}

// toPosting converts a wire posting into the client model.
func (w wirePosting) toPosting(kind model.PostingKind) model.Posting {
	p := model.Posting{
		ID:           w.ID,
		Kind:         kind,
		OwnerID:      w.OwnerID,
		Title:        w.Title,
		Description:  w.Description,
		Location:     w.Location,
		SalaryRange:  w.SalaryRange,
		JobType:      w.JobType,
		Requirements: w.Requirements,
		Faculty:      w.Faculty,
		Duration:     w.Duration,
		StudyLevel:   w.StudyLevel,
		Deadline:     w.Deadline.TimePtr(),
		Status:       w.Status,
		CreatedAt:    w.CreatedAt.Time,
	}

	if p.Title == "" {
		p.Title = w.Name
	}
	if p.Status == "" {
		p.Status = model.PostingStatusActive
	}

	switch kind {
	case model.PostingJob:
		if p.OwnerID == "" {
			p.OwnerID = w.CompanyID
		}
		if w.Company != nil {
			p.OwnerName = w.Company.DisplayName
			if p.OwnerID == "" {
				p.OwnerID = w.Company.UID
			}
		}
	case model.PostingCourse:
		if p.OwnerID == "" {
			p.OwnerID = w.InstitutionID
		}
		if w.Institution != nil {
			p.OwnerName = w.Institution.DisplayName
			if p.OwnerID == "" {
				p.OwnerID = w.Institution.UID
			}
		}
	}

	return p
}

// wireApplication mirrors the backend application payload, optionally with
// joined posting and owner records.
type wireApplication struct {
	ID            string          `json:"id"`
	JobID         string          `json:"jobId"`
	CourseID      string          `json:"courseId"`
	PostingID     string          `json:"postingId"`
	ApplicantID   string          `json:"applicantId"`
	StudentID     string          `json:"studentId"`
	ApplicantName string          `json:"applicantName"`
	Status        string          `json:"status"`
	AppliedAt     model.Timestamp `json:"appliedAt"`
	CoverLetter   string          `json:"coverLetter"`
	Job           *wirePosting    `json:"job"`
	Company       *wireOwner      `json:"company"`
}

// toApplication converts a wire application into the client model. Joined
// display data is carried over when present; the work-item store fills the
// rest from its posting collection.
func (w wireApplication) toApplication() model.Application {
	a := model.Application{
		ID:            w.ID,
		PostingID:     w.PostingID,
		ApplicantID:   w.ApplicantID,
		ApplicantName: w.ApplicantName,
		Status:        w.Status,
		AppliedAt:     w.AppliedAt.Time,
		CoverLetter:   w.CoverLetter,
	}

	if a.PostingID == "" {
		a.PostingID = w.JobID
	}
	if a.PostingID == "" {
		a.PostingID = w.CourseID
	}
	if a.ApplicantID == "" {
		a.ApplicantID = w.StudentID
	}
	if a.Status == "" {
		a.Status = model.ApplicationPending
	}
	if w.Job != nil {
		a.PostingTitle = w.Job.Title
		if a.PostingTitle == "" {
			a.PostingTitle = w.Job.Name
		}
	}
	if w.Company != nil {
		a.OwnerName = w.Company.DisplayName
	}

	return a
}

// wireProfile mirrors the backend profile payload.
type wireProfile struct {
	UID             string          `json:"uid"`
	Email           string          `json:"email"`
	DisplayName     string          `json:"displayName"`
	UserType        string          `json:"userType"`
	Phone           string          `json:"phone"`
	InstitutionName string          `json:"institutionName"`
	CompanyName     string          `json:"companyName"`
	EmailVerified   bool            `json:"emailVerified"`
	CreatedAt       model.Timestamp `json:"createdAt"`
}

// toProfile converts a wire profile into the client model. Unknown role
// strings are reported rather than defaulted.
func (w wireProfile) toProfile() (model.Profile, error) {
	role, err := model.ParseRole(w.UserType)
	if err != nil {
		return model.Profile{}, err
	}

	return model.Profile{
		UID:             w.UID,
		Email:           w.Email,
		DisplayName:     w.DisplayName,
		Role:            role,
		Phone:           w.Phone,
		InstitutionName: w.InstitutionName,
		CompanyName:     w.CompanyName,
		EmailVerified:   w.EmailVerified,
		CreatedAt:       w.CreatedAt.Time,
	}, nil
}

// wireNotification mirrors the backend notification payload.
type wireNotification struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Read      bool            `json:"read"`
	CreatedAt model.Timestamp `json:"createdAt"`
}

func (w wireNotification) toNotification() model.Notification {
	return model.Notification{
		ID:        w.ID,
		Title:     w.Title,
		Message:   w.Message,
		Read:      w.Read,
		CreatedAt: w.CreatedAt.Time,
	}
}
