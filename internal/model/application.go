package model

import "time"

// Application status values. Status transitions are made server-side by the
// posting owner; the applicant can only withdraw while pending.
const (
	ApplicationPending     = "pending"
	ApplicationAdmitted    = "admitted"
	ApplicationRejected    = "rejected"
	ApplicationWaitingList = "waiting-list"
)

// UnknownPostingLabel is shown when an application's posting can no longer
// be joined (deleted or not visible to the caller).
const UnknownPostingLabel = "Posting no longer available"

// Application is a user's application to a posting.
type Application struct {
	// ID is the backend identifier of the application.
	ID string `json:"id"`

	// PostingID references the posting applied to.
	PostingID string `json:"postingId"`

	// ApplicantID is the uid of the applying student.
	ApplicantID string `json:"applicantId"`

	// ApplicantName is the applicant's display name (owner-facing lists).
	ApplicantName string `json:"applicantName,omitempty"`

	// Status is one of the Application* constants.
	Status string `json:"status"`

	// AppliedAt is when the application was submitted.
	AppliedAt time.Time `json:"appliedAt"`

	// CoverLetter is optional free text supplied by the applicant.
	CoverLetter string `json:"coverLetter,omitempty"`

	// PostingTitle and OwnerName are display fields joined in by the
	// client after fetching; they fall back to placeholders when the
	// posting cannot be resolved.
	PostingTitle string `json:"postingTitle,omitempty"`
	OwnerName    string `json:"ownerName,omitempty"`
}

// Terminal reports whether the application has reached a final decision.
// Terminal applications cannot be withdrawn.
func (a Application) Terminal() bool {
	return a.Status == ApplicationAdmitted || a.Status == ApplicationRejected
}

// Withdrawable reports whether the applicant may still withdraw.
func (a Application) Withdrawable() bool {
	return a.Status == ApplicationPending || a.Status == ApplicationWaitingList
}
