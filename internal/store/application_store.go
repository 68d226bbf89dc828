package store

import (
	"context"
	"fmt"
	"time"

	"github.com/careerconnect/client/internal/model"
)

// applicationRow is the sqlx row mapping for the applications table.
type applicationRow struct {
	ID            string     `db:"id"`
	PostingID     string     `db:"posting_id"`
	ApplicantID   string     `db:"applicant_id"`
	ApplicantName string     `db:"applicant_name"`
	Status        string     `db:"status"`
	AppliedAt     *time.Time `db:"applied_at"`
	CoverLetter   string     `db:"cover_letter"`
	PostingTitle  string     `db:"posting_title"`
	OwnerName     string     `db:"owner_name"`
}

func (r applicationRow) toApplication() model.Application {
	a := model.Application{
		ID:            r.ID,
		PostingID:     r.PostingID,
		ApplicantID:   r.ApplicantID,
		ApplicantName: r.ApplicantName,
		Status:        r.Status,
		CoverLetter:   r.CoverLetter,
		PostingTitle:  r.PostingTitle,
		OwnerName:     r.OwnerName,
	}
	if r.AppliedAt != nil {
		a.AppliedAt = *r.AppliedAt
	}
	return a
}

// ReplaceApplications swaps the cached application collection for the
// freshly fetched one.
func (s *SQLiteStore) ReplaceApplications(ctx context.Context, apps []model.Application) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM applications"); err != nil {
		return fmt.Errorf("clearing cached applications: %w", err)
	}

	const query = `
		INSERT OR REPLACE INTO applications (
			id, posting_id, applicant_id, applicant_name,
			status, applied_at, cover_letter, posting_title, owner_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing application upsert: %w", err)
	}
	defer stmt.Close()

	for _, a := range apps {
		_, err := stmt.ExecContext(ctx,
			a.ID, a.PostingID, a.ApplicantID, a.ApplicantName,
			a.Status, a.AppliedAt, a.CoverLetter, a.PostingTitle, a.OwnerName,
		)
		if err != nil {
			return fmt.Errorf("caching application %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// GetApplications returns the cached applications, newest first.
func (s *SQLiteStore) GetApplications(ctx context.Context) ([]model.Application, error) {
	var rows []applicationRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM applications ORDER BY applied_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("reading cached applications: %w", err)
	}

	apps := make([]model.Application, len(rows))
	for i, r := range rows {
		apps[i] = r.toApplication()
	}
	return apps, nil
}

// DeleteApplication removes a single cached application after a withdrawal.
func (s *SQLiteStore) DeleteApplication(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM applications WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting cached application %s: %w", id, err)
	}
	return nil
}
