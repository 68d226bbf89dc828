package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/careerconnect/client/internal/model"
)

// postingRow is the sqlx row mapping for the postings table.
type postingRow struct {
	ID           string     `db:"id"`
	Kind         string     `db:"kind"`
	OwnerID      string     `db:"owner_id"`
	OwnerName    string     `db:"owner_name"`
	Title        string     `db:"title"`
	Description  string     `db:"description"`
	Location     string     `db:"location"`
	SalaryRange  string     `db:"salary_range"`
	JobType      string     `db:"job_type"`
	Requirements string     `db:"requirements"`
	Faculty      string     `db:"faculty"`
	Duration     string     `db:"duration"`
	StudyLevel   string     `db:"study_level"`
	Deadline     *time.Time `db:"deadline"`
	Status       string     `db:"status"`
	CreatedAt    *time.Time `db:"created_at"`
}

func (r postingRow) toPosting() model.Posting {
	p := model.Posting{
		ID:          r.ID,
		Kind:        model.PostingKind(r.Kind),
		OwnerID:     r.OwnerID,
		OwnerName:   r.OwnerName,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		SalaryRange: r.SalaryRange,
		JobType:     r.JobType,
		Faculty:     r.Faculty,
		Duration:    r.Duration,
		StudyLevel:  r.StudyLevel,
		Deadline:    r.Deadline,
		Status:      r.Status,
	}
	if r.CreatedAt != nil {
		p.CreatedAt = *r.CreatedAt
	}
	_ = json.Unmarshal([]byte(r.Requirements), &p.Requirements)
	return p
}

// ReplacePostings swaps the cached collection of the given kind for the
// freshly fetched one.
func (s *SQLiteStore) ReplacePostings(
	ctx context.Context,
	kind model.PostingKind,
	postings []model.Posting,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM postings WHERE kind = ?", string(kind)); err != nil {
		return fmt.Errorf("clearing cached postings: %w", err)
	}

	const query = `
		INSERT OR REPLACE INTO postings (
			id, kind, owner_id, owner_name, title, description,
			location, salary_range, job_type, requirements,
			faculty, duration, study_level, deadline, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing posting upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range postings {
		requirements, _ := json.Marshal(p.Requirements)
		_, err := stmt.ExecContext(ctx,
			p.ID, string(p.Kind), p.OwnerID, p.OwnerName, p.Title, p.Description,
			p.Location, p.SalaryRange, p.JobType, string(requirements),
			p.Faculty, p.Duration, p.StudyLevel, p.Deadline, p.Status, p.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("caching posting %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// GetPostings returns the cached postings of the given kind.
func (s *SQLiteStore) GetPostings(
	ctx context.Context,
	kind model.PostingKind,
) ([]model.Posting, error) {
	var rows []postingRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM postings WHERE kind = ? ORDER BY created_at DESC",
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("reading cached postings: %w", err)
	}

	postings := make([]model.Posting, len(rows))
	for i, r := range rows {
		postings[i] = r.toPosting()
	}
	return postings, nil
}
