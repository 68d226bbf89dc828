package api

import (
	"context"
	"fmt"
)

// AdminStats is the platform-wide summary shown on the admin panel.
type AdminStats struct {
	Students     int `json:"students"`
	Institutions int `json:"institutions"`
	Companies    int `json:"companies"`
	Jobs         int `json:"jobs"`
	Courses      int `json:"courses"`
	Applications int `json:"applications"`
}

// AdminStats fetches the platform summary counters. Admin-only.
func (c *Client) AdminStats(ctx context.Context) (AdminStats, error) {
	var stats AdminStats
	if err := c.Get(ctx, "/api/admin/stats", &stats); err != nil {
		return AdminStats{}, err
	}
	return stats, nil
}

// AdminReport is a single row of the admin activity report.
type AdminReport struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// AdminReports fetches the activity report rows. Admin-only.
func (c *Client) AdminReports(ctx context.Context) ([]AdminReport, error) {
	var reports []AdminReport
	if err := c.Get(ctx, "/api/admin/reports", &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Entity path segments for admin account and course management.
const (
	AdminEntityInstitutions = "institutions"
	AdminEntityCompanies    = "companies"
	AdminEntityCourses      = "courses"
)

// Account status values managed from the admin panel.
const (
	AccountStatusPending   = "pending"
	AccountStatusActive    = "active"
	AccountStatusSuspended = "suspended"
)

// AdminAccount is an institution or company account as listed on the
// admin panel.
type AdminAccount struct {
	ID              string `json:"id"`
	DisplayName     string `json:"displayName"`
	InstitutionName string `json:"institutionName,omitempty"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Status          string `json:"status"`
}

// Name returns the account's display label, preferring the institution
// name when one is set.
func (a AdminAccount) Name() string {
	if a.InstitutionName != "" {
		return a.InstitutionName
	}
	return a.DisplayName
}

// AdminCourse is a course row on the admin panel, joined with its
// institution by the backend.
type AdminCourse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	InstitutionName string `json:"institutionName,omitempty"`
	Faculty         string `json:"faculty,omitempty"`
	Duration        string `json:"duration,omitempty"`
	Fees            string `json:"fees,omitempty"`
}

// AdminInstitutions lists every institution account. Admin-only.
func (c *Client) AdminInstitutions(ctx context.Context) ([]AdminAccount, error) {
	var accounts []AdminAccount
	if err := c.Get(ctx, "/api/admin/institutions", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// AdminCompanies lists every company account. Admin-only.
func (c *Client) AdminCompanies(ctx context.Context) ([]AdminAccount, error) {
	var accounts []AdminAccount
	if err := c.Get(ctx, "/api/admin/companies", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// AdminCourses lists every course on the platform. Admin-only.
func (c *Client) AdminCourses(ctx context.Context) ([]AdminCourse, error) {
	var courses []AdminCourse
	if err := c.Get(ctx, "/api/admin/courses", &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// NewInstitution is the payload for creating an institution account. The
// backend provisions both the identity and the profile.
type NewInstitution struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	InstitutionName string `json:"institutionName"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
}

// CreateInstitution provisions a new institution account. Admin-only.
func (c *Client) CreateInstitution(ctx context.Context, inst NewInstitution) error {
	return c.Post(ctx, "/api/admin/institutions", inst, nil)
}

// NewAdminCourse is the payload for creating a course on behalf of an
// institution.
type NewAdminCourse struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Duration      string   `json:"duration,omitempty"`
	Fees          string   `json:"fees,omitempty"`
	Requirements  []string `json:"requirements,omitempty"`
	InstitutionID string   `json:"institutionId"`
	Faculty       string   `json:"faculty,omitempty"`
}

// CreateAdminCourse creates a course under the given institution.
// Admin-only.
func (c *Client) CreateAdminCourse(ctx context.Context, course NewAdminCourse) error {
	return c.Post(ctx, "/api/admin/courses", course, nil)
}

// SetAccountStatus updates an institution or company account status.
// entity is one of the AdminEntity* path segments.
func (c *Client) SetAccountStatus(ctx context.Context, entity, id, status string) error {
	path := fmt.Sprintf("/api/admin/%s/%s/status", entity, id)
	return c.Put(ctx, path, map[string]string{"status": status}, nil)
}

// DeleteAdminEntity removes an institution, company, or course.
// Admin-only.
func (c *Client) DeleteAdminEntity(ctx context.Context, entity, id string) error {
	return c.Delete(ctx, fmt.Sprintf("/api/admin/%s/%s", entity, id))
}
