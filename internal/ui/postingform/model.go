// Package postingform is the create-posting form for owner roles.
// Companies publish jobs, institutions publish courses; the form fields
// follow the kind.
package postingform

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/careerconnect/client/internal/api"
	"github.com/careerconnect/client/internal/model"
	"github.com/careerconnect/client/internal/theme"
	"github.com/careerconnect/client/internal/workitems"
)

// PostingCreatedMsg signals a posting was published.
type PostingCreatedMsg struct {
	Posting model.Posting
}

// PostingFormCancelMsg signals the user abandoned the form.
type PostingFormCancelMsg struct{}

// createResultMsg carries the outcome of a create attempt.
type createResultMsg struct {
	posting model.Posting
	err     error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title        string
	description  string
	location     string
	salaryRange  string
	jobType      string
	requirements string
	deadline     string
	faculty      string
	duration     string
	studyLevel   string
}

// Model is the Bubble Tea model for the create-posting form.
type Model struct {
	store    *workitems.Store
	form     *huh.Form
	fb       *formBindings
	kind     model.PostingKind
	inFlight bool
	errMsg   string
	width    int
	height   int
}

// New creates a posting form over the given work-item store.
func New(s *workitems.Store, width, height int) Model {
	return Model{
		store:  s,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form for the given posting kind.
func (m *Model) Start(kind model.PostingKind) tea.Cmd {
	*m.fb = formBindings{}
	m.kind = kind
	m.inFlight = false
	m.errMsg = ""
	if kind == model.PostingCourse {
		m.form = m.buildCourseForm()
	} else {
		m.form = m.buildJobForm()
	}
	return m.form.Init()
}

// Update handles messages for the posting form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if result, ok := msg.(createResultMsg); ok {
		m.inFlight = false
		if result.err != nil {
			m.errMsg = createErrorText(result.err)
			if m.kind == model.PostingCourse {
				m.form = m.buildCourseForm()
			} else {
				m.form = m.buildJobForm()
			}
			return m, m.form.Init()
		}
		posting := result.posting
		return m, func() tea.Msg { return PostingCreatedMsg{Posting: posting} }
	}

	if m.form == nil || m.inFlight {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.inFlight = true
		m.errMsg = ""
		return m, m.submit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return PostingFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the posting form.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := "New Job Posting"
	if m.kind == model.PostingCourse {
		title = "New Course"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(theme.ErrorBannerStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	}

	if m.inFlight {
		b.WriteString("Publishing...")
	} else if m.form != nil {
		b.WriteString(m.form.View())
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildJobForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Description").
				Value(&m.fb.description).
				Validate(validateRequired("Description")),
			huh.NewInput().
				Title("Location").
				Value(&m.fb.location),
			huh.NewInput().
				Title("Salary range").
				Placeholder("e.g. 40k-55k").
				Value(&m.fb.salaryRange),
			huh.NewSelect[string]().
				Title("Job type").
				Options(
					huh.NewOption("Full-time", "full-time"),
					huh.NewOption("Part-time", "part-time"),
					huh.NewOption("Internship", "internship"),
					huh.NewOption("Contract", "contract"),
				).
				Value(&m.fb.jobType),
			huh.NewInput().
				Title("Requirements").
				Placeholder("Comma-separated, optional").
				Value(&m.fb.requirements),
			huh.NewInput().
				Title("Application deadline").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.deadline).
				Validate(validateOptionalDate),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m *Model) buildCourseForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Course name").
				Value(&m.fb.title).
				Validate(validateRequired("Course name")),
			huh.NewText().
				Title("Description").
				Value(&m.fb.description).
				Validate(validateRequired("Description")),
			huh.NewInput().
				Title("Faculty").
				Value(&m.fb.faculty),
			huh.NewInput().
				Title("Duration").
				Placeholder("e.g. 3 years").
				Value(&m.fb.duration),
			huh.NewSelect[string]().
				Title("Study level").
				Options(
					huh.NewOption("Bachelor", "bachelor"),
					huh.NewOption("Master", "master"),
					huh.NewOption("PhD", "phd"),
					huh.NewOption("Certificate", "certificate"),
				).
				Value(&m.fb.studyLevel),
			huh.NewInput().
				Title("Location").
				Value(&m.fb.location),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

// submit returns a command that publishes the posting.
func (m Model) submit() tea.Cmd {
	s := m.store
	kind := m.kind

	var job api.NewJob
	var course api.NewCourse
	if kind == model.PostingCourse {
		course = api.NewCourse{
			Name:        m.fb.title,
			Description: m.fb.description,
			Faculty:     m.fb.faculty,
			Duration:    m.fb.duration,
			StudyLevel:  m.fb.studyLevel,
			Location:    m.fb.location,
		}
	} else {
		job = api.NewJob{
			Title:        m.fb.title,
			Description:  m.fb.description,
			Location:     m.fb.location,
			SalaryRange:  m.fb.salaryRange,
			JobType:      m.fb.jobType,
			Requirements: splitRequirements(m.fb.requirements),
		}
		if m.fb.deadline != "" {
			if t, err := time.Parse("2006-01-02", m.fb.deadline); err == nil {
				job.Deadline = &t
			}
		}
	}

	return func() tea.Msg {
		posting, err := s.CreatePosting(context.Background(), kind, job, course)
		return createResultMsg{posting: posting, err: err}
	}
}

// splitRequirements parses the comma-separated requirements input.
func splitRequirements(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// createErrorText maps publish failures to a short user-facing message.
func createErrorText(err error) string {
	if api.IsTransportError(err) {
		return "Cannot reach the server. The posting was not published."
	}
	return "Publishing failed: " + api.Reason(err)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(fieldName + " is required")
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return errors.New("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}
