// Package browse is the applicant-facing posting catalog: a filterable
// list of jobs and courses with a detail panel and the apply flow.
package browse

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/careerconnect/client/internal/api"
	"github.com/careerconnect/client/internal/keys"
	"github.com/careerconnect/client/internal/model"
	"github.com/careerconnect/client/internal/theme"
	"github.com/careerconnect/client/internal/workitems"
)

// AppliedMsg signals a successful application, for the status bar.
type AppliedMsg struct {
	PostingTitle string
}

// mode is the current interaction state of the browse view.
type mode int

const (
	modeList mode = iota
	modeDetail
	modeApply
)

// postingsLoadedMsg carries the result of a posting list fetch. The
// snapshot may be stale when err is set.
type postingsLoadedMsg struct {
	kind     model.PostingKind
	postings []model.Posting
	err      error
}

// applyResultMsg carries the outcome of an application submission.
type applyResultMsg struct {
	title string
	err   error
}

// applyBindings holds the cover letter on the heap for huh.
type applyBindings struct {
	coverLetter string
}

// Model is the posting catalog view.
type Model struct {
	list        list.Model
	store       *workitems.Store
	keys        *keys.KeyMap
	kind        model.PostingKind
	mode        mode
	selected    model.Posting
	applyForm   *huh.Form
	ab          *applyBindings
	applying    bool
	searchMode  bool
	searchInput textinput.Model
	query       string
	staleErr    error
	notice      string
	now         func() time.Time
	width       int
	height      int
}

// New creates a browse view over the given work-item store.
func New(s *workitems.Store, k *keys.KeyMap, width, height int) Model {
	delegate := ItemDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Jobs"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search postings..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		store:       s,
		keys:        k,
		kind:        model.PostingJob,
		ab:          &applyBindings{},
		searchInput: si,
		now:         time.Now,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial posting list.
func (m Model) Init() tea.Cmd {
	return m.LoadPostings()
}

// Update handles messages for the browse view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case postingsLoadedMsg:
		if msg.kind != m.kind {
			return m, nil
		}
		m.staleErr = msg.err
		return m, m.setItems(msg.postings)

	case applyResultMsg:
		m.applying = false
		m.applyForm = nil
		if msg.err != nil {
			m.mode = modeDetail
			m.notice = applyErrorText(msg.err)
			return m, nil
		}
		m.mode = modeList
		m.notice = ""
		return m, func() tea.Msg { return AppliedMsg{PostingTitle: msg.title} }

	case tea.KeyMsg:
		switch m.mode {
		case modeApply:
			return m.updateApply(msg)
		case modeDetail:
			return m.handleDetailKeys(msg)
		default:
			if m.searchMode {
				return m.handleSearchKeys(msg)
			}
			return m.handleListKeys(msg)
		}
	}

	if m.mode == modeApply {
		return m.updateApply(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleListKeys processes key input in the list mode.
func (m Model) handleListKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(PostingItem)
		if !ok {
			return m, nil
		}
		m.selected = item.Posting
		m.mode = modeDetail
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.ShowJobs):
		if m.kind != model.PostingJob {
			m.kind = model.PostingJob
			m.list.Title = "Jobs"
			return m, m.LoadPostings()
		}
		return m, nil

	case key.Matches(msg, m.keys.ShowCourses):
		if m.kind != model.PostingCourse {
			m.kind = model.PostingCourse
			m.list.Title = "Courses"
			return m, m.LoadPostings()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.LoadPostings()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleDetailKeys processes key input while the detail panel is open.
func (m Model) handleDetailKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeList
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.Apply):
		if m.applying {
			return m, nil
		}
		if !m.selected.Open(m.now()) {
			m.notice = applyErrorText(&api.ServerError{Reason: "expired"})
			return m, nil
		}
		m.mode = modeApply
		m.ab.coverLetter = ""
		m.applyForm = m.buildApplyForm()
		return m, m.applyForm.Init()
	}
	return m, nil
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = strings.TrimSpace(m.searchInput.Value())
		return m, m.setItems(m.store.Postings(m.kind))

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		return m, m.setItems(m.store.Postings(m.kind))
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// updateApply drives the cover letter form. Input is ignored while the
// submission is in flight so the same application cannot be sent twice.
func (m Model) updateApply(msg tea.Msg) (Model, tea.Cmd) {
	if m.applying || m.applyForm == nil {
		return m, nil
	}

	mdl, cmd := m.applyForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.applyForm = f
	}

	if m.applyForm.State == huh.StateCompleted {
		m.applying = true
		return m, m.submitApplication(m.selected, m.ab.coverLetter)
	}
	if m.applyForm.State == huh.StateAborted {
		m.mode = modeDetail
		m.applyForm = nil
		return m, nil
	}

	return m, cmd
}

// View renders the browse view.
func (m Model) View() string {
	switch m.mode {
	case modeDetail:
		return m.renderDetail()
	case modeApply:
		return m.renderApply()
	}

	var sections []string
	if m.searchMode {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View()))
	}
	if m.staleErr != nil {
		sections = append(sections, theme.ErrorBannerStyle.Render(
			"Refresh failed, showing last known data. Press r to retry.",
		))
	}

	if len(m.list.Items()) == 0 {
		sections = append(sections, m.renderEmptyState())
	} else {
		sections = append(sections, m.list.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderDetail draws the full posting record with the apply hint.
func (m Model) renderDetail() string {
	p := m.selected

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(theme.KindLabelStyle(p.Kind).Render(kindLabel(p.Kind)))
	b.WriteString(theme.PostingStatusStyle(p.Status).Render(p.Status))
	b.WriteString("\n\n")

	if p.OwnerName != "" {
		b.WriteString("Offered by: " + p.OwnerName + "\n")
	}
	if p.Location != "" {
		b.WriteString("Location: " + p.Location + "\n")
	}
	if p.SalaryRange != "" {
		b.WriteString("Salary: " + p.SalaryRange + "\n")
	}
	if p.JobType != "" {
		b.WriteString("Type: " + p.JobType + "\n")
	}
	if p.Faculty != "" {
		b.WriteString("Faculty: " + p.Faculty + "\n")
	}
	if p.Duration != "" {
		b.WriteString("Duration: " + p.Duration + "\n")
	}
	if p.StudyLevel != "" {
		b.WriteString("Level: " + p.StudyLevel + "\n")
	}
	if p.Deadline != nil {
		b.WriteString("Deadline: " + p.Deadline.Format("2006-01-02"))
		if p.Expired(m.now()) {
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.ColorRed).
				Render(" (passed)"))
		}
		b.WriteString("\n")
	}

	if p.Description != "" {
		b.WriteString("\n" + p.Description + "\n")
	}
	if len(p.Requirements) > 0 {
		b.WriteString("\nRequirements:\n")
		for _, req := range p.Requirements {
			b.WriteString("  - " + req + "\n")
		}
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorBannerStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.applying {
		b.WriteString("Submitting application...")
	} else if p.Open(m.now()) {
		b.WriteString(theme.HelpStyle.Render("a apply | esc back"))
	} else {
		b.WriteString(theme.HelpStyle.Render("applications closed | esc back"))
	}

	return theme.DetailPanelStyle.Render(b.String())
}

// renderApply draws the cover letter form.
func (m Model) renderApply() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Apply to "+m.selected.Title) + "\n"
	if m.applying {
		content += "Submitting application..."
	} else if m.applyForm != nil {
		content += m.applyForm.View()
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// renderEmptyState shows guidance text when no postings are available.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.query != "" {
		return style.Render("No matching postings.\nPress / to change the search.")
	}
	return style.Render("No postings available right now.\nPress r to refresh.")
}

// LoadPostings returns a tea.Cmd that fetches the current kind's postings.
func (m Model) LoadPostings() tea.Cmd {
	s := m.store
	kind := m.kind
	return func() tea.Msg {
		postings, err := s.LoadPostings(context.Background(), kind)
		return postingsLoadedMsg{kind: kind, postings: postings, err: err}
	}
}

// setItems installs a filtered snapshot into the list.
func (m *Model) setItems(postings []model.Posting) tea.Cmd {
	items := make([]list.Item, 0, len(postings))
	query := strings.ToLower(m.query)
	for _, p := range postings {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.OwnerName), query) {
			continue
		}
		items = append(items, PostingItem{Posting: p})
	}
	return m.list.SetItems(items)
}

func (m *Model) buildApplyForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Cover letter").
				Placeholder("Optional message to the "+ownerNoun(m.kind)+"...").
				Value(&m.ab.coverLetter),
		),
	).WithWidth(clampWidth(m.width - 4)).WithShowHelp(false)
}

// submitApplication returns a command that applies to the selected posting.
func (m Model) submitApplication(p model.Posting, coverLetter string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.Apply(context.Background(), p.ID, coverLetter)
		return applyResultMsg{title: p.Title, err: err}
	}
}

// applyErrorText maps application failures to a short user-facing message.
// Server-provided reasons (duplicate, closed) are shown verbatim.
func applyErrorText(err error) string {
	if api.IsTransportError(err) {
		return "Cannot reach the server. The application was not submitted."
	}
	reason := api.Reason(err)
	if reason == "expired" {
		return "The application deadline has passed."
	}
	return "Application failed: " + reason
}

// ownerNoun names the posting owner for placeholder text.
func ownerNoun(kind model.PostingKind) string {
	if kind == model.PostingCourse {
		return "institution"
	}
	return "company"
}

func clampWidth(w int) int {
	if w < 40 {
		return 40
	}
	if w > 100 {
		return 100
	}
	return w
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
