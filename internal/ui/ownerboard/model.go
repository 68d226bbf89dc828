// Package ownerboard is the dashboard for posting owners (companies and
// institutions): their own postings, including closed ones, and the
// applications received against them.
package ownerboard

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/careerconnect/client/internal/api"
	"github.com/careerconnect/client/internal/keys"
	"github.com/careerconnect/client/internal/model"
	"github.com/careerconnect/client/internal/theme"
	"github.com/careerconnect/client/internal/workitems"
)

// NewPostingRequestMsg asks the app to open the create-posting form.
type NewPostingRequestMsg struct {
	Kind model.PostingKind
}

// section is the visible half of the dashboard.
type section int

const (
	sectionPostings section = iota
	sectionApplications
)

// ownPostingsLoadedMsg carries the owner's posting list.
type ownPostingsLoadedMsg struct {
	postings []model.Posting
	err      error
}

// ownerAppsLoadedMsg carries the received applications.
type ownerAppsLoadedMsg struct {
	applications []model.Application
	err          error
}

// actionResultMsg carries the outcome of a close or status change.
type actionResultMsg struct {
	err error
}

// decisionBindings holds the status decision on the heap for huh.
type decisionBindings struct {
	status string
}

// postingRow wraps a posting for the bubbles list.
type postingRow struct {
	Posting model.Posting
}

func (r postingRow) FilterValue() string { return r.Posting.Title }

// applicationRow wraps a received application for the bubbles list.
type applicationRow struct {
	Application model.Application
}

func (r applicationRow) FilterValue() string { return r.Application.ApplicantName }

// rowDelegate renders both row types single-line.
type rowDelegate struct{}

func (d rowDelegate) Height() int  { return 1 }
func (d rowDelegate) Spacing() int { return 0 }

func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	var line string
	switch row := item.(type) {
	case postingRow:
		p := row.Posting
		statusBadge := theme.PostingStatusStyle(p.Status).Render(p.Status)
		created := lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render("  " + p.CreatedAt.Format("Jan 02"))
		line = fmt.Sprintf("%s %s%s", statusBadge, p.Title, created)

	case applicationRow:
		a := row.Application
		statusBadge := theme.ApplicationStatusStyle(a.Status).Render(a.Status)
		applicant := a.ApplicantName
		if applicant == "" {
			applicant = a.ApplicantID
		}
		posting := ""
		if a.PostingTitle != "" {
			posting = lipgloss.NewStyle().
				Foreground(theme.ColorGray).
				Render("  " + a.PostingTitle)
		}
		line = fmt.Sprintf("%s %s%s", statusBadge, applicant, posting)

	default:
		return
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}
	fmt.Fprint(w, line)
}

// Model is the owner dashboard view.
type Model struct {
	postingList list.Model
	appList     list.Model
	store       *workitems.Store
	keys        *keys.KeyMap
	kind        model.PostingKind
	section     section
	decision    *huh.Form
	db          *decisionBindings
	deciding    model.Application
	inFlight    bool
	staleErr    error
	notice      string
	width       int
	height      int
}

// New creates an owner dashboard. kind is fixed by the owner's role:
// PostingJob for companies, PostingCourse for institutions.
func New(s *workitems.Store, k *keys.KeyMap, kind model.PostingKind, width, height int) Model {
	pl := list.New([]list.Item{}, rowDelegate{}, width, height-2)
	pl.Title = postingsTitle(kind)
	pl.SetShowStatusBar(true)
	pl.SetShowHelp(false)
	pl.SetFilteringEnabled(false)
	pl.Styles.Title = theme.HeaderStyle

	al := list.New([]list.Item{}, rowDelegate{}, width, height-2)
	al.Title = "Received Applications"
	al.SetShowStatusBar(true)
	al.SetShowHelp(false)
	al.SetFilteringEnabled(false)
	al.Styles.Title = theme.HeaderStyle

	return Model{
		postingList: pl,
		appList:     al,
		store:       s,
		keys:        k,
		kind:        kind,
		db:          &decisionBindings{},
		width:       width,
		height:      height,
	}
}

// SetKind switches the dashboard to the given posting kind. Used when a
// different owner account signs in within the same run.
func (m *Model) SetKind(kind model.PostingKind) {
	m.kind = kind
	m.postingList.Title = postingsTitle(kind)
}

func postingsTitle(kind model.PostingKind) string {
	if kind == model.PostingCourse {
		return "My Courses"
	}
	return "My Job Postings"
}

// Init returns commands that load both halves of the dashboard.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.LoadPostings(), m.LoadApplications())
}

// Update handles messages for the owner dashboard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ownPostingsLoadedMsg:
		m.staleErr = msg.err
		items := make([]list.Item, len(msg.postings))
		for i, p := range msg.postings {
			items[i] = postingRow{Posting: p}
		}
		return m, m.postingList.SetItems(items)

	case ownerAppsLoadedMsg:
		m.staleErr = msg.err
		items := make([]list.Item, len(msg.applications))
		for i, a := range msg.applications {
			items[i] = applicationRow{Application: a}
		}
		return m, m.appList.SetItems(items)

	case actionResultMsg:
		m.inFlight = false
		if msg.err != nil {
			m.notice = actionErrorText(msg.err)
			return m, nil
		}
		m.notice = ""
		return m, tea.Batch(m.LoadPostings(), m.LoadApplications())

	case tea.KeyMsg:
		if m.decision != nil {
			return m.updateDecision(msg)
		}
		if m.inFlight {
			return m, nil
		}
		return m.handleKeys(msg)
	}

	if m.decision != nil {
		return m.updateDecision(msg)
	}

	return m.updateActiveList(msg)
}

// handleKeys processes key input in normal mode.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CycleSection):
		if m.section == sectionPostings {
			m.section = sectionApplications
		} else {
			m.section = sectionPostings
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.notice = ""
		return m, tea.Batch(m.LoadPostings(), m.LoadApplications())

	case key.Matches(msg, m.keys.NewPosting):
		kind := m.kind
		return m, func() tea.Msg { return NewPostingRequestMsg{Kind: kind} }

	case key.Matches(msg, m.keys.Close):
		if m.section != sectionPostings {
			return m, nil
		}
		row, ok := m.postingList.SelectedItem().(postingRow)
		if !ok {
			return m, nil
		}
		if row.Posting.Status == model.PostingStatusClosed {
			m.notice = "Posting is already closed."
			return m, nil
		}
		m.inFlight = true
		return m, m.closePosting(row.Posting)

	case key.Matches(msg, m.keys.Select):
		if m.section != sectionApplications {
			return m.updateActiveList(msg)
		}
		row, ok := m.appList.SelectedItem().(applicationRow)
		if !ok {
			return m, nil
		}
		m.deciding = row.Application
		m.db.status = row.Application.Status
		m.decision = m.buildDecisionForm(row.Application)
		return m, m.decision.Init()
	}

	return m.updateActiveList(msg)
}

// updateDecision drives the status decision form.
func (m Model) updateDecision(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.decision.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.decision = f
	}

	if m.decision.State == huh.StateCompleted {
		status := m.db.status
		m.decision = nil
		if status == m.deciding.Status {
			return m, nil
		}
		m.inFlight = true
		return m, m.setStatus(m.deciding.ID, status)
	}
	if m.decision.State == huh.StateAborted {
		m.decision = nil
		return m, nil
	}

	return m, cmd
}

// updateActiveList forwards a message to the visible list.
func (m Model) updateActiveList(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.section == sectionPostings {
		m.postingList, cmd = m.postingList.Update(msg)
	} else {
		m.appList, cmd = m.appList.Update(msg)
	}
	return m, cmd
}

// View renders the owner dashboard.
func (m Model) View() string {
	if m.decision != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.decision.View())
	}

	var sections []string
	if m.staleErr != nil {
		sections = append(sections, theme.ErrorBannerStyle.Render(
			"Refresh failed, showing last known data. Press r to retry.",
		))
	}
	if m.notice != "" {
		sections = append(sections, theme.ErrorBannerStyle.Render(m.notice))
	}
	if m.inFlight {
		sections = append(sections, "Working...")
	}

	if m.section == sectionPostings {
		sections = append(sections, m.postingList.View())
	} else {
		sections = append(sections, m.appList.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// LoadPostings returns a tea.Cmd that fetches the owner's postings.
func (m Model) LoadPostings() tea.Cmd {
	s := m.store
	kind := m.kind
	return func() tea.Msg {
		postings, err := s.LoadOwnPostings(context.Background(), kind)
		return ownPostingsLoadedMsg{postings: postings, err: err}
	}
}

// LoadApplications returns a tea.Cmd that fetches received applications.
func (m Model) LoadApplications() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		applications, err := s.LoadOwnerApplications(context.Background())
		return ownerAppsLoadedMsg{applications: applications, err: err}
	}
}

// closePosting returns a command that closes one of the owner's postings.
func (m Model) closePosting(p model.Posting) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return actionResultMsg{err: s.ClosePosting(context.Background(), p)}
	}
}

// setStatus returns a command that records a decision on an application.
func (m Model) setStatus(applicationID, status string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return actionResultMsg{
			err: s.SetApplicationStatus(context.Background(), applicationID, status),
		}
	}
}

func (m *Model) buildDecisionForm(a model.Application) *huh.Form {
	applicant := a.ApplicantName
	if applicant == "" {
		applicant = a.ApplicantID
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Decision for "+applicant).
				Options(
					huh.NewOption("Pending", model.ApplicationPending),
					huh.NewOption("Admitted", model.ApplicationAdmitted),
					huh.NewOption("Rejected", model.ApplicationRejected),
					huh.NewOption("Waiting list", model.ApplicationWaitingList),
				).
				Value(&m.db.status),
		),
	).WithShowHelp(false)
}

// actionErrorText maps dashboard action failures to a user-facing message.
func actionErrorText(err error) string {
	if api.IsTransportError(err) {
		return "Cannot reach the server. Nothing was changed."
	}
	return "Action failed: " + api.Reason(err)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.postingList.SetSize(width, height-2)
	m.appList.SetSize(width, height-2)
}
