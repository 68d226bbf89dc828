// Package applications is the applicant's view of their own applications,
// with status badges and the withdraw flow.
package applications

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

// applicationsLoadedMsg carries the result of an application list fetch.
// The snapshot may be stale when err is set.
type applicationsLoadedMsg struct {
	applications []model.Application
	err          error
}

// withdrawResultMsg carries the outcome of a withdraw attempt.
type withdrawResultMsg struct {
	err error
}

// confirmBindings holds the confirmation answer on the heap so that huh's
// Value() pointer remains valid across Bubble Tea model copies.
type confirmBindings struct {
	yes bool
}

// ApplicationItem wraps a model.Application so it can be used in a
// bubbles/list.
type ApplicationItem struct {
	Application model.Application
}

// FilterValue returns the string used for fuzzy filtering.
func (i ApplicationItem) FilterValue() string { return i.Application.PostingTitle }

// ItemDelegate implements list.ItemDelegate for rendering application rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single application line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ai, ok := item.(ApplicationItem)
	if !ok {
		return
	}
	a := ai.Application

	statusBadge := theme.ApplicationStatusStyle(a.Status).Render(a.Status)

	title := a.PostingTitle
	if title == "" {
		title = model.UnknownPostingLabel
	}

	owner := ""
	if a.OwnerName != "" {
		owner = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render("  " + a.OwnerName)
	}

	applied := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render("  " + a.AppliedAt.Format("Jan 02"))

	line := fmt.Sprintf("%s %s%s%s", statusBadge, title, owner, applied)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the applications list view.
type Model struct {
	list        list.Model
	store       *workitems.Store
	keys        *keys.KeyMap
	confirm     *huh.Form
	cb          *confirmBindings
	withdrawing model.Application
	inFlight    bool
	staleErr    error
	notice      string
	width       int
	height      int
}

// New creates an applications view over the given work-item store.
func New(s *workitems.Store, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "My Applications"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		store:  s,
		keys:   k,
		cb:     &confirmBindings{},
		width:  width,
		height: height,
	}
}

// Init returns a command that loads the application list.
func (m Model) Init() tea.Cmd {
	return m.LoadApplications()
}

// Update handles messages for the applications view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case applicationsLoadedMsg:
		m.staleErr = msg.err
		items := make([]list.Item, len(msg.applications))
		for i, a := range msg.applications {
			items[i] = ApplicationItem{Application: a}
		}
		return m, m.list.SetItems(items)

	case withdrawResultMsg:
		m.inFlight = false
		if msg.err != nil {
			m.notice = withdrawErrorText(msg.err)
			return m, nil
		}
		m.notice = ""
		return m, m.LoadApplications()

	case tea.KeyMsg:
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		if m.inFlight {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Withdraw):
			item, ok := m.list.SelectedItem().(ApplicationItem)
			if !ok {
				return m, nil
			}
			if !item.Application.Withdrawable() {
				m.notice = "Decided applications cannot be withdrawn."
				return m, nil
			}
			m.withdrawing = item.Application
			m.cb.yes = false
			m.confirm = m.buildConfirmForm(item.Application)
			return m, m.confirm.Init()

		case key.Matches(msg, m.keys.Refresh):
			m.notice = ""
			return m, m.LoadApplications()
		}
	}

	if m.confirm != nil {
		return m.updateConfirm(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateConfirm drives the withdraw confirmation dialog.
func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.confirm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirm = f
	}

	if m.confirm.State == huh.StateCompleted {
		confirmed := m.cb.yes
		m.confirm = nil
		if !confirmed {
			return m, nil
		}
		m.inFlight = true
		return m, m.withdraw(m.withdrawing.ID)
	}
	if m.confirm.State == huh.StateAborted {
		m.confirm = nil
		return m, nil
	}

	return m, cmd
}

// View renders the applications view.
func (m Model) View() string {
	if m.confirm != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirm.View())
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
		sections = append(sections, "Withdrawing...")
	}

	if len(m.list.Items()) == 0 {
		sections = append(sections, m.renderEmptyState())
	} else {
		sections = append(sections, m.list.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderEmptyState shows guidance text when no applications exist.
func (m Model) renderEmptyState() string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render("No applications yet.\nPress b to browse postings.")
}

// LoadApplications returns a tea.Cmd that fetches the caller's applications.
func (m Model) LoadApplications() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		applications, err := s.LoadApplications(context.Background())
		return applicationsLoadedMsg{applications: applications, err: err}
	}
}

// withdraw returns a command that withdraws an application. The entry
// disappears from the list only after the server acknowledges.
func (m Model) withdraw(applicationID string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return withdrawResultMsg{err: s.Withdraw(context.Background(), applicationID)}
	}
}

func (m *Model) buildConfirmForm(a model.Application) *huh.Form {
	title := a.PostingTitle
	if title == "" {
		title = model.UnknownPostingLabel
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Withdraw application to " + title + "?").
				Affirmative("Withdraw").
				Negative("Keep").
				Value(&m.cb.yes),
		),
	).WithShowHelp(false)
}

// withdrawErrorText maps withdraw failures to a short user-facing message.
func withdrawErrorText(err error) string {
	if api.IsTransportError(err) {
		return "Cannot reach the server. The application was not withdrawn."
	}
	return "Withdraw failed: " + api.Reason(err)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
