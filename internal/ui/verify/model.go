// Package verify is the email-verification holding view. Sessions with an
// unverified email land here and stay until the provider confirms the
// address; every protected view redirects back while verification is
// pending.
package verify

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/careerconnect/client/internal/api"
	"github.com/careerconnect/client/internal/session"
	"github.com/careerconnect/client/internal/theme"
)

// VerifiedMsg signals the email is now verified and the session is Active.
type VerifiedMsg struct{}

// SignOutRequestMsg asks the app to discard the pending session.
type SignOutRequestMsg struct{}

// refreshResultMsg carries the outcome of a verification re-check.
type refreshResultMsg struct {
	verified bool
	err      error
}

// resendResultMsg carries the outcome of a resend request.
type resendResultMsg struct {
	err error
}

// Model is the Bubble Tea model for the verification view.
type Model struct {
	session   *session.Manager
	checking  bool
	statusMsg string
	errMsg    string
	width     int
	height    int
}

// New creates a verification view over the given session manager.
func New(s *session.Manager, width, height int) Model {
	return Model{
		session: s,
		width:   width,
		height:  height,
	}
}

// Init clears transient state.
func (m *Model) Init() tea.Cmd {
	m.checking = false
	m.statusMsg = ""
	m.errMsg = ""
	return nil
}

// Update handles messages for the verification view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshResultMsg:
		m.checking = false
		if msg.err != nil {
			m.errMsg = "Could not check verification: " + api.Reason(msg.err)
			return m, nil
		}
		if msg.verified {
			return m, func() tea.Msg { return VerifiedMsg{} }
		}
		m.statusMsg = "Still unverified. Click the link in the email, then press enter."
		return m, nil

	case resendResultMsg:
		if msg.err != nil {
			m.errMsg = "Resend failed: " + api.Reason(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.statusMsg = "Verification email sent again. Check your inbox."
		return m, nil

	case tea.KeyMsg:
		if m.checking {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			m.checking = true
			m.errMsg = ""
			return m, m.refresh()
		case "r":
			return m, m.resend()
		case "esc", "Q":
			return m, func() tea.Msg { return SignOutRequestMsg{} }
		}
	}

	return m, nil
}

// View renders the verification view.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	email := ""
	if snap := m.session.Current(); snap.Identity != nil {
		email = snap.Identity.Email
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Verify your email"))
	b.WriteString("\n")
	b.WriteString("A verification link was sent to " + email + ".\n")
	b.WriteString("Open it, then come back here.\n\n")

	if m.errMsg != "" {
		b.WriteString(theme.ErrorBannerStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	}
	if m.statusMsg != "" {
		b.WriteString(m.statusMsg)
		b.WriteString("\n\n")
	}

	if m.checking {
		b.WriteString("Checking...")
	} else {
		b.WriteString(theme.HelpStyle.Render(
			"enter I've verified | r resend email | esc sign out",
		))
	}

	return theme.DetailPanelStyle.Render(b.String())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// refresh returns a command that re-reads the verification status from the
// provider.
func (m Model) refresh() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		if err := s.Refresh(context.Background()); err != nil {
			return refreshResultMsg{err: err}
		}
		snap := s.Current()
		return refreshResultMsg{verified: snap.State == session.Active}
	}
}

// resend returns a command that asks the provider to send the verification
// mail again. Resending never re-registers the profile.
func (m Model) resend() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return resendResultMsg{err: s.ResendVerification(context.Background())}
	}
}
