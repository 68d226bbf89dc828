// Package login is the email/password sign-in form. It is the landing
// view for anonymous sessions.
package login

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/careerconnect/client/internal/api"
	"github.com/careerconnect/client/internal/session"
	"github.com/careerconnect/client/internal/theme"
)

// SignedInMsg signals a fully activated session (email verified, profile
// loaded).
type SignedInMsg struct{}

// VerificationPendingMsg signals that credentials were accepted but the
// email is not verified yet; the app routes to the verification view.
type VerificationPendingMsg struct{}

// SwitchToRegisterMsg asks the app to open the registration form.
type SwitchToRegisterMsg struct{}

// signInResultMsg carries the outcome of a sign-in attempt.
type signInResultMsg struct {
	err error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
}

// Model is the Bubble Tea model for the sign-in form.
type Model struct {
	session  *session.Manager
	form     *huh.Form
	fb       *formBindings
	inFlight bool
	errMsg   string
	width    int
	height   int
}

// New creates a sign-in form over the given session manager.
func New(s *session.Manager, width, height int) Model {
	return Model{
		session: s,
		fb:      &formBindings{},
		width:   width,
		height:  height,
	}
}

// Init builds a fresh form and focuses it.
func (m *Model) Init() tea.Cmd {
	m.fb.email = ""
	m.fb.password = ""
	m.inFlight = false
	m.errMsg = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the sign-in form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case signInResultMsg:
		m.inFlight = false
		if msg.err == nil {
			return m, func() tea.Msg { return SignedInMsg{} }
		}
		if errors.Is(msg.err, api.ErrEmailNotVerified) {
			return m, func() tea.Msg { return VerificationPendingMsg{} }
		}
		m.errMsg = loginErrorText(msg.err)
		m.form = m.buildForm()
		return m, m.form.Init()

	case tea.KeyMsg:
		if msg.String() == "ctrl+n" && !m.inFlight {
			return m, func() tea.Msg { return SwitchToRegisterMsg{} }
		}
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
		return m, m.signIn(m.fb.email, m.fb.password)
	}

	return m, cmd
}

// View renders the sign-in form.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in to CareerConnect"))
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(theme.ErrorBannerStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	}

	if m.inFlight {
		b.WriteString("Signing in...")
	} else if m.form != nil {
		b.WriteString(m.form.View())
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("ctrl+n register a new account"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateRequired("Email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(formWidth(m.width)).WithShowHelp(false)
}

// signIn returns a command that authenticates against the session manager.
func (m Model) signIn(email, password string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		err := s.SignIn(context.Background(), email, password)
		return signInResultMsg{err: err}
	}
}

// loginErrorText maps sign-in failures to a short user-facing message.
func loginErrorText(err error) string {
	switch {
	case api.IsAuthError(err):
		return "Invalid email or password."
	case api.IsTransportError(err):
		return "Cannot reach the server. Check your connection and retry."
	default:
		return "Sign-in failed: " + err.Error()
	}
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(fieldName + " is required")
		}
		return nil
	}
}

func formWidth(w int) int {
	w -= 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}
