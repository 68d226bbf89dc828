// Package register is the two-step account registration form: pick a role,
// then fill the role-specific fields. Admin accounts are provisioned
// out of band and are not offered here.
package register

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/careerconnect/client/internal/api"
	"github.com/careerconnect/client/internal/model"
	"github.com/careerconnect/client/internal/session"
	"github.com/careerconnect/client/internal/theme"
)

// RegisteredMsg signals a successful sign-up. The session now holds an
// unverified identity; the app routes to the verification view.
type RegisteredMsg struct{}

// RegisterCancelMsg asks the app to return to the sign-in view.
type RegisterCancelMsg struct{}

// signUpResultMsg carries the outcome of a sign-up attempt.
type signUpResultMsg struct {
	err error
}

// step is the current phase of the registration flow.
type step int

const (
	stepRole step = iota
	stepDetails
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	role            string
	email           string
	password        string
	displayName     string
	phone           string
	institutionName string
	companyName     string
}

// Model is the Bubble Tea model for the registration flow.
type Model struct {
	session  *session.Manager
	form     *huh.Form
	fb       *formBindings
	step     step
	inFlight bool
	errMsg   string
	width    int
	height   int
}

// New creates a registration form over the given session manager.
func New(s *session.Manager, width, height int) Model {
	return Model{
		session: s,
		fb:      &formBindings{},
		width:   width,
		height:  height,
	}
}

// Init resets the flow to the role selection step.
func (m *Model) Init() tea.Cmd {
	*m.fb = formBindings{role: string(model.RoleStudent)}
	m.step = stepRole
	m.inFlight = false
	m.errMsg = ""
	m.form = m.buildRoleForm()
	return m.form.Init()
}

// Update handles messages for the registration flow.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if result, ok := msg.(signUpResultMsg); ok {
		m.inFlight = false
		if result.err == nil {
			return m, func() tea.Msg { return RegisteredMsg{} }
		}
		if api.IsProfileRegistrationError(result.err) {
			// The identity exists but has no profile. Surface the
			// inconsistency and still move to verification so the user is
			// not stuck on the form.
			m.errMsg = result.err.Error()
			return m, func() tea.Msg { return RegisteredMsg{} }
		}
		m.errMsg = signUpErrorText(result.err)
		m.step = stepDetails
		m.form = m.buildDetailsForm()
		return m, m.form.Init()
	}

	if m.form == nil || m.inFlight {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.step == stepRole {
			m.step = stepDetails
			m.form = m.buildDetailsForm()
			return m, m.form.Init()
		}
		m.inFlight = true
		m.errMsg = ""
		return m, m.signUp()

	case huh.StateAborted:
		if m.step == stepDetails {
			// Back to role selection rather than abandoning the flow.
			m.step = stepRole
			m.form = m.buildRoleForm()
			return m, m.form.Init()
		}
		return m, func() tea.Msg { return RegisterCancelMsg{} }
	}

	return m, cmd
}

// View renders the registration flow.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := "Create an account"
	if m.step == stepDetails {
		title = "Create a " + model.Role(m.fb.role).Label() + " account"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(theme.ErrorBannerStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	}

	if m.inFlight {
		b.WriteString("Creating account...")
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

func (m *Model) buildRoleForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("I am a...").
				Options(
					huh.NewOption(model.RoleStudent.Label(), string(model.RoleStudent)),
					huh.NewOption(model.RoleInstitution.Label(), string(model.RoleInstitution)),
					huh.NewOption(model.RoleCompany.Label(), string(model.RoleCompany)),
				).
				Value(&m.fb.role),
		),
	).WithWidth(formWidth(m.width)).WithShowHelp(false)
}

func (m *Model) buildDetailsForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&m.fb.email).
			Validate(validateRequired("Email")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Description("At least 6 characters.").
			Value(&m.fb.password).
			Validate(validateRequired("Password")),
	}

	switch model.Role(m.fb.role) {
	case model.RoleInstitution:
		fields = append(fields,
			huh.NewInput().
				Title("Institution name").
				Value(&m.fb.institutionName).
				Validate(validateRequired("Institution name")),
		)
	case model.RoleCompany:
		fields = append(fields,
			huh.NewInput().
				Title("Company name").
				Value(&m.fb.companyName).
				Validate(validateRequired("Company name")),
		)
	default:
		fields = append(fields,
			huh.NewInput().
				Title("Full name").
				Value(&m.fb.displayName).
				Validate(validateRequired("Full name")),
		)
	}

	fields = append(fields,
		huh.NewInput().
			Title("Phone").
			Placeholder("Optional").
			Value(&m.fb.phone),
	)

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(formWidth(m.width)).WithShowHelp(false)
}

// signUp returns a command that creates the identity and registers the
// backend profile.
func (m Model) signUp() tea.Cmd {
	s := m.session
	attrs := session.RoleAttributes{
		Role:            model.Role(m.fb.role),
		DisplayName:     m.fb.displayName,
		Phone:           m.fb.phone,
		InstitutionName: m.fb.institutionName,
		CompanyName:     m.fb.companyName,
	}
	email := m.fb.email
	password := m.fb.password
	return func() tea.Msg {
		err := s.SignUp(context.Background(), email, password, attrs)
		return signUpResultMsg{err: err}
	}
}

// signUpErrorText maps sign-up failures to a short user-facing message.
func signUpErrorText(err error) string {
	switch {
	case errors.Is(err, api.ErrDuplicateIdentity):
		return "This email is already registered. Sign in instead."
	case errors.Is(err, api.ErrWeakCredential):
		return "Password is too weak. Use at least 6 characters."
	case api.IsTransportError(err):
		return "Cannot reach the server. Check your connection and retry."
	default:
		return "Registration failed: " + api.Reason(err)
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
