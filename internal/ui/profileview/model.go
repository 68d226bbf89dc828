// Package profileview shows the caller's account record and edits the
// mutable fields. Role and email are fixed at registration and rendered
// read-only.
package profileview

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

// SignOutRequestMsg asks the app to end the session.
type SignOutRequestMsg struct{}

// Backend is the slice of the REST API the profile editor consumes.
type Backend interface {
	UpdateProfile(ctx context.Context, upd api.ProfileUpdate) (model.Profile, error)
	UploadDocument(ctx context.Context, kind api.DocumentKind, path, description string) (api.DocumentUpload, error)
}

// updateResultMsg carries the outcome of a profile edit.
type updateResultMsg struct {
	profile model.Profile
	err     error
}

// uploadResultMsg carries the outcome of a document upload.
type uploadResultMsg struct {
	upload api.DocumentUpload
	err    error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	displayName     string
	phone           string
	institutionName string
	companyName     string

	filePath        string
	fileDescription string
}

// Model is the profile view and editor.
type Model struct {
	session    *session.Manager
	backend    Backend
	form       *huh.Form
	fb         *formBindings
	editing    bool
	uploadKind api.DocumentKind
	inFlight   bool
	errMsg   string
	notice   string
	width    int
	height   int
}

// New creates a profile view over the given session manager and backend.
func New(s *session.Manager, b Backend, width, height int) Model {
	return Model{
		session: s,
		backend: b,
		fb:      &formBindings{},
		width:   width,
		height:  height,
	}
}

// Init resets transient state.
func (m *Model) Init() tea.Cmd {
	m.editing = false
	m.uploadKind = ""
	m.inFlight = false
	m.errMsg = ""
	m.notice = ""
	return nil
}

// FormActive reports whether the edit or upload form owns keystrokes.
func (m Model) FormActive() bool {
	return m.editing || m.uploadKind != ""
}

// Update handles messages for the profile view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateResultMsg:
		m.inFlight = false
		if msg.err != nil {
			m.errMsg = "Update failed: " + api.Reason(msg.err)
			return m, nil
		}
		m.session.SetProfile(msg.profile)
		m.editing = false
		m.form = nil
		m.errMsg = ""
		m.notice = "Profile updated."
		return m, nil

	case uploadResultMsg:
		m.inFlight = false
		m.uploadKind = ""
		m.form = nil
		if msg.err != nil {
			m.errMsg = "Upload failed: " + api.Reason(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.notice = "Uploaded " + msg.upload.FileName + "."
		return m, nil

	case tea.KeyMsg:
		if m.FormActive() {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "e":
			profile := m.session.Current().Profile
			if profile == nil {
				return m, nil
			}
			m.startEdit(*profile)
			return m, m.form.Init()
		case "t":
			if m.studentProfile() == nil {
				return m, nil
			}
			m.startUpload(api.DocumentTranscript)
			return m, m.form.Init()
		case "c":
			if m.studentProfile() == nil {
				return m, nil
			}
			m.startUpload(api.DocumentCertificate)
			return m, m.form.Init()
		case "Q":
			return m, func() tea.Msg { return SignOutRequestMsg{} }
		}
		return m, nil
	}

	if m.FormActive() {
		return m.updateForm(msg)
	}
	return m, nil
}

// studentProfile returns the profile when the signed-in account is a
// student, nil otherwise. Document uploads are a student feature.
func (m Model) studentProfile() *model.Profile {
	profile := m.session.Current().Profile
	if profile == nil || profile.Role != model.RoleStudent {
		return nil
	}
	return profile
}

// updateForm drives the edit form.
func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.inFlight {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.inFlight = true
		if m.uploadKind != "" {
			return m, m.submitUpload()
		}
		return m, m.submit()
	}
	if m.form.State == huh.StateAborted {
		m.editing = false
		m.uploadKind = ""
		m.form = nil
		return m, nil
	}

	return m, cmd
}

// View renders the profile view.
func (m Model) View() string {
	snap := m.session.Current()

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Profile"))
	b.WriteString("\n\n")

	if m.errMsg != "" {
		b.WriteString(theme.ErrorBannerStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	}
	if m.notice != "" {
		b.WriteString(m.notice)
		b.WriteString("\n\n")
	}

	if snap.ProfileError != nil {
		b.WriteString(theme.ErrorBannerStyle.Render(snap.ProfileError.Error()))
		b.WriteString("\n\n")
	}

	if m.FormActive() {
		if m.inFlight {
			if m.uploadKind != "" {
				b.WriteString("Uploading...")
			} else {
				b.WriteString("Saving...")
			}
		} else if m.form != nil {
			b.WriteString(m.form.View())
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	profile := snap.Profile
	if profile == nil {
		b.WriteString("No profile record is available for this account.\n")
		b.WriteString("\n")
		b.WriteString(theme.HelpStyle.Render("Q sign out"))
		return theme.DetailPanelStyle.Render(b.String())
	}

	b.WriteString("Name:  " + profile.DisplayName + "\n")
	b.WriteString("Email: " + profile.Email + "\n")
	b.WriteString("Role:  ")
	b.WriteString(theme.RoleStyle(profile.Role).Render(profile.Role.Label()))
	b.WriteString("\n")
	if profile.Phone != "" {
		b.WriteString("Phone: " + profile.Phone + "\n")
	}
	if profile.InstitutionName != "" {
		b.WriteString("Institution: " + profile.InstitutionName + "\n")
	}
	if profile.CompanyName != "" {
		b.WriteString("Company: " + profile.CompanyName + "\n")
	}
	if !profile.CreatedAt.IsZero() {
		b.WriteString("Member since: " + profile.CreatedAt.Format("2006-01-02") + "\n")
	}

	b.WriteString("\n")
	if profile.Role == model.RoleStudent {
		b.WriteString(theme.HelpStyle.Render("e edit | t upload transcript | c upload certificate | Q sign out | esc back"))
	} else {
		b.WriteString(theme.HelpStyle.Render("e edit | Q sign out | esc back"))
	}

	return theme.DetailPanelStyle.Render(b.String())
}

// startEdit builds the edit form pre-filled from the current profile.
func (m *Model) startEdit(profile model.Profile) {
	m.fb.displayName = profile.DisplayName
	m.fb.phone = profile.Phone
	m.fb.institutionName = profile.InstitutionName
	m.fb.companyName = profile.CompanyName
	m.editing = true
	m.notice = ""
	m.errMsg = ""

	fields := []huh.Field{
		huh.NewInput().
			Title("Display name").
			Value(&m.fb.displayName),
		huh.NewInput().
			Title("Phone").
			Value(&m.fb.phone),
	}
	switch profile.Role {
	case model.RoleInstitution:
		fields = append(fields, huh.NewInput().
			Title("Institution name").
			Value(&m.fb.institutionName))
	case model.RoleCompany:
		fields = append(fields, huh.NewInput().
			Title("Company name").
			Value(&m.fb.companyName))
	case model.RoleStudent, model.RoleAdmin:
	}

	m.form = huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(formWidth(m.width)).WithShowHelp(false)
}

// startUpload builds the document upload form for the given kind.
func (m *Model) startUpload(kind api.DocumentKind) {
	m.fb.filePath = ""
	m.fb.fileDescription = ""
	m.uploadKind = kind
	m.notice = ""
	m.errMsg = ""

	title := "Transcript file (pdf, jpg, or png)"
	if kind == api.DocumentCertificate {
		title = "Certificate file (pdf, jpg, or png)"
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("/path/to/document.pdf").
				Value(&m.fb.filePath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("file path is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&m.fb.fileDescription),
		),
	).WithWidth(formWidth(m.width)).WithShowHelp(false)
}

// submitUpload returns a command that posts the chosen file.
func (m Model) submitUpload() tea.Cmd {
	b := m.backend
	kind := m.uploadKind
	path := strings.TrimSpace(m.fb.filePath)
	description := m.fb.fileDescription
	return func() tea.Msg {
		upload, err := b.UploadDocument(context.Background(), kind, path, description)
		return uploadResultMsg{upload: upload, err: err}
	}
}

// submit returns a command that saves the edited fields.
func (m Model) submit() tea.Cmd {
	b := m.backend
	upd := api.ProfileUpdate{
		DisplayName:     m.fb.displayName,
		Phone:           m.fb.phone,
		InstitutionName: m.fb.institutionName,
		CompanyName:     m.fb.companyName,
	}
	return func() tea.Msg {
		profile, err := b.UpdateProfile(context.Background(), upd)
		return updateResultMsg{profile: profile, err: err}
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

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
