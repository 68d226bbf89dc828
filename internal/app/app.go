// Package app owns the root Bubble Tea model: view routing, the access
// gate in front of every protected view, and the notification poller
// lifecycle.
package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/careerconnect/client/internal/access"
	"github.com/careerconnect/client/internal/api"
	"github.com/careerconnect/client/internal/keys"
	"github.com/careerconnect/client/internal/model"
	"github.com/careerconnect/client/internal/notify"
	"github.com/careerconnect/client/internal/session"
	"github.com/careerconnect/client/internal/ui"
	"github.com/careerconnect/client/internal/ui/adminpanel"
	"github.com/careerconnect/client/internal/ui/applications"
	"github.com/careerconnect/client/internal/ui/browse"
	"github.com/careerconnect/client/internal/ui/helpview"
	"github.com/careerconnect/client/internal/ui/login"
	"github.com/careerconnect/client/internal/ui/notifications"
	"github.com/careerconnect/client/internal/ui/ownerboard"
	"github.com/careerconnect/client/internal/ui/postingform"
	"github.com/careerconnect/client/internal/ui/profileview"
	"github.com/careerconnect/client/internal/ui/register"
	"github.com/careerconnect/client/internal/ui/verify"
	"github.com/careerconnect/client/internal/workitems"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewRegister
	ViewVerify
	ViewBrowse
	ViewApplications
	ViewOwnerBoard
	ViewPostingForm
	ViewAdmin
	ViewNotifications
	ViewProfile
	ViewHelp
)

// resumeResultMsg carries the outcome of the startup session resume.
type resumeResultMsg struct {
	err error
}

// Model is the root Bubble Tea model.
type Model struct {
	session   *session.Manager
	workitems *workitems.Store
	center    *notify.Center
	poller    *notify.Poller

	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	loginView    login.Model
	registerView register.Model
	verifyView   verify.Model
	browseView   browse.Model
	appsView     applications.Model
	ownerView    ownerboard.Model
	formView     postingform.Model
	adminView    adminpanel.Model
	notifView    notifications.Model
	profileView  profileview.Model
	helpView     helpview.Model

	ready     bool
	statusMsg string
}

// New creates the root application model over the shared components.
func New(
	sess *session.Manager,
	items *workitems.Store,
	center *notify.Center,
	poller *notify.Poller,
	client *api.Client,
) Model {
	k := keys.DefaultKeyMap()

	return Model{
		session:      sess,
		workitems:    items,
		center:       center,
		poller:       poller,
		currentView:  ViewLogin,
		keys:         k,
		loginView:    login.New(sess, 80, 24),
		registerView: register.New(sess, 80, 24),
		verifyView:   verify.New(sess, 80, 24),
		browseView:   browse.New(items, k, 80, 24),
		appsView:     applications.New(items, k, 80, 24),
		ownerView:    ownerboard.New(items, k, model.PostingJob, 80, 24),
		formView:     postingform.New(items, 80, 24),
		adminView:    adminpanel.New(client, k, 80, 24),
		notifView:    notifications.New(center, k, 80, 24),
		profileView:  profileview.New(sess, client, 80, 24),
		helpView:     helpview.New(k, 80, 24),
	}
}

// Init attempts to resume a persisted session before showing the login
// form.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loginView.Init(), m.resume())
}

// resume returns a command that restores the previous session, if any.
func (m Model) resume() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return resumeResultMsg{err: s.Resume(context.Background())}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.loginView.SetSize(w, h)
		m.registerView.SetSize(w, h)
		m.verifyView.SetSize(w, h)
		m.browseView.SetSize(w, h)
		m.appsView.SetSize(w, h)
		m.ownerView.SetSize(w, h)
		m.formView.SetSize(w, h)
		m.adminView.SetSize(w, h)
		m.notifView.SetSize(w, h)
		m.profileView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		// Forward to the active view so huh forms can recalculate.
		return m.updateActiveView(msg)

	case resumeResultMsg:
		// A failed resume just means the user signs in manually.
		if m.session.Current().State == session.Anonymous {
			return m, nil
		}
		return m.activateSession()

	case login.SignedInMsg:
		return m.activateSession()

	case login.VerificationPendingMsg:
		return m.showVerify()

	case login.SwitchToRegisterMsg:
		m.currentView = ViewRegister
		return m, m.registerView.Init()

	case register.RegisteredMsg:
		return m.showVerify()

	case register.RegisterCancelMsg:
		m.currentView = ViewLogin
		return m, m.loginView.Init()

	case verify.VerifiedMsg:
		return m.activateSession()

	case verify.SignOutRequestMsg, profileview.SignOutRequestMsg:
		return m.signOut()

	case browse.AppliedMsg:
		m.statusMsg = "Application submitted: " + msg.PostingTitle
		return m, nil

	case ownerboard.NewPostingRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewPostingForm
		return m, m.formView.Start(msg.Kind)

	case postingform.PostingCreatedMsg:
		m.statusMsg = "Published: " + msg.Posting.Title
		m.currentView = ViewOwnerBoard
		return m, m.ownerView.LoadPostings()

	case postingform.PostingFormCancelMsg:
		m.currentView = ViewOwnerBoard
		return m, nil

	case notify.UnreadCountMsg:
		if notify.IsAuthResult(msg) {
			// The token died mid-session; stop polling rather than
			// hammering the server with doomed requests.
			m.poller.Stop()
			m.statusMsg = "Session expired. Sign in again."
			return m, nil
		}
		return m, m.poller.WaitForNextResult()

	case tea.KeyMsg:
		if handled, next, cmd := m.handleGlobalKeys(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of the active view.
// Keys are not intercepted while a text-entry view is active.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.poller.Stop()
		return true, m, tea.Quit
	}

	// Form views own their keystrokes entirely, as do views with an open
	// modal form.
	switch m.currentView {
	case ViewLogin, ViewRegister, ViewPostingForm:
		return false, m, nil
	case ViewAdmin:
		if m.adminView.FormActive() {
			return false, m, nil
		}
	case ViewProfile:
		if m.profileView.FormActive() {
			return false, m, nil
		}
	}

	switch msg.String() {
	case "q":
		if m.currentView == m.homeView() {
			m.poller.Stop()
			return true, m, tea.Quit
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case "b":
		next, cmd := m.navigate(ViewBrowse, model.RoleStudent)
		return true, next, cmd

	case "m":
		next, cmd := m.navigate(ViewApplications, model.RoleStudent)
		return true, next, cmd

	case "o":
		next, cmd := m.navigate(ViewOwnerBoard, model.RoleInstitution, model.RoleCompany)
		return true, next, cmd

	case "N":
		next, cmd := m.navigate(ViewNotifications)
		return true, next, cmd

	case "P":
		next, cmd := m.navigate(ViewProfile)
		return true, next, cmd

	case "esc":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
	}

	return false, m, nil
}

// navigate routes to a protected view through the access gate. The gate is
// evaluated on the latest snapshot at every navigation, never cached.
func (m Model) navigate(target ViewState, requiredRoles ...model.Role) (tea.Model, tea.Cmd) {
	snap := m.session.Current()
	switch access.Evaluate(snap, requiredRoles...) {
	case access.RedirectLogin:
		m.currentView = ViewLogin
		return m, m.loginView.Init()

	case access.RedirectVerify:
		return m.showVerify()

	case access.RedirectHome:
		home := m.homeView()
		if m.currentView == home {
			return m, nil
		}
		m.currentView = home
		return m, m.initView(home)
	}

	if m.currentView == target {
		return m, nil
	}
	m.previousView = m.currentView
	m.currentView = target
	return m, m.initView(target)
}

// initView returns the entry command for a view.
func (m *Model) initView(v ViewState) tea.Cmd {
	switch v {
	case ViewBrowse:
		return m.browseView.Init()
	case ViewApplications:
		return m.appsView.Init()
	case ViewOwnerBoard:
		return m.ownerView.Init()
	case ViewAdmin:
		return m.adminView.Init()
	case ViewNotifications:
		return m.notifView.Init()
	case ViewProfile:
		return m.profileView.Init()
	default:
		return nil
	}
}

// homeView is the landing view for the session's role.
func (m Model) homeView() ViewState {
	snap := m.session.Current()
	switch snap.Role() {
	case model.RoleInstitution, model.RoleCompany:
		return ViewOwnerBoard
	case model.RoleAdmin:
		return ViewAdmin
	default:
		return ViewBrowse
	}
}

// activateSession hydrates the caches, starts the poller, and lands on the
// role's home view. The landing goes through the same gate as every other
// navigation, so a session that degraded between sign-in and activation is
// redirected instead of landed.
func (m Model) activateSession() (tea.Model, tea.Cmd) {
	snap := m.session.Current()
	switch access.Evaluate(snap) {
	case access.RedirectLogin:
		m.currentView = ViewLogin
		return m, m.loginView.Init()
	case access.RedirectVerify:
		return m.showVerify()
	}

	ctx := context.Background()
	m.workitems.Hydrate(ctx)
	m.center.Hydrate(ctx)

	if snap.Role() == model.RoleInstitution {
		m.ownerView.SetKind(model.PostingCourse)
	} else if snap.Role() == model.RoleCompany {
		m.ownerView.SetKind(model.PostingJob)
	}

	m.statusMsg = ""
	home := m.homeView()
	m.currentView = home
	return m, tea.Batch(m.initView(home), m.poller.Start())
}

// showVerify routes to the email-verification holding view.
func (m Model) showVerify() (tea.Model, tea.Cmd) {
	m.currentView = ViewVerify
	return m, m.verifyView.Init()
}

// signOut tears the session down: poller stopped, caches cleared, back to
// the login view.
func (m Model) signOut() (tea.Model, tea.Cmd) {
	m.poller.Stop()
	m.session.SignOut()
	m.workitems.Reset(context.Background())
	m.center.Reset()
	m.statusMsg = ""
	m.currentView = ViewLogin
	return m, m.loginView.Init()
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewRegister:
		m.registerView, cmd = m.registerView.Update(msg)
	case ViewVerify:
		m.verifyView, cmd = m.verifyView.Update(msg)
	case ViewBrowse:
		m.browseView, cmd = m.browseView.Update(msg)
	case ViewApplications:
		m.appsView, cmd = m.appsView.Update(msg)
	case ViewOwnerBoard:
		m.ownerView, cmd = m.ownerView.Update(msg)
	case ViewPostingForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewAdmin:
		m.adminView, cmd = m.adminView.Update(msg)
	case ViewNotifications:
		m.notifView, cmd = m.notifView.Update(msg)
	case ViewProfile:
		m.profileView, cmd = m.profileView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("CareerConnect", m.center.Unread(), m.sessionStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewRegister:
		return m.registerView.View()
	case ViewVerify:
		return m.verifyView.View()
	case ViewBrowse:
		return m.browseView.View()
	case ViewApplications:
		return m.appsView.View()
	case ViewOwnerBoard:
		return m.ownerView.View()
	case ViewPostingForm:
		return m.formView.View()
	case ViewAdmin:
		return m.adminView.View()
	case ViewNotifications:
		return m.notifView.View()
	case ViewProfile:
		return m.profileView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// sessionStatus returns the header's right-hand session summary.
func (m Model) sessionStatus() string {
	snap := m.session.Current()
	switch snap.State {
	case session.Active:
		name := ""
		if snap.Profile != nil {
			name = snap.Profile.DisplayName + " · " + snap.Profile.Role.Label()
		} else if snap.Identity != nil {
			name = snap.Identity.Email
		}
		return name
	case session.PendingVerification:
		return "verification pending"
	default:
		return "signed out"
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewLogin:
		return "enter sign in | ctrl+n register | ctrl+c quit"
	case ViewRegister:
		return "enter next | esc back"
	case ViewVerify:
		return "enter I've verified | r resend | esc sign out"
	case ViewBrowse:
		return "enter open | 1 jobs | 2 courses | / search | m my applications | ? help"
	case ViewApplications:
		return "w withdraw | r refresh | b browse | ? help"
	case ViewOwnerBoard:
		return "tab switch section | n new posting | c close | enter decide | ? help"
	case ViewPostingForm:
		return "enter submit | esc cancel"
	case ViewAdmin:
		return "tab switch section | n new | d delete | r refresh | q quit"
	case ViewNotifications:
		return "enter open | A mark all read | r refresh | esc back"
	case ViewProfile:
		return "e edit | Q sign out"
	case ViewHelp:
		return "? close help | esc back"
	default:
		return "? help | q quit"
	}
}
