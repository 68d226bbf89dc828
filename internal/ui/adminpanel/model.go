// Package adminpanel is the admin-only dashboard: platform-wide counters,
// account and course management, and activity reports.
package adminpanel

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/careerconnect/client/internal/api"
	"github.com/careerconnect/client/internal/keys"
	"github.com/careerconnect/client/internal/theme"
)

// tab is the visible section of the dashboard.
type tab int

const (
	tabOverview tab = iota
	tabInstitutions
	tabCompanies
	tabCourses
	tabActivity
)

var tabLabels = []string{"Overview", "Institutions", "Companies", "Courses", "Activity"}

// formKind identifies which modal form is open.
type formKind int

const (
	formNone formKind = iota
	formInstitution
	formCourse
	formCompanyStatus
	formDelete
)

// statsLoadedMsg carries the platform summary.
type statsLoadedMsg struct {
	stats api.AdminStats
	err   error
}

// reportsLoadedMsg carries the activity report rows.
type reportsLoadedMsg struct {
	reports []api.AdminReport
	err     error
}

// accountsLoadedMsg carries one managed account collection.
type accountsLoadedMsg struct {
	entity   string
	accounts []api.AdminAccount
	err      error
}

// coursesLoadedMsg carries the platform course list.
type coursesLoadedMsg struct {
	courses []api.AdminCourse
	err     error
}

// actionResultMsg carries the outcome of a create, status, or delete.
type actionResultMsg struct {
	err error
}

// Backend is the slice of the REST API the admin panel consumes.
type Backend interface {
	AdminStats(ctx context.Context) (api.AdminStats, error)
	AdminReports(ctx context.Context) ([]api.AdminReport, error)
	AdminInstitutions(ctx context.Context) ([]api.AdminAccount, error)
	AdminCompanies(ctx context.Context) ([]api.AdminAccount, error)
	AdminCourses(ctx context.Context) ([]api.AdminCourse, error)
	CreateInstitution(ctx context.Context, inst api.NewInstitution) error
	CreateAdminCourse(ctx context.Context, course api.NewAdminCourse) error
	SetAccountStatus(ctx context.Context, entity, id, status string) error
	DeleteAdminEntity(ctx context.Context, entity, id string) error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email           string
	password        string
	institutionName string
	phone           string
	address         string

	courseName    string
	description   string
	duration      string
	fees          string
	requirements  string
	institutionID string
	faculty       string

	status        string
	confirmDelete bool
}

// accountRow wraps a managed account for the bubbles list.
type accountRow struct {
	Account api.AdminAccount
}

func (r accountRow) FilterValue() string { return r.Account.Name() }

// courseRow wraps a platform course for the bubbles list.
type courseRow struct {
	Course api.AdminCourse
}

func (r courseRow) FilterValue() string { return r.Course.Name }

// rowDelegate renders both row types single-line.
type rowDelegate struct{}

func (d rowDelegate) Height() int  { return 1 }
func (d rowDelegate) Spacing() int { return 0 }

func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	gray := lipgloss.NewStyle().Foreground(theme.ColorGray)

	var line string
	switch row := item.(type) {
	case accountRow:
		a := row.Account
		status := a.Status
		if status == "" {
			status = api.AccountStatusActive
		}
		badge := theme.AccountStatusStyle(status).Render(status)
		line = fmt.Sprintf("%s %s%s", badge, a.Name(), gray.Render("  "+a.Email))

	case courseRow:
		c := row.Course
		detail := c.InstitutionName
		if c.Faculty != "" {
			detail += " · " + c.Faculty
		}
		line = fmt.Sprintf("%s%s", c.Name, gray.Render("  "+detail))

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

// Model is the admin dashboard view.
type Model struct {
	backend Backend
	keys    *keys.KeyMap

	tab     tab
	stats   api.AdminStats
	reports []api.AdminReport
	loaded  bool

	instList   list.Model
	compList   list.Model
	courseList list.Model

	// institutions feeds the course form's institution select.
	institutions []api.AdminAccount

	form          *huh.Form
	formKind      formKind
	fb            *formBindings
	pendingEntity string
	pendingID     string

	inFlight bool
	errMsg   string
	notice   string
	width    int
	height   int
}

// New creates an admin dashboard over the given backend.
func New(b Backend, k *keys.KeyMap, width, height int) Model {
	newList := func(title string) list.Model {
		l := list.New([]list.Item{}, rowDelegate{}, width, height-3)
		l.Title = title
		l.SetShowStatusBar(true)
		l.SetShowHelp(false)
		l.SetFilteringEnabled(false)
		l.Styles.Title = theme.HeaderStyle
		return l
	}

	return Model{
		backend:    b,
		keys:       k,
		instList:   newList("Institutions"),
		compList:   newList("Companies"),
		courseList: newList("Courses"),
		fb:         &formBindings{},
		width:      width,
		height:     height,
	}
}

// Init returns commands that load every dashboard collection.
func (m Model) Init() tea.Cmd {
	return m.loadAll()
}

// FormActive reports whether a modal form currently owns keystrokes.
func (m Model) FormActive() bool {
	return m.form != nil
}

// Update handles messages for the admin dashboard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.err != nil {
			m.errMsg = "Could not load stats: " + api.Reason(msg.err)
			return m, nil
		}
		m.stats = msg.stats
		m.loaded = true
		m.errMsg = ""
		return m, nil

	case reportsLoadedMsg:
		if msg.err != nil {
			m.errMsg = "Could not load reports: " + api.Reason(msg.err)
			return m, nil
		}
		m.reports = msg.reports
		return m, nil

	case accountsLoadedMsg:
		if msg.err != nil {
			m.errMsg = "Could not load " + msg.entity + ": " + api.Reason(msg.err)
			return m, nil
		}
		items := make([]list.Item, len(msg.accounts))
		for i, a := range msg.accounts {
			items[i] = accountRow{Account: a}
		}
		if msg.entity == api.AdminEntityInstitutions {
			m.institutions = msg.accounts
			return m, m.instList.SetItems(items)
		}
		return m, m.compList.SetItems(items)

	case coursesLoadedMsg:
		if msg.err != nil {
			m.errMsg = "Could not load courses: " + api.Reason(msg.err)
			return m, nil
		}
		items := make([]list.Item, len(msg.courses))
		for i, c := range msg.courses {
			items[i] = courseRow{Course: c}
		}
		return m, m.courseList.SetItems(items)

	case actionResultMsg:
		m.inFlight = false
		if msg.err != nil {
			m.notice = actionErrorText(msg.err)
			return m, nil
		}
		m.notice = ""
		return m, m.loadAll()

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		if m.inFlight {
			return m, nil
		}
		return m.handleKeys(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m.updateActiveList(msg)
}

// handleKeys processes key input in normal mode.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CycleSection):
		m.tab = (m.tab + 1) % tab(len(tabLabels))
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.errMsg = ""
		m.notice = ""
		return m, m.loadAll()

	case key.Matches(msg, m.keys.NewPosting):
		switch m.tab {
		case tabInstitutions:
			m.startInstitutionForm()
			return m, m.form.Init()
		case tabCourses:
			if len(m.institutions) == 0 {
				m.notice = "No institutions to attach the course to."
				return m, nil
			}
			m.startCourseForm()
			return m, m.form.Init()
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if m.tab != tabCompanies {
			return m.updateActiveList(msg)
		}
		row, ok := m.compList.SelectedItem().(accountRow)
		if !ok {
			return m, nil
		}
		m.startStatusForm(row.Account)
		return m, m.form.Init()
	}

	switch msg.String() {
	case "s":
		// Flip an institution between active and suspended.
		if m.tab != tabInstitutions {
			break
		}
		row, ok := m.instList.SelectedItem().(accountRow)
		if !ok {
			return m, nil
		}
		next := api.AccountStatusSuspended
		if row.Account.Status == api.AccountStatusSuspended {
			next = api.AccountStatusActive
		}
		m.inFlight = true
		return m, m.setStatus(api.AdminEntityInstitutions, row.Account.ID, next)

	case "d":
		switch m.tab {
		case tabInstitutions:
			row, ok := m.instList.SelectedItem().(accountRow)
			if !ok {
				return m, nil
			}
			m.startDeleteForm(api.AdminEntityInstitutions, row.Account.ID, row.Account.Name())
			return m, m.form.Init()
		case tabCourses:
			row, ok := m.courseList.SelectedItem().(courseRow)
			if !ok {
				return m, nil
			}
			m.startDeleteForm(api.AdminEntityCourses, row.Course.ID, row.Course.Name)
			return m, m.form.Init()
		}
	}

	return m.updateActiveList(msg)
}

// updateForm drives whichever modal form is open.
func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		kind := m.formKind
		m.form = nil
		m.formKind = formNone
		return m.submitForm(kind)
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		m.formKind = formNone
		return m, nil
	}

	return m, cmd
}

// submitForm dispatches a completed form to the backend.
func (m Model) submitForm(kind formKind) (Model, tea.Cmd) {
	switch kind {
	case formInstitution:
		m.inFlight = true
		return m, m.createInstitution()

	case formCourse:
		m.inFlight = true
		return m, m.createCourse()

	case formCompanyStatus:
		row, ok := m.compList.SelectedItem().(accountRow)
		if !ok || m.fb.status == row.Account.Status {
			return m, nil
		}
		m.inFlight = true
		return m, m.setStatus(api.AdminEntityCompanies, row.Account.ID, m.fb.status)

	case formDelete:
		if !m.fb.confirmDelete {
			return m, nil
		}
		m.inFlight = true
		return m, m.deleteEntity(m.pendingEntity, m.pendingID)
	}

	return m, nil
}

// updateActiveList forwards a message to the visible list.
func (m Model) updateActiveList(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.tab {
	case tabInstitutions:
		m.instList, cmd = m.instList.Update(msg)
	case tabCompanies:
		m.compList, cmd = m.compList.Update(msg)
	case tabCourses:
		m.courseList, cmd = m.courseList.Update(msg)
	}
	return m, cmd
}

// View renders the admin dashboard.
func (m Model) View() string {
	if m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	var sections []string
	sections = append(sections, m.renderTabs())

	if m.errMsg != "" {
		sections = append(sections, theme.ErrorBannerStyle.Render(m.errMsg))
	}
	if m.notice != "" {
		sections = append(sections, theme.ErrorBannerStyle.Render(m.notice))
	}
	if m.inFlight {
		sections = append(sections, "Working...")
	}

	switch m.tab {
	case tabOverview:
		sections = append(sections, m.renderOverview())
	case tabInstitutions:
		sections = append(sections, m.instList.View(),
			theme.HelpStyle.Render("n add | s suspend/activate | d delete | tab next"))
	case tabCompanies:
		sections = append(sections, m.compList.View(),
			theme.HelpStyle.Render("enter change status | tab next"))
	case tabCourses:
		sections = append(sections, m.courseList.View(),
			theme.HelpStyle.Render("n add | d delete | tab next"))
	case tabActivity:
		sections = append(sections, m.renderActivity())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTabs draws the tab bar with the active tab highlighted.
func (m Model) renderTabs() string {
	parts := make([]string, len(tabLabels))
	for i, label := range tabLabels {
		if tab(i) == m.tab {
			parts[i] = theme.HeaderStyle.Render(label)
		} else {
			parts[i] = theme.HelpStyle.Render(label)
		}
	}
	return strings.Join(parts, " ")
}

// renderOverview draws the platform counters.
func (m Model) renderOverview() string {
	var b strings.Builder

	if !m.loaded {
		b.WriteString("Loading...")
		return theme.DetailPanelStyle.Render(b.String())
	}

	rows := []struct {
		label string
		value int
	}{
		{"Students", m.stats.Students},
		{"Institutions", m.stats.Institutions},
		{"Companies", m.stats.Companies},
		{"Job postings", m.stats.Jobs},
		{"Courses", m.stats.Courses},
		{"Applications", m.stats.Applications},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-14s %6d\n", row.label, row.value))
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("r refresh | tab next section"))

	return theme.DetailPanelStyle.Render(b.String())
}

// renderActivity draws the report rows.
func (m Model) renderActivity() string {
	var b strings.Builder

	if len(m.reports) == 0 {
		b.WriteString("No activity recorded.")
		return theme.DetailPanelStyle.Render(b.String())
	}

	for _, r := range m.reports {
		b.WriteString(fmt.Sprintf("  %-24s %6d\n", r.Label, r.Value))
	}

	return theme.DetailPanelStyle.Render(b.String())
}

// startInstitutionForm opens the provision-institution form.
func (m *Model) startInstitutionForm() {
	*m.fb = formBindings{}
	m.formKind = formInstitution
	m.notice = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&m.fb.email).
				Validate(validateRequired("Email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
			huh.NewInput().
				Title("Institution name").
				Value(&m.fb.institutionName).
				Validate(validateRequired("Institution name")),
			huh.NewInput().
				Title("Phone").
				Value(&m.fb.phone),
			huh.NewText().
				Title("Address").
				Value(&m.fb.address),
		),
	).WithWidth(formWidth(m.width)).WithShowHelp(false)
}

// startCourseForm opens the create-course form with an institution select.
func (m *Model) startCourseForm() {
	*m.fb = formBindings{}
	m.formKind = formCourse
	m.notice = ""

	options := make([]huh.Option[string], len(m.institutions))
	for i, inst := range m.institutions {
		options[i] = huh.NewOption(inst.Name(), inst.ID)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Course name").
				Value(&m.fb.courseName).
				Validate(validateRequired("Course name")),
			huh.NewSelect[string]().
				Title("Institution").
				Options(options...).
				Value(&m.fb.institutionID),
			huh.NewInput().
				Title("Faculty").
				Value(&m.fb.faculty),
			huh.NewInput().
				Title("Duration").
				Placeholder("e.g. 4 years").
				Value(&m.fb.duration),
			huh.NewInput().
				Title("Fees").
				Placeholder("e.g. M45,000 per year").
				Value(&m.fb.fees),
			huh.NewText().
				Title("Requirements (comma separated)").
				Value(&m.fb.requirements),
			huh.NewText().
				Title("Description").
				Value(&m.fb.description),
		),
	).WithWidth(formWidth(m.width)).WithShowHelp(false)
}

// startStatusForm opens the company status select.
func (m *Model) startStatusForm(account api.AdminAccount) {
	m.fb.status = account.Status
	if m.fb.status == "" {
		m.fb.status = api.AccountStatusActive
	}
	m.formKind = formCompanyStatus
	m.notice = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Status for "+account.Name()).
				Options(
					huh.NewOption("Pending", api.AccountStatusPending),
					huh.NewOption("Active", api.AccountStatusActive),
					huh.NewOption("Suspended", api.AccountStatusSuspended),
				).
				Value(&m.fb.status),
		),
	).WithShowHelp(false)
}

// startDeleteForm opens the delete confirmation.
func (m *Model) startDeleteForm(entity, id, name string) {
	m.fb.confirmDelete = false
	m.formKind = formDelete
	m.pendingEntity = entity
	m.pendingID = id
	m.notice = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete "+name+"?").
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.fb.confirmDelete),
		),
	).WithShowHelp(false)
}

// loadAll returns commands that refresh every dashboard collection.
func (m Model) loadAll() tea.Cmd {
	return tea.Batch(
		m.loadStats(),
		m.loadReports(),
		m.loadAccounts(api.AdminEntityInstitutions),
		m.loadAccounts(api.AdminEntityCompanies),
		m.loadCourses(),
	)
}

// loadStats returns a command that fetches the summary counters.
func (m Model) loadStats() tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		stats, err := b.AdminStats(context.Background())
		return statsLoadedMsg{stats: stats, err: err}
	}
}

// loadReports returns a command that fetches the report rows.
func (m Model) loadReports() tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		reports, err := b.AdminReports(context.Background())
		return reportsLoadedMsg{reports: reports, err: err}
	}
}

// loadAccounts returns a command that fetches one account collection.
func (m Model) loadAccounts(entity string) tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		var accounts []api.AdminAccount
		var err error
		if entity == api.AdminEntityInstitutions {
			accounts, err = b.AdminInstitutions(context.Background())
		} else {
			accounts, err = b.AdminCompanies(context.Background())
		}
		return accountsLoadedMsg{entity: entity, accounts: accounts, err: err}
	}
}

// loadCourses returns a command that fetches the platform course list.
func (m Model) loadCourses() tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		courses, err := b.AdminCourses(context.Background())
		return coursesLoadedMsg{courses: courses, err: err}
	}
}

// createInstitution returns a command that provisions the bound account.
func (m Model) createInstitution() tea.Cmd {
	b := m.backend
	inst := api.NewInstitution{
		Email:           m.fb.email,
		Password:        m.fb.password,
		InstitutionName: m.fb.institutionName,
		Phone:           m.fb.phone,
		Address:         m.fb.address,
	}
	return func() tea.Msg {
		return actionResultMsg{err: b.CreateInstitution(context.Background(), inst)}
	}
}

// createCourse returns a command that creates the bound course.
func (m Model) createCourse() tea.Cmd {
	b := m.backend
	course := api.NewAdminCourse{
		Name:          m.fb.courseName,
		Description:   m.fb.description,
		Duration:      m.fb.duration,
		Fees:          m.fb.fees,
		Requirements:  splitRequirements(m.fb.requirements),
		InstitutionID: m.fb.institutionID,
		Faculty:       m.fb.faculty,
	}
	return func() tea.Msg {
		return actionResultMsg{err: b.CreateAdminCourse(context.Background(), course)}
	}
}

// setStatus returns a command that updates an account status.
func (m Model) setStatus(entity, id, status string) tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		return actionResultMsg{err: b.SetAccountStatus(context.Background(), entity, id, status)}
	}
}

// deleteEntity returns a command that removes an entity.
func (m Model) deleteEntity(entity, id string) tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		return actionResultMsg{err: b.DeleteAdminEntity(context.Background(), entity, id)}
	}
}

// splitRequirements turns comma-separated input into a trimmed slice.
func splitRequirements(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// actionErrorText maps dashboard action failures to a user-facing message.
func actionErrorText(err error) string {
	if api.IsTransportError(err) {
		return "Cannot reach the server. Nothing was changed."
	}
	return "Action failed: " + api.Reason(err)
}

func validateRequired(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
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

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.instList.SetSize(width, height-3)
	m.compList.SetSize(width, height-3)
	m.courseList.SetSize(width, height-3)
}
