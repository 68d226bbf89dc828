package adminpanel

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/careerconnect/client/internal/api"
	"github.com/careerconnect/client/internal/keys"
)

// fakeBackend records admin calls in memory.
type fakeBackend struct {
	stats        api.AdminStats
	reports      []api.AdminReport
	institutions []api.AdminAccount
	companies    []api.AdminAccount
	courses      []api.AdminCourse

	createdInstitutions []api.NewInstitution
	createdCourses      []api.NewAdminCourse
	statusCalls         []string
	deleteCalls         []string
	actionErr           error
}

func (f *fakeBackend) AdminStats(context.Context) (api.AdminStats, error) {
	return f.stats, nil
}

func (f *fakeBackend) AdminReports(context.Context) ([]api.AdminReport, error) {
	return f.reports, nil
}

func (f *fakeBackend) AdminInstitutions(context.Context) ([]api.AdminAccount, error) {
	return f.institutions, nil
}

func (f *fakeBackend) AdminCompanies(context.Context) ([]api.AdminAccount, error) {
	return f.companies, nil
}

func (f *fakeBackend) AdminCourses(context.Context) ([]api.AdminCourse, error) {
	return f.courses, nil
}

func (f *fakeBackend) CreateInstitution(_ context.Context, inst api.NewInstitution) error {
	if f.actionErr != nil {
		return f.actionErr
	}
	f.createdInstitutions = append(f.createdInstitutions, inst)
	return nil
}

func (f *fakeBackend) CreateAdminCourse(_ context.Context, course api.NewAdminCourse) error {
	if f.actionErr != nil {
		return f.actionErr
	}
	f.createdCourses = append(f.createdCourses, course)
	return nil
}

func (f *fakeBackend) SetAccountStatus(_ context.Context, entity, id, status string) error {
	if f.actionErr != nil {
		return f.actionErr
	}
	f.statusCalls = append(f.statusCalls, entity+"/"+id+"="+status)
	return nil
}

func (f *fakeBackend) DeleteAdminEntity(_ context.Context, entity, id string) error {
	if f.actionErr != nil {
		return f.actionErr
	}
	f.deleteCalls = append(f.deleteCalls, entity+"/"+id)
	return nil
}

func newTestPanel(b *fakeBackend) Model {
	return New(b, keys.DefaultKeyMap(), 100, 30)
}

func loadInstitutions(m Model, accounts []api.AdminAccount) Model {
	m, _ = m.Update(accountsLoadedMsg{entity: api.AdminEntityInstitutions, accounts: accounts})
	return m
}

func tabKey() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyTab} }

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestTabCyclesThroughAllSections(t *testing.T) {
	m := newTestPanel(&fakeBackend{})

	order := []tab{tabInstitutions, tabCompanies, tabCourses, tabActivity, tabOverview}
	for _, want := range order {
		m, _ = m.Update(tabKey())
		if m.tab != want {
			t.Fatalf("expected tab %d, got %d", want, m.tab)
		}
	}
}

func TestLoadedInstitutionsFeedListAndCourseForm(t *testing.T) {
	m := newTestPanel(&fakeBackend{})
	m = loadInstitutions(m, []api.AdminAccount{
		{ID: "i1", InstitutionName: "Limkokwing", Email: "a@lim.ac.ls", Status: api.AccountStatusActive},
		{ID: "i2", InstitutionName: "NUL", Email: "a@nul.ls", Status: api.AccountStatusSuspended},
	})

	if len(m.instList.Items()) != 2 {
		t.Fatalf("expected 2 list items, got %d", len(m.instList.Items()))
	}
	if len(m.institutions) != 2 {
		t.Fatalf("expected institutions retained for the course form, got %d", len(m.institutions))
	}
}

func TestSuspendKeyTogglesInstitutionStatus(t *testing.T) {
	b := &fakeBackend{}
	m := newTestPanel(b)
	m = loadInstitutions(m, []api.AdminAccount{
		{ID: "i1", InstitutionName: "Limkokwing", Status: api.AccountStatusActive},
	})
	m, _ = m.Update(tabKey()) // institutions

	m, cmd := m.Update(runeKey('s'))
	if cmd == nil {
		t.Fatal("expected a status command")
	}
	if !m.inFlight {
		t.Fatal("expected the panel to be in flight")
	}
	if _, ok := cmd().(actionResultMsg); !ok {
		t.Fatal("expected an action result")
	}
	if len(b.statusCalls) != 1 || b.statusCalls[0] != "institutions/i1=suspended" {
		t.Fatalf("unexpected status calls %v", b.statusCalls)
	}
}

func TestSuspendedInstitutionTogglesBackToActive(t *testing.T) {
	b := &fakeBackend{}
	m := newTestPanel(b)
	m = loadInstitutions(m, []api.AdminAccount{
		{ID: "i2", InstitutionName: "NUL", Status: api.AccountStatusSuspended},
	})
	m, _ = m.Update(tabKey())

	_, cmd := m.Update(runeKey('s'))
	if cmd == nil {
		t.Fatal("expected a status command")
	}
	cmd()
	if len(b.statusCalls) != 1 || b.statusCalls[0] != "institutions/i2=active" {
		t.Fatalf("unexpected status calls %v", b.statusCalls)
	}
}

func TestNewInstitutionKeyOpensForm(t *testing.T) {
	m := newTestPanel(&fakeBackend{})
	m, _ = m.Update(tabKey()) // institutions

	m, _ = m.Update(runeKey('n'))
	if !m.FormActive() {
		t.Fatal("expected the institution form to open")
	}
	if m.formKind != formInstitution {
		t.Fatalf("unexpected form kind %d", m.formKind)
	}
}

func TestNewCourseNeedsInstitutions(t *testing.T) {
	m := newTestPanel(&fakeBackend{})
	m, _ = m.Update(tabKey())
	m, _ = m.Update(tabKey())
	m, _ = m.Update(tabKey()) // courses

	m, _ = m.Update(runeKey('n'))
	if m.FormActive() {
		t.Fatal("course form must not open without institutions")
	}
	if m.notice == "" {
		t.Fatal("expected a notice explaining why")
	}
}

func TestSubmitInstitutionFormProvisionsAccount(t *testing.T) {
	b := &fakeBackend{}
	m := newTestPanel(b)

	m.fb.email = "new@uni.ac.ls"
	m.fb.password = "secret123"
	m.fb.institutionName = "National University"
	m, cmd := m.submitForm(formInstitution)
	if cmd == nil {
		t.Fatal("expected a create command")
	}
	if !m.inFlight {
		t.Fatal("expected the panel to be in flight")
	}
	cmd()
	if len(b.createdInstitutions) != 1 {
		t.Fatalf("expected one provisioned institution, got %d", len(b.createdInstitutions))
	}
	if b.createdInstitutions[0].InstitutionName != "National University" {
		t.Fatalf("unexpected payload %+v", b.createdInstitutions[0])
	}
}

func TestSubmitCourseFormSplitsRequirements(t *testing.T) {
	b := &fakeBackend{}
	m := newTestPanel(b)

	m.fb.courseName = "BSc IT"
	m.fb.institutionID = "i1"
	m.fb.requirements = "LGCSE, Maths C or better , "
	_, cmd := m.submitForm(formCourse)
	cmd()

	if len(b.createdCourses) != 1 {
		t.Fatalf("expected one course, got %d", len(b.createdCourses))
	}
	got := b.createdCourses[0].Requirements
	if len(got) != 2 || got[0] != "LGCSE" || got[1] != "Maths C or better" {
		t.Fatalf("unexpected requirements %v", got)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	b := &fakeBackend{}
	m := newTestPanel(b)
	m.pendingEntity = api.AdminEntityCourses
	m.pendingID = "crs1"

	m.fb.confirmDelete = false
	if _, cmd := m.submitForm(formDelete); cmd != nil {
		t.Fatal("declined confirmation must not delete")
	}
	if len(b.deleteCalls) != 0 {
		t.Fatalf("unexpected delete calls %v", b.deleteCalls)
	}

	m.fb.confirmDelete = true
	_, cmd := m.submitForm(formDelete)
	if cmd == nil {
		t.Fatal("expected a delete command")
	}
	cmd()
	if len(b.deleteCalls) != 1 || b.deleteCalls[0] != "courses/crs1" {
		t.Fatalf("unexpected delete calls %v", b.deleteCalls)
	}
}

func TestActionFailureKeepsNoticeAndClearsInFlight(t *testing.T) {
	m := newTestPanel(&fakeBackend{})
	m.inFlight = true

	m, cmd := m.Update(actionResultMsg{err: &api.ServerError{Status: 400, Reason: "duplicate email"}})
	if m.inFlight {
		t.Fatal("expected in-flight flag cleared")
	}
	if m.notice == "" {
		t.Fatal("expected a failure notice")
	}
	if cmd != nil {
		t.Fatal("a failed action must not trigger a reload")
	}
}

func TestActionSuccessReloadsCollections(t *testing.T) {
	m := newTestPanel(&fakeBackend{})
	m.inFlight = true
	m.notice = "stale"

	m, cmd := m.Update(actionResultMsg{})
	if m.inFlight {
		t.Fatal("expected in-flight flag cleared")
	}
	if m.notice != "" {
		t.Fatal("expected the notice cleared")
	}
	if cmd == nil {
		t.Fatal("expected a reload command")
	}
}
