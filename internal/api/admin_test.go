package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAdminListsHitEntityEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/institutions":
			w.Write([]byte(`[{"id":"i1","institutionName":"Limkokwing","email":"admin@lim.ac.ls","status":"active"}]`))
		case "/api/admin/companies":
			w.Write([]byte(`[{"id":"c1","displayName":"Vodacom","email":"hr@vodacom.co.ls","status":"pending"}]`))
		case "/api/admin/courses":
			w.Write([]byte(`[{"id":"crs1","name":"BSc IT","institutionName":"Limkokwing","faculty":"ICT"}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens{token: "tok"})
	ctx := context.Background()

	insts, err := c.AdminInstitutions(ctx)
	if err != nil {
		t.Fatalf("institutions: %v", err)
	}
	if len(insts) != 1 || insts[0].Name() != "Limkokwing" {
		t.Fatalf("unexpected institutions %+v", insts)
	}

	comps, err := c.AdminCompanies(ctx)
	if err != nil {
		t.Fatalf("companies: %v", err)
	}
	if len(comps) != 1 || comps[0].Name() != "Vodacom" {
		t.Fatalf("unexpected companies %+v", comps)
	}
	if comps[0].Status != AccountStatusPending {
		t.Fatalf("unexpected status %q", comps[0].Status)
	}

	courses, err := c.AdminCourses(ctx)
	if err != nil {
		t.Fatalf("courses: %v", err)
	}
	if len(courses) != 1 || courses[0].Name != "BSc IT" {
		t.Fatalf("unexpected courses %+v", courses)
	}
}

func TestCreateInstitutionPostsFullPayload(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens{token: "tok"})
	err := c.CreateInstitution(context.Background(), NewInstitution{
		Email:           "new@uni.ac.ls",
		Password:        "secret123",
		InstitutionName: "National University",
		Phone:           "+266 2234 0000",
		Address:         "Roma",
	})
	if err != nil {
		t.Fatalf("create institution: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/admin/institutions" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotBody["email"] != "new@uni.ac.ls" || gotBody["institutionName"] != "National University" {
		t.Fatalf("unexpected body %+v", gotBody)
	}
	if gotBody["password"] != "secret123" {
		t.Fatal("password missing from provisioning payload")
	}
}

func TestCreateAdminCourseCarriesInstitutionAndRequirements(t *testing.T) {
	var gotPath string
	var gotBody struct {
		Name          string   `json:"name"`
		Requirements  []string `json:"requirements"`
		InstitutionID string   `json:"institutionId"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens{token: "tok"})
	err := c.CreateAdminCourse(context.Background(), NewAdminCourse{
		Name:          "BSc IT",
		Requirements:  []string{"LGCSE", "Maths C or better"},
		InstitutionID: "i1",
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if gotPath != "/api/admin/courses" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotBody.InstitutionID != "i1" || len(gotBody.Requirements) != 2 {
		t.Fatalf("unexpected body %+v", gotBody)
	}
}

func TestSetAccountStatusPutsToStatusPath(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens{token: "tok"})
	err := c.SetAccountStatus(context.Background(), AdminEntityCompanies, "c1", AccountStatusSuspended)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/api/admin/companies/c1/status" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotBody["status"] != "suspended" {
		t.Fatalf("unexpected body %+v", gotBody)
	}
}

func TestDeleteAdminEntityIssuesDelete(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens{token: "tok"})
	if err := c.DeleteAdminEntity(context.Background(), AdminEntityCourses, "crs1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/admin/courses/crs1" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
}

func TestAdminAccountNamePrefersInstitutionName(t *testing.T) {
	a := AdminAccount{DisplayName: "fallback", InstitutionName: "Limkokwing"}
	if a.Name() != "Limkokwing" {
		t.Fatalf("unexpected name %q", a.Name())
	}
	a.InstitutionName = ""
	if a.Name() != "fallback" {
		t.Fatalf("unexpected name %q", a.Name())
	}
}
