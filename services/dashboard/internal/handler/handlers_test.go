package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zeromicro/go-zero/rest/pathvar"

	"github.com/flowlytics/flowlytics/internal/clix"
	"github.com/flowlytics/flowlytics/internal/ports"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/config"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/svc"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/types"
)

func newHandlerSvc(t *testing.T) *svc.ServiceContext {
	t.Helper()
	t.Setenv("CLICKHOUSE_DSN", "")
	c := config.Config{}
	c.Database.DSN = ":memory:"
	c.Flows.DefaultRangeDays = 30
	s := svc.NewServiceContext(c)
	if s.Projects() == nil {
		t.Fatal("projects repo not initialized")
	}
	return s
}

func seedProject(t *testing.T, s *svc.ServiceContext, name string) string {
	t.Helper()
	p := &ports.Project{Name: name}
	if err := s.Projects().Create(context.Background(), p); err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p.ID
}

// cannedStore answers every query with the same rows; enough for handler
// tests, which only care about status codes and response shape.
type cannedStore struct {
	rows []clix.Row
}

func (c *cannedStore) Query(context.Context, string, ...any) ([]clix.Row, error) {
	return c.rows, nil
}

func TestHealthzHandler(t *testing.T) {
	s := newHandlerSvc(t)
	w := httptest.NewRecorder()
	HealthzHandler(s)(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", w.Code, w.Body.String())
	}
}

func TestFlowRegistrationHandlerWithoutEventStore(t *testing.T) {
	s := newHandlerSvc(t)
	id := seedProject(t, s, "checkout")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/flows/registration?project_id="+id, nil)
	FlowRegistrationHandler(s)(w, r)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503; body %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["message"] == "" {
		t.Fatal("error body missing message")
	}
}

func TestFlowRegistrationHandlerUnknownProject(t *testing.T) {
	s := newHandlerSvc(t)
	s.SetEvents(&cannedStore{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/flows/registration?project_id=missing", nil)
	FlowRegistrationHandler(s)(w, r)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestFlowRegistrationHandlerBadRange(t *testing.T) {
	s := newHandlerSvc(t)
	id := seedProject(t, s, "checkout")
	s.SetEvents(&cannedStore{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/flows/registration?project_id="+id+"&from=2026-07-31&to=2026-07-01", nil)
	FlowRegistrationHandler(s)(w, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestFlowRegistrationHandlerOK(t *testing.T) {
	s := newHandlerSvc(t)
	id := seedProject(t, s, "checkout")
	s.SetEvents(&cannedStore{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/flows/registration?project_id="+id+"&from=2026-07-01&to=2026-07-31", nil)
	FlowRegistrationHandler(s)(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp types.RegistrationFlowResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalUsers != 0 || resp.ConversionRate != 0 || resp.DropOffRate != 0 {
		t.Fatalf("empty store should yield zero metrics: %+v", resp)
	}
	if resp.TopEvents == nil {
		t.Fatal("topEvents must encode as [], not null")
	}
}

func TestFlowFunnelHandlerOK(t *testing.T) {
	s := newHandlerSvc(t)
	id := seedProject(t, s, "checkout")
	s.SetEvents(&cannedStore{rows: []clix.Row{{"users": uint64(10)}}})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/flows/registration/funnel?project_id="+id, nil)
	FlowFunnelHandler(s)(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp types.FunnelResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Steps) != 6 {
		t.Fatalf("steps = %d, want 6", len(resp.Steps))
	}
}

func TestProjectHandlersEndToEnd(t *testing.T) {
	s := newHandlerSvc(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/projects",
		strings.NewReader(`{"name":"checkout","timezone":"Europe/Stockholm"}`))
	r.Header.Set("Content-Type", "application/json")
	ProjectCreateHandler(s)(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var created types.ProjectResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.Id == "" || created.Name != "checkout" || created.Timezone != "Europe/Stockholm" {
		t.Fatalf("created = %+v", created)
	}

	w = httptest.NewRecorder()
	ProjectsListHandler(s)(w, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list types.ProjectListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Projects) != 1 || list.Projects[0].Id != created.Id {
		t.Fatalf("list = %+v", list)
	}

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/api/v1/projects/"+created.Id, nil)
	r = pathvar.WithVars(r, map[string]string{"id": created.Id})
	ProjectDetailHandler(s)(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("detail status = %d, body %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/api/v1/projects/nope", nil)
	r = pathvar.WithVars(r, map[string]string{"id": "nope"})
	ProjectDetailHandler(s)(w, r)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing project status = %d", w.Code)
	}
}

func TestProjectCreateHandlerRejectsEmptyName(t *testing.T) {
	s := newHandlerSvc(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/projects", strings.NewReader(`{"name":"  "}`))
	r.Header.Set("Content-Type", "application/json")
	ProjectCreateHandler(s)(w, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
