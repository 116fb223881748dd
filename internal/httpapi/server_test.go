package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/charmbracelet/log"

	"taskflow/internal/model"
	"taskflow/internal/service"
	"taskflow/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	mem := store.NewMemoryStore()
	logger := log.New(os.Stderr)
	logger.SetLevel(log.ErrorLevel)
	return NewServer(
		service.NewTaskService(mem.Tasks()),
		service.NewCategoryService(mem.Categories()),
		service.NewRecurringService(mem.Tasks()),
		logger,
	)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %s: %v", rec.Body.String(), err)
	}
	return out
}

func TestTaskCRUD(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/tasks", map[string]any{
		"title":    "Write docs",
		"priority": "high",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", rec.Code, rec.Body.String())
	}
	created := decode[model.Task](t, rec)
	if created.ID == 0 || created.Priority != model.PriorityHigh {
		t.Fatalf("unexpected task: %+v", created)
	}

	rec = doJSON(t, srv, http.MethodPatch, fmt.Sprintf("/api/tasks/%d", created.ID), map[string]any{
		"completed": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: status %d, body %s", rec.Code, rec.Body.String())
	}
	updated := decode[model.Task](t, rec)
	if !updated.Completed || updated.CompletedAt == nil {
		t.Errorf("completing via API must set completedAt: %+v", updated)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/tasks?status=completed", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	tasks := decode[[]model.Task](t, rec)
	if len(tasks) != 1 || tasks[0].ID != created.ID {
		t.Errorf("completed filter: got %+v", tasks)
	}

	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", created.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete twice: status %d, want 404", rec.Code)
	}
}

func TestCreateTaskRejectsMissingTitle(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/tasks", map[string]any{"description": "no title"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rec.Code)
	}
}

func TestBulkEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var ids []uint
	for _, title := range []string{"a", "b", "c"} {
		rec := doJSON(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": title})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create: status %d", rec.Code)
		}
		ids = append(ids, decode[model.Task](t, rec).ID)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/tasks/bulk-update", map[string]any{
		"ids":   ids[:2],
		"patch": map[string]any{"completed": true},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk update: status %d, body %s", rec.Code, rec.Body.String())
	}
	updated := decode[[]model.Task](t, rec)
	if len(updated) != 2 {
		t.Fatalf("bulk update: got %d tasks, want 2", len(updated))
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/tasks/bulk-delete", map[string]any{"ids": ids})
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk delete: status %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/tasks", nil)
	if remaining := decode[[]model.Task](t, rec); len(remaining) != 0 {
		t.Errorf("bulk delete left %d tasks", len(remaining))
	}
}

func TestRecurringEndpoints(t *testing.T) {
	srv := newTestServer(t)

	pattern := map[string]any{
		"type":     "weekly",
		"interval": 1,
		"weekdays": []string{"mon", "wed"},
		"end":      map[string]any{"kind": "occurrences", "count": 4},
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/recurring/preview", map[string]any{
		"anchorDate": "2024-01-01T00:00:00Z",
		"pattern":    pattern,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("preview: status %d, body %s", rec.Code, rec.Body.String())
	}
	preview := decode[service.PreviewResult](t, rec)
	if preview.Total != 4 || len(preview.Dates) != 4 {
		t.Fatalf("preview: got %+v", preview)
	}
	if preview.Summary != "Weekly on Mon, Wed for 4 occurrences" {
		t.Errorf("summary: got %q", preview.Summary)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/recurring", map[string]any{
		"task": map[string]any{
			"title":   "Standup",
			"dueDate": "2024-01-01T00:00:00Z",
		},
		"pattern": pattern,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create recurring: status %d, body %s", rec.Code, rec.Body.String())
	}
	var result struct {
		Master    model.Task   `json:"master"`
		Instances []model.Task `json:"instances"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Master.IsRecurring || len(result.Instances) != 4 {
		t.Fatalf("unexpected result: master %+v, %d instances", result.Master, len(result.Instances))
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/tasks/recurring", nil)
	if masters := decode[[]model.Task](t, rec); len(masters) != 1 {
		t.Errorf("recurring list: got %d, want 1", len(masters))
	}

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/tasks/%d/instances", result.Master.ID), nil)
	if instances := decode[[]model.Task](t, rec); len(instances) != 4 {
		t.Errorf("instances list: got %d, want 4", len(instances))
	}
}

func TestRecurringValidationError(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/recurring", map[string]any{
		"task": map[string]any{
			"title":   "No anchor",
			"dueDate": nil,
		},
		"pattern": map[string]any{
			"type":     "daily",
			"interval": 1,
			"end":      map[string]any{"kind": "never"},
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400, body %s", rec.Code, rec.Body.String())
	}
}

func TestCategoryEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/categories", map[string]any{"name": "Work", "color": "#FF6B6B"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category: status %d, body %s", rec.Code, rec.Body.String())
	}
	created := decode[model.Category](t, rec)

	rec = doJSON(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": "task", "categoryId": created.ID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: status %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/categories", nil)
	categories := decode[[]model.Category](t, rec)
	if len(categories) != 1 || categories[0].TaskCount != 1 {
		t.Errorf("categories: got %+v", categories)
	}

	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/categories/%d", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("delete category: status %d", rec.Code)
	}
}

func TestNotFoundTask(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/tasks/12345", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rec.Code)
	}
}
