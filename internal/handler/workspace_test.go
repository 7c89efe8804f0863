package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ideahub/api/internal/model"
	"github.com/ideahub/api/internal/service"
)

type mockWorkspaceService struct {
	createFunc func(ctx context.Context, req model.CreateWorkspaceRequest) (*model.Workspace, error)
	getFunc    func(ctx context.Context, id string) (*model.Workspace, error)
	listFunc   func(ctx context.Context, userID string) ([]*model.Workspace, error)
	updateFunc func(ctx context.Context, id string, req model.UpdateWorkspaceRequest) (*model.Workspace, error)
	deleteFunc func(ctx context.Context, id string) error

	calls int
}

func (m *mockWorkspaceService) Create(ctx context.Context, req model.CreateWorkspaceRequest) (*model.Workspace, error) {
	m.calls++
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockWorkspaceService) Get(ctx context.Context, id string) (*model.Workspace, error) {
	m.calls++
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockWorkspaceService) List(ctx context.Context, userID string) ([]*model.Workspace, error) {
	m.calls++
	if m.listFunc != nil {
		return m.listFunc(ctx, userID)
	}
	return []*model.Workspace{}, nil
}

func (m *mockWorkspaceService) Update(ctx context.Context, id string, req model.UpdateWorkspaceRequest) (*model.Workspace, error) {
	m.calls++
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *mockWorkspaceService) Delete(ctx context.Context, id string) error {
	m.calls++
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func newTestWorkspace(id string) *model.Workspace {
	now := time.Now()
	return &model.Workspace{
		ID:         id,
		Name:       model.DefaultWorkspaceName,
		Document:   map[string]interface{}{},
		Whiteboard: map[string]interface{}{"elements": []interface{}{}, "appState": map[string]interface{}{}},
		IdeaID:     "idea:1",
		UserID:     "user:alice",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestWorkspaceCreate_RequiresIdeaAndUser(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"userId":"user:alice"}`, `{"ideaId":"idea:1"}`, `{}`} {
		t.Run(body, func(t *testing.T) {
			t.Parallel()
			mock := &mockWorkspaceService{}
			rr := httptest.NewRecorder()
			NewWorkspaceHandler(mock).Create(rr, makeRawRequest(http.MethodPost, "/api/workspace", body))

			assertRouteFailure(t, rr, http.StatusBadRequest)
			if mock.calls != 0 {
				t.Error("service must not be called")
			}
		})
	}
}

func TestWorkspaceCreate(t *testing.T) {
	t.Parallel()

	mock := &mockWorkspaceService{
		createFunc: func(ctx context.Context, req model.CreateWorkspaceRequest) (*model.Workspace, error) {
			return newTestWorkspace("workspace:1"), nil
		},
	}

	rr := httptest.NewRecorder()
	NewWorkspaceHandler(mock).Create(rr, makeRawRequest(http.MethodPost, "/api/workspace", `{"ideaId":"idea:1","userId":"user:alice"}`))

	// workspace creation answers 200, unlike the other create endpoints
	assertStatus(t, rr, http.StatusOK)
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	if data["name"] != "Untitled" {
		t.Errorf("expected default name, got %v", data["name"])
	}
	wb := data["whiteboard"].(map[string]interface{})
	if _, ok := wb["elements"]; !ok {
		t.Errorf("expected whiteboard elements, got %v", wb)
	}
}

func TestWorkspaceList_FiltersByUser(t *testing.T) {
	t.Parallel()

	var got string
	mock := &mockWorkspaceService{
		listFunc: func(ctx context.Context, userID string) ([]*model.Workspace, error) {
			got = userID
			return []*model.Workspace{newTestWorkspace("workspace:1")}, nil
		},
	}

	rr := httptest.NewRecorder()
	NewWorkspaceHandler(mock).List(rr, httptest.NewRequest(http.MethodGet, "/api/workspace?userId=user:alice", nil))

	assertStatus(t, rr, http.StatusOK)
	if got != "user:alice" {
		t.Errorf("expected user filter, got %q", got)
	}
}

func TestWorkspaceGet_NotFound(t *testing.T) {
	t.Parallel()

	mock := &mockWorkspaceService{
		getFunc: func(ctx context.Context, id string) (*model.Workspace, error) {
			return nil, service.ErrWorkspaceNotFound
		},
	}

	rr := httptest.NewRecorder()
	NewWorkspaceHandler(mock).Get(rr, withPath(httptest.NewRequest(http.MethodGet, "/", nil), "id", "workspace:404"))

	assertRouteFailure(t, rr, http.StatusNotFound)
}

func TestWorkspaceUpdate_PartialPatch(t *testing.T) {
	t.Parallel()

	var got model.UpdateWorkspaceRequest
	mock := &mockWorkspaceService{
		updateFunc: func(ctx context.Context, id string, req model.UpdateWorkspaceRequest) (*model.Workspace, error) {
			got = req
			return newTestWorkspace(id), nil
		},
	}

	rr := httptest.NewRecorder()
	req := withPath(makeRawRequest(http.MethodPatch, "/", `{"archived":true,"document":{"blocks":[1]}}`), "id", "workspace:1")
	NewWorkspaceHandler(mock).Update(rr, req)

	assertStatus(t, rr, http.StatusOK)
	if got.Archived == nil || !*got.Archived {
		t.Error("expected archived=true")
	}
	if got.Name != nil || got.Whiteboard != nil {
		t.Error("absent fields must stay nil")
	}
	if got.Document == nil {
		t.Fatal("expected document")
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(*got.Document, &doc); err != nil || doc["blocks"] == nil {
		t.Errorf("unexpected document %s", string(*got.Document))
	}
}

func TestWorkspaceDelete(t *testing.T) {
	t.Parallel()

	mock := &mockWorkspaceService{
		deleteFunc: func(ctx context.Context, id string) error {
			if id == "workspace:404" {
				return service.ErrWorkspaceNotFound
			}
			return nil
		},
	}
	h := NewWorkspaceHandler(mock)

	rr := httptest.NewRecorder()
	h.Delete(rr, withPath(httptest.NewRequest(http.MethodDelete, "/", nil), "id", "workspace:1"))
	assertStatus(t, rr, http.StatusOK)
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	if data["status"] != "deleted" {
		t.Errorf("expected status deleted, got %v", data)
	}

	rr = httptest.NewRecorder()
	h.Delete(rr, withPath(httptest.NewRequest(http.MethodDelete, "/", nil), "id", "workspace:404"))
	assertRouteFailure(t, rr, http.StatusNotFound)
}
