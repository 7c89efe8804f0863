package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ideahub/api/internal/model"
	"github.com/ideahub/api/internal/service"
)

// ============================================================================
// Mock IdeaService
// ============================================================================

type mockIdeaService struct {
	listFunc       func(ctx context.Context, filter model.IdeaFilter) (*model.IdeaPage, error)
	listPublicFunc func(ctx context.Context, req service.PublicListRequest) (*model.IdeaPage, error)
	createFunc     func(ctx context.Context, authorID string, req model.CreateIdeaRequest) (*model.Idea, error)
	getFunc        func(ctx context.Context, id, viewerID string) (*model.Idea, error)
	searchFunc     func(ctx context.Context, text string, page model.PageRequest) (*model.IdeaPage, error)

	calls int
}

func (m *mockIdeaService) List(ctx context.Context, filter model.IdeaFilter) (*model.IdeaPage, error) {
	m.calls++
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return &model.IdeaPage{Ideas: []*model.Idea{}}, nil
}

func (m *mockIdeaService) ListPublic(ctx context.Context, req service.PublicListRequest) (*model.IdeaPage, error) {
	m.calls++
	if m.listPublicFunc != nil {
		return m.listPublicFunc(ctx, req)
	}
	return &model.IdeaPage{Ideas: []*model.Idea{}}, nil
}

func (m *mockIdeaService) Create(ctx context.Context, authorID string, req model.CreateIdeaRequest) (*model.Idea, error) {
	m.calls++
	if m.createFunc != nil {
		return m.createFunc(ctx, authorID, req)
	}
	return nil, nil
}

func (m *mockIdeaService) Get(ctx context.Context, id, viewerID string) (*model.Idea, error) {
	m.calls++
	if m.getFunc != nil {
		return m.getFunc(ctx, id, viewerID)
	}
	return nil, nil
}

func (m *mockIdeaService) Search(ctx context.Context, text string, page model.PageRequest) (*model.IdeaPage, error) {
	m.calls++
	if m.searchFunc != nil {
		return m.searchFunc(ctx, text, page)
	}
	return &model.IdeaPage{Ideas: []*model.Idea{}}, nil
}

func newTestIdea(id, authorID string) *model.Idea {
	now := time.Now()
	return &model.Idea{
		ID:         id,
		Title:      "Realtime collaborative editor",
		Tags:       []string{"go", "crdt"},
		Visibility: model.VisibilityPublic,
		Status:     model.IdeaStatusPublished,
		AuthorID:   authorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ============================================================================
// List Tests
// ============================================================================

func TestIdeaList_ParsesFilter(t *testing.T) {
	t.Parallel()

	var got model.IdeaFilter
	mock := &mockIdeaService{
		listFunc: func(ctx context.Context, filter model.IdeaFilter) (*model.IdeaPage, error) {
			got = filter
			return &model.IdeaPage{
				Ideas:      []*model.Idea{newTestIdea("idea:1", "user:alice")},
				Pagination: model.NewPagination(*filter.Page, 1),
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet,
		"/api/ideas?category=web&language=go&search=editor&tags=go,%20crdt&sortBy=most-stars&authorId=user:bob&page=2&limit=5", nil)
	rr := httptest.NewRecorder()
	NewIdeaHandler(mock).List(rr, withCaller(req, "user:alice"))

	assertStatus(t, rr, http.StatusOK)
	if got.Category != "web" || got.Language != "go" || got.Search != "editor" {
		t.Errorf("unexpected filter %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "crdt" {
		t.Errorf("expected tags [go crdt], got %v", got.Tags)
	}
	if got.Sort != model.SortMostStars || got.AuthorID != "user:bob" || got.ViewerID != "user:alice" {
		t.Errorf("unexpected filter %+v", got)
	}
	if got.Page == nil || got.Page.Page != 2 || got.Page.Limit != 5 {
		t.Errorf("expected page 2 limit 5, got %+v", got.Page)
	}

	body := decodeBody(t, rr)
	if _, ok := body["pagination"]; !ok {
		t.Error("expected pagination in a paginated listing")
	}
}

func TestIdeaList_UnpaginatedByDefault(t *testing.T) {
	t.Parallel()

	var got model.IdeaFilter
	mock := &mockIdeaService{
		listFunc: func(ctx context.Context, filter model.IdeaFilter) (*model.IdeaPage, error) {
			got = filter
			return &model.IdeaPage{Ideas: []*model.Idea{}}, nil
		},
	}

	rr := httptest.NewRecorder()
	NewIdeaHandler(mock).List(rr, httptest.NewRequest(http.MethodGet, "/api/ideas", nil))

	assertStatus(t, rr, http.StatusOK)
	if got.Page != nil {
		t.Errorf("expected no page, got %+v", got.Page)
	}
	body := decodeBody(t, rr)
	if data, ok := body["data"].([]interface{}); !ok || len(data) != 0 {
		t.Errorf("expected an empty array, got %v", body["data"])
	}
	if _, ok := body["pagination"]; ok {
		t.Error("unpaginated listing must not carry pagination")
	}
}

func TestIdeaList_InvalidFilters(t *testing.T) {
	t.Parallel()

	for _, q := range []string{"?visibility=SECRET", "?status=ARCHIVED", "?page=zero"} {
		t.Run(q, func(t *testing.T) {
			t.Parallel()
			mock := &mockIdeaService{}
			rr := httptest.NewRecorder()
			NewIdeaHandler(mock).List(rr, httptest.NewRequest(http.MethodGet, "/api/ideas"+q, nil))

			assertRouteFailure(t, rr, http.StatusBadRequest)
			if mock.calls != 0 {
				t.Error("service must not be called")
			}
		})
	}
}

func TestIdeaList_PrivateWithoutCaller(t *testing.T) {
	t.Parallel()

	mock := &mockIdeaService{
		listFunc: func(ctx context.Context, filter model.IdeaFilter) (*model.IdeaPage, error) {
			if filter.WantsNonPublic() && filter.ViewerID == "" {
				return nil, service.ErrUnauthorized
			}
			return &model.IdeaPage{Ideas: []*model.Idea{}}, nil
		},
	}

	rr := httptest.NewRecorder()
	NewIdeaHandler(mock).List(rr, httptest.NewRequest(http.MethodGet, "/api/ideas?visibility=PRIVATE", nil))

	assertRouteFailure(t, rr, http.StatusUnauthorized)
}

// ============================================================================
// Create Tests
// ============================================================================

func TestIdeaCreate_NoCaller_NeverPersists(t *testing.T) {
	t.Parallel()

	mock := &mockIdeaService{}
	rr := httptest.NewRecorder()
	NewIdeaHandler(mock).Create(rr, makeJSONRequest(http.MethodPost, "/api/ideas", model.CreateIdeaRequest{Title: "x"}))

	body := assertRouteFailure(t, rr, http.StatusUnauthorized)
	if body["message"] != "authentication required" {
		t.Errorf("unexpected message %v", body["message"])
	}
	if mock.calls != 0 {
		t.Error("service must not be called without a caller")
	}
}

func TestIdeaCreate_MissingTitle(t *testing.T) {
	t.Parallel()

	mock := &mockIdeaService{}
	rr := httptest.NewRecorder()
	req := makeRawRequest(http.MethodPost, "/api/ideas", `{"description":"no title"}`)
	NewIdeaHandler(mock).Create(rr, withCaller(req, "user:alice"))

	assertRouteFailure(t, rr, http.StatusBadRequest)
	if mock.calls != 0 {
		t.Error("service must not be called for invalid input")
	}
}

func TestIdeaCreate_Success(t *testing.T) {
	t.Parallel()

	var gotAuthor string
	mock := &mockIdeaService{
		createFunc: func(ctx context.Context, authorID string, req model.CreateIdeaRequest) (*model.Idea, error) {
			gotAuthor = authorID
			idea := newTestIdea("idea:new", authorID)
			idea.Title = req.Title
			return idea, nil
		},
	}

	rr := httptest.NewRecorder()
	req := makeJSONRequest(http.MethodPost, "/api/ideas", model.CreateIdeaRequest{Title: "Plant tracker", Tags: []string{"iot"}})
	NewIdeaHandler(mock).Create(rr, withCaller(req, "user:alice"))

	assertStatus(t, rr, http.StatusCreated)
	if gotAuthor != "user:alice" {
		t.Errorf("expected author user:alice, got %q", gotAuthor)
	}
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	if data["title"] != "Plant tracker" {
		t.Errorf("unexpected idea %v", data)
	}
}

// ============================================================================
// Get / Search Tests
// ============================================================================

func TestIdeaGet(t *testing.T) {
	t.Parallel()

	mock := &mockIdeaService{
		getFunc: func(ctx context.Context, id, viewerID string) (*model.Idea, error) {
			if id != "idea:1" {
				return nil, service.ErrIdeaNotFound
			}
			return newTestIdea(id, "user:alice"), nil
		},
	}
	h := NewIdeaHandler(mock)

	rr := httptest.NewRecorder()
	h.Get(rr, withPath(httptest.NewRequest(http.MethodGet, "/api/ideas/idea:1", nil), "id", "idea:1"))
	assertStatus(t, rr, http.StatusOK)

	rr = httptest.NewRecorder()
	h.Get(rr, withPath(httptest.NewRequest(http.MethodGet, "/api/ideas/idea:2", nil), "id", "idea:2"))
	assertRouteFailure(t, rr, http.StatusNotFound)
}

func TestIdeaSearch_PassesQueryAndPage(t *testing.T) {
	t.Parallel()

	var gotText string
	var gotPage model.PageRequest
	mock := &mockIdeaService{
		searchFunc: func(ctx context.Context, text string, page model.PageRequest) (*model.IdeaPage, error) {
			gotText, gotPage = text, page
			return &model.IdeaPage{Ideas: []*model.Idea{}, Pagination: model.NewPagination(page, 0)}, nil
		},
	}

	rr := httptest.NewRecorder()
	NewIdeaHandler(mock).Search(rr, httptest.NewRequest(http.MethodGet, "/api/ideas/search?q=%20garden%20&limit=3", nil))

	assertStatus(t, rr, http.StatusOK)
	if gotText != "garden" {
		t.Errorf("expected trimmed query garden, got %q", gotText)
	}
	if gotPage.Page != 1 || gotPage.Limit != 3 {
		t.Errorf("unexpected page %+v", gotPage)
	}
}

// ============================================================================
// ideas-list Function Tests
// ============================================================================

func TestListPublic_FunctionEnvelope(t *testing.T) {
	t.Parallel()

	var got service.PublicListRequest
	mock := &mockIdeaService{
		listPublicFunc: func(ctx context.Context, req service.PublicListRequest) (*model.IdeaPage, error) {
			got = req
			return &model.IdeaPage{
				Ideas:      []*model.Idea{newTestIdea("idea:1", "user:alice")},
				Pagination: model.NewPagination(req.Page, 1),
			}, nil
		},
	}

	rr := httptest.NewRecorder()
	NewIdeaHandler(mock).ListPublic(rr, httptest.NewRequest(http.MethodGet,
		"/functions/ideas-list?category=web&language=go&query=edit&sort=stars&page=1&limit=2", nil))

	assertStatus(t, rr, http.StatusOK)
	if got.Category != "web" || got.Language != "go" || got.Query != "edit" || got.Sort != "stars" || got.Page.Limit != 2 {
		t.Errorf("unexpected request %+v", got)
	}
	body := decodeBody(t, rr)
	if _, ok := body["success"]; ok {
		t.Error("function envelope must not carry success")
	}
	if _, ok := body["pagination"]; !ok {
		t.Error("expected pagination")
	}
}

func TestListPublic_WrongMethod(t *testing.T) {
	t.Parallel()

	mock := &mockIdeaService{}
	rr := httptest.NewRecorder()
	NewIdeaHandler(mock).ListPublic(rr, httptest.NewRequest(http.MethodPost, "/functions/ideas-list", nil))

	assertFunctionFailure(t, rr, http.StatusMethodNotAllowed)
	if mock.calls != 0 {
		t.Error("service must not be called")
	}
}

func TestListPublic_StoreFailure(t *testing.T) {
	t.Parallel()

	mock := &mockIdeaService{
		listPublicFunc: func(ctx context.Context, req service.PublicListRequest) (*model.IdeaPage, error) {
			return nil, context.DeadlineExceeded
		},
	}

	rr := httptest.NewRecorder()
	NewIdeaHandler(mock).ListPublic(rr, httptest.NewRequest(http.MethodGet, "/functions/ideas-list", nil))

	assertFunctionFailure(t, rr, http.StatusInternalServerError)
}
