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
// Mock CommentService
// ============================================================================

type mockCommentService struct {
	listTreeFunc func(ctx context.Context, ideaID, viewerID string) ([]*model.Comment, error)
	createFunc   func(ctx context.Context, ideaID, authorID string, req model.CreateCommentRequest) (*model.Comment, error)
	updateFunc   func(ctx context.Context, id, callerID string, req model.UpdateCommentRequest) (*model.Comment, error)
	deleteFunc   func(ctx context.Context, id, callerID string) (int, error)
	voteFunc     func(ctx context.Context, id, callerID string, delta int) (*model.Comment, error)

	calls int
}

func (m *mockCommentService) ListTree(ctx context.Context, ideaID, viewerID string) ([]*model.Comment, error) {
	m.calls++
	if m.listTreeFunc != nil {
		return m.listTreeFunc(ctx, ideaID, viewerID)
	}
	return []*model.Comment{}, nil
}

func (m *mockCommentService) Create(ctx context.Context, ideaID, authorID string, req model.CreateCommentRequest) (*model.Comment, error) {
	m.calls++
	if m.createFunc != nil {
		return m.createFunc(ctx, ideaID, authorID, req)
	}
	return nil, nil
}

func (m *mockCommentService) Update(ctx context.Context, id, callerID string, req model.UpdateCommentRequest) (*model.Comment, error) {
	m.calls++
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, callerID, req)
	}
	return nil, nil
}

func (m *mockCommentService) Delete(ctx context.Context, id, callerID string) (int, error) {
	m.calls++
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, callerID)
	}
	return 0, nil
}

func (m *mockCommentService) Vote(ctx context.Context, id, callerID string, delta int) (*model.Comment, error) {
	m.calls++
	if m.voteFunc != nil {
		return m.voteFunc(ctx, id, callerID, delta)
	}
	return nil, nil
}

func newTestComment(id, ideaID, authorID string) *model.Comment {
	now := time.Now()
	return &model.Comment{
		ID:        id,
		Content:   "Have you looked at Yjs?",
		AuthorID:  authorID,
		IdeaID:    ideaID,
		Replies:   []*model.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ============================================================================
// Tests
// ============================================================================

func TestCommentList_ReturnsTree(t *testing.T) {
	t.Parallel()

	mock := &mockCommentService{
		listTreeFunc: func(ctx context.Context, ideaID, viewerID string) ([]*model.Comment, error) {
			root := newTestComment("comment:1", ideaID, "user:alice")
			root.Replies = []*model.Comment{newTestComment("comment:2", ideaID, "user:bob")}
			return []*model.Comment{root}, nil
		},
	}

	rr := httptest.NewRecorder()
	req := withPath(httptest.NewRequest(http.MethodGet, "/api/ideas/idea:1/comments", nil), "id", "idea:1")
	NewCommentHandler(mock).List(rr, req)

	assertStatus(t, rr, http.StatusOK)
	data := decodeBody(t, rr)["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected one top-level comment, got %d", len(data))
	}
	replies := data[0].(map[string]interface{})["replies"].([]interface{})
	if len(replies) != 1 {
		t.Errorf("expected one reply, got %d", len(replies))
	}
}

func TestCommentList_UnknownIdea(t *testing.T) {
	t.Parallel()

	mock := &mockCommentService{
		listTreeFunc: func(ctx context.Context, ideaID, viewerID string) ([]*model.Comment, error) {
			return nil, service.ErrIdeaNotFound
		},
	}

	rr := httptest.NewRecorder()
	NewCommentHandler(mock).List(rr, withPath(httptest.NewRequest(http.MethodGet, "/", nil), "id", "idea:404"))

	assertRouteFailure(t, rr, http.StatusNotFound)
}

func TestCommentCreate(t *testing.T) {
	t.Parallel()

	var gotIdea, gotAuthor, gotParent string
	mock := &mockCommentService{
		createFunc: func(ctx context.Context, ideaID, authorID string, req model.CreateCommentRequest) (*model.Comment, error) {
			gotIdea, gotAuthor, gotParent = ideaID, authorID, req.ParentID
			return newTestComment("comment:9", ideaID, authorID), nil
		},
	}

	rr := httptest.NewRecorder()
	req := makeJSONRequest(http.MethodPost, "/api/ideas/idea:1/comments", model.CreateCommentRequest{Content: "+1", ParentID: "comment:1"})
	NewCommentHandler(mock).Create(rr, withCaller(withPath(req, "id", "idea:1"), "user:bob"))

	assertStatus(t, rr, http.StatusCreated)
	if gotIdea != "idea:1" || gotAuthor != "user:bob" || gotParent != "comment:1" {
		t.Errorf("unexpected args %q %q %q", gotIdea, gotAuthor, gotParent)
	}
}

func TestCommentCreate_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		caller string
		body   string
		status int
	}{
		{"no caller", "", `{"content":"hi"}`, http.StatusUnauthorized},
		{"empty content", "user:bob", `{"content":""}`, http.StatusBadRequest},
		{"malformed", "user:bob", `{"content":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock := &mockCommentService{}
			req := withPath(makeRawRequest(http.MethodPost, "/", tt.body), "id", "idea:1")
			if tt.caller != "" {
				req = withCaller(req, tt.caller)
			}
			rr := httptest.NewRecorder()
			NewCommentHandler(mock).Create(rr, req)

			assertRouteFailure(t, rr, tt.status)
			if mock.calls != 0 {
				t.Error("service must not be called")
			}
		})
	}
}

func TestCommentUpdate_NotAuthor(t *testing.T) {
	t.Parallel()

	mock := &mockCommentService{
		updateFunc: func(ctx context.Context, id, callerID string, req model.UpdateCommentRequest) (*model.Comment, error) {
			return nil, service.ErrNotCommentAuthor
		},
	}

	rr := httptest.NewRecorder()
	req := withPath(makeRawRequest(http.MethodPatch, "/", `{"content":"edited"}`), "id", "comment:1")
	NewCommentHandler(mock).Update(rr, withCaller(req, "user:mallory"))

	assertRouteFailure(t, rr, http.StatusForbidden)
}

func TestCommentDelete_ReportsCount(t *testing.T) {
	t.Parallel()

	mock := &mockCommentService{
		deleteFunc: func(ctx context.Context, id, callerID string) (int, error) {
			return 3, nil
		},
	}

	rr := httptest.NewRecorder()
	req := withPath(httptest.NewRequest(http.MethodDelete, "/", nil), "id", "comment:1")
	NewCommentHandler(mock).Delete(rr, withCaller(req, "user:alice"))

	assertStatus(t, rr, http.StatusOK)
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	if data["deleted"] != float64(3) {
		t.Errorf("expected deleted=3, got %v", data["deleted"])
	}
}

func TestCommentVote(t *testing.T) {
	t.Parallel()

	var gotDelta int
	mock := &mockCommentService{
		voteFunc: func(ctx context.Context, id, callerID string, delta int) (*model.Comment, error) {
			gotDelta = delta
			c := newTestComment(id, "idea:1", "user:alice")
			c.Votes = delta
			return c, nil
		},
	}
	h := NewCommentHandler(mock)

	rr := httptest.NewRecorder()
	req := withPath(makeRawRequest(http.MethodPost, "/", `{"delta":-1}`), "id", "comment:1")
	h.Vote(rr, withCaller(req, "user:bob"))

	assertStatus(t, rr, http.StatusOK)
	if gotDelta != -1 {
		t.Errorf("expected delta -1, got %d", gotDelta)
	}

	rr = httptest.NewRecorder()
	req = withPath(makeRawRequest(http.MethodPost, "/", `{"delta":0}`), "id", "comment:1")
	h.Vote(rr, withCaller(req, "user:bob"))
	assertStatus(t, rr, http.StatusOK)
	if gotDelta != 0 {
		t.Errorf("expected delta 0, got %d", gotDelta)
	}

	rr = httptest.NewRecorder()
	req = withPath(makeRawRequest(http.MethodPost, "/", `{}`), "id", "comment:1")
	h.Vote(rr, withCaller(req, "user:bob"))
	assertRouteFailure(t, rr, http.StatusBadRequest)

	rr = httptest.NewRecorder()
	h.Vote(rr, withPath(makeRawRequest(http.MethodPost, "/", `{"delta":1}`), "id", "comment:1"))
	assertRouteFailure(t, rr, http.StatusUnauthorized)
}
