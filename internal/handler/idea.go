package handler

import (
	"context"
	"net/http"

	"github.com/ideahub/api/internal/model"
	"github.com/ideahub/api/internal/service"
)

// IdeaService is the idea API used by IdeaHandler
type IdeaService interface {
	List(ctx context.Context, filter model.IdeaFilter) (*model.IdeaPage, error)
	ListPublic(ctx context.Context, req service.PublicListRequest) (*model.IdeaPage, error)
	Create(ctx context.Context, authorID string, req model.CreateIdeaRequest) (*model.Idea, error)
	Get(ctx context.Context, id, viewerID string) (*model.Idea, error)
	Search(ctx context.Context, text string, page model.PageRequest) (*model.IdeaPage, error)
}

// IdeaHandler handles /api/ideas and the ideas-list function
type IdeaHandler struct {
	ideas IdeaService
}

// NewIdeaHandler creates a new idea handler
func NewIdeaHandler(ideas IdeaService) *IdeaHandler {
	return &IdeaHandler{ideas: ideas}
}

// List handles GET /api/ideas
func (h *IdeaHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := ideaFilterFromQuery(r)
	if err != nil {
		fail(w, r, routes, err, "list ideas")
		return
	}

	page, err := h.ideas.List(r.Context(), filter)
	if err != nil {
		fail(w, r, routes, err, "list ideas")
		return
	}

	routes.Success(w, Page(page.Ideas, page.Pagination))
}

func ideaFilterFromQuery(r *http.Request) (model.IdeaFilter, error) {
	page, err := optionalPageParams(r)
	if err != nil {
		return model.IdeaFilter{}, err
	}

	filter := model.IdeaFilter{
		Category:   query(r, "category"),
		Language:   query(r, "language"),
		Search:     query(r, "search"),
		Tags:       model.ParseTags(query(r, "tags")),
		Visibility: model.Visibility(query(r, "visibility")),
		Status:     model.IdeaStatus(query(r, "status")),
		AuthorID:   query(r, "authorId"),
		ViewerID:   callerID(r),
		Sort:       model.SortKey(query(r, "sortBy")),
		Page:       page,
	}

	var fields []model.FieldError
	if filter.Visibility != "" && !filter.Visibility.IsValid() {
		fields = append(fields, model.FieldError{Field: "visibility", Message: "visibility must be PUBLIC or PRIVATE"})
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		fields = append(fields, model.FieldError{Field: "status", Message: "status must be PUBLISHED or DRAFT"})
	}
	if len(fields) > 0 {
		return filter, &ValidationError{Fields: fields}
	}
	return filter, nil
}

// Create handles POST /api/ideas
func (h *IdeaHandler) Create(w http.ResponseWriter, r *http.Request) {
	authorID := callerID(r)
	if authorID == "" {
		fail(w, r, routes, service.ErrUnauthorized, "create idea")
		return
	}

	var req model.CreateIdeaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, routes, err, "create idea")
		return
	}
	if err := validateRequest(&req); err != nil {
		fail(w, r, routes, err, "create idea")
		return
	}

	idea, err := h.ideas.Create(r.Context(), authorID, req)
	if err != nil {
		fail(w, r, routes, err, "create idea")
		return
	}

	routes.Success(w, Created(idea))
}

// Get handles GET /api/ideas/{id}
func (h *IdeaHandler) Get(w http.ResponseWriter, r *http.Request) {
	idea, err := h.ideas.Get(r.Context(), r.PathValue("id"), callerID(r))
	if err != nil {
		fail(w, r, routes, err, "get idea")
		return
	}
	routes.Success(w, OK(idea))
}

// Search handles GET /api/ideas/search
func (h *IdeaHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		fail(w, r, routes, err, "search ideas")
		return
	}

	result, err := h.ideas.Search(r.Context(), query(r, "q"), page)
	if err != nil {
		fail(w, r, routes, err, "search ideas")
		return
	}

	routes.Success(w, Page(result.Ideas, result.Pagination))
}

// ListPublic handles the ideas-list function
func (h *IdeaHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, functions, http.MethodGet) {
		return
	}

	page, err := pageParams(r)
	if err != nil {
		fail(w, r, functions, err, "ideas-list")
		return
	}

	result, err := h.ideas.ListPublic(r.Context(), service.PublicListRequest{
		Category: query(r, "category"),
		Language: query(r, "language"),
		Query:    query(r, "query"),
		Sort:     query(r, "sort"),
		Page:     page,
	})
	if err != nil {
		fail(w, r, functions, err, "ideas-list")
		return
	}

	functions.Success(w, Page(result.Ideas, result.Pagination))
}
