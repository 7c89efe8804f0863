package service

import (
	"context"
	"strings"

	"github.com/ideahub/api/internal/model"
	"github.com/ideahub/api/internal/search"
)

// IdeaRepository defines the interface for idea storage
type IdeaRepository interface {
	Create(ctx context.Context, idea *model.Idea) error
	GetByID(ctx context.Context, id string) (*model.Idea, error)
	List(ctx context.Context, filter model.IdeaFilter) (*model.IdeaPage, error)
}

// IdeaSearcher is the full-text search backend for ideas
type IdeaSearcher interface {
	Search(ctx context.Context, q search.Query) (*model.IdeaPage, error)
	IndexIdea(idea *model.Idea)
}

// IdeaService handles idea listing, creation and lookup
type IdeaService struct {
	repo     IdeaRepository
	searcher IdeaSearcher
}

// IdeaServiceConfig holds configuration for the idea service
type IdeaServiceConfig struct {
	Repo IdeaRepository
	// Searcher is optional; without it search uses the store listing
	Searcher IdeaSearcher
}

// NewIdeaService creates a new idea service
func NewIdeaService(cfg IdeaServiceConfig) *IdeaService {
	return &IdeaService{
		repo:     cfg.Repo,
		searcher: cfg.Searcher,
	}
}

// List returns the ideas visible to filter.ViewerID. A request for private
// or draft ideas needs a caller and is narrowed to the caller's own ideas.
func (s *IdeaService) List(ctx context.Context, filter model.IdeaFilter) (*model.IdeaPage, error) {
	if filter.WantsNonPublic() {
		if filter.ViewerID == "" {
			return nil, ErrUnauthorized
		}
		filter.AuthorID = filter.ViewerID
	}
	filter.Sort = model.ParseSortKey(string(filter.Sort))

	return s.repo.List(ctx, filter)
}

// PublicListRequest is the query of the public ideas-list function
type PublicListRequest struct {
	Category string
	Language string
	Query    string
	Sort     string
	Page     model.PageRequest
}

// ListPublic returns a page of public published ideas. The caller's
// identity plays no part.
func (s *IdeaService) ListPublic(ctx context.Context, req PublicListRequest) (*model.IdeaPage, error) {
	page := req.Page
	return s.repo.List(ctx, model.IdeaFilter{
		Category:   req.Category,
		Language:   req.Language,
		Search:     req.Query,
		Sort:       model.ParseSortKey(req.Sort),
		Visibility: model.VisibilityPublic,
		Status:     model.IdeaStatusPublished,
		Page:       &page,
	})
}

// Create stores a new idea authored by authorID and queues it for indexing
func (s *IdeaService) Create(ctx context.Context, authorID string, req model.CreateIdeaRequest) (*model.Idea, error) {
	if authorID == "" {
		return nil, ErrUnauthorized
	}

	req.ApplyDefaults()
	if req.Title == "" {
		return nil, ErrIdeaTitleRequired
	}

	idea := &model.Idea{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Language:    strings.TrimSpace(req.Language),
		Tags:        req.Tags,
		Visibility:  req.Visibility,
		Status:      req.Status,
		AuthorID:    authorID,
	}

	if err := s.repo.Create(ctx, idea); err != nil {
		return nil, err
	}

	if s.searcher != nil && idea.IsPublic() {
		s.searcher.IndexIdea(idea)
	}
	return idea, nil
}

// Get returns an idea the viewer may read. Private and draft ideas of
// other authors are reported as missing.
func (s *IdeaService) Get(ctx context.Context, id, viewerID string) (*model.Idea, error) {
	idea, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if idea == nil || !idea.VisibleTo(viewerID) {
		return nil, ErrIdeaNotFound
	}
	return idea, nil
}

// Search runs a full-text search over public published ideas
func (s *IdeaService) Search(ctx context.Context, text string, page model.PageRequest) (*model.IdeaPage, error) {
	text = strings.TrimSpace(text)
	if s.searcher != nil {
		return s.searcher.Search(ctx, search.Query{Text: text, Page: page})
	}
	return s.repo.List(ctx, model.IdeaFilter{Search: text, Page: &page})
}

// loadIdea fetches an idea regardless of visibility
func loadIdea(ctx context.Context, repo IdeaRepository, id string) (*model.Idea, error) {
	idea, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if idea == nil {
		return nil, ErrIdeaNotFound
	}
	return idea, nil
}
