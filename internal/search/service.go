package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/ideahub/api/internal/model"
)

const indexTimeout = 10 * time.Second

// IdeaStore is the store fallback and hydration source
type IdeaStore interface {
	List(ctx context.Context, filter model.IdeaFilter) (*model.IdeaPage, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Idea, error)
}

// Service tries the index first and falls back to the store
type Service struct {
	index Index
	store IdeaStore
}

// NewService creates a search service. index may be nil when no search
// engine is configured.
func NewService(index Index, store IdeaStore) *Service {
	return &Service{index: index, store: store}
}

// Search returns a page of public published ideas matching q.Text
func (s *Service) Search(ctx context.Context, q Query) (*model.IdeaPage, error) {
	if s.index != nil && s.index.Healthy() {
		page, err := s.searchIndex(ctx, q)
		if err == nil {
			return page, nil
		}
		slog.Warn("search index failed, falling back to store", "error", err)
	}

	page := q.Page
	return s.store.List(ctx, model.IdeaFilter{Search: q.Text, Page: &page})
}

func (s *Service) searchIndex(ctx context.Context, q Query) (*model.IdeaPage, error) {
	ids, total, err := s.index.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	ideas, err := s.store.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// The index can lag behind visibility changes.
	visible := make([]*model.Idea, 0, len(ideas))
	for _, idea := range ideas {
		if idea.IsPublic() {
			visible = append(visible, idea)
		}
	}

	return &model.IdeaPage{
		Ideas:      visible,
		Pagination: model.NewPagination(q.Page, total),
	}, nil
}

// IndexIdea pushes an idea to the index without blocking the caller
func (s *Service) IndexIdea(idea *model.Idea) {
	if s.index == nil || !s.index.Healthy() {
		return
	}
	record := NewIdeaRecord(idea)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
		defer cancel()
		if err := s.index.IndexIdeas(ctx, []IdeaRecord{record}); err != nil {
			slog.Error("index idea", "idea_id", idea.ID, "error", err)
		}
	}()
}

// Reindex pushes every public published idea to the index and returns how
// many were sent.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, nil
	}

	page, err := s.store.List(ctx, model.IdeaFilter{})
	if err != nil {
		return 0, err
	}

	records := make([]IdeaRecord, 0, len(page.Ideas))
	for _, idea := range page.Ideas {
		records = append(records, NewIdeaRecord(idea))
	}
	if err := s.index.IndexIdeas(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}
