package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ideahub/api/internal/model"
)

// CommentRepository defines the interface for comment storage
type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) (*model.Comment, error)
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	ListByIdea(ctx context.Context, ideaID string) ([]*model.Comment, error)
	UpdateContent(ctx context.Context, id, content string) (*model.Comment, error)
	AddVotes(ctx context.Context, id string, delta int) (*model.Comment, error)
	DeleteMany(ctx context.Context, ids []string) error
}

// CommentService handles comment threads on ideas
type CommentService struct {
	repo     CommentRepository
	ideaRepo IdeaRepository
	notifier Notifier
}

// CommentServiceConfig holds configuration for the comment service
type CommentServiceConfig struct {
	Repo     CommentRepository
	IdeaRepo IdeaRepository
	Notifier Notifier // optional
}

// NewCommentService creates a new comment service
func NewCommentService(cfg CommentServiceConfig) *CommentService {
	return &CommentService{
		repo:     cfg.Repo,
		ideaRepo: cfg.IdeaRepo,
		notifier: cfg.Notifier,
	}
}

// ListTree returns the comment tree of an idea the viewer may read
func (s *CommentService) ListTree(ctx context.Context, ideaID, viewerID string) ([]*model.Comment, error) {
	idea, err := s.visibleIdea(ctx, ideaID, viewerID)
	if err != nil {
		return nil, err
	}

	flat, err := s.repo.ListByIdea(ctx, idea.ID)
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(flat), nil
}

// Create adds a comment or, when req.ParentID is set, a reply to a comment
// on the same idea.
func (s *CommentService) Create(ctx context.Context, ideaID, authorID string, req model.CreateCommentRequest) (*model.Comment, error) {
	if authorID == "" {
		return nil, ErrUnauthorized
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrCommentContentRequired
	}

	idea, err := s.visibleIdea(ctx, ideaID, authorID)
	if err != nil {
		return nil, err
	}

	var parent *model.Comment
	if req.ParentID != "" {
		parent, err = s.repo.GetByID(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || !sameID("idea", parent.IdeaID, idea.ID) {
			return nil, ErrInvalidParent
		}
	}

	comment := &model.Comment{
		Content:  content,
		AuthorID: authorID,
		IdeaID:   idea.ID,
	}
	if parent != nil {
		comment.ParentID = parent.ID
	}

	created, err := s.repo.Create(ctx, comment)
	if err != nil {
		return nil, err
	}
	if created.Replies == nil {
		created.Replies = []*model.Comment{}
	}

	s.notifyComment(ctx, idea, parent, created)
	return created, nil
}

// Update replaces the content of the caller's comment
func (s *CommentService) Update(ctx context.Context, id, callerID string, req model.UpdateCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrCommentContentRequired
	}

	if _, err := s.ownComment(ctx, id, callerID); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateContent(ctx, id, content)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrCommentNotFound
	}
	return updated, nil
}

// Delete removes the caller's comment together with every reply beneath
// it in one atomic batch. It returns the number of comments removed.
func (s *CommentService) Delete(ctx context.Context, id, callerID string) (int, error) {
	comment, err := s.ownComment(ctx, id, callerID)
	if err != nil {
		return 0, err
	}

	flat, err := s.repo.ListByIdea(ctx, comment.IdeaID)
	if err != nil {
		return 0, err
	}

	ids := collectThread(comment.ID, flat)
	if err := s.repo.DeleteMany(ctx, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Vote applies votes += delta. Votes are unbounded and not deduplicated.
func (s *CommentService) Vote(ctx context.Context, id, callerID string, delta int) (*model.Comment, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}

	updated, err := s.repo.AddVotes(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrCommentNotFound
	}
	return updated, nil
}

func (s *CommentService) visibleIdea(ctx context.Context, ideaID, viewerID string) (*model.Idea, error) {
	idea, err := loadIdea(ctx, s.ideaRepo, ideaID)
	if err != nil {
		return nil, err
	}
	if !idea.VisibleTo(viewerID) {
		return nil, ErrIdeaNotFound
	}
	return idea, nil
}

func (s *CommentService) ownComment(ctx context.Context, id, callerID string) (*model.Comment, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}

	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if !sameID("user", comment.AuthorID, callerID) {
		return nil, ErrNotCommentAuthor
	}
	return comment, nil
}

func (s *CommentService) notifyComment(ctx context.Context, idea *model.Idea, parent, comment *model.Comment) {
	if s.notifier == nil {
		return
	}

	author := "Someone"
	if comment.Author != nil && comment.Author.Username != "" {
		author = comment.Author.Username
	}
	link := fmt.Sprintf("/ideas/%s#%s", bareKey("idea", idea.ID), bareKey("comment", comment.ID))

	n := &model.Notification{
		UserID:  idea.AuthorID,
		Type:    model.NotificationComment,
		Title:   "New comment",
		Message: fmt.Sprintf("%s commented on %q", author, idea.Title),
		Link:    link,
	}
	if parent != nil {
		n.UserID = parent.AuthorID
		n.Type = model.NotificationReply
		n.Title = "New reply"
		n.Message = fmt.Sprintf("%s replied to your comment on %q", author, idea.Title)
	}

	if sameID("user", n.UserID, comment.AuthorID) {
		return
	}
	s.notifier.Notify(ctx, n)
}

// BuildCommentTree nests a flat comment list by parent id. Top-level
// comments and every level of replies are ordered newest first. Replies
// whose parent is not in the list are dropped.
func BuildCommentTree(flat []*model.Comment) []*model.Comment {
	byID := make(map[string]*model.Comment, len(flat))
	for _, c := range flat {
		c.Replies = []*model.Comment{}
		byID[c.ID] = c
	}

	roots := []*model.Comment{}
	for _, c := range flat {
		if !c.IsReply() {
			roots = append(roots, c)
			continue
		}
		if parent, ok := byID[c.ParentID]; ok && parent != c {
			parent.Replies = append(parent.Replies, c)
		}
	}

	sortNewestFirst(roots)
	for _, c := range flat {
		sortNewestFirst(c.Replies)
	}

	return roots
}

func sortNewestFirst(cs []*model.Comment) {
	sort.SliceStable(cs, func(i, j int) bool {
		if !cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].CreatedAt.After(cs[j].CreatedAt)
		}
		return cs[i].ID < cs[j].ID
	})
}

// collectThread returns rootID followed by every descendant found in flat
func collectThread(rootID string, flat []*model.Comment) []string {
	children := make(map[string][]string, len(flat))
	for _, c := range flat {
		if c.IsReply() {
			children[c.ParentID] = append(children[c.ParentID], c.ID)
		}
	}

	ids := []string{rootID}
	seen := map[string]bool{rootID: true}
	for i := 0; i < len(ids); i++ {
		for _, child := range children[ids[i]] {
			if !seen[child] {
				seen[child] = true
				ids = append(ids, child)
			}
		}
	}
	return ids
}
