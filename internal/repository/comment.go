package repository

import (
	"context"
	"errors"

	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/internal/model"
)

const commentSelect = `SELECT *, author.` + userSummaryFields + ` AS author_info FROM comment`

// CommentRepository handles comment data access
type CommentRepository struct {
	db database.Database
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db database.Database) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create stores a comment and returns it with the author expanded
func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	query := `
		CREATE comment CONTENT {
			content: $content,
			author: type::record($author),
			idea: type::record($idea),
			parent: IF $parent != NONE THEN type::record($parent) ELSE NONE END,
			votes: 0,
			created_at: time::now(),
			updated_at: time::now()
		}
	`

	var parent interface{} = noneIfEmpty(c.ParentID)
	if c.ParentID != "" {
		parent = recordID("comment", c.ParentID)
	}

	vars := map[string]interface{}{
		"content": c.Content,
		"author":  recordID("user", c.AuthorID),
		"idea":    recordID("idea", c.IdeaID),
		"parent":  parent,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	row := firstRow(result)
	if row == nil {
		return nil, errors.New("create comment: no record returned")
	}

	created, err := r.GetByID(ctx, extractRecordID(row["id"]))
	if err != nil {
		return nil, err
	}
	if created == nil {
		return parseComment(row), nil
	}
	return created, nil
}

// GetByID retrieves a comment with its author summary
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	query := `SELECT *, author.` + userSummaryFields + ` AS author_info FROM type::record($id)`
	vars := map[string]interface{}{"id": recordID("comment", id)}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	row, ok := result.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	return parseComment(row), nil
}

// ListByIdea returns every comment on an idea as a flat list, newest first
func (r *CommentRepository) ListByIdea(ctx context.Context, ideaID string) ([]*model.Comment, error) {
	query := commentSelect + ` WHERE idea = type::record($idea) ORDER BY created_at DESC, id ASC`
	vars := map[string]interface{}{"idea": recordID("idea", ideaID)}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows := statementRows(result, 0)
	comments := make([]*model.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, parseComment(row))
	}
	return comments, nil
}

// UpdateContent replaces the content of a comment. Returns nil when absent.
func (r *CommentRepository) UpdateContent(ctx context.Context, id, content string) (*model.Comment, error) {
	query := `UPDATE comment SET content = $content, updated_at = time::now() WHERE id = type::record($id) RETURN AFTER`
	vars := map[string]interface{}{
		"id":      recordID("comment", id),
		"content": content,
	}

	return r.updateOne(ctx, query, vars)
}

// AddVotes applies votes += delta atomically. Returns nil when absent.
func (r *CommentRepository) AddVotes(ctx context.Context, id string, delta int) (*model.Comment, error) {
	query := `UPDATE comment SET votes += $delta WHERE id = type::record($id) RETURN AFTER`
	vars := map[string]interface{}{
		"id":    recordID("comment", id),
		"delta": delta,
	}

	return r.updateOne(ctx, query, vars)
}

// DeleteMany removes the given comments in one transaction
func (r *CommentRepository) DeleteMany(ctx context.Context, ids []string) error {
	batch := database.NewAtomicBatch()
	for _, id := range ids {
		batch.Add(`DELETE type::record($id)`, map[string]interface{}{"id": recordID("comment", id)})
	}
	return batch.Execute(ctx, r.db)
}

func (r *CommentRepository) updateOne(ctx context.Context, query string, vars map[string]interface{}) (*model.Comment, error) {
	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	row := firstRow(result)
	if row == nil {
		return nil, nil
	}
	return r.GetByID(ctx, extractRecordID(row["id"]))
}

func parseComment(data map[string]interface{}) *model.Comment {
	return &model.Comment{
		ID:        extractRecordID(data["id"]),
		Content:   getString(data, "content"),
		AuthorID:  extractRecordID(data["author"]),
		Author:    parseUserSummary(getMap(data, "author_info")),
		IdeaID:    extractRecordID(data["idea"]),
		ParentID:  extractRecordID(data["parent"]),
		Votes:     getInt(data, "votes"),
		Replies:   []*model.Comment{},
		CreatedAt: parseTime(data["created_at"]),
		UpdatedAt: parseTime(data["updated_at"]),
	}
}
