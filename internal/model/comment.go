package model

import "time"

// MaxCommentLength bounds comment content
const MaxCommentLength = 5000

// Comment is a comment on an idea. Replies are only populated on the
// tree returned by the comment listing.
type Comment struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	AuthorID  string       `json:"authorId"`
	Author    *UserSummary `json:"author,omitempty"`
	IdeaID    string       `json:"ideaId"`
	ParentID  string       `json:"parentId,omitempty"`
	Votes     int          `json:"votes"`
	Replies   []*Comment   `json:"replies"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// IsReply reports whether the comment has a parent
func (c *Comment) IsReply() bool {
	return c.ParentID != ""
}

// CreateCommentRequest is the body of POST /api/ideas/{id}/comments
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required"`
	ParentID string `json:"parentId"`
}

// Validate checks content length
func (r *CreateCommentRequest) Validate() []FieldError {
	if len(r.Content) > MaxCommentLength {
		return []FieldError{{Field: "content", Message: "content must be 5000 characters or less"}}
	}
	return nil
}

// UpdateCommentRequest is the body of PATCH /api/comments/{id}
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// Validate checks content length
func (r *UpdateCommentRequest) Validate() []FieldError {
	if len(r.Content) > MaxCommentLength {
		return []FieldError{{Field: "content", Message: "content must be 5000 characters or less"}}
	}
	return nil
}

// VoteCommentRequest is the body of POST /api/comments/{id}/vote. A nil
// Delta means the field was absent; 0 is a valid delta.
type VoteCommentRequest struct {
	Delta *int `json:"delta" validate:"required"`
}
