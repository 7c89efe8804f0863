// Package search provides full-text idea search. Meilisearch is used when
// configured and healthy; otherwise the store's substring search answers.
package search

import (
	"context"
	"strings"

	"github.com/ideahub/api/internal/model"
)

// IdeaRecord is the document indexed for an idea. ID is the bare record
// key because Meilisearch ids cannot contain ':'.
type IdeaRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Language    string   `json:"language"`
	Tags        []string `json:"tags"`
	Visibility  string   `json:"visibility"`
	Status      string   `json:"status"`
	Stars       int      `json:"stars"`
	CreatedAt   int64    `json:"createdAt"`
}

// Query describes a search request
type Query struct {
	Text string
	Page model.PageRequest
}

// Index is a full-text idea index
type Index interface {
	Healthy() bool
	// Search returns matching public published idea ids and the total hit count.
	Search(ctx context.Context, q Query) ([]string, int, error)
	IndexIdeas(ctx context.Context, ideas []IdeaRecord) error
}

// NewIdeaRecord converts an idea into its index document
func NewIdeaRecord(idea *model.Idea) IdeaRecord {
	tags := idea.Tags
	if tags == nil {
		tags = []string{}
	}
	return IdeaRecord{
		ID:          documentID(idea.ID),
		Title:       idea.Title,
		Description: idea.Description,
		Category:    idea.Category,
		Language:    idea.Language,
		Tags:        tags,
		Visibility:  string(idea.Visibility),
		Status:      string(idea.Status),
		Stars:       idea.Stars,
		CreatedAt:   idea.CreatedAt.Unix(),
	}
}

func documentID(recordID string) string {
	return strings.TrimPrefix(recordID, "idea:")
}

func recordID(documentID string) string {
	return "idea:" + documentID
}
