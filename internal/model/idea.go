package model

import (
	"strings"
	"time"
)

// Visibility controls who can see an idea
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// IsValid reports whether v is a known visibility
func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// IdeaStatus is the publication state of an idea
type IdeaStatus string

const (
	IdeaStatusPublished IdeaStatus = "PUBLISHED"
	IdeaStatusDraft     IdeaStatus = "DRAFT"
)

// IsValid reports whether s is a known status
func (s IdeaStatus) IsValid() bool {
	return s == IdeaStatusPublished || s == IdeaStatusDraft
}

// Field limits
const (
	MaxIdeaTitleLength       = 200
	MaxIdeaDescriptionLength = 10000
	MaxIdeaTags              = 20
)

// Idea represents a shared project idea
type Idea struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Category    string       `json:"category,omitempty"`
	Language    string       `json:"language,omitempty"`
	Tags        []string     `json:"tags"`
	Visibility  Visibility   `json:"visibility"`
	Status      IdeaStatus   `json:"status"`
	Stars       int          `json:"stars"`
	Forks       int          `json:"forks"`
	AuthorID    string       `json:"authorId"`
	Author      *UserSummary `json:"author,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// IsPublic reports whether the idea appears in public listings
func (i *Idea) IsPublic() bool {
	return i.Visibility == VisibilityPublic && i.Status == IdeaStatusPublished
}

// VisibleTo reports whether viewerID may read the idea
func (i *Idea) VisibleTo(viewerID string) bool {
	return i.IsPublic() || (viewerID != "" && i.AuthorID == viewerID)
}

// SortKey selects the ordering of an idea listing
type SortKey string

const (
	SortNewest          SortKey = "newest"
	SortOldest          SortKey = "oldest"
	SortMostStars       SortKey = "most-stars"
	SortMostForks       SortKey = "most-forks"
	SortRecentlyUpdated SortKey = "recently-updated"
)

// ParseSortKey maps a query value onto a SortKey; unknown keys sort newest first
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortOldest, SortMostStars, SortMostForks, SortRecentlyUpdated:
		return k
	default:
		return SortNewest
	}
}

// IdeaFilter describes an idea listing.
// Every listing is limited to public published ideas plus, when ViewerID is
// set, the viewer's own ideas; the remaining fields narrow that set.
type IdeaFilter struct {
	Category   string
	Language   string
	Search     string
	Tags       []string
	Visibility Visibility
	Status     IdeaStatus
	AuthorID   string
	ViewerID   string
	Sort       SortKey
	// Page is nil for an unpaginated listing
	Page *PageRequest
}

// WantsNonPublic reports whether the filter asks for private or draft ideas
func (f *IdeaFilter) WantsNonPublic() bool {
	return f.Visibility == VisibilityPrivate || f.Status == IdeaStatusDraft
}

// IdeaPage is one page of a listing
type IdeaPage struct {
	Ideas      []*Idea
	Pagination *Pagination
}

// CreateIdeaRequest is the body of POST /api/ideas
type CreateIdeaRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Language    string     `json:"language"`
	Tags        []string   `json:"tags"`
	Visibility  Visibility `json:"visibility"`
	Status      IdeaStatus `json:"status"`
}

// Validate checks lengths and enum values
func (r *CreateIdeaRequest) Validate() []FieldError {
	var errors []FieldError

	if len(r.Title) > MaxIdeaTitleLength {
		errors = append(errors, FieldError{Field: "title", Message: "title must be 200 characters or less"})
	}
	if len(r.Description) > MaxIdeaDescriptionLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 10000 characters or less"})
	}
	if len(r.Tags) > MaxIdeaTags {
		errors = append(errors, FieldError{Field: "tags", Message: "at most 20 tags are allowed"})
	}
	if r.Visibility != "" && !r.Visibility.IsValid() {
		errors = append(errors, FieldError{Field: "visibility", Message: "visibility must be PUBLIC or PRIVATE"})
	}
	if r.Status != "" && !r.Status.IsValid() {
		errors = append(errors, FieldError{Field: "status", Message: "status must be PUBLISHED or DRAFT"})
	}

	return errors
}

// ApplyDefaults fills visibility and status when omitted
func (r *CreateIdeaRequest) ApplyDefaults() {
	r.Title = strings.TrimSpace(r.Title)
	if r.Visibility == "" {
		r.Visibility = VisibilityPublic
	}
	if r.Status == "" {
		r.Status = IdeaStatusPublished
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
}

// ParseTags splits a comma separated tag list, dropping blanks
func ParseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
