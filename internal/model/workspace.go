package model

import (
	"encoding/json"
	"time"
)

// DefaultWorkspaceName is used when a workspace is created without a name
const DefaultWorkspaceName = "Untitled"

// Workspace is a per-user editing space attached to an idea.
// Document and Whiteboard are opaque JSON owned by the client editors.
type Workspace struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Archived      bool                   `json:"archived"`
	Document      map[string]interface{} `json:"document"`
	Whiteboard    map[string]interface{} `json:"whiteboard"`
	IdeaID        string                 `json:"ideaId"`
	UserID        string                 `json:"userId"`
	Idea          *Idea                  `json:"idea,omitempty"`
	Author        *UserSummary           `json:"author,omitempty"`
	Collaborators []*Collaborator        `json:"collaborators,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// NewDocument returns the initial document content
func NewDocument() map[string]interface{} {
	return map[string]interface{}{}
}

// NewWhiteboard returns the initial whiteboard content
func NewWhiteboard() map[string]interface{} {
	return map[string]interface{}{
		"elements": []interface{}{},
		"appState": map[string]interface{}{},
	}
}

// CreateWorkspaceRequest is the body of POST /api/workspace
type CreateWorkspaceRequest struct {
	Name   string `json:"name" validate:"omitempty,max=200"`
	IdeaID string `json:"ideaId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

// UpdateWorkspaceRequest is a partial update; nil fields are left untouched
type UpdateWorkspaceRequest struct {
	Document   *json.RawMessage `json:"document,omitempty"`
	Whiteboard *json.RawMessage `json:"whiteboard,omitempty"`
	Name       *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Archived   *bool            `json:"archived,omitempty"`
}

// IsEmpty reports whether the patch carries no fields
func (r *UpdateWorkspaceRequest) IsEmpty() bool {
	return r.Document == nil && r.Whiteboard == nil && r.Name == nil && r.Archived == nil
}

// Validate checks that document and whiteboard are JSON objects
func (r *UpdateWorkspaceRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Document != nil && !isJSONObject(*r.Document) {
		errors = append(errors, FieldError{Field: "document", Message: "document must be a JSON object"})
	}
	if r.Whiteboard != nil && !isJSONObject(*r.Whiteboard) {
		errors = append(errors, FieldError{Field: "whiteboard", Message: "whiteboard must be a JSON object"})
	}

	return errors
}

// WorkspacePatch is the decoded form of UpdateWorkspaceRequest
type WorkspacePatch struct {
	Document   map[string]interface{}
	Whiteboard map[string]interface{}
	Name       *string
	Archived   *bool
}

// Patch decodes the raw JSON fields. Call Validate first.
func (r *UpdateWorkspaceRequest) Patch() (*WorkspacePatch, error) {
	p := &WorkspacePatch{Name: r.Name, Archived: r.Archived}
	if r.Document != nil {
		if err := json.Unmarshal(*r.Document, &p.Document); err != nil {
			return nil, err
		}
	}
	if r.Whiteboard != nil {
		if err := json.Unmarshal(*r.Whiteboard, &p.Whiteboard); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func isJSONObject(raw json.RawMessage) bool {
	var obj map[string]interface{}
	return json.Unmarshal(raw, &obj) == nil && obj != nil
}
