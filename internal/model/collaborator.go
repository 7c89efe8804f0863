package model

import "time"

// MaxCollaboratorsPerIdea caps collaborators on a single idea
const MaxCollaboratorsPerIdea = 3

// Collaborator links a user to an idea they may help edit
type Collaborator struct {
	ID        string            `json:"id"`
	IdeaID    string            `json:"ideaId"`
	UserID    string            `json:"userId"`
	User      *CollaboratorUser `json:"user,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// CollaboratorUser is the restricted user projection exposed on collaborators
type CollaboratorUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Email     string `json:"email"`
	Bio       string `json:"bio,omitempty"`
}

// AddCollaboratorRequest is the body of POST /api/ideas/{id}/collaborators
type AddCollaboratorRequest struct {
	UserID string `json:"userId" validate:"required"`
}
