package service

import "errors"

// Centralized service layer errors.
// Handlers map these onto HTTP problems in handler.MapServiceError.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("a user with this email or username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrUsernameRequired   = errors.New("username is required")
	ErrUnauthorized       = errors.New("authentication required")
)

// ===== Token Errors =====
var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
)

// ===== Idea Errors =====
var (
	ErrIdeaNotFound      = errors.New("idea not found")
	ErrIdeaTitleRequired = errors.New("title is required")
)

// ===== Comment Errors =====
var (
	ErrCommentNotFound        = errors.New("comment not found")
	ErrCommentContentRequired = errors.New("content is required")
	ErrInvalidParent          = errors.New("parent comment does not belong to this idea")
	ErrNotCommentAuthor       = errors.New("only the author can modify this comment")
)

// ===== Workspace Errors =====
var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrIdeaIDRequired    = errors.New("ideaId is required")
	ErrUserIDRequired    = errors.New("userId is required")
)

// ===== Collaborator Errors =====
var (
	ErrCollaboratorNotFound = errors.New("collaborator not found")
	ErrCollaboratorLimit    = errors.New("collaborator limit reached")
	ErrAlreadyCollaborator  = errors.New("user is already a collaborator")
	ErrCannotAddAuthor      = errors.New("the idea author cannot be added as a collaborator")
	ErrNotIdeaAuthor        = errors.New("only the idea author can manage collaborators")
)

// ===== Notification Errors =====
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// ===== Registry Errors =====
var (
	ErrServiceNameRequired = errors.New("service name is required")
	ErrServiceNotFound     = errors.New("service not registered")
)
