package handler

import (
	"errors"

	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/internal/model"
	"github.com/ideahub/api/internal/service"
)

// MapServiceError converts an error returned by a decoder, a validator or a
// service into the ProblemDetails every renderer understands. Anything
// unclassified becomes a 500 carrying the error's message.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var problem *model.ProblemDetails
	if errors.As(err, &problem) {
		return problem
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return model.NewValidationError(verr.Fields)
	}

	switch {
	// ===== Request Errors → 400 =====
	case errors.Is(err, ErrMalformedBody):
		return model.NewBadRequestError(ErrMalformedBody.Error())
	case errors.Is(err, service.ErrInvalidEmail):
		return fieldError("email", err)
	case errors.Is(err, service.ErrUsernameRequired):
		return fieldError("username", err)
	case errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong):
		return fieldError("password", err)
	case errors.Is(err, service.ErrIdeaTitleRequired):
		return fieldError("title", err)
	case errors.Is(err, service.ErrCommentContentRequired):
		return fieldError("content", err)
	case errors.Is(err, service.ErrIdeaIDRequired):
		return fieldError("ideaId", err)
	case errors.Is(err, service.ErrUserIDRequired):
		return fieldError("userId", err)
	case errors.Is(err, service.ErrServiceNameRequired):
		return fieldError("name", err)
	case errors.Is(err, service.ErrInvalidParent),
		errors.Is(err, service.ErrCannotAddAuthor):
		return model.NewBadRequestError(err.Error())

	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrUnauthorized):
		return model.NewUnauthorizedError("authentication required")
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError(err.Error())
	case errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrRefreshTokenExpired),
		errors.Is(err, service.ErrRefreshTokenRevoked):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotCommentAuthor),
		errors.Is(err, service.ErrNotIdeaAuthor):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrIdeaNotFound):
		return model.NewNotFoundError("idea")
	case errors.Is(err, service.ErrCommentNotFound):
		return model.NewNotFoundError("comment")
	case errors.Is(err, service.ErrWorkspaceNotFound):
		return model.NewNotFoundError("workspace")
	case errors.Is(err, service.ErrCollaboratorNotFound):
		return model.NewNotFoundError("collaborator")
	case errors.Is(err, service.ErrNotificationNotFound):
		return model.NewNotFoundError("notification")
	case errors.Is(err, service.ErrServiceNotFound):
		return model.NewNotFoundError("service")
	case errors.Is(err, database.ErrNotFound):
		return model.NewNotFoundError("record")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrAlreadyCollaborator):
		return model.NewConflictError(err.Error())
	case errors.Is(err, database.ErrDuplicate):
		return model.NewConflictError("record already exists")

	// ===== Limit Errors → 422 =====
	case errors.Is(err, service.ErrCollaboratorLimit):
		return model.NewLimitExceededError("collaborators", model.MaxCollaboratorsPerIdea, model.MaxCollaboratorsPerIdea)

	// ===== Store Errors → 500 =====
	case errors.Is(err, database.ErrConnection):
		return model.NewInternalError("database unavailable")
	}

	return model.NewInternalError(err.Error())
}

func fieldError(field string, err error) *model.ProblemDetails {
	return model.NewValidationError([]model.FieldError{{Field: field, Message: err.Error()}})
}
