package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/internal/model"
)

// CollaboratorRepository defines the interface for collaborator storage
type CollaboratorRepository interface {
	ListByIdea(ctx context.Context, ideaID string) ([]*model.Collaborator, error)
	CountByIdea(ctx context.Context, ideaID string) (int, error)
	Get(ctx context.Context, ideaID, userID string) (*model.Collaborator, error)
	// Create must refuse the write with database.ErrLimitExceeded once
	// limit collaborators exist.
	Create(ctx context.Context, ideaID, userID string, limit int) (*model.Collaborator, error)
	Delete(ctx context.Context, ideaID, userID string) (bool, error)
}

// UserGetter looks up users by id
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// CollaboratorList is the collaborator listing of one idea
type CollaboratorList struct {
	Collaborators []*model.Collaborator
	Count         int
	MaxAllowed    int
}

// CollaboratorService manages who may help edit an idea
type CollaboratorService struct {
	repo     CollaboratorRepository
	ideaRepo IdeaRepository
	userRepo UserGetter
	notifier Notifier
}

// CollaboratorServiceConfig holds configuration for the collaborator service
type CollaboratorServiceConfig struct {
	Repo     CollaboratorRepository
	IdeaRepo IdeaRepository
	UserRepo UserGetter
	Notifier Notifier // optional
}

// NewCollaboratorService creates a new collaborator service
func NewCollaboratorService(cfg CollaboratorServiceConfig) *CollaboratorService {
	return &CollaboratorService{
		repo:     cfg.Repo,
		ideaRepo: cfg.IdeaRepo,
		userRepo: cfg.UserRepo,
		notifier: cfg.Notifier,
	}
}

// List returns the collaborators of an idea, oldest first
func (s *CollaboratorService) List(ctx context.Context, ideaID string) (*CollaboratorList, error) {
	ideaID = strings.TrimSpace(ideaID)
	if ideaID == "" {
		return nil, ErrIdeaIDRequired
	}

	collaborators, err := s.repo.ListByIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	return &CollaboratorList{
		Collaborators: collaborators,
		Count:         len(collaborators),
		MaxAllowed:    model.MaxCollaboratorsPerIdea,
	}, nil
}

// Add makes userID a collaborator on an idea authored by callerID. The
// limit is checked here and again inside the store transaction.
func (s *CollaboratorService) Add(ctx context.Context, ideaID, callerID, userID string) (*model.Collaborator, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	idea, err := loadIdea(ctx, s.ideaRepo, ideaID)
	if err != nil {
		return nil, err
	}
	if !sameID("user", idea.AuthorID, callerID) {
		return nil, ErrNotIdeaAuthor
	}
	if sameID("user", idea.AuthorID, userID) {
		return nil, ErrCannotAddAuthor
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.repo.Get(ctx, idea.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyCollaborator
	}

	count, err := s.repo.CountByIdea(ctx, idea.ID)
	if err != nil {
		return nil, err
	}
	if count >= model.MaxCollaboratorsPerIdea {
		return nil, ErrCollaboratorLimit
	}

	created, err := s.repo.Create(ctx, idea.ID, user.ID, model.MaxCollaboratorsPerIdea)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrLimitExceeded):
			return nil, ErrCollaboratorLimit
		case errors.Is(err, database.ErrDuplicate):
			return nil, ErrAlreadyCollaborator
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, &model.Notification{
			UserID:  user.ID,
			Type:    model.NotificationCollaboratorAdded,
			Title:   "Added as collaborator",
			Message: fmt.Sprintf("You can now collaborate on %q", idea.Title),
			Link:    "/ideas/" + bareKey("idea", idea.ID),
		})
	}
	return created, nil
}

// Remove deletes a collaborator. The idea author may remove anyone; a
// collaborator may remove themself.
func (s *CollaboratorService) Remove(ctx context.Context, ideaID, callerID, userID string) error {
	if callerID == "" {
		return ErrUnauthorized
	}

	idea, err := loadIdea(ctx, s.ideaRepo, ideaID)
	if err != nil {
		return err
	}
	if !sameID("user", idea.AuthorID, callerID) && !sameID("user", userID, callerID) {
		return ErrNotIdeaAuthor
	}

	deleted, err := s.repo.Delete(ctx, idea.ID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCollaboratorNotFound
	}
	return nil
}
