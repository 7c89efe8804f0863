package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/internal/model"
)

type mockCollaboratorRepo struct {
	listByIdeaFunc  func(ctx context.Context, ideaID string) ([]*model.Collaborator, error)
	countByIdeaFunc func(ctx context.Context, ideaID string) (int, error)
	getFunc         func(ctx context.Context, ideaID, userID string) (*model.Collaborator, error)
	createFunc      func(ctx context.Context, ideaID, userID string, limit int) (*model.Collaborator, error)
	deleteFunc      func(ctx context.Context, ideaID, userID string) (bool, error)
}

func (m *mockCollaboratorRepo) ListByIdea(ctx context.Context, ideaID string) ([]*model.Collaborator, error) {
	if m.listByIdeaFunc != nil {
		return m.listByIdeaFunc(ctx, ideaID)
	}
	return []*model.Collaborator{}, nil
}

func (m *mockCollaboratorRepo) CountByIdea(ctx context.Context, ideaID string) (int, error) {
	if m.countByIdeaFunc != nil {
		return m.countByIdeaFunc(ctx, ideaID)
	}
	return 0, nil
}

func (m *mockCollaboratorRepo) Get(ctx context.Context, ideaID, userID string) (*model.Collaborator, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, ideaID, userID)
	}
	return nil, nil
}

func (m *mockCollaboratorRepo) Create(ctx context.Context, ideaID, userID string, limit int) (*model.Collaborator, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, ideaID, userID, limit)
	}
	return &model.Collaborator{ID: "collaborator:new", IdeaID: ideaID, UserID: userID}, nil
}

func (m *mockCollaboratorRepo) Delete(ctx context.Context, ideaID, userID string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, ideaID, userID)
	}
	return true, nil
}

func newTestCollaboratorService(repo *mockCollaboratorRepo, notifier Notifier) *CollaboratorService {
	users := newMockUserRepo()
	users.users["user:bob"] = &model.User{ID: "user:bob", Username: "bob"}
	users.users["user:ada"] = &model.User{ID: "user:ada", Username: "ada"}

	return NewCollaboratorService(CollaboratorServiceConfig{
		Repo:     repo,
		IdeaRepo: ideaRepoWith(ideaFixture("idea:1", "user:ada")),
		UserRepo: users,
		Notifier: notifier,
	})
}

// ============================================================================
// List Tests
// ============================================================================

func TestCollaboratorService_List_RequiresIdeaID(t *testing.T) {
	t.Parallel()

	repo := &mockCollaboratorRepo{
		listByIdeaFunc: func(ctx context.Context, ideaID string) ([]*model.Collaborator, error) {
			t.Error("store must not be queried")
			return nil, nil
		},
	}
	svc := newTestCollaboratorService(repo, nil)

	if _, err := svc.List(context.Background(), " "); !errors.Is(err, ErrIdeaIDRequired) {
		t.Errorf("expected ErrIdeaIDRequired, got %v", err)
	}
}

func TestCollaboratorService_List_CountAndMax(t *testing.T) {
	t.Parallel()

	repo := &mockCollaboratorRepo{
		listByIdeaFunc: func(ctx context.Context, ideaID string) ([]*model.Collaborator, error) {
			return []*model.Collaborator{{ID: "collaborator:1"}, {ID: "collaborator:2"}}, nil
		},
	}
	svc := newTestCollaboratorService(repo, nil)

	list, err := svc.List(context.Background(), "idea:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Count != 2 || list.MaxAllowed != 3 {
		t.Errorf("expected count 2 / max 3, got %d / %d", list.Count, list.MaxAllowed)
	}
}

// ============================================================================
// Add Tests
// ============================================================================

func TestCollaboratorService_Add_Success(t *testing.T) {
	t.Parallel()

	var gotLimit int
	repo := &mockCollaboratorRepo{
		createFunc: func(ctx context.Context, ideaID, userID string, limit int) (*model.Collaborator, error) {
			gotLimit = limit
			return &model.Collaborator{ID: "collaborator:x", IdeaID: ideaID, UserID: userID}, nil
		},
	}
	notifier := &recordingNotifier{}
	svc := newTestCollaboratorService(repo, notifier)

	c, err := svc.Add(context.Background(), "1", "user:ada", "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.IdeaID != "idea:1" || c.UserID != "user:bob" {
		t.Errorf("unexpected collaborator %+v", c)
	}
	if gotLimit != model.MaxCollaboratorsPerIdea {
		t.Errorf("expected store guard limit %d, got %d", model.MaxCollaboratorsPerIdea, gotLimit)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Type != model.NotificationCollaboratorAdded || notifier.sent[0].UserID != "user:bob" {
		t.Errorf("expected COLLABORATOR_ADDED notification to bob, got %+v", notifier.sent)
	}
}

func TestCollaboratorService_Add_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		callerID string
		userID   string
		repo     *mockCollaboratorRepo
		want     error
	}{
		{
			name:   "no caller",
			userID: "user:bob",
			repo:   &mockCollaboratorRepo{},
			want:   ErrUnauthorized,
		},
		{
			name:     "caller is not the author",
			callerID: "user:bob",
			userID:   "user:bob",
			repo:     &mockCollaboratorRepo{},
			want:     ErrNotIdeaAuthor,
		},
		{
			name:     "author adds themself",
			callerID: "user:ada",
			userID:   "ada",
			repo:     &mockCollaboratorRepo{},
			want:     ErrCannotAddAuthor,
		},
		{
			name:     "unknown user",
			callerID: "user:ada",
			userID:   "user:ghost",
			repo:     &mockCollaboratorRepo{},
			want:     ErrUserNotFound,
		},
		{
			name:     "already a collaborator",
			callerID: "user:ada",
			userID:   "user:bob",
			repo: &mockCollaboratorRepo{
				getFunc: func(ctx context.Context, ideaID, userID string) (*model.Collaborator, error) {
					return &model.Collaborator{ID: "collaborator:1"}, nil
				},
			},
			want: ErrAlreadyCollaborator,
		},
		{
			name:     "limit reached on pre-check",
			callerID: "user:ada",
			userID:   "user:bob",
			repo: &mockCollaboratorRepo{
				countByIdeaFunc: func(ctx context.Context, ideaID string) (int, error) { return 3, nil },
			},
			want: ErrCollaboratorLimit,
		},
		{
			name:     "limit reached inside the transaction",
			callerID: "user:ada",
			userID:   "user:bob",
			repo: &mockCollaboratorRepo{
				createFunc: func(ctx context.Context, ideaID, userID string, limit int) (*model.Collaborator, error) {
					return nil, database.ErrLimitExceeded
				},
			},
			want: ErrCollaboratorLimit,
		},
		{
			name:     "concurrent duplicate",
			callerID: "user:ada",
			userID:   "user:bob",
			repo: &mockCollaboratorRepo{
				createFunc: func(ctx context.Context, ideaID, userID string, limit int) (*model.Collaborator, error) {
					return nil, database.ErrDuplicate
				},
			},
			want: ErrAlreadyCollaborator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestCollaboratorService(tt.repo, nil)
			if _, err := svc.Add(context.Background(), "idea:1", tt.callerID, tt.userID); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// ============================================================================
// Remove Tests
// ============================================================================

func TestCollaboratorService_Remove(t *testing.T) {
	t.Parallel()

	svc := newTestCollaboratorService(&mockCollaboratorRepo{}, nil)
	ctx := context.Background()

	if err := svc.Remove(ctx, "1", "user:ada", "user:bob"); err != nil {
		t.Errorf("author should remove collaborators: %v", err)
	}
	if err := svc.Remove(ctx, "1", "user:bob", "bob"); err != nil {
		t.Errorf("collaborator should remove themself: %v", err)
	}
	if err := svc.Remove(ctx, "1", "user:mallory", "user:bob"); !errors.Is(err, ErrNotIdeaAuthor) {
		t.Errorf("expected ErrNotIdeaAuthor, got %v", err)
	}
}

func TestCollaboratorService_Remove_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockCollaboratorRepo{
		deleteFunc: func(ctx context.Context, ideaID, userID string) (bool, error) { return false, nil },
	}
	svc := newTestCollaboratorService(repo, nil)

	if err := svc.Remove(context.Background(), "1", "user:ada", "user:bob"); !errors.Is(err, ErrCollaboratorNotFound) {
		t.Errorf("expected ErrCollaboratorNotFound, got %v", err)
	}
}
