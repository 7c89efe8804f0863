package repository

import (
	"context"
	"errors"

	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/internal/model"
)

const collaboratorSelect = `SELECT *, user.{id, username, full_name, avatar_url, email, bio} AS user_info FROM collaborator`

// CollaboratorRepository handles collaborator data access
type CollaboratorRepository struct {
	db database.Database
}

// NewCollaboratorRepository creates a new collaborator repository
func NewCollaboratorRepository(db database.Database) *CollaboratorRepository {
	return &CollaboratorRepository{db: db}
}

// ListByIdea returns the collaborators of an idea, oldest first
func (r *CollaboratorRepository) ListByIdea(ctx context.Context, ideaID string) ([]*model.Collaborator, error) {
	query := collaboratorSelect + ` WHERE idea = type::record($idea) ORDER BY created_at ASC, id ASC`
	vars := map[string]interface{}{"idea": recordID("idea", ideaID)}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows := statementRows(result, 0)
	collaborators := make([]*model.Collaborator, 0, len(rows))
	for _, row := range rows {
		collaborators = append(collaborators, parseCollaborator(row))
	}
	return collaborators, nil
}

// CountByIdea returns the number of collaborators on an idea
func (r *CollaboratorRepository) CountByIdea(ctx context.Context, ideaID string) (int, error) {
	query := `SELECT count() AS count FROM collaborator WHERE idea = type::record($idea) GROUP ALL`
	vars := map[string]interface{}{"idea": recordID("idea", ideaID)}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return 0, err
	}
	return extractCount(result), nil
}

// Get returns the collaborator linking ideaID and userID, or nil
func (r *CollaboratorRepository) Get(ctx context.Context, ideaID, userID string) (*model.Collaborator, error) {
	query := collaboratorSelect + ` WHERE idea = type::record($idea) AND user = type::record($user) LIMIT 1`
	vars := map[string]interface{}{
		"idea": recordID("idea", ideaID),
		"user": recordID("user", userID),
	}

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
	return parseCollaborator(row), nil
}

// Create adds a collaborator inside a transaction that re-counts the idea's
// collaborators and throws when limit is already reached. A concurrent
// add that slips past the service pre-check fails with
// database.ErrLimitExceeded; a repeated pair fails with database.ErrDuplicate.
func (r *CollaboratorRepository) Create(ctx context.Context, ideaID, userID string, limit int) (*model.Collaborator, error) {
	idea := recordID("idea", ideaID)
	user := recordID("user", userID)

	tb := database.NewTxBuilder()
	tb.Add(`LET $current = (SELECT count() AS count FROM collaborator WHERE idea = type::record($idea) GROUP ALL)[0].count ?? 0`,
		map[string]interface{}{"idea": idea})
	tb.Add(`IF $current >= $limit { THROW "`+database.LimitMarker+` collaborators" }`,
		map[string]interface{}{"limit": limit})
	tb.Add(`CREATE collaborator CONTENT { idea: type::record($idea), user: type::record($user), created_at: time::now() }`,
		map[string]interface{}{"idea": idea, "user": user})

	if _, err := database.ExecuteTransaction(ctx, r.db, tb); err != nil {
		if isUniqueConstraintError(err) {
			return nil, database.ErrDuplicate
		}
		return nil, err
	}

	created, err := r.Get(ctx, idea, user)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, database.ErrNotFound
	}
	return created, nil
}

// Delete removes the collaborator linking ideaID and userID, reporting whether it existed
func (r *CollaboratorRepository) Delete(ctx context.Context, ideaID, userID string) (bool, error) {
	query := `DELETE collaborator WHERE idea = type::record($idea) AND user = type::record($user) RETURN BEFORE`
	vars := map[string]interface{}{
		"idea": recordID("idea", ideaID),
		"user": recordID("user", userID),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return false, err
	}
	return firstRow(result) != nil, nil
}

func parseCollaborator(data map[string]interface{}) *model.Collaborator {
	c := &model.Collaborator{
		ID:        extractRecordID(data["id"]),
		IdeaID:    extractRecordID(data["idea"]),
		UserID:    extractRecordID(data["user"]),
		CreatedAt: parseTime(data["created_at"]),
	}

	if info := getMap(data, "user_info"); info != nil {
		c.User = &model.CollaboratorUser{
			ID:        extractRecordID(info["id"]),
			Username:  getString(info, "username"),
			FullName:  getString(info, "full_name"),
			AvatarURL: getString(info, "avatar_url"),
			Email:     getString(info, "email"),
			Bio:       getString(info, "bio"),
		}
	}
	return c
}
