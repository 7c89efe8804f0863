package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/internal/model"
)

const userSummaryFields = "{id, username, full_name, avatar_url}"

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	role := user.Role
	if role == "" {
		role = model.UserRoleUser
	}

	query := `
		CREATE user CONTENT {
			email: $email,
			username: $username,
			hash: $hash,
			full_name: $full_name,
			avatar_url: $avatar_url,
			bio: $bio,
			location: $location,
			website: $website,
			followers: $followers,
			following: $following,
			public_repos: $public_repos,
			is_verified: $is_verified,
			role: $role,
			created_at: time::now(),
			updated_at: time::now()
		}
	`

	vars := map[string]interface{}{
		"email":        user.Email,
		"username":     user.Username,
		"hash":         user.Hash,
		"full_name":    noneIfEmpty(user.FullName),
		"avatar_url":   noneIfEmpty(user.AvatarURL),
		"bio":          noneIfEmpty(user.Bio),
		"location":     noneIfEmpty(user.Location),
		"website":      noneIfEmpty(user.Website),
		"followers":    user.Followers,
		"following":    user.Following,
		"public_repos": user.PublicRepos,
		"is_verified":  user.IsVerified,
		"role":         string(role),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email or username already exists", database.ErrDuplicate)
		}
		return err
	}

	row := firstRow(result)
	if row == nil {
		return errors.New("create user: no record returned")
	}

	created := parseUser(row)
	user.ID = created.ID
	user.Role = created.Role
	user.CreatedAt = created.CreatedAt
	user.UpdatedAt = created.UpdatedAt
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": recordID("user", id)}

	return r.queryOne(ctx, query, vars)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM user WHERE email = $email LIMIT 1`
	vars := map[string]interface{}{"email": email}

	return r.queryOne(ctx, query, vars)
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT * FROM user WHERE username = $username LIMIT 1`
	vars := map[string]interface{}{"username": username}

	return r.queryOne(ctx, query, vars)
}

// FindByEmailOrUsername returns any user holding the email or the username
func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*model.User, error) {
	query := `SELECT * FROM user WHERE email = $email OR username = $username LIMIT 1`
	vars := map[string]interface{}{"email": email, "username": username}

	return r.queryOne(ctx, query, vars)
}

func (r *UserRepository) queryOne(ctx context.Context, query string, vars map[string]interface{}) (*model.User, error) {
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
	return parseUser(row), nil
}

func parseUser(data map[string]interface{}) *model.User {
	role := model.UserRole(getString(data, "role"))
	if role == "" {
		role = model.UserRoleUser
	}
	return &model.User{
		ID:          extractRecordID(data["id"]),
		Email:       getString(data, "email"),
		Username:    getString(data, "username"),
		Hash:        getString(data, "hash"),
		FullName:    getString(data, "full_name"),
		AvatarURL:   getString(data, "avatar_url"),
		Bio:         getString(data, "bio"),
		Location:    getString(data, "location"),
		Website:     getString(data, "website"),
		Followers:   getInt(data, "followers"),
		Following:   getInt(data, "following"),
		PublicRepos: getInt(data, "public_repos"),
		IsVerified:  getBool(data, "is_verified"),
		Role:        role,
		CreatedAt:   parseTime(data["created_at"]),
		UpdatedAt:   parseTime(data["updated_at"]),
	}
}

// parseUserSummary reads a `field.{id, username, full_name, avatar_url}` projection
func parseUserSummary(data map[string]interface{}) *model.UserSummary {
	if data == nil {
		return nil
	}
	id := extractRecordID(data["id"])
	if id == "" {
		return nil
	}
	return &model.UserSummary{
		ID:        id,
		Username:  getString(data, "username"),
		FullName:  getString(data, "full_name"),
		AvatarURL: getString(data, "avatar_url"),
	}
}
