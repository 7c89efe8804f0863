package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/internal/model"
	"github.com/surrealdb/surrealdb.go/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the plain-text password of every fixture user
const DefaultPassword = "testpass123"

// Factory creates test entities in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func (f *Factory) create(t *testing.T, what, query string, vars map[string]interface{}) map[string]interface{} {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := f.db.Query(ctx, query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create %s: %v", what, err)
	}
	return extractFirstResult(t, results)
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Email    string
	Username string
	Password string
	FullName string
	Role     model.UserRole
}

// WithUsername sets the username
func WithUsername(username string) func(*UserOpts) {
	return func(o *UserOpts) { o.Username = username }
}

// CreateUser creates a user with a bcrypt hash of DefaultPassword
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	id := randomID()
	o := &UserOpts{
		Email:    fmt.Sprintf("user_%s@test.local", id),
		Username: fmt.Sprintf("user_%s", id),
		Password: DefaultPassword,
		FullName: "Test User",
		Role:     model.UserRoleUser,
	}
	for _, fn := range opts {
		fn(o)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	data := f.create(t, "user", `
		CREATE user CONTENT {
			email: $email,
			username: $username,
			hash: $hash,
			full_name: $full_name,
			role: $role,
			created_at: time::now(),
			updated_at: time::now()
		}
	`, map[string]interface{}{
		"email":     o.Email,
		"username":  o.Username,
		"hash":      string(hash),
		"full_name": o.FullName,
		"role":      string(o.Role),
	})

	return &model.User{
		ID:        getID(data, "id"),
		Email:     o.Email,
		Username:  o.Username,
		FullName:  o.FullName,
		Role:      o.Role,
		CreatedAt: getTime(data, "created_at"),
		UpdatedAt: getTime(data, "updated_at"),
	}
}

// ============================================================================
// Idea Fixtures
// ============================================================================

// IdeaOpts customizes idea creation
type IdeaOpts struct {
	Title       string
	Description string
	Category    string
	Language    string
	Tags        []string
	Visibility  model.Visibility
	Status      model.IdeaStatus
	Stars       int
	Forks       int
}

// WithVisibility sets the idea visibility
func WithVisibility(v model.Visibility) func(*IdeaOpts) {
	return func(o *IdeaOpts) { o.Visibility = v }
}

// WithStatus sets the idea status
func WithStatus(s model.IdeaStatus) func(*IdeaOpts) {
	return func(o *IdeaOpts) { o.Status = s }
}

// WithTitle sets the idea title
func WithTitle(title string) func(*IdeaOpts) {
	return func(o *IdeaOpts) { o.Title = title }
}

// WithTags sets the idea tags
func WithTags(tags ...string) func(*IdeaOpts) {
	return func(o *IdeaOpts) { o.Tags = tags }
}

// WithStars sets the star count
func WithStars(n int) func(*IdeaOpts) {
	return func(o *IdeaOpts) { o.Stars = n }
}

// WithForks sets the fork count
func WithForks(n int) func(*IdeaOpts) {
	return func(o *IdeaOpts) { o.Forks = n }
}

// WithCategory sets the category
func WithCategory(c string) func(*IdeaOpts) {
	return func(o *IdeaOpts) { o.Category = c }
}

// CreateIdea creates a public published idea authored by author
func (f *Factory) CreateIdea(t *testing.T, author *model.User, opts ...func(*IdeaOpts)) *model.Idea {
	t.Helper()

	o := &IdeaOpts{
		Title:       fmt.Sprintf("Idea %s", randomID()),
		Description: "Test idea description",
		Category:    "tooling",
		Language:    "Go",
		Tags:        []string{},
		Visibility:  model.VisibilityPublic,
		Status:      model.IdeaStatusPublished,
	}
	for _, fn := range opts {
		fn(o)
	}

	data := f.create(t, "idea", `
		CREATE idea CONTENT {
			title: $title,
			description: $description,
			category: $category,
			language: $language,
			tags: $tags,
			visibility: $visibility,
			status: $status,
			stars: $stars,
			forks: $forks,
			author: type::record($author),
			created_at: time::now(),
			updated_at: time::now()
		}
	`, map[string]interface{}{
		"title":       o.Title,
		"description": o.Description,
		"category":    o.Category,
		"language":    o.Language,
		"tags":        o.Tags,
		"visibility":  string(o.Visibility),
		"status":      string(o.Status),
		"stars":       o.Stars,
		"forks":       o.Forks,
		"author":      author.ID,
	})

	return &model.Idea{
		ID:          getID(data, "id"),
		Title:       o.Title,
		Description: o.Description,
		Category:    o.Category,
		Language:    o.Language,
		Tags:        o.Tags,
		Visibility:  o.Visibility,
		Status:      o.Status,
		Stars:       o.Stars,
		Forks:       o.Forks,
		AuthorID:    author.ID,
		CreatedAt:   getTime(data, "created_at"),
		UpdatedAt:   getTime(data, "updated_at"),
	}
}

// ============================================================================
// Comment Fixtures
// ============================================================================

// CreateComment creates a top-level comment on idea
func (f *Factory) CreateComment(t *testing.T, idea *model.Idea, author *model.User) *model.Comment {
	t.Helper()
	return f.createComment(t, idea, author, "")
}

// CreateReply creates a reply to parent
func (f *Factory) CreateReply(t *testing.T, parent *model.Comment, author *model.User) *model.Comment {
	t.Helper()
	return f.createComment(t, &model.Idea{ID: parent.IdeaID}, author, parent.ID)
}

func (f *Factory) createComment(t *testing.T, idea *model.Idea, author *model.User, parentID string) *model.Comment {
	t.Helper()

	content := fmt.Sprintf("Comment %s", randomID())
	var parent interface{} = models.None
	if parentID != "" {
		parent = parentID
	}

	data := f.create(t, "comment", `
		CREATE comment CONTENT {
			content: $content,
			author: type::record($author),
			idea: type::record($idea),
			parent: IF $parent != NONE THEN type::record($parent) ELSE NONE END,
			votes: 0,
			created_at: time::now(),
			updated_at: time::now()
		}
	`, map[string]interface{}{
		"content": content,
		"author":  author.ID,
		"idea":    idea.ID,
		"parent":  parent,
	})

	return &model.Comment{
		ID:        getID(data, "id"),
		Content:   content,
		AuthorID:  author.ID,
		IdeaID:    idea.ID,
		ParentID:  parentID,
		Replies:   []*model.Comment{},
		CreatedAt: getTime(data, "created_at"),
		UpdatedAt: getTime(data, "updated_at"),
	}
}

// ============================================================================
// Collaborator Fixtures
// ============================================================================

// AddCollaborator links user to idea without limit checks
func (f *Factory) AddCollaborator(t *testing.T, idea *model.Idea, user *model.User) {
	t.Helper()

	f.create(t, "collaborator", `
		CREATE collaborator CONTENT {
			idea: type::record($idea),
			user: type::record($user),
			created_at: time::now()
		}
	`, map[string]interface{}{
		"idea": idea.ID,
		"user": user.ID,
	})
}

// ============================================================================
// Data Extraction Helpers
// ============================================================================

func extractFirstResult(t *testing.T, results []interface{}) map[string]interface{} {
	t.Helper()
	if len(results) == 0 {
		t.Fatal("fixtures: no results returned")
	}

	resp, ok := results[0].(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", results[0])
	}

	result, ok := resp["result"]
	if !ok {
		t.Fatal("fixtures: no result in response")
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			t.Fatal("fixtures: empty result array")
		}
		data, ok := arr[0].(map[string]interface{})
		if !ok {
			t.Fatalf("fixtures: unexpected array item type: %T", arr[0])
		}
		return data
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", result)
	}
	return data
}

func getID(data map[string]interface{}, key string) string {
	switch v := data[key].(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
	}
	return ""
}

func getTime(data map[string]interface{}, key string) time.Time {
	switch v := data[key].(type) {
	case string:
		t, _ := time.Parse(time.RFC3339Nano, v)
		return t
	case models.CustomDateTime:
		return v.Time
	case time.Time:
		return v
	}
	return time.Time{}
}
