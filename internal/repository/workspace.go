package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/internal/model"
)

// Expands the idea, the idea's author and the owning user
const workspaceFields = `*, idea.* AS idea_info, idea.author.` + userSummaryFields + ` AS idea_author_info, user.` + userSummaryFields + ` AS author_info`

// WorkspaceRepository handles workspace data access
type WorkspaceRepository struct {
	db database.Database
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db database.Database) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Create stores a workspace with initial document and whiteboard content
func (r *WorkspaceRepository) Create(ctx context.Context, w *model.Workspace) (*model.Workspace, error) {
	query := `
		CREATE workspace CONTENT {
			name: $name,
			archived: false,
			document: $document,
			whiteboard: $whiteboard,
			idea: type::record($idea),
			user: type::record($user),
			created_at: time::now(),
			updated_at: time::now()
		}
	`

	vars := map[string]interface{}{
		"name":       w.Name,
		"document":   w.Document,
		"whiteboard": w.Whiteboard,
		"idea":       recordID("idea", w.IdeaID),
		"user":       recordID("user", w.UserID),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	row := firstRow(result)
	if row == nil {
		return nil, errors.New("create workspace: no record returned")
	}
	return parseWorkspace(row), nil
}

// GetByID retrieves a workspace with its idea and author expanded
func (r *WorkspaceRepository) GetByID(ctx context.Context, id string) (*model.Workspace, error) {
	query := `SELECT ` + workspaceFields + ` FROM type::record($id)`
	vars := map[string]interface{}{"id": recordID("workspace", id)}

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
	return parseWorkspace(row), nil
}

// List returns workspaces newest first, optionally only those owned by userID
func (r *WorkspaceRepository) List(ctx context.Context, userID string) ([]*model.Workspace, error) {
	query := `SELECT ` + workspaceFields + ` FROM workspace`
	vars := map[string]interface{}{}
	if userID != "" {
		query += ` WHERE user = type::record($user)`
		vars["user"] = recordID("user", userID)
	}
	query += ` ORDER BY created_at DESC, id ASC`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows := statementRows(result, 0)
	workspaces := make([]*model.Workspace, 0, len(rows))
	for _, row := range rows {
		workspaces = append(workspaces, parseWorkspace(row))
	}
	return workspaces, nil
}

// Update writes only the supplied fields. Returns nil when absent.
func (r *WorkspaceRepository) Update(ctx context.Context, id string, patch *model.WorkspacePatch) (*model.Workspace, error) {
	sets := []string{"updated_at = time::now()"}
	vars := map[string]interface{}{"id": recordID("workspace", id)}

	if patch.Document != nil {
		sets = append(sets, "document = $document")
		vars["document"] = patch.Document
	}
	if patch.Whiteboard != nil {
		sets = append(sets, "whiteboard = $whiteboard")
		vars["whiteboard"] = patch.Whiteboard
	}
	if patch.Name != nil {
		sets = append(sets, "name = $name")
		vars["name"] = *patch.Name
	}
	if patch.Archived != nil {
		sets = append(sets, "archived = $archived")
		vars["archived"] = *patch.Archived
	}

	query := `UPDATE workspace SET ` + strings.Join(sets, ", ") + ` WHERE id = type::record($id) RETURN AFTER`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	if firstRow(result) == nil {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// Delete removes a workspace, reporting whether it existed
func (r *WorkspaceRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE workspace WHERE id = type::record($id) RETURN BEFORE`
	vars := map[string]interface{}{"id": recordID("workspace", id)}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return false, err
	}
	return firstRow(result) != nil, nil
}

func parseWorkspace(data map[string]interface{}) *model.Workspace {
	w := &model.Workspace{
		ID:         extractRecordID(data["id"]),
		Name:       getString(data, "name"),
		Archived:   getBool(data, "archived"),
		Document:   getObject(data, "document"),
		Whiteboard: getObject(data, "whiteboard"),
		IdeaID:     extractRecordID(data["idea"]),
		UserID:     extractRecordID(data["user"]),
		Author:     parseUserSummary(getMap(data, "author_info")),
		CreatedAt:  parseTime(data["created_at"]),
		UpdatedAt:  parseTime(data["updated_at"]),
	}

	if info := getMap(data, "idea_info"); info != nil {
		w.Idea = parseIdea(info)
		w.Idea.Author = parseUserSummary(getMap(data, "idea_author_info"))
	}
	return w
}
