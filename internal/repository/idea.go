package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/internal/model"
	"github.com/surrealdb/surrealdb.go/pkg/models"
	"golang.org/x/sync/errgroup"
)

const ideaSelect = `SELECT *, author.` + userSummaryFields + ` AS author_info FROM idea`

// IdeaRepository handles idea data access
type IdeaRepository struct {
	db database.Database
}

// NewIdeaRepository creates a new idea repository
func NewIdeaRepository(db database.Database) *IdeaRepository {
	return &IdeaRepository{db: db}
}

// Create creates a new idea and fills in its id and timestamps
func (r *IdeaRepository) Create(ctx context.Context, idea *model.Idea) error {
	query := `
		CREATE idea CONTENT {
			title: $title,
			description: $description,
			category: $category,
			language: $language,
			tags: $tags,
			visibility: $visibility,
			status: $status,
			stars: 0,
			forks: 0,
			author: type::record($author),
			created_at: time::now(),
			updated_at: time::now()
		}
	`

	tags := idea.Tags
	if tags == nil {
		tags = []string{}
	}

	vars := map[string]interface{}{
		"title":       idea.Title,
		"description": noneIfEmpty(idea.Description),
		"category":    noneIfEmpty(idea.Category),
		"language":    noneIfEmpty(idea.Language),
		"tags":        tags,
		"visibility":  string(idea.Visibility),
		"status":      string(idea.Status),
		"author":      recordID("user", idea.AuthorID),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	row := firstRow(result)
	if row == nil {
		return errors.New("create idea: no record returned")
	}

	created := parseIdea(row)
	idea.ID = created.ID
	idea.AuthorID = created.AuthorID
	idea.Tags = created.Tags
	idea.CreatedAt = created.CreatedAt
	idea.UpdatedAt = created.UpdatedAt
	return nil
}

// GetByID retrieves an idea with its author summary
func (r *IdeaRepository) GetByID(ctx context.Context, id string) (*model.Idea, error) {
	query := `SELECT *, author.` + userSummaryFields + ` AS author_info FROM type::record($id)`
	vars := map[string]interface{}{"id": recordID("idea", id)}

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
	return parseIdea(row), nil
}

// GetByIDs loads ideas by id, keeping the order of ids and skipping missing ones
func (r *IdeaRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Idea, error) {
	if len(ids) == 0 {
		return []*model.Idea{}, nil
	}

	full := make([]string, len(ids))
	refs := make([]*models.RecordID, len(ids))
	for i, id := range ids {
		full[i] = recordID("idea", id)
		ref := models.NewRecordID("idea", strings.TrimPrefix(full[i], "idea:"))
		refs[i] = &ref
	}

	query := ideaSelect + ` WHERE id IN $ids`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"ids": refs})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.Idea)
	for _, row := range statementRows(result, 0) {
		idea := parseIdea(row)
		byID[idea.ID] = idea
	}

	ideas := make([]*model.Idea, 0, len(full))
	for _, id := range full {
		if idea, ok := byID[id]; ok {
			ideas = append(ideas, idea)
		}
	}
	return ideas, nil
}

// List returns the ideas matching filter. When filter.Page is set the page
// and the total count are fetched concurrently.
func (r *IdeaRepository) List(ctx context.Context, filter model.IdeaFilter) (*model.IdeaPage, error) {
	where, vars := buildIdeaWhere(filter)
	order := ideaOrderBy(filter.Sort)

	if filter.Page == nil {
		ideas, err := r.listRows(ctx, ideaSelect+where+order, vars)
		if err != nil {
			return nil, err
		}
		return &model.IdeaPage{Ideas: ideas}, nil
	}

	page := *filter.Page
	pageVars := make(map[string]interface{}, len(vars)+2)
	for k, v := range vars {
		pageVars[k] = v
	}
	pageVars["limit"] = page.Limit
	pageVars["start"] = page.Skip()

	var (
		ideas []*model.Idea
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ideas, err = r.listRows(gctx, ideaSelect+where+order+` LIMIT $limit START $start`, pageVars)
		return err
	})
	g.Go(func() error {
		result, err := r.db.Query(gctx, `SELECT count() AS count FROM idea`+where+` GROUP ALL`, vars)
		if err != nil {
			return err
		}
		total = extractCount(result)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.IdeaPage{
		Ideas:      ideas,
		Pagination: model.NewPagination(page, total),
	}, nil
}

func (r *IdeaRepository) listRows(ctx context.Context, query string, vars map[string]interface{}) ([]*model.Idea, error) {
	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows := statementRows(result, 0)
	ideas := make([]*model.Idea, 0, len(rows))
	for _, row := range rows {
		ideas = append(ideas, parseIdea(row))
	}
	return ideas, nil
}

// buildIdeaWhere renders the WHERE clause for a listing. The access rule
// (public and published, or authored by the viewer) is always present.
func buildIdeaWhere(f model.IdeaFilter) (string, map[string]interface{}) {
	vars := map[string]interface{}{}
	var conds []string

	if f.ViewerID != "" {
		conds = append(conds, `((visibility = 'PUBLIC' AND status = 'PUBLISHED') OR author = type::record($viewer))`)
		vars["viewer"] = recordID("user", f.ViewerID)
	} else {
		conds = append(conds, `visibility = 'PUBLIC' AND status = 'PUBLISHED'`)
	}

	if f.Category != "" {
		conds = append(conds, `category = $category`)
		vars["category"] = f.Category
	}
	if f.Language != "" {
		conds = append(conds, `language = $language`)
		vars["language"] = f.Language
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		conds = append(conds, `(string::lowercase(title) CONTAINS $search OR string::lowercase(description ?? '') CONTAINS $search)`)
		vars["search"] = strings.ToLower(s)
	}
	if len(f.Tags) > 0 {
		conds = append(conds, `tags CONTAINSANY $tags`)
		vars["tags"] = f.Tags
	}
	if f.Visibility != "" {
		conds = append(conds, `visibility = $visibility`)
		vars["visibility"] = string(f.Visibility)
	}
	if f.Status != "" {
		conds = append(conds, `status = $status`)
		vars["status"] = string(f.Status)
	}
	if f.AuthorID != "" {
		conds = append(conds, `author = type::record($author)`)
		vars["author"] = recordID("user", f.AuthorID)
	}

	return " WHERE " + strings.Join(conds, " AND "), vars
}

// ideaOrderBy maps a sort key to ORDER BY; id breaks ties
func ideaOrderBy(sort model.SortKey) string {
	switch sort {
	case model.SortOldest:
		return " ORDER BY created_at ASC, id ASC"
	case model.SortMostStars:
		return " ORDER BY stars DESC, id ASC"
	case model.SortMostForks:
		return " ORDER BY forks DESC, id ASC"
	case model.SortRecentlyUpdated:
		return " ORDER BY updated_at DESC, id ASC"
	default:
		return " ORDER BY created_at DESC, id ASC"
	}
}

func parseIdea(data map[string]interface{}) *model.Idea {
	return &model.Idea{
		ID:          extractRecordID(data["id"]),
		Title:       getString(data, "title"),
		Description: getString(data, "description"),
		Category:    getString(data, "category"),
		Language:    getString(data, "language"),
		Tags:        getStringSlice(data, "tags"),
		Visibility:  model.Visibility(getString(data, "visibility")),
		Status:      model.IdeaStatus(getString(data, "status")),
		Stars:       getInt(data, "stars"),
		Forks:       getInt(data, "forks"),
		AuthorID:    extractRecordID(data["author"]),
		Author:      parseUserSummary(getMap(data, "author_info")),
		CreatedAt:   parseTime(data["created_at"]),
		UpdatedAt:   parseTime(data["updated_at"]),
	}
}
