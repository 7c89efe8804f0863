package service

import (
	"context"
	"errors"
	"fmt"
	mrand "math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/internal/model"

	"golang.org/x/crypto/bcrypt"
)

// SeedPassword is the password of every seeded user
const SeedPassword = "testpass123"

// SeederService generates demo data for development
type SeederService struct {
	users    UserCreator
	ideas    IdeaRepository
	comments CommentRepository
	registry *RegistryService
}

// UserCreator stores users
type UserCreator interface {
	Create(ctx context.Context, user *model.User) error
}

// SeederServiceConfig holds configuration for the seeder
type SeederServiceConfig struct {
	Users    UserCreator
	Ideas    IdeaRepository
	Comments CommentRepository
	Registry *RegistryService
}

// NewSeederService creates a new seeder service
func NewSeederService(cfg SeederServiceConfig) *SeederService {
	return &SeederService{
		users:    cfg.Users,
		ideas:    cfg.Ideas,
		comments: cfg.Comments,
		registry: cfg.Registry,
	}
}

// SeedRequest configures a seeding run
type SeedRequest struct {
	Users        int
	IdeasPerUser int
	// Prefix for seeded usernames and emails to identify them later
	Prefix string
}

// SeedResult contains the results of a seeding operation
type SeedResult struct {
	Services int      `json:"services"`
	Users    int      `json:"users"`
	Ideas    int      `json:"ideas"`
	Comments int      `json:"comments"`
	UserIDs  []string `json:"user_ids"`
	Duration int64    `json:"duration_ms"`
}

// Sample data for realistic generation
var (
	seedNames = []string{
		"Ada Park", "Linus Hale", "Grace Moreno", "Ken Ito", "Margaret Shaw",
		"Dennis Okafor", "Barbara Lind", "Ward Quinn", "Frances Alvarez", "Rob Pike",
	}
	seedBios = []string{
		"Building tools for people who build tools.",
		"Weekend hacker, weekday platform engineer.",
		"Always sketching the next side project.",
		"Open source maintainer and tea enthusiast.",
		"Interested in developer experience and small fast programs.",
	}
	seedTitles = []string{
		"Offline-first notes app", "Terminal dashboard for CI runs", "Recipe scaler",
		"Local-only password vault", "Markdown slide deck compiler", "Home energy tracker",
		"Plant watering reminder", "Collaborative whiteboard", "Git commit message linter",
		"Static site search index",
	}
	seedCategories = []string{"tooling", "web", "mobile", "data", "hardware", "games"}
	seedLanguages  = []string{"Go", "TypeScript", "Rust", "Python", "Kotlin"}
	seedTags       = []string{"cli", "open-source", "productivity", "ai", "privacy", "realtime", "self-hosted"}
	seedComments   = []string{
		"Love this, would use it daily.",
		"Have you looked at existing solutions for this?",
		"Happy to help with the backend.",
		"What would the MVP look like?",
	}
)

// SeedRegistry writes the default service catalogue
func (s *SeederService) SeedRegistry(ctx context.Context) (int, error) {
	catalogue := DefaultCatalogue()
	for _, def := range catalogue {
		if _, err := s.registry.Register(ctx, def); err != nil {
			return 0, fmt.Errorf("failed to register %s: %w", def.Name, err)
		}
	}
	return len(catalogue), nil
}

// Seed creates the registry catalogue plus demo users, ideas and comments
func (s *SeederService) Seed(ctx context.Context, req SeedRequest) (*SeedResult, error) {
	start := time.Now()

	if req.Users <= 0 || req.Users > 1000 {
		return nil, fmt.Errorf("users must be between 1 and 1000")
	}
	if req.IdeasPerUser < 0 || req.IdeasPerUser > 50 {
		return nil, fmt.Errorf("ideas per user must be between 0 and 50")
	}
	if req.Prefix == "" {
		req.Prefix = "seed_"
	}

	result := &SeedResult{}

	services, err := s.SeedRegistry(ctx)
	if err != nil {
		return nil, err
	}
	result.Services = services

	// Seeded accounts favour speed over hash strength
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	users := make([]*model.User, 0, req.Users)
	for i := 0; i < req.Users; i++ {
		user, err := s.seedUser(ctx, req.Prefix, string(hash))
		if err != nil {
			return nil, err
		}
		users = append(users, user)
		result.UserIDs = append(result.UserIDs, user.ID)
	}
	result.Users = len(users)

	for _, author := range users {
		for j := 0; j < req.IdeasPerUser; j++ {
			idea, err := s.seedIdea(ctx, author)
			if err != nil {
				return nil, err
			}
			result.Ideas++

			if s.comments == nil || len(users) < 2 {
				continue
			}
			commenter := pickOther(users, author)
			if _, err := s.comments.Create(ctx, &model.Comment{
				Content:  pick(seedComments),
				AuthorID: commenter.ID,
				IdeaID:   idea.ID,
			}); err != nil {
				return nil, fmt.Errorf("failed to create comment: %w", err)
			}
			result.Comments++
		}
	}

	result.Duration = time.Since(start).Milliseconds()
	return result, nil
}

func (s *SeederService) seedUser(ctx context.Context, prefix, hash string) (*model.User, error) {
	key := randomKey()
	name := pick(seedNames)
	user := &model.User{
		Email:       fmt.Sprintf("%s%s@test.local", prefix, key),
		Username:    prefix + key,
		Hash:        hash,
		FullName:    name,
		Bio:         pick(seedBios),
		AvatarURL:   "https://avatars.ideahub.dev/" + key + ".png",
		Followers:   mrand.IntN(500),
		Following:   mrand.IntN(200),
		PublicRepos: mrand.IntN(60),
		IsVerified:  true,
		Role:        model.UserRoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, fmt.Errorf("seed user %s collided: %w", user.Username, err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *SeederService) seedIdea(ctx context.Context, author *model.User) (*model.Idea, error) {
	visibility := model.VisibilityPublic
	status := model.IdeaStatusPublished
	// Roughly one in five ideas is private or still a draft
	switch mrand.IntN(10) {
	case 0:
		visibility = model.VisibilityPrivate
	case 1:
		status = model.IdeaStatusDraft
	}

	title := pick(seedTitles)
	idea := &model.Idea{
		Title:       title,
		Description: fmt.Sprintf("%s. Looking for collaborators who care about %s.", title, strings.ToLower(pick(seedTags))),
		Category:    pick(seedCategories),
		Language:    pick(seedLanguages),
		Tags:        pickTags(),
		Visibility:  visibility,
		Status:      status,
		AuthorID:    author.ID,
	}

	if err := s.ideas.Create(ctx, idea); err != nil {
		return nil, fmt.Errorf("failed to create idea: %w", err)
	}
	return idea, nil
}

func pick(values []string) string {
	return values[mrand.IntN(len(values))]
}

func pickTags() []string {
	n := 1 + mrand.IntN(3)
	perm := mrand.Perm(len(seedTags))
	tags := make([]string, 0, n)
	for _, i := range perm[:n] {
		tags = append(tags, seedTags[i])
	}
	return tags
}

func pickOther(users []*model.User, not *model.User) *model.User {
	for {
		u := users[mrand.IntN(len(users))]
		if u != not {
			return u
		}
	}
}

// randomKey returns a short unique suffix for seeded records
func randomKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
