package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/internal/model"
)

// RegistryRepository defines the interface for service registry storage
type RegistryRepository interface {
	List(ctx context.Context) ([]*model.Service, error)
	Upsert(ctx context.Context, def model.ServiceDefinition) (*model.Service, error)
	Heartbeat(ctx context.Context, name string, status model.ServiceStatus) error
}

// RegistryService maintains the service registry
type RegistryService struct {
	repo RegistryRepository
}

// NewRegistryService creates a new registry service
func NewRegistryService(repo RegistryRepository) *RegistryService {
	return &RegistryService{repo: repo}
}

// List returns every registered service in name order
func (s *RegistryService) List(ctx context.Context) ([]*model.Service, error) {
	return s.repo.List(ctx)
}

// Register creates or replaces a registry entry
func (s *RegistryService) Register(ctx context.Context, def model.ServiceDefinition) (*model.Service, error) {
	def.Name = strings.TrimSpace(def.Name)
	if def.Name == "" {
		return nil, ErrServiceNameRequired
	}
	if def.DisplayName == "" {
		def.DisplayName = def.Name
	}
	return s.repo.Upsert(ctx, def)
}

// Heartbeat marks a registered service UP and stamps its heartbeat
func (s *RegistryService) Heartbeat(ctx context.Context, name string) error {
	err := s.repo.Heartbeat(ctx, name, model.ServiceStatusUp)
	if errors.Is(err, database.ErrNotFound) {
		return ErrServiceNotFound
	}
	return err
}

// MarkDown records that a service stopped
func (s *RegistryService) MarkDown(ctx context.Context, name string) {
	if err := s.repo.Heartbeat(ctx, name, model.ServiceStatusDown); err != nil && !errors.Is(err, database.ErrNotFound) {
		slog.Warn("mark service down", "service", name, "error", err)
	}
}

// DefaultCatalogue lists the services that make up an Idea Hub deployment
func DefaultCatalogue() []model.ServiceDefinition {
	return []model.ServiceDefinition{
		{
			Name:        "ideahub-api",
			DisplayName: "Idea Hub API",
			Port:        8080,
			HealthPath:  "/health",
			URLs: model.ServiceURLs{
				Development: "http://localhost:8080",
				Staging:     "https://api.staging.ideahub.dev",
				Production:  "https://api.ideahub.dev",
			},
		},
		{
			Name:        "ideahub-web",
			DisplayName: "Idea Hub Web",
			Port:        3000,
			HealthPath:  "/",
			URLs: model.ServiceURLs{
				Development: "http://localhost:3000",
				Staging:     "https://staging.ideahub.dev",
				Production:  "https://ideahub.dev",
			},
		},
		{
			Name:        "surrealdb",
			DisplayName: "SurrealDB",
			Port:        8000,
			HealthPath:  "/health",
			URLs: model.ServiceURLs{
				Development: "http://localhost:8000",
			},
		},
		{
			Name:        "meilisearch",
			DisplayName: "Meilisearch",
			Port:        7700,
			HealthPath:  "/health",
			URLs: model.ServiceURLs{
				Development: "http://localhost:7700",
			},
		},
		{
			Name:        "redis",
			DisplayName: "Redis",
			Port:        6379,
			HealthPath:  "",
			URLs: model.ServiceURLs{
				Development: "redis://localhost:6379",
			},
		},
	}
}
