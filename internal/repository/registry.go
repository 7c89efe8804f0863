package repository

import (
	"context"
	"errors"

	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/internal/model"
)

// RegistryRepository handles service registry data access.
// Entries are keyed by name: service:<name>.
type RegistryRepository struct {
	db database.Database
}

// NewRegistryRepository creates a new registry repository
func NewRegistryRepository(db database.Database) *RegistryRepository {
	return &RegistryRepository{db: db}
}

// List returns every registry entry in name order
func (r *RegistryRepository) List(ctx context.Context) ([]*model.Service, error) {
	result, err := r.db.Query(ctx, `SELECT * FROM service ORDER BY name ASC`, nil)
	if err != nil {
		return nil, err
	}

	rows := statementRows(result, 0)
	services := make([]*model.Service, 0, len(rows))
	for _, row := range rows {
		services = append(services, parseService(row))
	}
	return services, nil
}

// Upsert creates or replaces the definition of a service, keeping its
// status and heartbeat.
func (r *RegistryRepository) Upsert(ctx context.Context, def model.ServiceDefinition) (*model.Service, error) {
	query := `
		UPSERT type::thing("service", $name) SET
			name = $name,
			display_name = $display_name,
			port = $port,
			health_path = $health_path,
			version = $version,
			urls = $urls,
			status = status ?? "UNKNOWN",
			created_at = created_at ?? time::now(),
			updated_at = time::now()
		RETURN AFTER
	`

	healthPath := def.HealthPath
	if healthPath == "" {
		healthPath = "/health"
	}
	version := def.Version
	if version == "" {
		version = "0.0.0"
	}

	urls := map[string]interface{}{}
	if def.URLs.Development != "" {
		urls["development"] = def.URLs.Development
	}
	if def.URLs.Staging != "" {
		urls["staging"] = def.URLs.Staging
	}
	if def.URLs.Production != "" {
		urls["production"] = def.URLs.Production
	}

	vars := map[string]interface{}{
		"name":         def.Name,
		"display_name": def.DisplayName,
		"port":         def.Port,
		"health_path":  healthPath,
		"version":      version,
		"urls":         urls,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	row := firstRow(result)
	if row == nil {
		return nil, errors.New("upsert service: no record returned")
	}
	return parseService(row), nil
}

// Heartbeat records the status of a registered service. Returns
// database.ErrNotFound when the service is not registered.
func (r *RegistryRepository) Heartbeat(ctx context.Context, name string, status model.ServiceStatus) error {
	query := `UPDATE service SET status = $status, last_heartbeat = time::now() WHERE name = $name RETURN AFTER`
	vars := map[string]interface{}{
		"name":   name,
		"status": string(status),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}
	if firstRow(result) == nil {
		return database.ErrNotFound
	}
	return nil
}

func parseService(data map[string]interface{}) *model.Service {
	urls := getMap(data, "urls")
	status := model.ServiceStatus(getString(data, "status"))
	if status == "" {
		status = model.ServiceStatusUnknown
	}
	return &model.Service{
		ID:          extractRecordID(data["id"]),
		Name:        getString(data, "name"),
		DisplayName: getString(data, "display_name"),
		Port:        getInt(data, "port"),
		HealthPath:  getString(data, "health_path"),
		Version:     getString(data, "version"),
		URLs: model.ServiceURLs{
			Development: getString(urls, "development"),
			Staging:     getString(urls, "staging"),
			Production:  getString(urls, "production"),
		},
		Status:        status,
		LastHeartbeat: getTimePtr(data, "last_heartbeat"),
		CreatedAt:     parseTime(data["created_at"]),
		UpdatedAt:     parseTime(data["updated_at"]),
	}
}
