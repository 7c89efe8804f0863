package handler

import (
	"context"
	"net/http"

	"github.com/ideahub/api/internal/model"
)

// RegistryService is the registry API used by RegistryHandler
type RegistryService interface {
	List(ctx context.Context) ([]*model.Service, error)
}

// RegistryHandler exposes the service registry
type RegistryHandler struct {
	registry RegistryService
}

// NewRegistryHandler creates a new registry handler
func NewRegistryHandler(registry RegistryService) *RegistryHandler {
	return &RegistryHandler{registry: registry}
}

// List handles GET /api/services
func (h *RegistryHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.registry.List(r.Context())
	if err != nil {
		fail(w, r, routes, err, "list services")
		return
	}
	routes.Success(w, OK(services))
}
