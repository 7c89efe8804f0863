package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ideahub/api/internal/model"
	"github.com/ideahub/api/internal/service"
)

// Registry is the part of the service registry the heartbeat uses
type Registry interface {
	Register(ctx context.Context, def model.ServiceDefinition) (*model.Service, error)
	Heartbeat(ctx context.Context, name string) error
	MarkDown(ctx context.Context, name string)
}

// RegistryHeartbeat keeps this process's registry entry UP while it runs
// and marks it DOWN on Stop.
type RegistryHeartbeat struct {
	registry Registry
	def      model.ServiceDefinition
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewRegistryHeartbeat creates a heartbeat job for def
func NewRegistryHeartbeat(registry Registry, def model.ServiceDefinition, interval time.Duration) *RegistryHeartbeat {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &RegistryHeartbeat{
		registry: registry,
		def:      def,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start registers the service and begins beating
func (h *RegistryHeartbeat) Start(ctx context.Context) error {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return nil
	}
	h.mu.Unlock()

	if _, err := h.registry.Register(ctx, h.def); err != nil {
		return err
	}

	h.mu.Lock()
	h.running = true
	h.mu.Unlock()

	h.wg.Add(1)
	go h.run()
	slog.Info("registry heartbeat started",
		slog.String("service", h.def.Name),
		slog.Duration("interval", h.interval),
	)
	return nil
}

// Stop ends the loop and marks the service DOWN
func (h *RegistryHeartbeat) Stop(ctx context.Context) {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.stopCh)
	h.wg.Wait()
	h.registry.MarkDown(ctx, h.def.Name)
	slog.Info("registry heartbeat stopped", slog.String("service", h.def.Name))
}

func (h *RegistryHeartbeat) run() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := h.RunOnce(ctx); err != nil {
				slog.Warn("registry heartbeat failed",
					slog.String("service", h.def.Name),
					slog.String("error", err.Error()),
				)
			}
			cancel()
		case <-h.stopCh:
			return
		}
	}
}

// RunOnce stamps one heartbeat, re-registering the service when its entry
// has been removed
func (h *RegistryHeartbeat) RunOnce(ctx context.Context) error {
	err := h.registry.Heartbeat(ctx, h.def.Name)
	if errors.Is(err, service.ErrServiceNotFound) {
		_, err = h.registry.Register(ctx, h.def)
	}
	return err
}

// IsRunning returns whether the heartbeat is running
func (h *RegistryHeartbeat) IsRunning() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}
