package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
)

const (
	idxIdeas            = "ideahub_ideas"
	healthCheckInterval = 10 * time.Second
)

var errUnhealthy = errors.New("meilisearch unhealthy")

// Meili implements Index via Meilisearch
type Meili struct {
	client    meili.ServiceManager
	healthy   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewMeili creates a Meilisearch client, configures the idea index and
// starts a background health monitor. An unreachable server is not an
// error; the index reports unhealthy until it recovers.
func NewMeili(url, apiKey string) *Meili {
	m := &Meili{
		client: meili.New(url, meili.WithAPIKey(apiKey)),
		done:   make(chan struct{}),
	}

	if _, err := m.client.Health(); err != nil {
		slog.Warn("meilisearch unavailable", "url", url, "error", err)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        idxIdeas,
		PrimaryKey: "id",
	}); err != nil {
		slog.Debug("create search index (may already exist)", "index", idxIdeas, "error", err)
	}

	index := m.client.Index(idxIdeas)

	filterable := []interface{}{"visibility", "status", "category", "language", "tags"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		slog.Warn("update filterable attributes", "index", idxIdeas, "error", err)
	}
	searchable := []string{"title", "description", "tags"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		slog.Warn("update searchable attributes", "index", idxIdeas, "error", err)
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				slog.Info("meilisearch recovered, reconfiguring index")
				m.configureIndex()
			}
		}
	}
}

// Close stops the background health monitor
func (m *Meili) Close() {
	m.closeOnce.Do(func() { close(m.done) })
}

// Healthy reports whether Meilisearch is reachable
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// Search queries the idea index for public published ideas
func (m *Meili) Search(ctx context.Context, q Query) ([]string, int, error) {
	if !m.healthy.Load() {
		return nil, 0, errUnhealthy
	}

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	resp, err := m.client.Index(idxIdeas).SearchWithContext(ctx, q.Text, &meili.SearchRequest{
		Limit:                int64(q.Page.Limit),
		Offset:               int64(q.Page.Skip()),
		AttributesToRetrieve: []string{"id"},
		Filter:               []string{`visibility = "PUBLIC"`, `status = "PUBLISHED"`},
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, 0, fmt.Errorf("meilisearch search: %w", err)
	}

	ids := make([]string, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		if id := decodeString(hit, "id"); id != "" {
			ids = append(ids, recordID(id))
		}
	}
	return ids, int(resp.EstimatedTotalHits), nil
}

// IndexIdeas adds or replaces ideas in the index
func (m *Meili) IndexIdeas(ctx context.Context, ideas []IdeaRecord) error {
	if len(ideas) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := m.client.Index(idxIdeas).AddDocumentsWithContext(ctx, ideas, nil)
	return err
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}
