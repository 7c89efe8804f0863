package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TokenPruner removes expired refresh tokens
type TokenPruner interface {
	DeleteExpired(ctx context.Context) error
}

// TokenCleanup periodically deletes expired refresh tokens. With a Redis
// token store the keys expire on their own and each run is a no-op.
type TokenCleanup struct {
	tokens   TokenPruner
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewTokenCleanup creates a new token cleanup job
func NewTokenCleanup(tokens TokenPruner, interval time.Duration) *TokenCleanup {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenCleanup{
		tokens:   tokens,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the cleanup loop
func (j *TokenCleanup) Start() {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return
	}
	j.running = true
	j.mu.Unlock()

	j.wg.Add(1)
	go j.run()
	slog.Info("token cleanup started", slog.Duration("interval", j.interval))
}

// Stop waits for an in-flight run to finish
func (j *TokenCleanup) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	j.running = false
	j.mu.Unlock()

	close(j.stopCh)
	j.wg.Wait()
	slog.Info("token cleanup stopped")
}

func (j *TokenCleanup) run() {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if err := j.RunOnce(ctx); err != nil {
				slog.Error("token cleanup failed", slog.String("error", err.Error()))
			}
			cancel()
		case <-j.stopCh:
			return
		}
	}
}

// RunOnce deletes expired tokens once
func (j *TokenCleanup) RunOnce(ctx context.Context) error {
	return j.tokens.DeleteExpired(ctx)
}

// IsRunning returns whether the job is running
func (j *TokenCleanup) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}
