package worker

import (
	"context"
	"sync"
	"time"

	"github.com/veloworks/user-service/internal/observability"
)

// Cleaner removes a user's data from a remote system.
type Cleaner interface {
	DeleteUser(ctx context.Context, userID string) error
}

// CleanupWorker runs best-effort remote cleanups detached from the
// request that enqueued them. The request returns before the outcome
// is known; the outcome is observed only through logging. A failed or
// dropped cleanup raises a consistency alert, since the local record
// is already gone and nothing will retry within the request.
type CleanupWorker struct {
	cleaner Cleaner
	logger  *observability.Logger
	timeout time.Duration

	tasks chan string
	wg    sync.WaitGroup
	once  sync.Once
}

func NewCleanupWorker(cleaner Cleaner, logger *observability.Logger, queueSize int, timeout time.Duration) *CleanupWorker {
	if queueSize <= 0 {
		queueSize = 128
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &CleanupWorker{
		cleaner: cleaner,
		logger:  logger,
		timeout: timeout,
		tasks:   make(chan string, queueSize),
	}
}

// Start launches the consumer goroutine.
func (w *CleanupWorker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for userID := range w.tasks {
			w.run(userID)
		}
	}()
}

// Stop drains the queue and waits for in-flight cleanups to finish.
func (w *CleanupWorker) Stop() {
	w.once.Do(func() {
		close(w.tasks)
	})
	w.wg.Wait()
}

// Enqueue hands a cleanup to the worker without blocking the caller.
// A full queue means the cleanup will never run, which is itself a
// divergence worth alerting on.
func (w *CleanupWorker) Enqueue(userID string) {
	select {
	case w.tasks <- userID:
	default:
		w.logger.ConsistencyAlert("analytics cleanup dropped, queue full", map[string]any{
			"user_id": userID,
		})
	}
}

func (w *CleanupWorker) run(userID string) {
	// The remote call gets its own deadline; the originating request
	// context is long gone by the time this runs.
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.cleaner.DeleteUser(ctx, userID); err != nil {
		w.logger.ConsistencyAlert("analytics cleanup failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}

	w.logger.Info("analytics_cleanup_done", map[string]any{
		"user_id": userID,
	})
}
