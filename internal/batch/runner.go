// Package batch sequences one collection pass: collect videos and comments,
// collect channel rankings, then signal the downstream consumer. Each step
// absorbs its item-level failures; a step only fails the run when the
// orchestration itself cannot proceed.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"trendwatch/internal/csvout"
	"trendwatch/internal/ranking"
	"trendwatch/internal/youtube"
)

// Notifier is the downstream refresh signal.
type Notifier interface {
	Notify(ctx context.Context) error
}

// Orchestrator is the fan-out fetch capability the runner drives.
type Orchestrator interface {
	CollectVideos(ctx context.Context) map[string][]youtube.Video
	CollectComments(ctx context.Context, videos map[string][]youtube.Video) map[string][]youtube.Comment
	CollectRankings(ctx context.Context) map[string][]ranking.Channel
}

// Runner owns one pipeline's collaborators and runs passes over them.
type Runner struct {
	collector Orchestrator
	writer    *csvout.Writer
	notifier  Notifier
	logger    *slog.Logger
	running   atomic.Bool
}

// NewRunner creates a Runner.
func NewRunner(c Orchestrator, w *csvout.Writer, n Notifier, logger *slog.Logger) *Runner {
	return &Runner{
		collector: c,
		writer:    w,
		notifier:  n,
		logger:    logger,
	}
}

// Run executes one full pass. The returned error is fatal for this pass
// only; the next scheduled pass starts from scratch, no state is kept.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.New().String()
	log := r.logger.With("run_id", runID)

	started := time.Now()
	log.Info("batch pass started", "at", started.Format(time.RFC3339))

	if err := r.collectVideosStep(ctx, log); err != nil {
		log.Error("video step failed, aborting pass", "error", err)
		return err
	}
	if err := r.collectRankingsStep(ctx, log); err != nil {
		log.Error("ranking step failed, aborting pass", "error", err)
		return err
	}
	r.notifyStep(ctx, log)

	log.Info("batch pass finished", "elapsed", time.Since(started).String())
	return nil
}

// collectVideosStep fetches every video bucket, writes each to
// {key}_video, then fetches and writes {key}_comments for every
// non-aggregate bucket.
func (r *Runner) collectVideosStep(ctx context.Context, log *slog.Logger) error {
	videos := r.collector.CollectVideos(ctx)

	for key, list := range videos {
		name := key + "_video"
		if err := csvout.Write(r.writer, list, name); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Info("saved videos", "key", key, "count", len(list))
	}

	comments := r.collector.CollectComments(ctx, videos)
	for key, list := range comments {
		name := key + "_comments"
		if err := csvout.Write(r.writer, list, name); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Info("saved comments", "key", key, "count", len(list))
	}

	return nil
}

// collectRankingsStep fetches every ranking bucket and writes each to
// {key}_youtuber.
func (r *Runner) collectRankingsStep(ctx context.Context, log *slog.Logger) error {
	rankings := r.collector.CollectRankings(ctx)

	for key, list := range rankings {
		name := key + "_youtuber"
		if err := csvout.Write(r.writer, list, name); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Info("saved rankings", "key", key, "count", len(list))
	}

	return nil
}

// notifyStep fires the refresh signal once. Failure is logged, never
// propagated: the pass still counts as successful.
func (r *Runner) notifyStep(ctx context.Context, log *slog.Logger) {
	if err := r.notifier.Notify(ctx); err != nil {
		log.Error("refresh notify failed", "error", err)
		return
	}
	log.Info("refresh notify sent")
}

// RunEvery runs a pass immediately and then once per interval until ctx is
// cancelled. A tick that arrives while the previous pass is still running
// is skipped, bounding concurrent load on the external APIs.
func (r *Runner) RunEvery(ctx context.Context, interval time.Duration) {
	go r.tryRun(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go r.tryRun(ctx)
		}
	}
}

func (r *Runner) tryRun(ctx context.Context) {
	if !r.running.CompareAndSwap(false, true) {
		r.logger.Warn("previous batch pass still running, skipping this trigger")
		return
	}
	defer r.running.Store(false)

	if err := r.Run(ctx); err != nil {
		r.logger.Error("batch pass aborted", "error", err)
	}
}
