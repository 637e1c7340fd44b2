package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/princekumarofficial/remix-service/internal/storage"
	"github.com/princekumarofficial/remix-service/internal/types"
)

// Auditor periodically looks for videos whose stored depth disagrees with
// their parentage. It only reports; it never repairs.
type Auditor struct {
	videos   storage.VideoStore
	interval time.Duration
	limit    int
	logger   *slog.Logger
}

const DefaultInterval = 10 * time.Minute

// NewAuditor builds an auditor. A non-positive interval falls back to
// DefaultInterval.
func NewAuditor(videos storage.VideoStore, interval time.Duration, limit int, logger *slog.Logger) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		logger.Warn("Invalid audit interval, using default",
			"interval", interval.String(),
			"default", DefaultInterval.String())
		interval = DefaultInterval
	}
	return &Auditor{
		videos:   videos,
		interval: interval,
		limit:    limit,
		logger:   logger,
	}
}

func (a *Auditor) Start(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.logger.Info("Lineage auditor started", "interval", a.interval.String())

	// Run once immediately on startup
	a.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Lineage auditor shutting down")
			return
		case <-ticker.C:
			a.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single audit pass and returns what it found.
func (a *Auditor) RunOnce(ctx context.Context) []types.DepthViolation {
	startTime := time.Now()

	violations, err := a.videos.FindDepthViolations(ctx, a.limit)
	if err != nil {
		a.logger.Error("Failed to audit lineage depths",
			"error", err.Error(),
			"duration_ms", time.Since(startTime).Milliseconds())
		return nil
	}

	for _, v := range violations {
		attrs := []any{"video_id", v.VideoID, "depth", v.Depth}
		if v.ParentVideoID != nil {
			attrs = append(attrs, "parent_video_id", *v.ParentVideoID)
		}
		if v.ParentDepth != nil {
			attrs = append(attrs, "parent_depth", *v.ParentDepth)
		}
		a.logger.Error("Lineage depth violation", attrs...)
	}

	a.logger.Info("Completed lineage audit",
		"violations", len(violations),
		"duration_ms", time.Since(startTime).Milliseconds())
	return violations
}
