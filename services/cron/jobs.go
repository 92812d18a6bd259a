package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/learnhub-platform/learnhub-api/model"
)

const (
	// RollupMonths is how many closed months each rollup rebuilds.
	RollupMonths = 6
	// CronLogRetention bounds how long job logs are kept.
	CronLogRetention = 90 * 24 * time.Hour
)

// RunAnalyticsRollup rebuilds the snapshots of the last closed months.
func (m *CronManager) RunAnalyticsRollup() *model.CronJobLog {
	return m.run(JobAnalyticsRollup, 10*time.Minute, func(ctx context.Context) (jobResult, error) {
		n, err := m.analytics.SnapshotClosedMonths(ctx, RollupMonths)
		if err != nil {
			return jobResult{}, fmt.Errorf("failed to snapshot months: %w", err)
		}

		return jobResult{
			message:  fmt.Sprintf("Snapshotted %d months", n),
			metadata: map[string]interface{}{"months": n},
		}, nil
	})
}

// RunCleanup deletes expired blacklist rows and job logs past retention.
func (m *CronManager) RunCleanup() *model.CronJobLog {
	return m.run(JobCleanupBlacklist, 5*time.Minute, func(ctx context.Context) (jobResult, error) {
		tokens, err := m.tokens.CleanupExpiredTokens(ctx)
		if err != nil {
			return jobResult{}, fmt.Errorf("failed to cleanup blacklist: %w", err)
		}

		cutoff := m.now().Add(-CronLogRetention)
		res := m.db.WithContext(ctx).Where("started_at < ?", cutoff).Delete(&model.CronJobLog{})
		if res.Error != nil {
			return jobResult{}, fmt.Errorf("failed to cleanup cron logs: %w", res.Error)
		}

		return jobResult{
			message: fmt.Sprintf("Removed %d expired tokens and %d old job logs", tokens, res.RowsAffected),
			metadata: map[string]interface{}{
				"tokens":   tokens,
				"cronLogs": res.RowsAffected,
			},
		}, nil
	})
}
