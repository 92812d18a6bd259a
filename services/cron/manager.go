package cron

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/robfig/cron/v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	JobAnalyticsRollup  = "analytics_monthly_rollup"
	JobCleanupBlacklist = "cleanup_token_blacklist"
)

// Snapshotter materializes closed analytics months.
type Snapshotter interface {
	SnapshotClosedMonths(ctx context.Context, months int) (int, error)
}

// TokenCleaner removes expired blacklist entries.
type TokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// CronManager owns the scheduler and every job it runs.
type CronManager struct {
	cron      *cron.Cron
	db        *gorm.DB
	analytics Snapshotter
	tokens    TokenCleaner
	now       func() time.Time
}

func NewCronManager(db *gorm.DB, analytics Snapshotter, tokens TokenCleaner) *CronManager {
	return &CronManager{
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		db:        db,
		analytics: analytics,
		tokens:    tokens,
		now:       time.Now,
	}
}

func (m *CronManager) Start() error {
	log.Info("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}
	m.cron.Start()

	log.Infof("Cron jobs started (%d scheduled)", len(m.cron.Entries()))
	return nil
}

// Stop waits for running jobs to finish.
func (m *CronManager) Stop() {
	log.Info("Stopping cron jobs...")
	<-m.cron.Stop().Done()
	log.Info("Cron jobs stopped")
}

func (m *CronManager) registerJobs() error {
	// Daily at 01:00: rebuild the closed-month analytics snapshots
	if _, err := m.cron.AddFunc("0 0 1 * * *", func() { m.RunAnalyticsRollup() }); err != nil {
		return err
	}

	// Daily at 02:00: drop expired revoked tokens and old job logs
	if _, err := m.cron.AddFunc("0 0 2 * * *", func() { m.RunCleanup() }); err != nil {
		return err
	}

	return nil
}

type jobResult struct {
	message  string
	metadata map[string]interface{}
}

// run records a CronJobLog row around fn.
func (m *CronManager) run(jobName string, timeout time.Duration, fn func(ctx context.Context) (jobResult, error)) *model.CronJobLog {
	started := m.now()
	log.Infof("[CRON] Starting job: %s at %s", jobName, started.Format(time.RFC3339))

	entry := &model.CronJobLog{
		JobName:   jobName,
		Status:    model.CronStatusRunning,
		StartedAt: started,
		Metadata:  datatypes.JSON("{}"),
	}
	if err := m.db.Create(entry).Error; err != nil {
		log.Errorf("[CRON] Failed to record start of %s: %v", jobName, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	res, err := fn(ctx)

	finished := m.now()
	updates := map[string]interface{}{
		"completed_at": finished,
		"duration":     finished.Sub(started).Milliseconds(),
	}
	if err != nil {
		log.Errorf("[CRON] Error in job: %s - %v", jobName, err)
		entry.Status = model.CronStatusFailed
		updates["error_msg"] = err.Error()
	} else {
		log.Infof("[CRON] Completed job: %s - %s", jobName, res.message)
		entry.Status = model.CronStatusCompleted
		updates["message"] = res.message
	}
	updates["status"] = entry.Status
	if res.metadata != nil {
		if raw, mErr := json.Marshal(res.metadata); mErr == nil {
			updates["metadata"] = datatypes.JSON(raw)
		}
	}

	if entry.ID != 0 {
		if uErr := m.db.Model(entry).Updates(updates).Error; uErr != nil {
			log.Errorf("[CRON] Failed to record result of %s: %v", jobName, uErr)
		}
	}
	return entry
}
