package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/utils/cache"
	"github.com/learnhub-platform/learnhub-api/utils/policy"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// MonthsInOverview is how many calendar months monthlyData covers, current month included.
	MonthsInOverview = 6

	overviewCacheKey = "analytics:overview"
	overviewCacheTTL = time.Minute
)

// AnalyticsService aggregates platform and per-teacher statistics.
type AnalyticsService struct {
	db    *gorm.DB
	cache *cache.RedisCache
	now   func() time.Time
}

// NewAnalyticsService creates the service. redisCache may be nil, which disables caching.
func NewAnalyticsService(db *gorm.DB, redisCache *cache.RedisCache) *AnalyticsService {
	return &AnalyticsService{db: db, cache: redisCache, now: time.Now}
}

// MonthlyPoint is one bucket of the overview trend.
type MonthlyPoint struct {
	Students       int64   `json:"students"`
	Enrollments    int64   `json:"enrollments"`
	CompletionRate float64 `json:"completionRate"`
}

type PlatformOverview struct {
	TotalStudents        int64                   `json:"totalStudents"`
	TotalTeachers        int64                   `json:"totalTeachers"`
	TotalCourses         int64                   `json:"totalCourses"`
	PublishedCourses     int64                   `json:"publishedCourses"`
	TotalEnrollments     int64                   `json:"totalEnrollments"`
	CompletedEnrollments int64                   `json:"completedEnrollments"`
	CompletionRate       float64                 `json:"completionRate"`
	MonthlyData          map[string]MonthlyPoint `json:"monthlyData"`
}

type CourseStat struct {
	CourseID    uint   `json:"courseId"`
	Title       string `json:"title"`
	Enrollments int64  `json:"enrollments"`
	Completed   int64  `json:"completed"`
}

type TeacherAnalytics struct {
	TotalCourses     int64        `json:"totalCourses"`
	PublishedCourses int64        `json:"publishedCourses"`
	TotalStudents    int64        `json:"totalStudents"`
	CompletionRate   float64      `json:"completionRate"`
	CourseData       []CourseStat `json:"courseData"`
}

// Rate returns part/total as an unrounded percentage, 0 when total is 0.
func Rate(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// MonthKey formats the first day of a month as "YYYY-M".
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%d-%d", t.Year(), int(t.Month()))
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Overview returns platform totals and the six-month trend, served from Redis when warm.
func (s *AnalyticsService) Overview(ctx context.Context) (*PlatformOverview, error) {
	if s.cache != nil {
		var cached PlatformOverview
		err := s.cache.GetJSON(ctx, overviewCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrNotFound) {
			log.Warnf("[ANALYTICS] overview cache read failed: %v", err)
		}
	}

	overview, err := s.computeOverview(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, overviewCacheKey, overview, overviewCacheTTL); err != nil {
			log.Warnf("[ANALYTICS] overview cache write failed: %v", err)
		}
	}
	return overview, nil
}

// InvalidateOverview drops the cached overview.
func (s *AnalyticsService) InvalidateOverview(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, overviewCacheKey); err != nil {
		log.Warnf("[ANALYTICS] overview cache delete failed: %v", err)
	}
}

func (s *AnalyticsService) computeOverview(ctx context.Context) (*PlatformOverview, error) {
	db := s.db.WithContext(ctx)
	o := &PlatformOverview{}

	var roleCounts []struct {
		Role  string
		Total int64
	}
	if err := db.Model(&model.User{}).Select("role, COUNT(*) AS total").Group("role").Scan(&roleCounts).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	for _, rc := range roleCounts {
		switch model.Role(rc.Role) {
		case model.RoleStudent:
			o.TotalStudents = rc.Total
		case model.RoleTeacher:
			o.TotalTeachers = rc.Total
		}
	}

	var statusCounts []struct {
		Status string
		Total  int64
	}
	if err := db.Model(&model.Course{}).Select("status, COUNT(*) AS total").Group("status").Scan(&statusCounts).Error; err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}
	for _, sc := range statusCounts {
		o.TotalCourses += sc.Total
		if model.CourseStatus(sc.Status) == model.CourseStatusPublished {
			o.PublishedCourses = sc.Total
		}
	}

	total, completed, err := countEnrollments(db.Model(&model.Enrollment{}))
	if err != nil {
		return nil, err
	}
	o.TotalEnrollments = total
	o.CompletedEnrollments = completed
	o.CompletionRate = Rate(completed, total)

	monthly, err := s.monthlyData(ctx)
	if err != nil {
		return nil, err
	}
	o.MonthlyData = monthly
	return o, nil
}

func countEnrollments(query *gorm.DB) (int64, int64, error) {
	var row struct {
		Total     int64
		Completed int64
	}
	err := query.
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS completed").
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return row.Total, row.Completed, nil
}

// monthlyData builds the trend: closed months from snapshots when present, the rest live.
func (s *AnalyticsService) monthlyData(ctx context.Context) (map[string]MonthlyPoint, error) {
	current := monthStart(s.now())

	starts := make([]time.Time, 0, MonthsInOverview)
	pastKeys := make([]string, 0, MonthsInOverview-1)
	for i := MonthsInOverview - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		starts = append(starts, start)
		if i > 0 {
			pastKeys = append(pastKeys, MonthKey(start))
		}
	}

	var snapshots []model.AnalyticsSnapshot
	if err := s.db.WithContext(ctx).Where("month_key IN ?", pastKeys).Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to load analytics snapshots: %w", err)
	}
	snapshotByKey := make(map[string]MonthlyPoint, len(snapshots))
	for _, snap := range snapshots {
		var p MonthlyPoint
		if err := json.Unmarshal(snap.Payload, &p); err != nil {
			log.Warnf("[ANALYTICS] ignoring unreadable snapshot %s: %v", snap.MonthKey, err)
			continue
		}
		snapshotByKey[snap.MonthKey] = p
	}

	out := make(map[string]MonthlyPoint, MonthsInOverview)
	for _, start := range starts {
		key := MonthKey(start)
		if p, ok := snapshotByKey[key]; ok && !start.Equal(current) {
			out[key] = p
			continue
		}
		p, err := s.computeMonth(ctx, start)
		if err != nil {
			return nil, err
		}
		out[key] = p
	}
	return out, nil
}

// computeMonth measures one calendar month: students registered by its end,
// enrollments created within it and their completion rate.
func (s *AnalyticsService) computeMonth(ctx context.Context, start time.Time) (MonthlyPoint, error) {
	db := s.db.WithContext(ctx)
	end := start.AddDate(0, 1, 0)

	var p MonthlyPoint
	if err := db.Model(&model.User{}).
		Where("role = ? AND created_at < ?", model.RoleStudent, end).
		Count(&p.Students).Error; err != nil {
		return p, fmt.Errorf("failed to count students for %s: %w", MonthKey(start), err)
	}

	total, completed, err := countEnrollments(db.Model(&model.Enrollment{}).
		Where("enrolled_at >= ? AND enrolled_at < ?", start, end))
	if err != nil {
		return p, err
	}
	p.Enrollments = total
	p.CompletionRate = Rate(completed, total)
	return p, nil
}

// SnapshotClosedMonths materializes the given number of months before the current one.
// Existing snapshots are overwritten so late completions are picked up.
func (s *AnalyticsService) SnapshotClosedMonths(ctx context.Context, months int) (int, error) {
	current := monthStart(s.now())
	written := 0

	for i := 1; i <= months; i++ {
		start := current.AddDate(0, -i, 0)
		p, err := s.computeMonth(ctx, start)
		if err != nil {
			return written, err
		}
		payload, err := json.Marshal(p)
		if err != nil {
			return written, err
		}

		snap := model.AnalyticsSnapshot{
			MonthKey:    MonthKey(start),
			PeriodStart: start,
			Payload:     datatypes.JSON(payload),
		}
		err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "month_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "period_start", "updated_at"}),
		}).Create(&snap).Error
		if err != nil {
			return written, fmt.Errorf("failed to store snapshot %s: %w", snap.MonthKey, err)
		}
		written++
	}

	s.InvalidateOverview(ctx)
	return written, nil
}

// TeacherStats summarizes a teacher's courses. Enrollment counts come from one grouped query.
func (s *AnalyticsService) TeacherStats(ctx context.Context, actor policy.Actor, teacherID uint) (*TeacherAnalytics, error) {
	if !policy.CanViewTeacherAnalytics(actor, teacherID) {
		return nil, ErrForbidden
	}
	db := s.db.WithContext(ctx)

	var courses []model.Course
	if err := db.Where("teacher_id = ?", teacherID).Order("id ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to load teacher courses: %w", err)
	}

	stats := &TeacherAnalytics{CourseData: make([]CourseStat, 0, len(courses))}
	if len(courses) == 0 {
		return stats, nil
	}

	ids := make([]uint, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}

	var grouped []struct {
		CourseID  uint
		Total     int64
		Completed int64
	}
	if err := db.Model(&model.Enrollment{}).
		Select("course_id, COUNT(*) AS total, COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS completed").
		Where("course_id IN ?", ids).
		Group("course_id").
		Scan(&grouped).Error; err != nil {
		return nil, fmt.Errorf("failed to count course enrollments: %w", err)
	}
	byCourse := make(map[uint]int, len(grouped))
	for i, g := range grouped {
		byCourse[g.CourseID] = i
	}

	var totalCompleted int64
	for _, c := range courses {
		stats.TotalCourses++
		if c.IsPublished() {
			stats.PublishedCourses++
		}
		stat := CourseStat{CourseID: c.ID, Title: c.Title}
		if i, ok := byCourse[c.ID]; ok {
			stat.Enrollments = grouped[i].Total
			stat.Completed = grouped[i].Completed
		}
		stats.TotalStudents += stat.Enrollments
		totalCompleted += stat.Completed
		stats.CourseData = append(stats.CourseData, stat)
	}
	stats.CompletionRate = Rate(totalCompleted, stats.TotalStudents)
	return stats, nil
}
