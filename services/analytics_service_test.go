package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/utils/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var analyticsNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

type analyticsFixture struct {
	db      *gorm.DB
	teacher *model.User
	s1, s2  *model.User
	c1, c2  *model.Course
	pending *model.Enrollment
	service *AnalyticsService
}

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
}

func enroll(t *testing.T, db *gorm.DB, studentID, courseID uint, when time.Time, completed bool) *model.Enrollment {
	t.Helper()
	e := &model.Enrollment{StudentID: studentID, CourseID: courseID, EnrolledAt: when, LastAccessed: when, Completed: completed}
	if completed {
		e.CompletionPercentage = 100
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

func newAnalyticsFixture(t *testing.T) *analyticsFixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &analyticsFixture{db: db}

	f.teacher = testutil.CreateUser(t, db, "teacher", model.RoleTeacher)
	f.s1 = testutil.CreateUser(t, db, "s1", model.RoleStudent)
	f.s2 = testutil.CreateUser(t, db, "s2", model.RoleStudent)
	testutil.CreateUser(t, db, "admin", model.RoleAdmin)
	require.NoError(t, db.Model(f.s1).Update("created_at", at(2025, time.December, 10)).Error)
	require.NoError(t, db.Model(f.s2).Update("created_at", at(2026, time.February, 5)).Error)

	f.c1 = testutil.CreateCourse(t, db, f.teacher.ID, "Published", model.CourseStatusPublished)
	f.c2 = testutil.CreateCourse(t, db, f.teacher.ID, "Draft", model.CourseStatusDraft)

	enroll(t, db, f.s1.ID, f.c1.ID, at(2026, time.January, 20), true)
	f.pending = enroll(t, db, f.s2.ID, f.c1.ID, at(2026, time.February, 10), false)
	enroll(t, db, f.s1.ID, f.c2.ID, at(2026, time.March, 2), true)

	f.service = NewAnalyticsService(db, nil)
	f.service.now = func() time.Time { return analyticsNow }
	return f
}

func TestRateAndMonthKey(t *testing.T) {
	assert.Equal(t, 0.0, Rate(1, 0))
	assert.Equal(t, float64(2)/float64(3)*100, Rate(2, 3))
	assert.InDelta(t, 33.333333333, Rate(1, 3), 1e-6)
	assert.NotEqual(t, 33.33, Rate(1, 3))
	assert.Equal(t, 100.0, Rate(4, 4))
	assert.Equal(t, "2025-9", MonthKey(at(2025, time.September, 30)))
	assert.Equal(t, "2026-12", MonthKey(at(2026, time.December, 1)))
}

func TestOverviewTotalsAndMonthlyData(t *testing.T) {
	f := newAnalyticsFixture(t)

	o, err := f.service.Overview(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, o.TotalStudents)
	assert.EqualValues(t, 1, o.TotalTeachers)
	assert.EqualValues(t, 2, o.TotalCourses)
	assert.EqualValues(t, 1, o.PublishedCourses)
	assert.EqualValues(t, 3, o.TotalEnrollments)
	assert.EqualValues(t, 2, o.CompletedEnrollments)
	assert.InDelta(t, 200.0/3, o.CompletionRate, 1e-9)

	require.Len(t, o.MonthlyData, MonthsInOverview)
	for _, key := range []string{"2025-10", "2025-11", "2025-12", "2026-1", "2026-2", "2026-3"} {
		assert.Contains(t, o.MonthlyData, key)
	}
	assert.Equal(t, MonthlyPoint{Students: 0}, o.MonthlyData["2025-11"])
	assert.Equal(t, MonthlyPoint{Students: 1}, o.MonthlyData["2025-12"])
	assert.Equal(t, MonthlyPoint{Students: 1, Enrollments: 1, CompletionRate: 100}, o.MonthlyData["2026-1"])
	assert.Equal(t, MonthlyPoint{Students: 2, Enrollments: 1, CompletionRate: 0}, o.MonthlyData["2026-2"])
	assert.Equal(t, MonthlyPoint{Students: 2, Enrollments: 1, CompletionRate: 100}, o.MonthlyData["2026-3"])
}

func TestOverviewUsesSnapshotsForClosedMonths(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()

	written, err := f.service.SnapshotClosedMonths(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, written)

	require.NoError(t, f.db.Model(f.pending).Update("completed", true).Error)

	o, err := f.service.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, o.MonthlyData["2026-2"].CompletionRate, "closed month served from snapshot")
	assert.EqualValues(t, 3, o.CompletedEnrollments)

	_, err = f.service.SnapshotClosedMonths(ctx, 5)
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&model.AnalyticsSnapshot{}).Count(&count).Error)
	assert.EqualValues(t, 5, count)

	o, err = f.service.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100.0, o.MonthlyData["2026-2"].CompletionRate)
}

func TestOverviewCachedInRedis(t *testing.T) {
	f := newAnalyticsFixture(t)
	redisCache, _ := testutil.NewRedis(t)
	f.service.cache = redisCache
	ctx := context.Background()

	first, err := f.service.Overview(ctx)
	require.NoError(t, err)

	testutil.CreateUser(t, f.db, "late", model.RoleStudent)

	cached, err := f.service.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.TotalStudents, cached.TotalStudents)

	f.service.InvalidateOverview(ctx)
	fresh, err := f.service.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.TotalStudents+1, fresh.TotalStudents)
}

func TestTeacherStats(t *testing.T) {
	f := newAnalyticsFixture(t)
	other := testutil.CreateUser(t, f.db, "other", model.RoleTeacher)
	var admin model.User
	require.NoError(t, f.db.Where("username_key = ?", "admin").First(&admin).Error)
	ctx := context.Background()

	_, err := f.service.TeacherStats(ctx, actorOf(other), f.teacher.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	stats, err := f.service.TeacherStats(ctx, actorOf(&admin), f.teacher.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalCourses)
	assert.EqualValues(t, 1, stats.PublishedCourses)
	assert.EqualValues(t, 3, stats.TotalStudents)
	assert.InDelta(t, 200.0/3, stats.CompletionRate, 1e-9)
	require.Len(t, stats.CourseData, 2)
	assert.Equal(t, CourseStat{CourseID: f.c1.ID, Title: "Published", Enrollments: 2, Completed: 1}, stats.CourseData[0])
	assert.Equal(t, CourseStat{CourseID: f.c2.ID, Title: "Draft", Enrollments: 1, Completed: 1}, stats.CourseData[1])

	empty, err := f.service.TeacherStats(ctx, actorOf(other), other.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalCourses)
	assert.Empty(t, empty.CourseData)
	assert.Equal(t, 0.0, empty.CompletionRate)
}

func TestExportOverviewXLSX(t *testing.T) {
	o := &PlatformOverview{
		TotalStudents:  4,
		CompletionRate: 50,
		MonthlyData: map[string]MonthlyPoint{
			"2025-12": {Students: 1},
			"2025-9":  {Students: 0},
			"2026-1":  {Students: 3, Enrollments: 2, CompletionRate: 50},
			"2025-10": {Students: 0},
		},
	}

	data, err := ExportOverviewXLSX(o, analyticsNow)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	students, err := wb.GetCellValue("Overview", "B2")
	require.NoError(t, err)
	assert.Equal(t, "4", students)

	rows, err := wb.GetRows("Monthly")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	months := []string{rows[1][0], rows[2][0], rows[3][0], rows[4][0]}
	assert.Equal(t, []string{"2025-9", "2025-10", "2025-12", "2026-1"}, months)
	assert.Equal(t, []string{"2026-1", "3", "2", "50"}, rows[4])
}
