// Package testutil builds throwaway infrastructure for package tests:
// an in-memory sqlite database migrated like production and a miniredis-backed cache.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/learnhub-platform/learnhub-api/database"
	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/utils/auth"
	"github.com/learnhub-platform/learnhub-api/utils/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

func init() {
	auth.HashCost = bcrypt.MinCost
}

// NewDB returns a migrated in-memory sqlite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_busy_timeout=5000", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// NewRedis starts a miniredis server and returns a cache bound to it.
func NewRedis(t testing.TB) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

// CreateUser inserts a user with password "password1".
func CreateUser(t testing.TB, db *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()
	hash, err := auth.HashPassword("password1")
	require.NoError(t, err)

	u := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		FirstName:    strings.ToUpper(username[:1]) + username[1:],
		LastName:     "Tester",
		Role:         role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateCourse inserts a course owned by teacherID with the given status.
func CreateCourse(t testing.TB, db *gorm.DB, teacherID uint, title string, status model.CourseStatus) *model.Course {
	t.Helper()
	c := &model.Course{
		Title:       title,
		Description: title + " description",
		Category:    "Programming",
		TeacherID:   teacherID,
		IsFree:      true,
		Status:      status,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

// CreateLesson inserts a lesson at position order.
func CreateLesson(t testing.TB, db *gorm.DB, courseID uint, title string, order int) *model.Lesson {
	t.Helper()
	l := &model.Lesson{
		Title:       title,
		CourseID:    courseID,
		ContentType: model.ContentTypeVideo,
		ContentURL:  "https://cdn.example.com/" + title,
		Order:       order,
	}
	require.NoError(t, db.Create(l).Error)
	return l
}
