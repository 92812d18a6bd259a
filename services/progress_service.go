package services

import (
	"context"
	"fmt"
	"time"

	"github.com/learnhub-platform/learnhub-api/database"
	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/utils/policy"
	"gorm.io/gorm"
)

// ProgressService records lesson completion and keeps each enrollment's
// completionPercentage derived from it.
type ProgressService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db, now: time.Now}
}

type ProgressInput struct {
	StudentID uint
	LessonID  uint
	Completed bool
}

// Record appends a progress row unconditionally and refreshes the matching
// enrollment when the lesson still exists.
func (s *ProgressService) Record(ctx context.Context, actor policy.Actor, in ProgressInput) (*model.Progress, error) {
	if !policy.CanActForStudent(actor, in.StudentID) {
		return nil, ErrForbidden
	}

	var progress *model.Progress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now().UTC()
		progress = &model.Progress{
			StudentID: in.StudentID,
			LessonID:  in.LessonID,
			Completed: in.Completed,
		}
		if in.Completed {
			progress.CompletedAt = &now
		}
		if err := tx.Create(progress).Error; err != nil {
			return fmt.Errorf("failed to create progress: %w", err)
		}

		return s.refreshForLesson(tx, in.StudentID, in.LessonID, now)
	})
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// Update sets completed and recomputes completedAt: now when true, cleared when false.
func (s *ProgressService) Update(ctx context.Context, actor policy.Actor, id uint, completed *bool) (*model.Progress, error) {
	var progress model.Progress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&progress, id).Error; err != nil {
			if database.IsNotFound(err) {
				return notFound("Progress")
			}
			return fmt.Errorf("failed to load progress: %w", err)
		}
		if !policy.CanActForStudent(actor, progress.StudentID) {
			return ErrForbidden
		}
		if completed == nil {
			return nil
		}

		now := s.now().UTC()
		progress.Completed = *completed
		if *completed {
			progress.CompletedAt = &now
		} else {
			progress.CompletedAt = nil
		}
		if err := tx.Save(&progress).Error; err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}

		return s.refreshForLesson(tx, progress.StudentID, progress.LessonID, now)
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (s *ProgressService) ListForStudent(ctx context.Context, actor policy.Actor, studentID uint) ([]model.Progress, error) {
	if !policy.CanActForStudent(actor, studentID) {
		return nil, ErrForbidden
	}
	rows := []model.Progress{}
	if err := s.db.WithContext(ctx).Where("student_id = ?", studentID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return rows, nil
}

// refreshForLesson re-derives the enrollment of the lesson's course.
// lessonId is a weak reference; an unknown lesson has nothing to derive.
func (s *ProgressService) refreshForLesson(tx *gorm.DB, studentID, lessonID uint, now time.Time) error {
	lesson, err := loadLesson(tx, lessonID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	return refreshCompletion(tx, studentID, lesson.CourseID, now)
}

func loadLesson(tx *gorm.DB, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := tx.First(&lesson, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, notFound("Lesson")
		}
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	return &lesson, nil
}

// CompletionPercentage is completed/total*100 rounded down, 0 for an empty course.
func CompletionPercentage(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return int(completed * 100 / total)
}

// refreshCompletion rederives completionPercentage and completed for the student's
// enrollment in courseID. A lesson counts once it has any completed progress row.
func refreshCompletion(tx *gorm.DB, studentID, courseID uint, now time.Time) error {
	var total int64
	if err := tx.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&total).Error; err != nil {
		return fmt.Errorf("failed to count lessons: %w", err)
	}

	var completed int64
	if err := tx.Model(&model.Progress{}).
		Joins("JOIN lessons ON lessons.id = progress.lesson_id").
		Where("progress.student_id = ? AND lessons.course_id = ? AND progress.completed = ?", studentID, courseID, true).
		Distinct("progress.lesson_id").
		Count(&completed).Error; err != nil {
		return fmt.Errorf("failed to count completed lessons: %w", err)
	}

	pct := CompletionPercentage(completed, total)
	return tx.Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Updates(map[string]interface{}{
			"completion_percentage": pct,
			"completed":             total > 0 && pct == 100,
			"last_accessed":         now,
		}).Error
}
