package services

import (
	"context"
	"fmt"

	"github.com/learnhub-platform/learnhub-api/database"
	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/utils/policy"
	"github.com/learnhub-platform/learnhub-api/utils/validation"
	"gorm.io/gorm"
)

// CatalogService manages courses and their lessons.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

type CourseInput struct {
	Title        string
	Description  string
	Category     string
	TeacherID    *uint
	Price        float64
	IsFree       *bool
	ThumbnailURL *string
	Status       *model.CourseStatus
}

type CourseUpdate struct {
	Title        *string
	Description  *string
	Category     *string
	Price        *float64
	IsFree       *bool
	ThumbnailURL *string
	Status       *model.CourseStatus
}

type LessonInput struct {
	Title       string
	CourseID    uint
	ContentType model.ContentType
	ContentURL  string
	Order       int
}

type LessonUpdate struct {
	Title       *string
	ContentType *model.ContentType
	ContentURL  *string
	Order       *int
}

// CreateCourse stores a new course. Teachers author for themselves; admins may
// assign any teacher. Status defaults to draft and isFree to true.
func (s *CatalogService) CreateCourse(ctx context.Context, actor policy.Actor, in CourseInput) (*model.Course, error) {
	teacherID := actor.ID
	if in.TeacherID != nil && *in.TeacherID != 0 {
		teacherID = *in.TeacherID
	}
	if !policy.CanManageCourse(actor, teacherID) {
		return nil, ErrForbidden
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
	}

	course := &model.Course{
		Title:        validation.SanitizeString(in.Title),
		Description:  validation.SanitizeString(in.Description),
		Category:     in.Category,
		TeacherID:    teacherID,
		Price:        in.Price,
		IsFree:       true,
		ThumbnailURL: validation.SanitizeOptional(in.ThumbnailURL),
		Status:       model.CourseStatusDraft,
	}
	if in.IsFree != nil {
		course.IsFree = *in.IsFree
	}
	if in.Status != nil {
		course.Status = *in.Status
	}

	if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return course, nil
}

func (s *CatalogService) loadCourse(ctx context.Context, db *gorm.DB, id uint) (*model.Course, error) {
	var course model.Course
	if err := db.WithContext(ctx).First(&course, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, notFound("Course")
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	return &course, nil
}

// GetCourse returns a course the actor may see: published, or manageable by the actor.
func (s *CatalogService) GetCourse(ctx context.Context, actor policy.Actor, id uint) (*model.Course, error) {
	course, err := s.loadCourse(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewCourse(actor, course) {
		return nil, ErrForbidden
	}
	return course, nil
}

// ListCourses returns courses newest first. Staff may filter by any status (empty
// means all); everyone else only ever sees published courses.
func (s *CatalogService) ListCourses(ctx context.Context, actor policy.Actor, status string) ([]model.Course, error) {
	if !actor.IsStaff() {
		status = string(model.CourseStatusPublished)
	}

	query := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	courses := []model.Course{}
	if err := query.Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// ListTeacherCourses returns a teacher's courses; only the owner and admins see unpublished ones.
func (s *CatalogService) ListTeacherCourses(ctx context.Context, actor policy.Actor, teacherID uint) ([]model.Course, error) {
	query := s.db.WithContext(ctx).Where("teacher_id = ?", teacherID).Order("created_at DESC, id DESC")
	if !policy.CanManageCourse(actor, teacherID) {
		query = query.Where("status = ?", model.CourseStatusPublished)
	}

	courses := []model.Course{}
	if err := query.Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list teacher courses: %w", err)
	}
	return courses, nil
}

func (s *CatalogService) UpdateCourse(ctx context.Context, actor policy.Actor, id uint, in CourseUpdate) (*model.Course, error) {
	course, err := s.loadCourse(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageCourse(actor, course.TeacherID) {
		return nil, ErrForbidden
	}

	if in.Title != nil {
		course.Title = validation.SanitizeString(*in.Title)
	}
	if in.Description != nil {
		course.Description = validation.SanitizeString(*in.Description)
	}
	if in.Category != nil {
		course.Category = *in.Category
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
		}
		course.Price = *in.Price
	}
	if in.IsFree != nil {
		course.IsFree = *in.IsFree
	}
	if in.ThumbnailURL != nil {
		course.ThumbnailURL = validation.SanitizeOptional(in.ThumbnailURL)
	}
	if in.Status != nil {
		course.Status = *in.Status
	}

	// Save writes every column, including zero values such as isFree=false, and bumps updated_at.
	if err := s.db.WithContext(ctx).Save(course).Error; err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	return course, nil
}

// DeleteCourse hard-deletes the course. Lessons, enrollments and reviews are left in place.
func (s *CatalogService) DeleteCourse(ctx context.Context, actor policy.Actor, id uint) error {
	course, err := s.loadCourse(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !policy.CanManageCourse(actor, course.TeacherID) {
		return ErrForbidden
	}
	if err := s.db.WithContext(ctx).Delete(&model.Course{}, course.ID).Error; err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}

// CreateLesson adds a lesson to a course the actor manages.
func (s *CatalogService) CreateLesson(ctx context.Context, actor policy.Actor, in LessonInput) (*model.Lesson, error) {
	course, err := s.loadCourse(ctx, s.db, in.CourseID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageCourse(actor, course.TeacherID) {
		return nil, ErrForbidden
	}

	lesson := &model.Lesson{
		Title:       validation.SanitizeString(in.Title),
		CourseID:    course.ID,
		ContentType: in.ContentType,
		ContentURL:  validation.SanitizeString(in.ContentURL),
		Order:       in.Order,
	}
	if err := s.db.WithContext(ctx).Create(lesson).Error; err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}
	return lesson, nil
}

// ListLessons returns a visible course's lessons by ascending order (id breaks ties).
func (s *CatalogService) ListLessons(ctx context.Context, actor policy.Actor, courseID uint) ([]model.Lesson, error) {
	if _, err := s.GetCourse(ctx, actor, courseID); err != nil {
		return nil, err
	}

	lessons := []model.Lesson{}
	if err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sort_order ASC, id ASC").
		Find(&lessons).Error; err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return lessons, nil
}

func (s *CatalogService) loadManagedLesson(ctx context.Context, actor policy.Actor, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := s.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, notFound("Lesson")
		}
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}

	course, err := s.loadCourse(ctx, s.db, lesson.CourseID)
	if err != nil {
		// Orphaned lessons (course deleted) can only be managed by admins.
		if isNotFound(err) {
			if actor.IsAdmin() {
				return &lesson, nil
			}
			return nil, ErrForbidden
		}
		return nil, err
	}
	if !policy.CanManageCourse(actor, course.TeacherID) {
		return nil, ErrForbidden
	}
	return &lesson, nil
}

func (s *CatalogService) UpdateLesson(ctx context.Context, actor policy.Actor, id uint, in LessonUpdate) (*model.Lesson, error) {
	lesson, err := s.loadManagedLesson(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		lesson.Title = validation.SanitizeString(*in.Title)
	}
	if in.ContentType != nil {
		lesson.ContentType = *in.ContentType
	}
	if in.ContentURL != nil {
		lesson.ContentURL = validation.SanitizeString(*in.ContentURL)
	}
	if in.Order != nil {
		lesson.Order = *in.Order
	}

	if err := s.db.WithContext(ctx).Save(lesson).Error; err != nil {
		return nil, fmt.Errorf("failed to update lesson: %w", err)
	}
	return lesson, nil
}

func (s *CatalogService) DeleteLesson(ctx context.Context, actor policy.Actor, id uint) error {
	lesson, err := s.loadManagedLesson(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&model.Lesson{}, lesson.ID).Error; err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	return nil
}
