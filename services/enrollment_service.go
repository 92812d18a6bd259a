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

// EnrollmentService records which students take which courses.
type EnrollmentService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{db: db, now: time.Now}
}

type EnrollmentInput struct {
	StudentID            uint
	CourseID             uint
	Completed            *bool
	CompletionPercentage *int
}

type EnrollmentUpdate struct {
	Completed            *bool
	CompletionPercentage *int
}

// EnrollmentWithCourse is an enrollment decorated with its course (nil once the course is deleted).
type EnrollmentWithCourse struct {
	model.Enrollment
	Course *model.Course `json:"course"`
}

// Enroll creates the (student, course) pair. The unique index decides duplicates,
// so concurrent requests yield exactly one row.
func (s *EnrollmentService) Enroll(ctx context.Context, actor policy.Actor, in EnrollmentInput) (*model.Enrollment, error) {
	if !policy.CanActForStudent(actor, in.StudentID) {
		return nil, ErrForbidden
	}

	db := s.db.WithContext(ctx)

	var courseCount int64
	if err := db.Model(&model.Course{}).Where("id = ?", in.CourseID).Count(&courseCount).Error; err != nil {
		return nil, fmt.Errorf("failed to check course: %w", err)
	}
	if courseCount == 0 {
		return nil, notFound("Course")
	}

	now := s.now().UTC()
	enrollment := &model.Enrollment{
		StudentID:    in.StudentID,
		CourseID:     in.CourseID,
		EnrolledAt:   now,
		LastAccessed: now,
	}
	if in.Completed != nil {
		enrollment.Completed = *in.Completed
	}
	if in.CompletionPercentage != nil {
		enrollment.CompletionPercentage = *in.CompletionPercentage
	}

	if err := db.Create(enrollment).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}
	return enrollment, nil
}

// ListForStudent returns a student's enrollments with courses fetched in one batch.
func (s *EnrollmentService) ListForStudent(ctx context.Context, actor policy.Actor, studentID uint) ([]EnrollmentWithCourse, error) {
	if !policy.CanActForStudent(actor, studentID) {
		return nil, ErrForbidden
	}

	db := s.db.WithContext(ctx)

	var enrollments []model.Enrollment
	if err := db.Where("student_id = ?", studentID).Order("enrolled_at DESC, id DESC").Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	courseIDs := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		courseIDs = append(courseIDs, e.CourseID)
	}

	courses := map[uint]*model.Course{}
	if len(courseIDs) > 0 {
		var rows []model.Course
		if err := db.Where("id IN ?", courseIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to load enrolled courses: %w", err)
		}
		for i := range rows {
			courses[rows[i].ID] = &rows[i]
		}
	}

	out := make([]EnrollmentWithCourse, 0, len(enrollments))
	for _, e := range enrollments {
		out = append(out, EnrollmentWithCourse{Enrollment: e, Course: courses[e.CourseID]})
	}
	return out, nil
}

// Update applies a partial update and always touches lastAccessed.
func (s *EnrollmentService) Update(ctx context.Context, actor policy.Actor, id uint, in EnrollmentUpdate) (*model.Enrollment, error) {
	db := s.db.WithContext(ctx)

	var enrollment model.Enrollment
	if err := db.First(&enrollment, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, notFound("Enrollment")
		}
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}
	if !policy.CanActForStudent(actor, enrollment.StudentID) {
		return nil, ErrForbidden
	}

	if in.Completed != nil {
		enrollment.Completed = *in.Completed
	}
	if in.CompletionPercentage != nil {
		enrollment.CompletionPercentage = *in.CompletionPercentage
	}
	enrollment.LastAccessed = s.now().UTC()

	if err := db.Save(&enrollment).Error; err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}
	return &enrollment, nil
}
