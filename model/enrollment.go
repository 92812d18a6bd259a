package model

import "time"

// Enrollment links a student to a course. A student holds at most one
// enrollment per course, enforced by idx_enrollment_student_course.
type Enrollment struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	StudentID            uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_course" json:"studentId"`
	CourseID             uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_course;index" json:"courseId"`
	EnrolledAt           time.Time `gorm:"not null;index" json:"enrolledAt"`
	Completed            bool      `gorm:"not null" json:"completed"`
	CompletionPercentage int       `gorm:"not null" json:"completionPercentage"`
	LastAccessed         time.Time `gorm:"not null" json:"lastAccessed"`
}

// Progress records a student's completion state for one lesson.
// Rows are append-only from the create path; duplicates per lesson are allowed.
type Progress struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	StudentID   uint       `gorm:"not null;index" json:"studentId"`
	LessonID    uint       `gorm:"not null;index" json:"lessonId"`
	Completed   bool       `gorm:"not null" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (Progress) TableName() string {
	return "progress"
}
