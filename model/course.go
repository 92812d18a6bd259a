package model

import "time"

type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
	CourseStatusArchived  CourseStatus = "archived"
)

var CourseStatuses = []CourseStatus{CourseStatusDraft, CourseStatusPublished, CourseStatusArchived}

// CourseCategories is the fixed category set a course must belong to.
var CourseCategories = []string{
	"Programming",
	"Design",
	"Data Science",
	"Business",
	"Marketing",
	"AI & Machine Learning",
	"Cryptocurrency",
}

type ContentType string

const (
	ContentTypeVideo        ContentType = "video"
	ContentTypePDF          ContentType = "pdf"
	ContentTypePresentation ContentType = "presentation"
	ContentTypeQuiz         ContentType = "quiz"
	ContentTypeAssignment   ContentType = "assignment"
	ContentTypeAIGenerated  ContentType = "ai_generated"
)

var ContentTypes = []ContentType{
	ContentTypeVideo,
	ContentTypePDF,
	ContentTypePresentation,
	ContentTypeQuiz,
	ContentTypeAssignment,
	ContentTypeAIGenerated,
}

// Course is authored by a teacher and only visible to students once published.
// Deleting a course does not cascade to its lessons, enrollments or reviews.
type Course struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Title        string       `gorm:"type:varchar(255);not null" json:"title"`
	Description  string       `gorm:"type:text;not null" json:"description"`
	Category     string       `gorm:"type:varchar(50);not null;index" json:"category"`
	TeacherID    uint         `gorm:"not null;index" json:"teacherId"`
	Price        float64      `gorm:"not null" json:"price"`
	IsFree       bool         `gorm:"not null" json:"isFree"`
	ThumbnailURL *string      `gorm:"type:text" json:"thumbnailUrl"`
	Status       CourseStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt    time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// IsPublished reports whether students can see the course.
func (c *Course) IsPublished() bool {
	return c.Status == CourseStatusPublished
}

// Lesson is an ordered unit of content inside a course.
type Lesson struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"type:varchar(255);not null" json:"title"`
	CourseID    uint        `gorm:"not null;index" json:"courseId"`
	ContentType ContentType `gorm:"type:varchar(30);not null" json:"contentType"`
	ContentURL  string      `gorm:"type:text;not null" json:"contentUrl"`
	Order       int         `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt   time.Time   `json:"createdAt"`
}
