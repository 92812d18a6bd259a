package model

import "time"

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;index" json:"studentId"`
	CourseID  uint      `gorm:"not null;index" json:"courseId"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   *string   `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}
