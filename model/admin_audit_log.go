package model

import (
	"time"

	"gorm.io/datatypes"
)

// AdminAuditLog records a successful admin update or delete of a course or lesson.
type AdminAuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	AdminID    uint           `gorm:"not null;index" json:"adminId"`
	Action     string         `gorm:"type:varchar(100);not null" json:"action"` // "update" or "delete"
	Resource   string         `gorm:"type:varchar(100)" json:"resource"`        // "course" or "lesson"
	ResourceID uint           `json:"resourceId"`
	NewValue   datatypes.JSON `json:"newValue,omitempty"`
	IPAddress  string         `gorm:"type:varchar(45)" json:"ipAddress"`
	UserAgent  string         `gorm:"type:text" json:"userAgent"`
	CreatedAt  time.Time      `gorm:"index" json:"createdAt"`
}

func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}
