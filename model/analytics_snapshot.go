package model

import (
	"time"

	"gorm.io/datatypes"
)

// AnalyticsSnapshot holds the materialized rollup for one closed calendar month.
// MonthKey uses the "YYYY-M" form (no zero padding).
type AnalyticsSnapshot struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	MonthKey    string         `gorm:"type:varchar(10);uniqueIndex;not null" json:"monthKey"`
	PeriodStart time.Time      `gorm:"not null" json:"periodStart"`
	Payload     datatypes.JSON `gorm:"not null" json:"payload"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
