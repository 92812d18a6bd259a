package model

// All returns every table managed by migrations, in creation order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Lesson{},
		&Enrollment{},
		&Progress{},
		&Review{},
		&JWTTokenBlacklist{},
		&CronJobLog{},
		&AdminAuditLog{},
		&AnalyticsSnapshot{},
	}
}
