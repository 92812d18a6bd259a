package model

import "time"

// JWTTokenBlacklist stores revoked token ids (jti) until the token would have expired.
type JWTTokenBlacklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	UserID    uint      `gorm:"index" json:"userId"`
	Reason    string    `gorm:"type:varchar(100)" json:"reason"` // logout, refresh, security
	ExpiresAt time.Time `gorm:"index;not null" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func (JWTTokenBlacklist) TableName() string {
	return "jwt_token_blacklist"
}
