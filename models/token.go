package models

import "time"

// AuthToken is the persistent record behind every issued bearer token.
// A token is valid only while its row exists and has not expired, so
// logout (row delete) revokes immediately and the expiry sweep keeps
// the table from growing without bound.
type AuthToken struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"` // JWT jti
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Role      string    `gorm:"size:20;not null" json:"role"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
