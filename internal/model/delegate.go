package model

import "time"

// Delegate grants a secondary principal restricted access to a parent account.
// The delegate's effective credential set is always the parent's, never its own.
type Delegate struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	ParentAccountID uint          `gorm:"not null;index" json:"parent_account_id"`
	UserID          uint          `gorm:"not null;uniqueIndex" json:"user_id"`
	Email           string        `gorm:"size:128;not null" json:"email"`
	DisplayName     string        `gorm:"size:128" json:"display_name"`
	Permissions     PermissionSet `gorm:"not null;default:0" json:"permissions"`
	Active          bool          `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
