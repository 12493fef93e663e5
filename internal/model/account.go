package model

import "time"

const (
	AccountTypeFree  = "free"
	AccountTypeTrial = "trial"
	AccountTypePaid  = "paid"
)

// defaultMaxDocuments maps account type to the default document quota for a
// new credential. Consulted only at credential-creation time.
var defaultMaxDocuments = map[string]int{
	AccountTypeFree:  50,
	AccountTypeTrial: 200,
	AccountTypePaid:  10000,
}

// Account is the top-level tenant owning credentials, quota and documents.
// Created on the owner's first settings save.
type Account struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	AccountType string    `gorm:"size:16;not null;default:'free'" json:"account_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidAccountType reports whether t is one of free, trial, paid.
func ValidAccountType(t string) bool {
	_, ok := defaultMaxDocuments[t]
	return ok
}

// DefaultMaxDocuments returns the default quota for an account type, falling
// back to the free tier for anything unrecognized.
func DefaultMaxDocuments(accountType string) int {
	if n, ok := defaultMaxDocuments[accountType]; ok {
		return n
	}
	return defaultMaxDocuments[AccountTypeFree]
}
