package model

import "time"

const (
	DocumentStatusPending   = "pending"
	DocumentStatusCompleted = "completed"
	DocumentStatusFailed    = "failed"
)

// Document is a file indexed for one account/credential pair. The row is
// created only after the object-store upload succeeds; completed implies a
// non-empty IndexDocumentID.
type Document struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	AccountID       uint      `gorm:"not null;index" json:"account_id"`
	CredentialID    uint      `gorm:"not null;index" json:"credential_id"`
	Filename        string    `gorm:"size:256;not null" json:"filename"`
	Size            int64     `gorm:"not null" json:"size"`
	ContentType     string    `gorm:"size:128" json:"content_type"`
	StorageURL      string    `gorm:"size:512;not null" json:"storage_url"`
	IndexDocumentID string    `gorm:"size:128;index" json:"index_document_id,omitempty"`
	Status          string    `gorm:"size:16;not null;default:'pending'" json:"status"`
	Warning         string    `gorm:"size:512" json:"warning,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
