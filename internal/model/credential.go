package model

import "time"

// Credential authorizes calls to the indexing service for one knowledge base.
// An account may own several, each with its own dataset and quota.
type Credential struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AccountID     uint      `gorm:"not null;index" json:"account_id"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	DatasetHandle string    `gorm:"size:128;not null" json:"dataset_handle"`
	APIKey        string    `gorm:"size:255;not null" json:"-"`
	MaxDocuments  int       `gorm:"not null" json:"max_documents"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
