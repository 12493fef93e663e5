package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docbase/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Update(doc *model.Document) error {
	if err := r.db.Save(doc).Error; err != nil {
		return fmt.Errorf("update document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) ListByCredentialID(credentialID uint) ([]model.Document, error) {
	var list []model.Document
	if err := r.db.Where("credential_id = ?", credentialID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return list, nil
}

func (r *DocumentRepository) GetByIDAndAccountID(id, accountID uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.Where("id = ? AND account_id = ?", id, accountID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) DeleteByIDAndAccountID(id, accountID uint) error {
	if err := r.db.Where("id = ? AND account_id = ?", id, accountID).Delete(&model.Document{}).Error; err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	return nil
}
