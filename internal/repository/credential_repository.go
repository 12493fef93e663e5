package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docbase/internal/model"
)

type CredentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) Create(cred *model.Credential) error {
	if err := r.db.Create(cred).Error; err != nil {
		return fmt.Errorf("create credential failed: %w", err)
	}
	return nil
}

func (r *CredentialRepository) ListByAccountID(accountID uint) ([]model.Credential, error) {
	var list []model.Credential
	if err := r.db.Where("account_id = ?", accountID).Order("created_at ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list credentials failed: %w", err)
	}
	return list, nil
}

func (r *CredentialRepository) GetByIDAndAccountID(id, accountID uint) (*model.Credential, error) {
	var cred model.Credential
	if err := r.db.Where("id = ? AND account_id = ?", id, accountID).First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credential failed: %w", err)
	}
	return &cred, nil
}

func (r *CredentialRepository) DeleteByIDAndAccountID(id, accountID uint) error {
	if err := r.db.Where("id = ? AND account_id = ?", id, accountID).Delete(&model.Credential{}).Error; err != nil {
		return fmt.Errorf("delete credential failed: %w", err)
	}
	return nil
}
