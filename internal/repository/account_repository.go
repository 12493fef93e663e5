package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docbase/internal/model"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(account *model.Account) error {
	if err := r.db.Create(account).Error; err != nil {
		return fmt.Errorf("create account failed: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(id uint) (*model.Account, error) {
	var account model.Account
	if err := r.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query account by id failed: %w", err)
	}
	return &account, nil
}

func (r *AccountRepository) GetByUserID(userID uint) (*model.Account, error) {
	var account model.Account
	if err := r.db.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query account by user id failed: %w", err)
	}
	return &account, nil
}

func (r *AccountRepository) Update(account *model.Account) error {
	if err := r.db.Save(account).Error; err != nil {
		return fmt.Errorf("update account failed: %w", err)
	}
	return nil
}
