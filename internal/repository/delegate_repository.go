package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docbase/internal/model"
)

type DelegateRepository struct {
	db *gorm.DB
}

func NewDelegateRepository(db *gorm.DB) *DelegateRepository {
	return &DelegateRepository{db: db}
}

func (r *DelegateRepository) Create(delegate *model.Delegate) error {
	if err := r.db.Create(delegate).Error; err != nil {
		return fmt.Errorf("create delegate failed: %w", err)
	}
	return nil
}

// GetByUserID matches a principal's own user id against stored delegate
// records. Nil without error means the principal is not a delegate.
func (r *DelegateRepository) GetByUserID(userID uint) (*model.Delegate, error) {
	var delegate model.Delegate
	if err := r.db.Where("user_id = ?", userID).First(&delegate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query delegate by user id failed: %w", err)
	}
	return &delegate, nil
}

func (r *DelegateRepository) GetByIDAndParentAccountID(id, parentAccountID uint) (*model.Delegate, error) {
	var delegate model.Delegate
	if err := r.db.Where("id = ? AND parent_account_id = ?", id, parentAccountID).First(&delegate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delegate failed: %w", err)
	}
	return &delegate, nil
}

func (r *DelegateRepository) ListByParentAccountID(parentAccountID uint) ([]model.Delegate, error) {
	var list []model.Delegate
	if err := r.db.Where("parent_account_id = ?", parentAccountID).Order("created_at ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list delegates failed: %w", err)
	}
	return list, nil
}

func (r *DelegateRepository) Update(delegate *model.Delegate) error {
	if err := r.db.Save(delegate).Error; err != nil {
		return fmt.Errorf("update delegate failed: %w", err)
	}
	return nil
}

// DeleteByIDAndParentAccountID removes the delegate record only. The parent's
// documents are never touched here.
func (r *DelegateRepository) DeleteByIDAndParentAccountID(id, parentAccountID uint) error {
	if err := r.db.Where("id = ? AND parent_account_id = ?", id, parentAccountID).Delete(&model.Delegate{}).Error; err != nil {
		return fmt.Errorf("delete delegate failed: %w", err)
	}
	return nil
}
