package app

import (
	"strings"

	"docbase/internal/model"
	"docbase/internal/repository"
)

// DelegateService manages the delegate directory. All operations require the
// manage_users permission, which the primary account always holds.
type DelegateService struct {
	delegateRepo *repository.DelegateRepository
	userRepo     *repository.UserRepository
}

func NewDelegateService(delegateRepo *repository.DelegateRepository, userRepo *repository.UserRepository) *DelegateService {
	return &DelegateService{
		delegateRepo: delegateRepo,
		userRepo:     userRepo,
	}
}

type CreateDelegateInput struct {
	Email       string
	DisplayName string
	Permissions []string
}

// Create grants an existing principal delegated access to the effective
// account. Permission names are validated here, at the directory boundary.
func (s *DelegateService) Create(ectx *EffectiveContext, input CreateDelegateInput) (*model.Delegate, error) {
	if !ectx.Allows(model.PermissionManageUsers) {
		return nil, ErrPermissionDenied
	}
	if ectx.AccountID == 0 {
		return nil, ErrAccountNotFound
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, ErrInvalidInput
	}
	permissions, err := model.ParsePermissions(input.Permissions)
	if err != nil {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidInput
	}
	if user.ID == ectx.EffectiveUserID {
		return nil, ErrInvalidInput
	}

	existing, err := s.delegateRepo.GetByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrInvalidInput
	}

	delegate := &model.Delegate{
		ParentAccountID: ectx.AccountID,
		UserID:          user.ID,
		Email:           email,
		DisplayName:     strings.TrimSpace(input.DisplayName),
		Permissions:     permissions,
		Active:          true,
	}
	if err := s.delegateRepo.Create(delegate); err != nil {
		return nil, err
	}
	return delegate, nil
}

func (s *DelegateService) List(ectx *EffectiveContext) ([]model.Delegate, error) {
	if !ectx.Allows(model.PermissionManageUsers) {
		return nil, ErrPermissionDenied
	}
	if ectx.AccountID == 0 {
		return nil, ErrAccountNotFound
	}
	return s.delegateRepo.ListByParentAccountID(ectx.AccountID)
}

type UpdateDelegateInput struct {
	DisplayName *string
	Permissions []string // nil = unchanged
	Active      *bool
}

func (s *DelegateService) Update(ectx *EffectiveContext, delegateID uint, input UpdateDelegateInput) (*model.Delegate, error) {
	if !ectx.Allows(model.PermissionManageUsers) {
		return nil, ErrPermissionDenied
	}
	if ectx.AccountID == 0 {
		return nil, ErrAccountNotFound
	}

	delegate, err := s.delegateRepo.GetByIDAndParentAccountID(delegateID, ectx.AccountID)
	if err != nil {
		return nil, err
	}
	if delegate == nil {
		return nil, ErrDelegateNotFound
	}

	if input.Permissions != nil {
		permissions, err := model.ParsePermissions(input.Permissions)
		if err != nil {
			return nil, ErrInvalidInput
		}
		delegate.Permissions = permissions
	}
	if input.DisplayName != nil {
		delegate.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Active != nil {
		delegate.Active = *input.Active
	}

	if err := s.delegateRepo.Update(delegate); err != nil {
		return nil, err
	}
	return delegate, nil
}

// Delete removes the delegate record only. Documents the delegate ingested
// belong to the parent account and stay.
func (s *DelegateService) Delete(ectx *EffectiveContext, delegateID uint) error {
	if !ectx.Allows(model.PermissionManageUsers) {
		return ErrPermissionDenied
	}
	if ectx.AccountID == 0 {
		return ErrAccountNotFound
	}

	delegate, err := s.delegateRepo.GetByIDAndParentAccountID(delegateID, ectx.AccountID)
	if err != nil {
		return err
	}
	if delegate == nil {
		return ErrDelegateNotFound
	}
	return s.delegateRepo.DeleteByIDAndParentAccountID(delegateID, ectx.AccountID)
}
