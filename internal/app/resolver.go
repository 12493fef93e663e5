package app

import (
	"fmt"

	"docbase/internal/model"
)

// DelegateDirectory looks up delegate records by the principal's own user id.
type DelegateDirectory interface {
	GetByUserID(userID uint) (*model.Delegate, error)
}

// AccountDirectory looks up account records.
type AccountDirectory interface {
	GetByID(id uint) (*model.Account, error)
	GetByUserID(userID uint) (*model.Account, error)
}

// EffectiveContext answers on whose behalf, with which permissions, a
// principal acts. It is derived per request and never cached: delegate records
// can be edited concurrently by the account owner.
type EffectiveContext struct {
	EffectiveUserID uint
	AccountID       uint // 0 until the effective user saves settings
	Permissions     model.PermissionSet
	IsDelegate      bool
	DelegateID      uint
}

// Allows re-evaluates the permission gate for one action. Non-delegates always
// pass; delegates pass only for actions in their stored set.
func (e *EffectiveContext) Allows(p model.Permission) bool {
	if !e.IsDelegate {
		return true
	}
	return e.Permissions.Has(p)
}

// Resolver composes the delegate directory and account store into the
// effective-account resolution of a principal.
type Resolver struct {
	delegates DelegateDirectory
	accounts  AccountDirectory
}

func NewResolver(delegates DelegateDirectory, accounts AccountDirectory) *Resolver {
	return &Resolver{
		delegates: delegates,
		accounts:  accounts,
	}
}

// Resolve determines the effective account and permission set for a principal.
// A directory lookup failure is returned as an error, never treated as "no
// delegate": that would silently grant full permissions.
func (r *Resolver) Resolve(principalUserID uint) (*EffectiveContext, error) {
	if principalUserID == 0 {
		return nil, ErrInvalidInput
	}

	delegate, err := r.delegates.GetByUserID(principalUserID)
	if err != nil {
		return nil, fmt.Errorf("delegate lookup failed: %w", err)
	}

	if delegate == nil {
		account, err := r.accounts.GetByUserID(principalUserID)
		if err != nil {
			return nil, fmt.Errorf("account lookup failed: %w", err)
		}
		ectx := &EffectiveContext{
			EffectiveUserID: principalUserID,
			Permissions:     model.FullPermissions,
			IsDelegate:      false,
		}
		if account != nil {
			ectx.AccountID = account.ID
		}
		return ectx, nil
	}

	// An inactive delegate has no account of its own; the operation must fail
	// rather than fall back to treating the principal as a primary account.
	if !delegate.Active {
		return nil, ErrDelegateInactive
	}

	account, err := r.accounts.GetByID(delegate.ParentAccountID)
	if err != nil {
		return nil, fmt.Errorf("parent account lookup failed: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("delegate %d references missing account %d", delegate.ID, delegate.ParentAccountID)
	}

	return &EffectiveContext{
		EffectiveUserID: account.UserID,
		AccountID:       account.ID,
		Permissions:     delegate.Permissions,
		IsDelegate:      true,
		DelegateID:      delegate.ID,
	}, nil
}
