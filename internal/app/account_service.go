package app

import (
	"strings"

	"docbase/internal/model"
	"docbase/internal/repository"
)

// AccountService manages account settings and the credential store. Settings
// and credential mutations are owner-only; delegates never see or edit the
// parent's API keys.
type AccountService struct {
	accountRepo    *repository.AccountRepository
	credentialRepo *repository.CredentialRepository
}

func NewAccountService(accountRepo *repository.AccountRepository, credentialRepo *repository.CredentialRepository) *AccountService {
	return &AccountService{
		accountRepo:    accountRepo,
		credentialRepo: credentialRepo,
	}
}

func (s *AccountService) GetSettings(ectx *EffectiveContext) (*model.Account, error) {
	if ectx.AccountID == 0 {
		return nil, ErrAccountNotFound
	}
	account, err := s.accountRepo.GetByID(ectx.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// SaveSettings creates the account on first save and updates it after.
func (s *AccountService) SaveSettings(ectx *EffectiveContext, accountType string) (*model.Account, error) {
	if ectx.IsDelegate {
		return nil, ErrPermissionDenied
	}
	accountType = strings.TrimSpace(accountType)
	if !model.ValidAccountType(accountType) {
		return nil, ErrInvalidInput
	}

	account, err := s.accountRepo.GetByUserID(ectx.EffectiveUserID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		account = &model.Account{
			UserID:      ectx.EffectiveUserID,
			AccountType: accountType,
		}
		if err := s.accountRepo.Create(account); err != nil {
			return nil, err
		}
		return account, nil
	}

	account.AccountType = accountType
	if err := s.accountRepo.Update(account); err != nil {
		return nil, err
	}
	return account, nil
}

type CreateCredentialInput struct {
	Name          string
	DatasetHandle string
	APIKey        string
	MaxDocuments  *int // nil = default for the account type
}

// CreateCredential registers a new knowledge-base credential. The default
// quota lookup by account type happens here, at creation time only.
func (s *AccountService) CreateCredential(ectx *EffectiveContext, input CreateCredentialInput) (*model.Credential, error) {
	if ectx.IsDelegate {
		return nil, ErrPermissionDenied
	}

	name := strings.TrimSpace(input.Name)
	handle := strings.TrimSpace(input.DatasetHandle)
	apiKey := strings.TrimSpace(input.APIKey)
	if name == "" || handle == "" || apiKey == "" {
		return nil, ErrInvalidInput
	}
	if input.MaxDocuments != nil && *input.MaxDocuments < 0 {
		return nil, ErrInvalidInput
	}

	account, err := s.accountRepo.GetByID(ectx.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	maxDocs := model.DefaultMaxDocuments(account.AccountType)
	if input.MaxDocuments != nil {
		maxDocs = *input.MaxDocuments
	}

	cred := &model.Credential{
		AccountID:     account.ID,
		Name:          name,
		DatasetHandle: handle,
		APIKey:        apiKey,
		MaxDocuments:  maxDocs,
	}
	if err := s.credentialRepo.Create(cred); err != nil {
		return nil, err
	}
	return cred, nil
}

func (s *AccountService) ListCredentials(ectx *EffectiveContext) ([]model.Credential, error) {
	if !ectx.Allows(model.PermissionView) {
		return nil, ErrPermissionDenied
	}
	if ectx.AccountID == 0 {
		return nil, ErrAccountNotFound
	}
	return s.credentialRepo.ListByAccountID(ectx.AccountID)
}

func (s *AccountService) DeleteCredential(ectx *EffectiveContext, credentialID uint) error {
	if ectx.IsDelegate {
		return ErrPermissionDenied
	}
	if ectx.AccountID == 0 {
		return ErrAccountNotFound
	}
	cred, err := s.credentialRepo.GetByIDAndAccountID(credentialID, ectx.AccountID)
	if err != nil {
		return err
	}
	if cred == nil {
		return ErrCredentialNotFound
	}
	return s.credentialRepo.DeleteByIDAndAccountID(credentialID, ectx.AccountID)
}

// GetCredential fetches one of the effective account's credentials for use by
// quota checks and ingestion. View permission is enough: the API key itself is
// never exposed outward.
func (s *AccountService) GetCredential(ectx *EffectiveContext, credentialID uint) (*model.Credential, error) {
	if ectx.AccountID == 0 {
		return nil, ErrAccountNotFound
	}
	cred, err := s.credentialRepo.GetByIDAndAccountID(credentialID, ectx.AccountID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrCredentialNotFound
	}
	return cred, nil
}
