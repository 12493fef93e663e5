package app

import (
	"context"
	"log"

	"docbase/internal/model"
)

// DocumentDirectory is the slice of the document repository this service
// consumes.
type DocumentDirectory interface {
	ListByCredentialID(credentialID uint) ([]model.Document, error)
	GetByIDAndAccountID(id, accountID uint) (*model.Document, error)
	DeleteByIDAndAccountID(id, accountID uint) error
}

// CredentialSource resolves one of the effective account's credentials.
type CredentialSource interface {
	GetCredential(ectx *EffectiveContext, credentialID uint) (*model.Credential, error)
}

// DocumentService covers the read/delete side of the document set; ingestion
// goes through BatchService.
type DocumentService struct {
	documents   DocumentDirectory
	credentials CredentialSource
	quota       *QuotaGate
	index       IndexingService
}

func NewDocumentService(documents DocumentDirectory, credentials CredentialSource, quota *QuotaGate, index IndexingService) *DocumentService {
	return &DocumentService{
		documents:   documents,
		credentials: credentials,
		quota:       quota,
		index:       index,
	}
}

func (s *DocumentService) List(ectx *EffectiveContext, credentialID uint) ([]model.Document, error) {
	if !ectx.Allows(model.PermissionView) {
		return nil, ErrPermissionDenied
	}
	if _, err := s.credentials.GetCredential(ectx, credentialID); err != nil {
		return nil, err
	}
	return s.documents.ListByCredentialID(credentialID)
}

// Quota reports the live quota status for one credential.
func (s *DocumentService) Quota(ctx context.Context, ectx *EffectiveContext, credentialID uint) (QuotaStatus, error) {
	if !ectx.Allows(model.PermissionView) {
		return QuotaStatus{}, ErrPermissionDenied
	}
	cred, err := s.credentials.GetCredential(ectx, credentialID)
	if err != nil {
		return QuotaStatus{}, err
	}
	return s.quota.Check(ctx, *cred)
}

// Delete removes a document record and requests deletion at the indexing
// service. The remote delete is best-effort: a stale indexed copy is logged,
// not fatal.
func (s *DocumentService) Delete(ctx context.Context, ectx *EffectiveContext, documentID uint) error {
	if !ectx.Allows(model.PermissionDelete) {
		return ErrPermissionDenied
	}
	if ectx.AccountID == 0 {
		return ErrAccountNotFound
	}

	doc, err := s.documents.GetByIDAndAccountID(documentID, ectx.AccountID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}

	if doc.IndexDocumentID != "" {
		cred, err := s.credentials.GetCredential(ectx, doc.CredentialID)
		if err != nil {
			log.Printf("load credential %d for indexed delete of %s failed: %v", doc.CredentialID, doc.IndexDocumentID, err)
		} else if err := s.index.DeleteDocument(ctx, indexCredential(*cred), doc.IndexDocumentID); err != nil {
			log.Printf("delete indexed document %s failed: %v", doc.IndexDocumentID, err)
		}
	}

	return s.documents.DeleteByIDAndAccountID(documentID, ectx.AccountID)
}
