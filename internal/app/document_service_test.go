package app

import (
	"context"
	"errors"
	"testing"

	"docbase/internal/model"
)

type fakeDocumentDirectory struct {
	docs    map[uint]*model.Document
	deleted []uint
}

func (f *fakeDocumentDirectory) ListByCredentialID(credentialID uint) ([]model.Document, error) {
	var list []model.Document
	for _, doc := range f.docs {
		if doc.CredentialID == credentialID {
			list = append(list, *doc)
		}
	}
	return list, nil
}

func (f *fakeDocumentDirectory) GetByIDAndAccountID(id, accountID uint) (*model.Document, error) {
	doc, ok := f.docs[id]
	if !ok || doc.AccountID != accountID {
		return nil, nil
	}
	return doc, nil
}

func (f *fakeDocumentDirectory) DeleteByIDAndAccountID(id, accountID uint) error {
	f.deleted = append(f.deleted, id)
	delete(f.docs, id)
	return nil
}

type fakeCredentialSource struct {
	cred *model.Credential
	err  error
}

func (f *fakeCredentialSource) GetCredential(ectx *EffectiveContext, credentialID uint) (*model.Credential, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cred, nil
}

func indexedDocument() *model.Document {
	return &model.Document{
		ID:              1,
		AccountID:       3,
		CredentialID:    7,
		Filename:        "report.pdf",
		IndexDocumentID: "idx-1",
		Status:          model.DocumentStatusCompleted,
	}
}

func TestDeleteRemovesIndexedCopy(t *testing.T) {
	cred := testCredential(50)
	index := &fakeIndex{}
	dir := &fakeDocumentDirectory{docs: map[uint]*model.Document{1: indexedDocument()}}
	svc := NewDocumentService(dir, &fakeCredentialSource{cred: &cred}, NewQuotaGate(index), index)

	if err := svc.Delete(context.Background(), ownerContext(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(dir.deleted) != 1 || dir.deleted[0] != 1 {
		t.Errorf("deleted ids = %v, want [1]", dir.deleted)
	}
	if len(index.deleteCalls) != 1 || index.deleteCalls[0] != "idx-1" {
		t.Errorf("remote deletes = %v, want [idx-1]", index.deleteCalls)
	}
}

// A failed credential lookup skips the remote delete but still removes the
// local record; same for a failed remote delete. Both are best-effort.
func TestDeleteBestEffortOnRemoteFailures(t *testing.T) {
	t.Run("credential lookup fails", func(t *testing.T) {
		index := &fakeIndex{}
		dir := &fakeDocumentDirectory{docs: map[uint]*model.Document{1: indexedDocument()}}
		svc := NewDocumentService(dir, &fakeCredentialSource{err: errUpstreamDown}, NewQuotaGate(index), index)

		if err := svc.Delete(context.Background(), ownerContext(), 1); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if len(index.deleteCalls) != 0 {
			t.Errorf("remote delete attempted without a credential: %v", index.deleteCalls)
		}
		if len(dir.deleted) != 1 {
			t.Error("local record survived the delete")
		}
	})

	t.Run("remote delete fails", func(t *testing.T) {
		cred := testCredential(50)
		index := &fakeIndex{deleteErr: errUpstreamDown}
		dir := &fakeDocumentDirectory{docs: map[uint]*model.Document{1: indexedDocument()}}
		svc := NewDocumentService(dir, &fakeCredentialSource{cred: &cred}, NewQuotaGate(index), index)

		if err := svc.Delete(context.Background(), ownerContext(), 1); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if len(dir.deleted) != 1 {
			t.Error("local record survived the delete")
		}
	})
}

func TestDeleteRequiresDeletePermission(t *testing.T) {
	index := &fakeIndex{}
	dir := &fakeDocumentDirectory{docs: map[uint]*model.Document{1: indexedDocument()}}
	svc := NewDocumentService(dir, &fakeCredentialSource{}, NewQuotaGate(index), index)

	viewer := &EffectiveContext{
		EffectiveUserID: 10,
		AccountID:       3,
		Permissions:     model.PermissionSet(model.PermissionView),
		IsDelegate:      true,
	}
	if err := svc.Delete(context.Background(), viewer, 1); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("got %v, want ErrPermissionDenied", err)
	}
	if len(dir.deleted) != 0 {
		t.Error("denied delete still removed the record")
	}
}

// GET quota surfaces the upstream sentinel so the transport layer can answer
// 503 instead of a generic server error.
func TestQuotaReportsUpstreamOutage(t *testing.T) {
	cred := testCredential(50)
	index := &fakeIndex{countErr: errUpstreamDown}
	svc := NewDocumentService(
		&fakeDocumentDirectory{},
		&fakeCredentialSource{cred: &cred},
		NewQuotaGate(index),
		index,
	)

	_, err := svc.Quota(context.Background(), ownerContext(), 7)
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("got %v, want ErrUpstream", err)
	}
}
