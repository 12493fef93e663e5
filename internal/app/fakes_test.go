package app

import (
	"context"
	"errors"
	"fmt"

	"docbase/internal/indexing"
	"docbase/internal/model"
)

var errUpstreamDown = errors.New("upstream down")

type fakeDelegateDir struct {
	delegates map[uint]*model.Delegate
	err       error
}

func (f *fakeDelegateDir) GetByUserID(userID uint) (*model.Delegate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.delegates[userID], nil
}

type fakeAccountDir struct {
	byID     map[uint]*model.Account
	byUserID map[uint]*model.Account
	err      error
}

func (f *fakeAccountDir) GetByID(id uint) (*model.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func (f *fakeAccountDir) GetByUserID(userID uint) (*model.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byUserID[userID], nil
}

// fakeIndex counts documents from its own state and can be told to fail
// individual operations. Successful CreateDocument calls grow the count.
type fakeIndex struct {
	count       int
	countErr    error
	createErr   error
	metadataErr error
	deleteErr   error

	// failCreateFor rejects CreateDocument for these filenames only.
	failCreateFor map[string]bool

	createCalls   []string
	metadataCalls []string
	deleteCalls   []string
	countCalls    int
}

func (f *fakeIndex) CreateDocument(ctx context.Context, cred indexing.Credential, filename string, data []byte, technique string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	if f.failCreateFor[filename] {
		return "", errUpstreamDown
	}
	f.createCalls = append(f.createCalls, filename)
	f.count++
	return fmt.Sprintf("idx-%d", f.count), nil
}

func (f *fakeIndex) AttachMetadata(ctx context.Context, cred indexing.Credential, documentID, key, value string) error {
	if f.metadataErr != nil {
		return f.metadataErr
	}
	f.metadataCalls = append(f.metadataCalls, documentID)
	return nil
}

func (f *fakeIndex) CountDocuments(ctx context.Context, cred indexing.Credential) (int, error) {
	f.countCalls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.count, nil
}

func (f *fakeIndex) DeleteDocument(ctx context.Context, cred indexing.Credential, documentID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleteCalls = append(f.deleteCalls, documentID)
	return nil
}

type fakeObjectStore struct {
	err   error
	calls []string
}

func (f *fakeObjectStore) PutFile(ctx context.Context, filename string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls = append(f.calls, filename)
	return "https://store.local/files/" + filename, nil
}

type fakeDocumentStore struct {
	createErr error
	updateErr error
	created   []*model.Document
	nextID    uint
}

func (f *fakeDocumentStore) Create(doc *model.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	doc.ID = f.nextID
	f.created = append(f.created, doc)
	return nil
}

func (f *fakeDocumentStore) Update(doc *model.Document) error {
	return f.updateErr
}

func testCredential(maxDocuments int) model.Credential {
	return model.Credential{
		ID:            7,
		AccountID:     3,
		Name:          "primary",
		DatasetHandle: "ds-main",
		APIKey:        "secret",
		MaxDocuments:  maxDocuments,
	}
}

func testFile(name string) IngestFile {
	return IngestFile{
		Name:        name,
		Size:        int64(len(name)) + 100,
		ContentType: "application/pdf",
		Data:        []byte("content of " + name),
	}
}
