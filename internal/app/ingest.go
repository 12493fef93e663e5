package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"docbase/internal/model"
)

// storageURLMetadataKey is the metadata field stage 3 attaches to the indexed
// document so the canonical retrieval URL travels with it.
const storageURLMetadataKey = "storage_url"

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".md":   true,
}

// ObjectStore is the slice of the durable object store the pipeline consumes.
type ObjectStore interface {
	PutFile(ctx context.Context, filename string, data []byte) (string, error)
}

// DocumentStore persists document records as pipeline stages complete.
type DocumentStore interface {
	Create(doc *model.Document) error
	Update(doc *model.Document) error
}

// IngestFile is one uploaded file entering the pipeline.
type IngestFile struct {
	Name        string
	Size        int64
	ContentType string
	Data        []byte
}

// ValidateFile is the pre-flight check; the pipeline must never start for a
// file that fails it.
func ValidateFile(f IngestFile, maxSize int64) error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: missing filename", ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(f.Name))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: unsupported file type %s", ErrInvalidInput, ext)
	}
	if maxSize > 0 && f.Size > maxSize {
		return fmt.Errorf("%w: file too large", ErrInvalidInput)
	}
	if len(f.Data) == 0 {
		return fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	return nil
}

// IngestService runs the three-stage per-file workflow: object-store upload,
// indexing submission, metadata attachment.
type IngestService struct {
	store     ObjectStore
	index     IndexingService
	documents DocumentStore
}

func NewIngestService(store ObjectStore, index IndexingService, documents DocumentStore) *IngestService {
	return &IngestService{
		store:     store,
		index:     index,
		documents: documents,
	}
}

// Ingest turns one file into an indexed document.
//
// Stage 1 failure is fatal and leaves no document record. Stage 2 failure is
// fatal but the record persists as failed; the stage-1 artifact is left in
// place rather than guaranteeing rollback of a third-party store. Stage 3
// failure only records a warning: the document is already searchable, so the
// missing metadata is an enrichment gap, not an error. Retries are the
// caller's business, not the pipeline's.
func (s *IngestService) Ingest(ctx context.Context, file IngestFile, cred model.Credential, technique string) (*model.Document, error) {
	url, err := s.store.PutFile(ctx, file.Name, file.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: object store upload failed: %w", ErrUpstream, err)
	}

	doc := &model.Document{
		AccountID:    cred.AccountID,
		CredentialID: cred.ID,
		Filename:     file.Name,
		Size:         file.Size,
		ContentType:  file.ContentType,
		StorageURL:   url,
		Status:       model.DocumentStatusPending,
	}
	if err := s.documents.Create(doc); err != nil {
		return nil, fmt.Errorf("persist document record failed: %w", err)
	}

	indexID, err := s.index.CreateDocument(ctx, indexCredential(cred), file.Name, file.Data, technique)
	if err != nil {
		doc.Status = model.DocumentStatusFailed
		if updateErr := s.documents.Update(doc); updateErr != nil {
			return doc, fmt.Errorf("%w: indexing submission failed: %w (record update also failed: %v)", ErrUpstream, err, updateErr)
		}
		return doc, fmt.Errorf("%w: indexing submission failed: %w", ErrUpstream, err)
	}

	doc.IndexDocumentID = indexID
	doc.Status = model.DocumentStatusCompleted
	if err := s.index.AttachMetadata(ctx, indexCredential(cred), indexID, storageURLMetadataKey, url); err != nil {
		doc.Warning = fmt.Sprintf("metadata attachment failed: %v", err)
	}
	if err := s.documents.Update(doc); err != nil {
		return doc, fmt.Errorf("persist document record failed: %w", err)
	}
	return doc, nil
}
