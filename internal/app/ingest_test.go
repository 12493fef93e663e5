package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"docbase/internal/indexing"
	"docbase/internal/model"
)

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name    string
		file    IngestFile
		maxSize int64
		wantErr bool
	}{
		{"pdf ok", testFile("report.pdf"), 1 << 20, false},
		{"markdown ok", testFile("notes.md"), 1 << 20, false},
		{"uppercase extension ok", testFile("REPORT.PDF"), 1 << 20, false},
		{"no extension", testFile("README"), 1 << 20, true},
		{"unsupported extension", testFile("photo.png"), 1 << 20, true},
		{"empty name", IngestFile{Name: "  ", Data: []byte("x")}, 1 << 20, true},
		{"over size cap", IngestFile{Name: "big.pdf", Size: 200, Data: []byte("x")}, 100, true},
		{"no size cap configured", IngestFile{Name: "big.pdf", Size: 1 << 40, Data: []byte("x")}, 0, false},
		{"empty payload", IngestFile{Name: "empty.pdf", Size: 10}, 1 << 20, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile(tt.file, tt.maxSize)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFile(%q) error = %v, wantErr %v", tt.file.Name, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("validation error %v is not ErrInvalidInput", err)
			}
		})
	}
}

func TestIngestHappyPath(t *testing.T) {
	store := &fakeObjectStore{}
	index := &fakeIndex{}
	docs := &fakeDocumentStore{}
	svc := NewIngestService(store, index, docs)

	doc, err := svc.Ingest(context.Background(), testFile("report.pdf"), testCredential(50), indexing.TechniqueHighQuality)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if doc.Status != model.DocumentStatusCompleted {
		t.Errorf("Status = %q, want completed", doc.Status)
	}
	if doc.IndexDocumentID == "" {
		t.Error("completed document has no index document id")
	}
	if !strings.HasSuffix(doc.StorageURL, "report.pdf") {
		t.Errorf("StorageURL = %q", doc.StorageURL)
	}
	if doc.Warning != "" {
		t.Errorf("unexpected warning %q", doc.Warning)
	}
	if len(index.metadataCalls) != 1 || index.metadataCalls[0] != doc.IndexDocumentID {
		t.Errorf("metadata attached to %v, want [%s]", index.metadataCalls, doc.IndexDocumentID)
	}
}

func TestIngestStoreFailureLeavesNoRecord(t *testing.T) {
	store := &fakeObjectStore{err: errUpstreamDown}
	index := &fakeIndex{}
	docs := &fakeDocumentStore{}
	svc := NewIngestService(store, index, docs)

	doc, err := svc.Ingest(context.Background(), testFile("report.pdf"), testCredential(50), indexing.TechniqueEconomy)
	if err == nil {
		t.Fatal("Ingest succeeded with a down object store")
	}
	if doc != nil {
		t.Error("store failure still produced a document")
	}
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("error %v is not classified as ErrUpstream", err)
	}
	if len(docs.created) != 0 {
		t.Errorf("store failure persisted %d records, want none", len(docs.created))
	}
	if len(index.createCalls) != 0 {
		t.Error("store failure still reached the indexing service")
	}
}

func TestIngestIndexingFailurePersistsFailedRecord(t *testing.T) {
	store := &fakeObjectStore{}
	index := &fakeIndex{createErr: errUpstreamDown}
	docs := &fakeDocumentStore{}
	svc := NewIngestService(store, index, docs)

	doc, err := svc.Ingest(context.Background(), testFile("report.pdf"), testCredential(50), indexing.TechniqueEconomy)
	if err == nil {
		t.Fatal("Ingest succeeded with a down indexing service")
	}
	if doc == nil {
		t.Fatal("indexing failure erased the document record")
	}
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("error %v is not classified as ErrUpstream", err)
	}
	if doc.Status != model.DocumentStatusFailed {
		t.Errorf("Status = %q, want failed", doc.Status)
	}
	if doc.IndexDocumentID != "" {
		t.Errorf("failed document carries index id %q", doc.IndexDocumentID)
	}
	if doc.StorageURL == "" {
		t.Error("failed document lost its storage url")
	}
	if len(docs.created) != 1 {
		t.Errorf("persisted %d records, want 1", len(docs.created))
	}
}

func TestIngestMetadataFailureIsNonFatal(t *testing.T) {
	store := &fakeObjectStore{}
	index := &fakeIndex{metadataErr: errUpstreamDown}
	docs := &fakeDocumentStore{}
	svc := NewIngestService(store, index, docs)

	doc, err := svc.Ingest(context.Background(), testFile("report.pdf"), testCredential(50), indexing.TechniqueEconomy)
	if err != nil {
		t.Fatalf("metadata failure escalated to an error: %v", err)
	}
	if doc.Status != model.DocumentStatusCompleted {
		t.Errorf("Status = %q, want completed", doc.Status)
	}
	if doc.IndexDocumentID == "" {
		t.Error("completed document has no index document id")
	}
	if doc.Warning == "" {
		t.Error("metadata failure left no warning")
	}
}
