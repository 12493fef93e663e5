package app

import (
	"context"
	"fmt"

	"docbase/internal/indexing"
	"docbase/internal/model"
)

// IndexingService is the slice of the external indexing API the core consumes.
type IndexingService interface {
	CreateDocument(ctx context.Context, cred indexing.Credential, filename string, data []byte, technique string) (string, error)
	AttachMetadata(ctx context.Context, cred indexing.Credential, documentID, key, value string) error
	CountDocuments(ctx context.Context, cred indexing.Credential) (int, error)
	DeleteDocument(ctx context.Context, cred indexing.Credential, documentID string) error
}

type QuotaStatus struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
	Count     int  `json:"count"`
	Max       int  `json:"max"`
}

// QuotaGate compares the live document count of a dataset against the
// credential's quota. The count is fetched per call, never cached: external
// uploads and deletes can change it between calls.
type QuotaGate struct {
	index IndexingService
}

func NewQuotaGate(index IndexingService) *QuotaGate {
	return &QuotaGate{index: index}
}

// Check fails closed: if the indexing service is unreachable the returned
// status is not allowed and the error explains why.
func (g *QuotaGate) Check(ctx context.Context, cred model.Credential) (QuotaStatus, error) {
	count, err := g.index.CountDocuments(ctx, indexCredential(cred))
	if err != nil {
		return QuotaStatus{Allowed: false}, fmt.Errorf("%w: count documents failed: %w", ErrUpstream, err)
	}

	remaining := cred.MaxDocuments - count
	return QuotaStatus{
		Allowed:   remaining > 0,
		Remaining: remaining,
		Count:     count,
		Max:       cred.MaxDocuments,
	}, nil
}

func indexCredential(cred model.Credential) indexing.Credential {
	return indexing.Credential{
		DatasetHandle: cred.DatasetHandle,
		APIKey:        cred.APIKey,
	}
}
