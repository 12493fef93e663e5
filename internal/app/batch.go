package app

import (
	"context"
	"fmt"
	"sync"

	"docbase/internal/indexing"
	"docbase/internal/model"
)

const (
	FileStatusCompleted = "completed"
	FileStatusFailed    = "failed"
	FileStatusRejected  = "rejected"
)

// Cause buckets reported for files that did not complete.
const (
	CauseQuotaExceeded    = "quota_exceeded"
	CauseInvalidFile      = "invalid_file"
	CauseUpstream         = "upstream_unavailable"
	CauseCanceled         = "canceled"
	CausePermissionDenied = "permission_denied"
)

// FileResult is the terminal outcome for one file of a batch.
type FileResult struct {
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	Cause      string `json:"cause,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Warning    string `json:"warning,omitempty"`
	DocumentID uint   `json:"document_id,omitempty"`
}

type BatchResult struct {
	SuccessCount int          `json:"success_count"`
	Results      []FileResult `json:"results"`
}

// BatchProgress is a snapshot published after every file, so observers see a
// monotonically increasing percentage. AccountID scopes the snapshot: only
// principals resolving to the same effective account may read it.
type BatchProgress struct {
	AccountID uint         `json:"account_id"`
	Total     int          `json:"total"`
	Processed int          `json:"processed"`
	Succeeded int          `json:"succeeded"`
	Status    string       `json:"status"`
	Results   []FileResult `json:"results"`
}

type ProgressFunc func(BatchProgress)

// BatchService drives the ingestion pipeline over a set of files,
// sequentially: progress stays monotonic and a single slow upload cannot
// exhaust the indexing service's concurrent-request budget.
type BatchService struct {
	quota            *QuotaGate
	ingest           *IngestService
	defaultTechnique string
	maxFileSize      int64

	// Serializes batches per account: quota remaining is read-then-acted, so
	// two concurrent batches against one account could overshoot the quota.
	accountLocks sync.Map
}

func NewBatchService(quota *QuotaGate, ingest *IngestService, defaultTechnique string, maxFileSize int64) *BatchService {
	return &BatchService{
		quota:            quota,
		ingest:           ingest,
		defaultTechnique: defaultTechnique,
		maxFileSize:      maxFileSize,
	}
}

// RunBatch ingests each file in order, continuing past per-file failures.
// Upload permission is checked once up front; quota is re-read fresh before
// every file so a batch self-limits as it fills the dataset, and files beyond
// the remaining quota are rejected without any pipeline call. Cancellation is
// honored between files. Per-file failures never escape as an error: every
// file yields a structured result with a cause bucket.
func (s *BatchService) RunBatch(
	ctx context.Context,
	ectx *EffectiveContext,
	cred model.Credential,
	technique string,
	files []IngestFile,
	progress ProgressFunc,
) (*BatchResult, error) {
	if ectx == nil || len(files) == 0 {
		return nil, ErrInvalidInput
	}
	if !ectx.Allows(model.PermissionUpload) {
		return nil, ErrPermissionDenied
	}

	if technique == "" {
		technique = s.defaultTechnique
	}
	if !indexing.ValidTechnique(technique) {
		return nil, fmt.Errorf("%w: unknown indexing technique %q", ErrInvalidInput, technique)
	}

	lock := s.lockFor(cred.AccountID)
	lock.Lock()
	defer lock.Unlock()

	result := &BatchResult{Results: make([]FileResult, 0, len(files))}
	canceled := false

	for _, file := range files {
		if !canceled && ctx.Err() != nil {
			canceled = true
		}
		if canceled {
			result.Results = append(result.Results, FileResult{
				Filename: file.Name,
				Status:   FileStatusRejected,
				Cause:    CauseCanceled,
			})
			continue
		}

		result.Results = append(result.Results, s.runFile(ctx, file, cred, technique))
		if last := &result.Results[len(result.Results)-1]; last.Status == FileStatusCompleted {
			result.SuccessCount++
		}

		if progress != nil {
			progress(BatchProgress{
				AccountID: ectx.AccountID,
				Total:     len(files),
				Processed: len(result.Results),
				Succeeded: result.SuccessCount,
				Status:    "running",
				Results:   result.Results,
			})
		}
	}

	if progress != nil {
		progress(BatchProgress{
			AccountID: ectx.AccountID,
			Total:     len(files),
			Processed: len(files),
			Succeeded: result.SuccessCount,
			Status:    "done",
			Results:   result.Results,
		})
	}
	return result, nil
}

func (s *BatchService) runFile(ctx context.Context, file IngestFile, cred model.Credential, technique string) FileResult {
	if err := ValidateFile(file, s.maxFileSize); err != nil {
		return FileResult{
			Filename: file.Name,
			Status:   FileStatusRejected,
			Cause:    CauseInvalidFile,
			Detail:   err.Error(),
		}
	}

	status, err := s.quota.Check(ctx, cred)
	if err != nil {
		return FileResult{
			Filename: file.Name,
			Status:   FileStatusRejected,
			Cause:    CauseUpstream,
			Detail:   err.Error(),
		}
	}
	if !status.Allowed {
		return FileResult{
			Filename: file.Name,
			Status:   FileStatusRejected,
			Cause:    CauseQuotaExceeded,
			Detail:   ErrQuotaExceeded.Error(),
		}
	}

	doc, err := s.ingest.Ingest(ctx, file, cred, technique)
	if err != nil {
		fr := FileResult{
			Filename: file.Name,
			Status:   FileStatusFailed,
			Cause:    CauseUpstream,
			Detail:   err.Error(),
		}
		if doc != nil {
			fr.DocumentID = doc.ID
		}
		return fr
	}

	return FileResult{
		Filename:   file.Name,
		Status:     FileStatusCompleted,
		Warning:    doc.Warning,
		DocumentID: doc.ID,
	}
}

func (s *BatchService) lockFor(accountID uint) *sync.Mutex {
	actual, _ := s.accountLocks.LoadOrStore(accountID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}
