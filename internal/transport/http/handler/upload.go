package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docbase/internal/app"
	"docbase/internal/cache"
	"docbase/internal/model"
	"docbase/internal/platform/rabbitmq"
	"docbase/internal/transport/http/response"
)

// UploadHandler exposes the two ingestion paths: a synchronous batch that
// returns the full result, and an asynchronous one that stages files on disk,
// enqueues a job and reports progress from the cache.
type UploadHandler struct {
	resolver       *app.Resolver
	accountService *app.AccountService
	batchService   *app.BatchService
	publisher      *rabbitmq.BatchPublisher
	progressCache  *cache.ProgressCache
	uploadDir      string
	maxFileSize    int64
}

func NewUploadHandler(
	resolver *app.Resolver,
	accountService *app.AccountService,
	batchService *app.BatchService,
	publisher *rabbitmq.BatchPublisher,
	progressCache *cache.ProgressCache,
	uploadDir string,
	maxFileSize int64,
) *UploadHandler {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		panic(err)
	}
	return &UploadHandler{
		resolver:       resolver,
		accountService: accountService,
		batchService:   batchService,
		publisher:      publisher,
		progressCache:  progressCache,
		uploadDir:      uploadDir,
		maxFileSize:    maxFileSize,
	}
}

// Upload runs the batch synchronously and returns the per-file results.
func (h *UploadHandler) Upload(c *gin.Context) {
	ectx, ok := resolveEffective(c, h.resolver)
	if !ok {
		return
	}

	cred, technique, headers, ok := h.parseBatchForm(c, ectx)
	if !ok {
		return
	}

	files := make([]app.IngestFile, 0, len(headers))
	for _, header := range headers {
		data, err := readMultipartFile(header)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, fmt.Sprintf("read file %s failed", header.Filename))
			return
		}
		files = append(files, app.IngestFile{
			Name:        header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	result, err := h.batchService.RunBatch(c.Request.Context(), ectx, *cred, technique, files, nil)
	if err != nil {
		respondServiceError(c, err, "run batch failed")
		return
	}
	response.OK(c, result)
}

// EnqueueBatch stages the files under the upload dir and publishes a job for
// the background worker. The response carries the job id for progress polling.
func (h *UploadHandler) EnqueueBatch(c *gin.Context) {
	ectx, ok := resolveEffective(c, h.resolver)
	if !ok {
		return
	}

	cred, technique, headers, ok := h.parseBatchForm(c, ectx)
	if !ok {
		return
	}

	jobID := uuid.NewString()
	jobFiles := make([]model.BatchJobFile, 0, len(headers))
	for _, header := range headers {
		path, err := h.stageFile(c, header, jobID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fmt.Sprintf("stage file %s failed", header.Filename))
			return
		}
		jobFiles = append(jobFiles, model.BatchJobFile{
			Path:        path,
			Name:        header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
		})
	}

	userID, _ := getUserIDFromContext(c)
	job := model.BatchJob{
		JobID:           jobID,
		PrincipalUserID: userID,
		AccountID:       ectx.AccountID,
		CredentialID:    cred.ID,
		Technique:       technique,
		Files:           jobFiles,
	}

	if err := h.progressCache.Set(c.Request.Context(), jobID, app.BatchProgress{
		AccountID: ectx.AccountID,
		Total:     len(jobFiles),
		Status:    "queued",
	}); err != nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeUpstream, "store job progress failed")
		return
	}
	if err := h.publisher.Publish(c.Request.Context(), job); err != nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeUpstream, "enqueue batch failed")
		return
	}

	response.OK(c, gin.H{
		"job_id":     jobID,
		"file_count": len(jobFiles),
	})
}

// Progress returns the latest progress snapshot for a job. Snapshots are
// scoped to the effective account; a foreign job id reads as not found so the
// response never confirms its existence.
func (h *UploadHandler) Progress(c *gin.Context) {
	ectx, ok := resolveEffective(c, h.resolver)
	if !ok {
		return
	}

	jobID := strings.TrimSpace(c.Param("id"))
	if jobID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid job id")
		return
	}

	progress, found, err := h.progressCache.Get(c.Request.Context(), jobID)
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeUpstream, "load job progress failed")
		return
	}
	if !found || progress.AccountID != ectx.AccountID {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "job not found")
		return
	}
	response.OK(c, progress)
}

// parseBatchForm validates the shared multipart fields of both upload paths.
// The upload permission is checked again inside RunBatch; checking here keeps
// the async path from staging files for a request that can never run.
func (h *UploadHandler) parseBatchForm(c *gin.Context, ectx *app.EffectiveContext) (*model.Credential, string, []*multipart.FileHeader, bool) {
	if !ectx.Allows(model.PermissionUpload) {
		response.Error(c, http.StatusForbidden, response.CodePermissionDenied, app.ErrPermissionDenied.Error())
		return nil, "", nil, false
	}

	credentialID := parseUintForm(c, "credential_id")
	if credentialID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing credential_id")
		return nil, "", nil, false
	}
	cred, err := h.accountService.GetCredential(ectx, credentialID)
	if err != nil {
		respondServiceError(c, err, "load credential failed")
		return nil, "", nil, false
	}

	technique := strings.TrimSpace(c.PostForm("technique"))

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid multipart form")
		return nil, "", nil, false
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing files")
		return nil, "", nil, false
	}
	for _, header := range headers {
		if h.maxFileSize > 0 && header.Size > h.maxFileSize {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, fmt.Sprintf("file %s too large", header.Filename))
			return nil, "", nil, false
		}
	}

	return cred, technique, headers, true
}

func (h *UploadHandler) stageFile(c *gin.Context, header *multipart.FileHeader, jobID string) (string, error) {
	filename := fmt.Sprintf("%s_%s", jobID, sanitizeFilename(header.Filename))
	path := filepath.Join(h.uploadDir, filename)
	if err := c.SaveUploadedFile(header, path); err != nil {
		return "", err
	}
	return path, nil
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, filepath.Base(name))
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func parseUintForm(c *gin.Context, key string) uint {
	s := c.PostForm(key)
	if s == "" {
		return 0
	}
	u, _ := strconv.ParseUint(s, 10, 64)
	return uint(u)
}
