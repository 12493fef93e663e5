package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"docbase/internal/app"
	"docbase/internal/cache"
	"docbase/internal/model"
)

// BatchIngestWorker consumes staged batch jobs and drives the ingestion
// pipeline, publishing progress snapshots to the cache after every file. Jobs
// are handled one delivery at a time, so batches run sequentially.
type BatchIngestWorker struct {
	conn      *amqp.Connection
	resolver  *app.Resolver
	accounts  *app.AccountService
	batch     *app.BatchService
	progress  *cache.ProgressCache
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewBatchIngestWorker(
	conn *amqp.Connection,
	resolver *app.Resolver,
	accounts *app.AccountService,
	batch *app.BatchService,
	progress *cache.ProgressCache,
	queueName string,
) *BatchIngestWorker {
	return &BatchIngestWorker{
		conn:      conn,
		resolver:  resolver,
		accounts:  accounts,
		batch:     batch,
		progress:  progress,
		queueName: queueName,
	}
}

func (w *BatchIngestWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	// One unacked job at a time keeps batches strictly sequential.
	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var job model.BatchJob
				if err := json.Unmarshal(d.Body, &job); err != nil {
					log.Printf("worker decode batch job failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				w.runJob(workerCtx, job)
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

// runJob re-resolves the principal at consume time: permissions or delegate
// state revoked between enqueue and execution must be honored.
func (w *BatchIngestWorker) runJob(ctx context.Context, job model.BatchJob) {
	defer w.cleanupFiles(job)

	ectx, err := w.resolver.Resolve(job.PrincipalUserID)
	if err != nil {
		w.failJob(ctx, job, causeForError(err), fmt.Sprintf("resolve principal failed: %v", err))
		return
	}

	cred, err := w.accounts.GetCredential(ectx, job.CredentialID)
	if err != nil {
		w.failJob(ctx, job, causeForError(err), fmt.Sprintf("load credential failed: %v", err))
		return
	}

	files := make([]app.IngestFile, 0, len(job.Files))
	for _, f := range job.Files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			w.failJob(ctx, job, app.CauseInvalidFile, fmt.Sprintf("read staged file %s failed: %v", f.Name, err))
			return
		}
		files = append(files, app.IngestFile{
			Name:        f.Name,
			Size:        f.Size,
			ContentType: f.ContentType,
			Data:        data,
		})
	}

	_, err = w.batch.RunBatch(ctx, ectx, *cred, job.Technique, files, func(p app.BatchProgress) {
		if err := w.progress.Set(ctx, job.JobID, p); err != nil {
			log.Printf("worker store progress for job %s failed: %v", job.JobID, err)
		}
	})
	if err != nil {
		w.failJob(ctx, job, causeForError(err), fmt.Sprintf("run batch failed: %v", err))
	}
}

// causeForError buckets a whole-job failure the same way the batch runner
// buckets per-file failures.
func causeForError(err error) string {
	switch {
	case errors.Is(err, app.ErrPermissionDenied),
		errors.Is(err, app.ErrDelegateInactive),
		errors.Is(err, app.ErrCredentialNotFound),
		errors.Is(err, app.ErrAccountNotFound):
		return app.CausePermissionDenied
	case errors.Is(err, app.ErrInvalidInput):
		return app.CauseInvalidFile
	default:
		return app.CauseUpstream
	}
}

func (w *BatchIngestWorker) failJob(ctx context.Context, job model.BatchJob, cause, detail string) {
	log.Printf("batch job %s failed: %s", job.JobID, detail)
	progress := app.BatchProgress{
		AccountID: job.AccountID,
		Total:     len(job.Files),
		Status:    "failed",
	}
	for _, f := range job.Files {
		progress.Results = append(progress.Results, app.FileResult{
			Filename: f.Name,
			Status:   app.FileStatusRejected,
			Cause:    cause,
			Detail:   detail,
		})
	}
	if err := w.progress.Set(ctx, job.JobID, progress); err != nil {
		log.Printf("worker store failure for job %s failed: %v", job.JobID, err)
	}
}

func (w *BatchIngestWorker) cleanupFiles(job model.BatchJob) {
	for _, f := range job.Files {
		if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove staged file %s failed: %v", f.Path, err)
		}
	}
}

func (w *BatchIngestWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
