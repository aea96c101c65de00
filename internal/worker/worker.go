package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/internal/reports"
	"github.com/podcastflow/backend/internal/tenant"
	"github.com/podcastflow/backend/pkg/queue"
	"github.com/podcastflow/backend/pkg/storage"
)

// ReportProcessor processes report generation jobs: aggregate, render CSV,
// upload to S3, update the report record.
type ReportProcessor struct {
	repRepo    *reports.Repository
	aggregator *Aggregator
	s3         *storage.S3
	queue      *queue.Queue
	logger     *zap.Logger
}

// NewReportProcessor creates a report generation processor.
func NewReportProcessor(repRepo *reports.Repository, agg *Aggregator, s3 *storage.S3, q *queue.Queue, logger *zap.Logger) *ReportProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportProcessor{repRepo: repRepo, aggregator: agg, s3: s3, queue: q, logger: logger}
}

// Process executes one report generation job.
func (p *ReportProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeReport {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.ReportPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	schema, err := tenant.SchemaName(payload.OrgSlug)
	if err != nil {
		return fmt.Errorf("bad org slug %q: %w", payload.OrgSlug, err)
	}

	rep, err := p.repRepo.GetByID(ctx, schema, payload.ReportID)
	if err != nil {
		return fmt.Errorf("report not found: %s", payload.ReportID)
	}
	if rep.Status == models.ReportStatusCompleted {
		p.logger.Info("report already completed",
			zap.String("report_id", rep.ID.String()),
			zap.String("correlation_id", payload.CorrelationID))
		return nil
	}
	_ = p.repRepo.MarkRunning(ctx, schema, rep.ID)

	data, err := p.aggregator.Generate(ctx, schema, payload.ReportType, payload.PeriodStart, payload.PeriodEnd)
	if err != nil {
		if mErr := p.repRepo.MarkFailed(ctx, schema, rep.ID, err.Error()); mErr != nil {
			p.logger.Error("mark failed errored", zap.Error(mErr), zap.String("report_id", rep.ID.String()))
		}
		return fmt.Errorf("aggregate: %w", err)
	}

	key := storage.ReportKey(payload.OrgSlug, payload.ReportID.String())
	if _, err := p.s3.Upload(ctx, p.s3.ReportsBucket(), key, "text/csv", bytes.NewReader(data)); err != nil {
		if mErr := p.repRepo.MarkFailed(ctx, schema, rep.ID, "upload failed"); mErr != nil {
			p.logger.Error("mark failed errored", zap.Error(mErr), zap.String("report_id", rep.ID.String()))
		}
		return fmt.Errorf("s3 upload: %w", err)
	}

	if err := p.repRepo.MarkCompleted(ctx, schema, rep.ID, key); err != nil {
		return fmt.Errorf("update db: %w", err)
	}
	p.logger.Info("report completed",
		zap.String("report_id", rep.ID.String()),
		zap.String("s3_key", key),
		zap.String("correlation_id", payload.CorrelationID))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *ReportProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("report worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}
