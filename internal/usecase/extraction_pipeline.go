package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

const (
	defaultExtractionConcurrency = 4
	ExtractJobPath               = "/v1/internal/jobs/extract"
)

type ExtractionResult struct {
	MatchRecordID int64
	Shots         ShotExtraction
	Performances  PerformanceExtraction
	Err           error
}

type BatchReport struct {
	Succeeded int
	Failed    int
	FailedIDs []int64
}

// ExtractionPipeline runs the derived-row extractors on stored records. It is
// called explicitly after a write; a failing or panicking record never
// affects another.
type ExtractionPipeline struct {
	matches      match.Repository
	shots        *ShotExtractor
	performances *PerformanceExtractor
	concurrency  int
	logger       *logging.Logger
	now          func() time.Time
}

func NewExtractionPipeline(
	matches match.Repository,
	shots *ShotExtractor,
	performances *PerformanceExtractor,
	concurrency int,
	logger *logging.Logger,
) *ExtractionPipeline {
	if logger == nil {
		logger = logging.Default()
	}
	if concurrency <= 0 {
		concurrency = defaultExtractionConcurrency
	}
	return &ExtractionPipeline{
		matches:      matches,
		shots:        shots,
		performances: performances,
		concurrency:  concurrency,
		logger:       logger,
		now:          time.Now,
	}
}

func (p *ExtractionPipeline) Run(ctx context.Context, record match.Record) (ExtractionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExtractionPipeline.Run")
	defer span.End()

	result := ExtractionResult{MatchRecordID: record.ID}
	var runErr error

	var catcher panics.Catcher
	catcher.Try(func() {
		result.Shots, runErr = p.shots.Extract(ctx, record)
		if runErr != nil {
			return
		}
		result.Performances, runErr = p.performances.Extract(ctx, record)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		runErr = fmt.Errorf("extraction panicked: %w", recovered.AsError())
	}
	if runErr != nil {
		p.logger.ErrorContext(ctx, "extract match record failed", "match_record_id", record.ID, "match_id", record.MatchID, "error", runErr)
		result.Err = runErr
		return result, runErr
	}

	if err := p.matches.MarkExtracted(ctx, record.ID); err != nil {
		p.logger.WarnContext(ctx, "mark match record extracted failed", "match_record_id", record.ID, "error", err)
	}
	return result, nil
}

func (p *ExtractionPipeline) RunBatch(ctx context.Context, records []match.Record) BatchReport {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExtractionPipeline.RunBatch")
	defer span.End()

	if len(records) == 0 {
		return BatchReport{}
	}

	workers := pool.NewWithResults[ExtractionResult]().WithMaxGoroutines(min(p.concurrency, len(records)))
	for _, record := range records {
		workers.Go(func() ExtractionResult {
			result, _ := p.Run(ctx, record)
			return result
		})
	}

	var report BatchReport
	for _, result := range workers.Wait() {
		if result.Err != nil {
			report.Failed++
			report.FailedIDs = append(report.FailedIDs, result.MatchRecordID)
			continue
		}
		report.Succeeded++
	}
	return report
}

func (p *ExtractionPipeline) ReextractByID(ctx context.Context, matchRecordID int64) (ExtractionResult, error) {
	if matchRecordID <= 0 {
		return ExtractionResult{}, fmt.Errorf("%w: match record id must be positive", ErrInvalidInput)
	}
	record, found, err := p.matches.GetByID(ctx, matchRecordID)
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("get match record: %w", err)
	}
	if !found {
		return ExtractionResult{}, fmt.Errorf("%w: match record=%d", ErrNotFound, matchRecordID)
	}
	return p.Run(ctx, record)
}

// SweepPending extracts records that were stored but never extracted, for
// example after a crash between insert and dispatch or a lost queue job.
// Records younger than minAge are left to their in-flight dispatch.
func (p *ExtractionPipeline) SweepPending(ctx context.Context, minAge time.Duration, limit int) (BatchReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExtractionPipeline.SweepPending")
	defer span.End()

	records, err := p.matches.ListPendingExtraction(ctx, p.now().UTC().Add(-minAge), limit)
	if err != nil {
		return BatchReport{}, fmt.Errorf("list records pending extraction: %w", err)
	}
	if len(records) == 0 {
		return BatchReport{}, nil
	}

	report := p.RunBatch(ctx, records)
	p.logger.InfoContext(ctx, "extraction sweep finished",
		"pending", len(records),
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
	return report, nil
}

type ExtractionMode string

const (
	ExtractionModeInline ExtractionMode = "inline"
	ExtractionModeQueue  ExtractionMode = "queue"
)

func ParseExtractionMode(v string) (ExtractionMode, error) {
	switch mode := ExtractionMode(strings.ToLower(strings.TrimSpace(v))); mode {
	case "", ExtractionModeInline:
		return ExtractionModeInline, nil
	case ExtractionModeQueue:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown extraction mode %q", v)
	}
}

type ExtractJobPayload struct {
	MatchRecordID int64 `json:"match_record_id"`
}

type DispatchReport struct {
	Extracted int
	Queued    int
	Failed    int
}

// ExtractionDispatcher hands freshly inserted records to the pipeline, either
// in-process or through the job queue. A record that cannot be queued is
// extracted inline instead.
type ExtractionDispatcher struct {
	mode     ExtractionMode
	pipeline *ExtractionPipeline
	queue    JobQueue
	logger   *logging.Logger
}

func NewExtractionDispatcher(mode ExtractionMode, pipeline *ExtractionPipeline, queue JobQueue, logger *logging.Logger) *ExtractionDispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	if queue == nil {
		queue = NewNoopJobQueue()
		mode = ExtractionModeInline
	}
	return &ExtractionDispatcher{mode: mode, pipeline: pipeline, queue: queue, logger: logger}
}

func (d *ExtractionDispatcher) Dispatch(ctx context.Context, records []match.Record) DispatchReport {
	if len(records) == 0 {
		return DispatchReport{}
	}

	var report DispatchReport
	inline := records
	if d.mode == ExtractionModeQueue {
		inline = make([]match.Record, 0)
		for _, record := range records {
			dedupID := extractDedupKey(record.MatchID, record.ID)
			if err := d.queue.Enqueue(ctx, ExtractJobPath, ExtractJobPayload{MatchRecordID: record.ID}, 0, dedupID); err != nil {
				d.logger.WarnContext(ctx, "enqueue extraction failed, extracting inline", "match_record_id", record.ID, "error", err)
				inline = append(inline, record)
				continue
			}
			report.Queued++
		}
	}

	batch := d.pipeline.RunBatch(ctx, inline)
	report.Extracted = batch.Succeeded
	report.Failed = batch.Failed
	return report
}
