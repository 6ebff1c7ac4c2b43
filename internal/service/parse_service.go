package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/hibiken/asynq"

	"github.com/parsecv/api/internal/config"
	"github.com/parsecv/api/internal/model"
	"github.com/parsecv/api/internal/notify"
)

const TaskTypeParse = "document:parse"

// ParsePayload identifies the document a scheduled task should process.
type ParsePayload struct {
	DocumentID string `json:"documentId"`
}

// Enqueuer is the slice of asynq.Client the parse service schedules through.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ProgressBroadcaster pushes per-document events to subscribers.
type ProgressBroadcaster interface {
	BroadcastProgress(documentID string, progress float64, status model.DocumentStatus, stage string, etaSeconds int)
	BroadcastComplete(documentID string, result any)
	BroadcastError(documentID string, code, message string)
}

// ParseService drives queued documents through the simulated parsing run.
// Starting "process all" schedules one task per document with a start offset
// proportional to its queue position, so starts follow queue order even when
// the worker pool runs documents in parallel.
type ParseService struct {
	queue     *QueueService
	enqueuer  Enqueuer
	hub       ProgressBroadcaster
	sink      notify.Sink
	results   *ResultService
	cfg       config.ProcessingConfig
	increment func() float64
}

func NewParseService(queue *QueueService, enqueuer Enqueuer, hub ProgressBroadcaster, sink notify.Sink, results *ResultService, cfg config.ProcessingConfig) *ParseService {
	if sink == nil {
		sink = notify.NopSink{}
	}
	return &ParseService{
		queue:    queue,
		enqueuer: enqueuer,
		hub:      hub,
		sink:     sink,
		results:  results,
		cfg:      cfg,
		// uniform draw from (0, max]
		increment: func() float64 {
			return cfg.MaxIncrement * (1 - rand.Float64())
		},
	}
}

// ProcessAll schedules every Queued document for processing, staggered by
// queue position. Returns the number of documents scheduled.
func (s *ParseService) ProcessAll(ctx context.Context) (int, error) {
	snapshot := s.queue.Snapshot()

	scheduled := 0
	for _, doc := range snapshot {
		if doc.Status != model.StatusQueued {
			continue
		}
		data, err := json.Marshal(ParsePayload{DocumentID: doc.ID})
		if err != nil {
			return scheduled, fmt.Errorf("marshal parse payload: %w", err)
		}
		task := asynq.NewTask(TaskTypeParse, data)
		_, err = s.enqueuer.Enqueue(task,
			asynq.Queue("parse"),
			asynq.ProcessIn(time.Duration(scheduled)*s.cfg.Stagger),
			asynq.MaxRetry(0),
			asynq.Retention(time.Hour),
		)
		if err != nil {
			return scheduled, fmt.Errorf("enqueue parse task: %w", err)
		}
		scheduled++
	}

	if scheduled > 0 {
		s.sink.Notify("Processing started",
			fmt.Sprintf("Processing %d files", scheduled), model.SeverityInfo)
	}
	return scheduled, nil
}

// RunDocument advances one document from Queued to Completed, ticking
// progress by a random increment until it reaches 100. A document removed
// before its staggered start never begins; one removed mid-run stops without
// a terminal transition.
func (s *ParseService) RunDocument(ctx context.Context, documentID string) error {
	doc, ok := s.queue.Get(documentID)
	if !ok || doc.Status != model.StatusQueued {
		// Cancelled before its start, or already handled.
		return nil
	}
	if !s.queue.MarkProcessing(documentID) {
		return nil
	}
	s.hub.BroadcastProgress(documentID, 0, model.StatusProcessing, model.StageAt(0), s.etaSeconds(0))

	progress := 0.0
	for progress < 100 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.Tick):
		}

		progress += s.increment()
		if progress > 100 {
			progress = 100
		}
		stage := model.StageAt(progress)
		eta := s.etaSeconds(progress)
		if !s.queue.UpdateProgress(documentID, progress, stage, eta) {
			return nil
		}
		s.hub.BroadcastProgress(documentID, progress, model.StatusProcessing, stage, eta)
	}

	if !s.queue.MarkCompleted(documentID) {
		return nil
	}
	result := s.results.Build(doc, s.cfg.Confidence)
	s.sink.Notify("Processing complete",
		fmt.Sprintf("%s parsed with %.0f%% confidence", doc.Name, s.cfg.Confidence*100),
		model.SeveritySuccess)
	s.hub.BroadcastComplete(documentID, result)
	return nil
}

// Fail records a task-level fault for a document and notifies subscribers.
// Returns false when the document is gone or already completed.
func (s *ParseService) Fail(documentID, message string) bool {
	doc, ok := s.queue.Get(documentID)
	if !ok || !s.queue.MarkFailed(documentID, message) {
		return false
	}
	s.sink.Notify("Processing failed",
		fmt.Sprintf("%s: %s", doc.Name, message), model.SeverityError)
	return true
}

// etaSeconds estimates the seconds remaining assuming progress advances at
// the mean increment per tick. An estimate only: it never grows while
// progress grows, but random ticks can make it plateau.
func (s *ParseService) etaSeconds(progress float64) int {
	rate := (s.cfg.MaxIncrement / 2) / s.cfg.Tick.Seconds()
	return int(math.Ceil((100 - progress) / rate))
}
