package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/parsecv/api/internal/service"
)

// ParseWorker consumes staggered parse tasks and delegates the progress run
// to the parse service. Task-level faults mark the document Failed and push
// an error to its subscribers.
type ParseWorker struct {
	parseService *service.ParseService
	hub          service.ProgressBroadcaster
}

func NewParseWorker(parseService *service.ParseService, hub service.ProgressBroadcaster) *ParseWorker {
	return &ParseWorker{
		parseService: parseService,
		hub:          hub,
	}
}

// ProcessTask handles one scheduled document.
func (w *ParseWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload service.ParsePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		if payload.DocumentID != "" {
			w.failDocument(payload.DocumentID, "Invalid task payload")
		}
		return fmt.Errorf("unmarshal parse payload: %w", err)
	}

	if err := w.parseService.RunDocument(ctx, payload.DocumentID); err != nil {
		w.failDocument(payload.DocumentID, "Processing interrupted")
		return err
	}
	return nil
}

func (w *ParseWorker) failDocument(documentID, message string) {
	if !w.parseService.Fail(documentID, message) {
		log.Printf("Document %s gone or already terminal, not marking failed", documentID)
		return
	}
	w.hub.BroadcastError(documentID, "PARSE_FAILED", message)
}
