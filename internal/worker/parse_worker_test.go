package worker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"github.com/parsecv/api/internal/config"
	"github.com/parsecv/api/internal/model"
	"github.com/parsecv/api/internal/service"
)

// broadcastRecorder captures hub broadcasts.
type broadcastRecorder struct {
	mu          sync.Mutex
	progress    map[string][]float64
	completions []string
	errors      map[string][]string
}

func newBroadcastRecorder() *broadcastRecorder {
	return &broadcastRecorder{
		progress: make(map[string][]float64),
		errors:   make(map[string][]string),
	}
}

func (r *broadcastRecorder) BroadcastProgress(documentID string, progress float64, status model.DocumentStatus, stage string, etaSeconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress[documentID] = append(r.progress[documentID], progress)
}

func (r *broadcastRecorder) BroadcastComplete(documentID string, result any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions = append(r.completions, documentID)
}

func (r *broadcastRecorder) BroadcastError(documentID string, code, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors[documentID] = append(r.errors[documentID], message)
}

func newTestWorker() (*ParseWorker, *service.QueueService, *broadcastRecorder) {
	queue := service.NewQueueService(nil)
	recorder := newBroadcastRecorder()
	cfg := config.ProcessingConfig{
		Tick:         time.Millisecond,
		Stagger:      time.Second,
		MaxIncrement: 15,
		Concurrency:  1,
		Confidence:   0.92,
	}
	svc := service.NewParseService(queue, nil, recorder, nil, service.NewResultService(), cfg)
	return NewParseWorker(svc, recorder), queue, recorder
}

func parseTask(t *testing.T, documentID string) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(service.ParsePayload{DocumentID: documentID})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return asynq.NewTask(service.TaskTypeParse, data)
}

func TestProcessTaskCompletesDocument(t *testing.T) {
	w, queue, recorder := newTestWorker()

	doc := model.NewDocument("r1.pdf", 1024)
	queue.Append([]*model.Document{doc})

	if err := w.ProcessTask(context.Background(), parseTask(t, doc.ID)); err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}

	got, _ := queue.Get(doc.ID)
	if got.Status != model.StatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
	if len(recorder.completions) != 1 {
		t.Errorf("expected one completion, got %d", len(recorder.completions))
	}
	if len(recorder.errors[doc.ID]) != 0 {
		t.Errorf("unexpected error broadcasts: %v", recorder.errors[doc.ID])
	}
}

func TestProcessTaskRejectsCorruptPayload(t *testing.T) {
	w, queue, recorder := newTestWorker()

	task := asynq.NewTask(service.TaskTypeParse, []byte("not json"))
	if err := w.ProcessTask(context.Background(), task); err == nil {
		t.Fatal("expected error for corrupt payload")
	}

	if queue.Len() != 0 {
		t.Errorf("queue should be untouched, has %d documents", queue.Len())
	}
	if len(recorder.errors) != 0 {
		t.Errorf("no document to blame, but got error broadcasts: %v", recorder.errors)
	}
}

func TestProcessTaskFailsInterruptedDocument(t *testing.T) {
	w, queue, recorder := newTestWorker()

	doc := model.NewDocument("r1.pdf", 1024)
	queue.Append([]*model.Document{doc})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.ProcessTask(ctx, parseTask(t, doc.ID)); err == nil {
		t.Fatal("expected error for interrupted run")
	}

	got, ok := queue.Get(doc.ID)
	if !ok {
		t.Fatal("document disappeared")
	}
	if got.Status != model.StatusFailed {
		t.Fatalf("expected failed, got %s", got.Status)
	}
	if got.Error == nil || *got.Error != "Processing interrupted" {
		t.Errorf("unexpected error message: %v", got.Error)
	}
	if len(recorder.errors[doc.ID]) != 1 {
		t.Fatalf("expected one error broadcast, got %v", recorder.errors[doc.ID])
	}
	if len(recorder.completions) != 0 {
		t.Errorf("interrupted document must not complete: %v", recorder.completions)
	}
}
