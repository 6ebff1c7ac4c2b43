package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/parsecv/api/internal/model"
	"github.com/parsecv/api/internal/notify"
)

// QueueService is the ordered store of documents awaiting or undergoing
// processing. It is the single shared mutable resource of the pipeline; every
// operation takes the mutex, so queue mutations and worker ticks never
// observe each other mid-change. Order is insertion order and removal keeps
// the relative order of the remaining documents.
type QueueService struct {
	mu   sync.Mutex
	docs []*model.Document
	sink notify.Sink
}

func NewQueueService(sink notify.Sink) *QueueService {
	if sink == nil {
		sink = notify.NopSink{}
	}
	return &QueueService{sink: sink}
}

// Append adds documents to the tail in the given order and emits a single
// notification for the batch.
func (q *QueueService) Append(docs []*model.Document) {
	if len(docs) == 0 {
		return
	}
	q.mu.Lock()
	q.docs = append(q.docs, docs...)
	q.mu.Unlock()

	msg := fmt.Sprintf("%d files added to queue", len(docs))
	if len(docs) == 1 {
		msg = "1 file added to queue"
	}
	q.sink.Notify("Files added", msg, model.SeverityInfo)
}

// Remove deletes the document with the given ID. Removing an absent ID is a
// no-op, so the operation is safe to repeat.
func (q *QueueService) Remove(id string) bool {
	q.mu.Lock()
	removed := false
	for i, d := range q.docs {
		if d.ID == id {
			q.docs = append(q.docs[:i], q.docs[i+1:]...)
			removed = true
			break
		}
	}
	q.mu.Unlock()

	if removed {
		q.sink.Notify("File removed", "File removed from queue", model.SeverityInfo)
	}
	return removed
}

// Clear empties the queue and returns how many documents were dropped.
func (q *QueueService) Clear() int {
	q.mu.Lock()
	n := len(q.docs)
	q.docs = nil
	q.mu.Unlock()

	if n > 0 {
		q.sink.Notify("Queue cleared", "Queue cleared", model.SeverityInfo)
	}
	return n
}

// Snapshot returns value copies of the queued documents in order, safe to
// render or iterate without holding internal state.
func (q *QueueService) Snapshot() []model.Document {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]model.Document, len(q.docs))
	for i, d := range q.docs {
		out[i] = *d
	}
	return out
}

// Get returns a copy of one document.
func (q *QueueService) Get(id string) (model.Document, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if d := q.find(id); d != nil {
		return *d, true
	}
	return model.Document{}, false
}

func (q *QueueService) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.docs)
}

// MarkProcessing transitions a document from Queued to Processing. It returns
// false when the document is gone or already past Queued, which is how a
// staggered start discovers it was cancelled.
func (q *QueueService) MarkProcessing(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	d := q.find(id)
	if d == nil || d.Status != model.StatusQueued {
		return false
	}
	now := time.Now()
	d.Status = model.StatusProcessing
	d.StartedAt = &now
	d.Stage = model.StageAt(0)
	return true
}

// UpdateProgress records a tick for a Processing document. Progress never
// moves backwards.
func (q *QueueService) UpdateProgress(id string, progress float64, stage string, etaSeconds int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	d := q.find(id)
	if d == nil || d.Status != model.StatusProcessing {
		return false
	}
	if progress > d.Progress {
		d.Progress = progress
	}
	d.Stage = stage
	d.ETASeconds = etaSeconds
	return true
}

// MarkCompleted finalizes a document. The transition fires at most once.
func (q *QueueService) MarkCompleted(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	d := q.find(id)
	if d == nil || d.Status != model.StatusProcessing {
		return false
	}
	now := time.Now()
	d.Status = model.StatusCompleted
	d.Progress = 100
	d.Stage = model.StageAt(100)
	d.ETASeconds = 0
	d.CompletedAt = &now
	return true
}

// MarkFailed records a task-level fault for a document. Completed and Failed
// are terminal; the transition fires at most once.
func (q *QueueService) MarkFailed(id, message string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	d := q.find(id)
	if d == nil || d.Status == model.StatusCompleted || d.Status == model.StatusFailed {
		return false
	}
	now := time.Now()
	d.Status = model.StatusFailed
	d.Error = &message
	d.CompletedAt = &now
	return true
}

// find must be called with the mutex held.
func (q *QueueService) find(id string) *model.Document {
	for _, d := range q.docs {
		if d.ID == id {
			return d
		}
	}
	return nil
}
