package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/events"
)

// Common errors
var (
	ErrNilEvent = errors.New("event cannot be nil")
	ErrNilSink  = errors.New("sink cannot be nil")
)

// ReviewDeliveryTask hands a single review event to a sink.
type ReviewDeliveryTask struct {
	id    uuid.UUID
	event *events.ReviewEvent
	sink  events.EventHandler

	mu     sync.Mutex
	status TaskStatus
}

var _ Task = (*ReviewDeliveryTask)(nil)

// NewReviewDeliveryTask creates a pending task delivering event to sink.
func NewReviewDeliveryTask(event *events.ReviewEvent, sink events.EventHandler) (*ReviewDeliveryTask, error) {
	if event == nil {
		return nil, ErrNilEvent
	}
	if sink == nil {
		return nil, ErrNilSink
	}
	return &ReviewDeliveryTask{
		id:     uuid.New(),
		event:  event,
		sink:   sink,
		status: TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *ReviewDeliveryTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *ReviewDeliveryTask) Type() string {
	return TaskTypeReviewDelivery
}

// Payload returns the event as JSON.
func (t *ReviewDeliveryTask) Payload() []byte {
	data, err := json.Marshal(t.event)
	if err != nil {
		return nil
	}
	return data
}

// Status returns the current task status
func (t *ReviewDeliveryTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *ReviewDeliveryTask) setStatus(status TaskStatus) {
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
}

// Execute delivers the event to the sink.
func (t *ReviewDeliveryTask) Execute(ctx context.Context) error {
	t.setStatus(TaskStatusProcessing)

	if err := t.sink.HandleEvent(ctx, t.event); err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("failed to deliver review event %s: %w", t.event.ID, err)
	}

	t.setStatus(TaskStatusCompleted)
	return nil
}
