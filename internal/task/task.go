package task

import (
	"context"

	"github.com/google/uuid"
)

// TaskStatus tracks a task through a single execution.
type TaskStatus string

// Task statuses. A task moves pending → processing → completed or failed
// and is never retried.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// TaskTypeReviewDelivery identifies tasks that hand a review event to the
// analytics sink.
const TaskTypeReviewDelivery = "review_delivery"

// Task is a unit of background work run by the worker pool.
type Task interface {
	ID() uuid.UUID
	Type() string

	// Payload is the task input in JSON form, used for logging and
	// inspection only.
	Payload() []byte

	Status() TaskStatus

	// Execute runs the task. ctx is cancelled when the pool is stopped
	// without draining.
	Execute(ctx context.Context) error
}

// TaskQueueReader is the consumer side of a queue.
type TaskQueueReader interface {
	// GetChannel returns the channel workers receive from. Closing the
	// queue closes it; buffered tasks are still received first.
	GetChannel() <-chan Task
}

// TaskQueueWriter is the producer side of a queue.
type TaskQueueWriter interface {
	// Enqueue adds a task without blocking. It fails with ErrQueueFull or
	// ErrQueueClosed.
	Enqueue(task Task) error

	// Close stops accepting tasks. Queued tasks are still delivered.
	Close()
}
