package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-review/internal/events"
)

// DeliveryEventHandler implements the events.EventHandler interface by
// queuing a ReviewDeliveryTask for each event instead of calling the sink
// inline.
type DeliveryEventHandler struct {
	queue  TaskQueueWriter
	sink   events.EventHandler
	logger *slog.Logger
}

// Ensure DeliveryEventHandler implements events.EventHandler
var _ events.EventHandler = (*DeliveryEventHandler)(nil)

// NewDeliveryEventHandler creates a handler that enqueues delivery of every
// event to sink on queue.
func NewDeliveryEventHandler(
	queue TaskQueueWriter,
	sink events.EventHandler,
	logger *slog.Logger,
) *DeliveryEventHandler {
	if queue == nil {
		panic("queue cannot be nil")
	}
	if sink == nil {
		panic("sink cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeliveryEventHandler{
		queue:  queue,
		sink:   sink,
		logger: logger.With(slog.String("component", "delivery_event_handler")),
	}
}

// HandleEvent wraps the event in a delivery task and enqueues it.
// It fails with ErrQueueFull or ErrQueueClosed when the task cannot be queued.
func (h *DeliveryEventHandler) HandleEvent(ctx context.Context, event *events.ReviewEvent) error {
	task, err := NewReviewDeliveryTask(event, h.sink)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.queue.Enqueue(task); err != nil {
		h.logger.WarnContext(ctx, "failed to enqueue review delivery",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	h.logger.DebugContext(ctx, "review delivery enqueued",
		slog.String("task_id", task.ID().String()),
		slog.String("event_id", event.ID.String()))
	return nil
}
