package task

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTask implements the Task interface for testing
type mockTask struct {
	id     uuid.UUID
	execFn func(ctx context.Context) error
}

func (m *mockTask) ID() uuid.UUID      { return m.id }
func (m *mockTask) Type() string       { return "mock" }
func (m *mockTask) Payload() []byte    { return []byte("test payload") }
func (m *mockTask) Status() TaskStatus { return TaskStatusPending }

func (m *mockTask) Execute(ctx context.Context) error {
	if m.execFn != nil {
		return m.execFn(ctx)
	}
	return nil
}

func newMockTask() *mockTask {
	return &mockTask{id: uuid.New()}
}

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTaskQueue_Enqueue(t *testing.T) {
	t.Parallel()
	queue := NewTaskQueue(2, setupTestLogger())

	first, second := newMockTask(), newMockTask()
	require.NoError(t, queue.Enqueue(first))
	require.NoError(t, queue.Enqueue(second))
	assert.Equal(t, 2, queue.Len())

	err := queue.Enqueue(newMockTask())
	assert.ErrorIs(t, err, ErrQueueFull)

	got := <-queue.GetChannel()
	assert.Equal(t, first.ID(), got.ID())
	got = <-queue.GetChannel()
	assert.Equal(t, second.ID(), got.ID())
}

func TestTaskQueue_Close(t *testing.T) {
	t.Parallel()
	queue := NewTaskQueue(4, setupTestLogger())
	pending := newMockTask()
	require.NoError(t, queue.Enqueue(pending))

	queue.Close()
	queue.Close()

	assert.ErrorIs(t, queue.Enqueue(newMockTask()), ErrQueueClosed)

	// Queued tasks remain readable after close.
	got, ok := <-queue.GetChannel()
	require.True(t, ok)
	assert.Equal(t, pending.ID(), got.ID())

	_, ok = <-queue.GetChannel()
	assert.False(t, ok)
}

func TestTaskQueue_MinimumSize(t *testing.T) {
	t.Parallel()
	queue := NewTaskQueue(0, nil)
	require.NoError(t, queue.Enqueue(newMockTask()))
	assert.ErrorIs(t, queue.Enqueue(newMockTask()), ErrQueueFull)
}

func TestTaskQueue_ConcurrentEnqueueAndClose(t *testing.T) {
	t.Parallel()
	queue := NewTaskQueue(64, setupTestLogger())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 16 {
				_ = queue.Enqueue(newMockTask())
			}
		}()
	}
	queue.Close()
	wg.Wait()

	assert.ErrorIs(t, queue.Enqueue(newMockTask()), ErrQueueClosed)
}
