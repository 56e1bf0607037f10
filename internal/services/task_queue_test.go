package services

import (
	"context"
	"testing"
	"time"
)

func TestSyncQueue_ProcessesTask(t *testing.T) {
	q := NewSyncQueue()

	done := make(chan *ReputationTask, 1)
	q.SetProcessor(func(ctx context.Context, task *ReputationTask) error {
		done <- task
		return nil
	})

	if err := q.Enqueue(&ReputationTask{UserID: 9, Trigger: "review"}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	select {
	case task := <-done:
		if task.UserID != 9 {
			t.Errorf("user id = %d, want 9", task.UserID)
		}
		if task.Trigger != "review" {
			t.Errorf("trigger = %q, want review", task.Trigger)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("processor was never invoked")
	}
}

func TestSyncQueue_NoProcessorDropsTask(t *testing.T) {
	q := NewSyncQueue()

	if err := q.Enqueue(&ReputationTask{UserID: 1}); err != nil {
		t.Errorf("Enqueue without processor should not error, got %v", err)
	}
	if q.IsAsync() {
		t.Error("sync queue must report IsAsync() = false")
	}
	if err := q.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
