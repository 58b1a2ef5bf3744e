package pipeline

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"
)

type mockTimeProvider struct {
	currentTime time.Time
	mutex       sync.Mutex
}

func (mtp *mockTimeProvider) Now() time.Time {
	mtp.mutex.Lock()
	defer mtp.mutex.Unlock()
	return mtp.currentTime
}

func (mtp *mockTimeProvider) Add(d time.Duration) {
	mtp.mutex.Lock()
	mtp.currentTime = mtp.currentTime.Add(d)
	mtp.mutex.Unlock()
}

func TestCompleteExecution(t *testing.T) {
	execID := fmt.Sprintf("exec_%d", rand.Int())
	AddExecution(execID, &ExecutionResult{
		ExecutionID: execID,
		Status:      StatusStarted,
		StartTime:   time.Now().Unix(),
	})

	results := map[string]interface{}{
		"topic": map[string]interface{}{"output": "retinol"},
	}
	CompleteExecution(execID, results, nil)

	stored, exists := GetExecution(execID)
	if !exists {
		t.Fatal("execution disappeared")
	}
	if stored.Status != StatusCompleted {
		t.Errorf("status = %s, want %s", stored.Status, StatusCompleted)
	}
	if stored.CompletedAt == "" {
		t.Error("CompletedAt not set")
	}
	if _, ok := stored.Results["topic"]; !ok {
		t.Error("results not recorded")
	}
}

func TestCompleteExecutionWithError(t *testing.T) {
	execID := fmt.Sprintf("exec_%d", rand.Int())
	AddExecution(execID, &ExecutionResult{ExecutionID: execID, Status: StatusStarted})

	CompleteExecution(execID, nil, errors.New("blogger API error (status 403): forbidden"))

	stored, _ := GetExecution(execID)
	if stored.Status != StatusFailed {
		t.Errorf("status = %s, want %s", stored.Status, StatusFailed)
	}
	if stored.ErrorMessage == "" {
		t.Error("error message not recorded")
	}
}

func TestCompleteExecutionUnknownID(t *testing.T) {
	// Must be a no-op, not a panic.
	CompleteExecution("never-added", nil, nil)
}

func TestCleanupRemovesExpiredExecutions(t *testing.T) {
	mtp := &mockTimeProvider{currentTime: time.Now()}
	timeProvider = mtp
	defer func() { timeProvider = &realTimeProvider{} }()

	threshold := 5 * time.Minute

	oldID := fmt.Sprintf("exec_old_%d", rand.Int())
	AddExecution(oldID, &ExecutionResult{
		ExecutionID: oldID,
		Status:      StatusCompleted,
		CompletedAt: mtp.Now().Add(-10 * time.Minute).Format(time.RFC3339),
	})

	freshID := fmt.Sprintf("exec_fresh_%d", rand.Int())
	AddExecution(freshID, &ExecutionResult{
		ExecutionID: freshID,
		Status:      StatusCompleted,
		CompletedAt: mtp.Now().Format(time.RFC3339),
	})

	runningID := fmt.Sprintf("exec_running_%d", rand.Int())
	AddExecution(runningID, &ExecutionResult{
		ExecutionID: runningID,
		Status:      StatusStarted,
	})

	performCleanup(threshold)

	if _, exists := GetExecution(oldID); exists {
		t.Error("expired execution survived cleanup")
	}
	if _, exists := GetExecution(freshID); !exists {
		t.Error("fresh execution removed by cleanup")
	}
	if _, exists := GetExecution(runningID); !exists {
		t.Error("running execution removed by cleanup")
	}
}
