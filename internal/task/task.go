// Package task is the shared status object between a long-running operation
// and its caller.
//
// The running operation owns progress: only its goroutine moves the overall
// and item counters. Any goroutine may request cancellation; the request is
// an atomic transition Running -> Cancelling that the operation observes at
// its own checkpoints.
package task

import (
	"sync"
	"sync/atomic"
)

// Status is the lifecycle state of a task.
type Status int32

const (
	Running Status = iota
	Cancelling
	Cancelled
	Complete
	Failed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Cancelling:
		return "cancelling"
	case Cancelled:
		return "cancelled"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == Cancelled || s == Complete || s == Failed
}

// Progress is a point-in-time copy of a task's counters.
type Progress struct {
	Status         Status
	OverallValue   int
	OverallMax     int
	OverallMessage string
	ItemValue      int
	ItemMax        int
	ItemMessage    string
}

// Task tracks status and two-level progress of one operation.
type Task struct {
	status atomic.Int32

	mu        sync.Mutex
	progress  Progress
	observers []Observer
}

// New creates a task in the Running state.
func New() *Task {
	t := &Task{}
	t.status.Store(int32(Running))
	return t
}

// Status returns the current status. Safe from any goroutine.
func (t *Task) Status() Status {
	return Status(t.status.Load())
}

// Cancel requests cancellation. It returns false when the task was not
// running (already cancelling or finished). Safe from any goroutine.
func (t *Task) Cancel() bool {
	if !t.status.CompareAndSwap(int32(Running), int32(Cancelling)) {
		return false
	}
	t.emit(StatusChanged)
	return true
}

// CancelRequested reports whether cancellation was requested and not yet
// acknowledged.
func (t *Task) CancelRequested() bool {
	return t.Status() == Cancelling
}

// AcknowledgeCancel moves Cancelling to Cancelled.
func (t *Task) AcknowledgeCancel() {
	t.finish(Cancelled)
}

// Complete marks the work as done. A cancellation requested after the last
// checkpoint is ignored since nothing was left to skip.
func (t *Task) Complete() {
	t.finish(Complete)
}

// Fail marks the task as failed.
func (t *Task) Fail() {
	t.finish(Failed)
}

func (t *Task) finish(to Status) {
	for {
		cur := t.status.Load()
		if Status(cur).Terminal() {
			return
		}
		if t.status.CompareAndSwap(cur, int32(to)) {
			t.emit(Ended)
			return
		}
	}
}

// StartOverall sets the overall maximum and message and resets the value.
func (t *Task) StartOverall(max int, message string) {
	t.mu.Lock()
	t.progress.OverallMax = max
	t.progress.OverallValue = 0
	t.progress.OverallMessage = message
	t.mu.Unlock()
	t.emit(OverallChanged)
}

// StepOverall advances overall progress by one.
func (t *Task) StepOverall() {
	t.mu.Lock()
	t.progress.OverallValue++
	t.mu.Unlock()
	t.emit(OverallChanged)
}

// StartItems resets item progress for a new phase of max items.
func (t *Task) StartItems(max int, message string) {
	t.mu.Lock()
	t.progress.ItemMax = max
	t.progress.ItemValue = 0
	t.progress.ItemMessage = message
	t.mu.Unlock()
	t.emit(ItemChanged)
}

// StepItem advances item progress by one.
func (t *Task) StepItem() {
	t.mu.Lock()
	t.progress.ItemValue++
	t.mu.Unlock()
	t.emit(ItemChanged)
}

// Snapshot returns a consistent copy of the progress. Safe from any goroutine.
func (t *Task) Snapshot() Progress {
	t.mu.Lock()
	p := t.progress
	t.mu.Unlock()
	p.Status = t.Status()
	return p
}
