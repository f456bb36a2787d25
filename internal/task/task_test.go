package task

import (
	"sync"
	"testing"
)

func TestTask_InitialState(t *testing.T) {
	tk := New()
	if tk.Status() != Running {
		t.Errorf("expected Running, got %s", tk.Status())
	}
	if tk.CancelRequested() {
		t.Error("fresh task must not report a cancel request")
	}
}

func TestTask_Transitions(t *testing.T) {
	tests := []struct {
		name  string
		steps func(*Task)
		want  Status
	}{
		{"complete", func(tk *Task) { tk.Complete() }, Complete},
		{"fail", func(tk *Task) { tk.Fail() }, Failed},
		{"cancel then acknowledge", func(tk *Task) { tk.Cancel(); tk.AcknowledgeCancel() }, Cancelled},
		{"cancel after last checkpoint", func(tk *Task) { tk.Cancel(); tk.Complete() }, Complete},
		{"terminal is sticky", func(tk *Task) { tk.Complete(); tk.Fail(); tk.AcknowledgeCancel() }, Complete},
		{"cancel after finish is ignored", func(tk *Task) { tk.Complete(); tk.Cancel() }, Complete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := New()
			tt.steps(tk)
			if tk.Status() != tt.want {
				t.Errorf("status = %s, want %s", tk.Status(), tt.want)
			}
		})
	}
}

func TestTask_CancelOnlyOnce(t *testing.T) {
	tk := New()
	if !tk.Cancel() {
		t.Fatal("first Cancel should succeed")
	}
	if tk.Cancel() {
		t.Error("second Cancel should report false")
	}
	if !tk.CancelRequested() {
		t.Error("expected CancelRequested after Cancel")
	}
}

func TestTask_ConcurrentCancel(t *testing.T) {
	tk := New()
	var wg sync.WaitGroup
	wins := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- tk.Cancel()
		}()
	}
	wg.Wait()
	close(wins)

	n := 0
	for w := range wins {
		if w {
			n++
		}
	}
	if n != 1 {
		t.Errorf("expected exactly one successful Cancel, got %d", n)
	}
}

func TestTask_Progress(t *testing.T) {
	tk := New()
	tk.StartOverall(3, "Uninstalling")
	tk.StartItems(2, "files")
	tk.StepItem()
	tk.StepItem()
	tk.StepOverall()
	tk.StartItems(0, "config")

	p := tk.Snapshot()
	if p.OverallMax != 3 || p.OverallValue != 1 {
		t.Errorf("overall = %d/%d, want 1/3", p.OverallValue, p.OverallMax)
	}
	if p.ItemMax != 0 || p.ItemValue != 0 || p.ItemMessage != "config" {
		t.Errorf("item progress not reset for the new phase: %+v", p)
	}
	if p.Status != Running {
		t.Errorf("snapshot status = %s", p.Status)
	}
}

func TestTask_ObserversReceiveEvents(t *testing.T) {
	tk := New()
	var kinds []EventKind
	var last Progress
	tk.Subscribe(ObserverFunc(func(e Event) {
		kinds = append(kinds, e.Kind)
		last = e.Progress
	}))

	tk.StartOverall(3, "go")
	tk.StartItems(1, "files")
	tk.StepItem()
	tk.Cancel()
	tk.AcknowledgeCancel()

	want := []EventKind{OverallChanged, ItemChanged, ItemChanged, StatusChanged, Ended}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, kinds[i], want[i])
		}
	}
	if last.Status != Cancelled || last.ItemValue != 1 {
		t.Errorf("last event progress = %+v", last)
	}
}

func TestStatus_String(t *testing.T) {
	for s, want := range map[Status]string{
		Running: "running", Cancelling: "cancelling", Cancelled: "cancelled",
		Complete: "complete", Failed: "failed", Status(42): "unknown",
	} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
