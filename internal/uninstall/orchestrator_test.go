package uninstall_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/danieljhkim/modlog/internal/clock"
	"github.com/danieljhkim/modlog/internal/installlog"
	"github.com/danieljhkim/modlog/internal/task"
	"github.com/danieljhkim/modlog/internal/uninstall"
)

const owner = "SkyUI"

// progressLog collects the item maximum announced at the start of each phase.
type progressLog struct {
	mu    sync.Mutex
	maxes []int
}

func (p *progressLog) OnTaskEvent(e task.Event) {
	if e.Kind != task.ItemChanged || e.Progress.ItemValue != 0 {
		return
	}
	p.mu.Lock()
	p.maxes = append(p.maxes, e.Progress.ItemMax)
	p.mu.Unlock()
}

func (p *progressLog) itemMaxes() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int{}, p.maxes...)
}

var _ = Describe("Orchestrator", func() {
	var (
		store    *installlog.MemoryStore
		files    *fakeFiles
		configs  *fakeConfigs
		values   *fakeValues
		tk       *task.Task
		progress *progressLog
		ctx      context.Context
	)

	addFiles := func(n int) {
		for i := 1; i <= n; i++ {
			Expect(store.AddFile(owner, fmt.Sprintf("/data/file%d.esp", i), "")).To(Succeed())
		}
	}
	addConfigs := func(n int) {
		for i := 1; i <= n; i++ {
			Expect(store.AddConfigEdit(owner, installlog.ConfigEdit{
				File: "Skyrim.ini", Section: "Display", Key: fmt.Sprintf("k%d", i),
			})).To(Succeed())
		}
	}
	addValues := func(n int) {
		for i := 1; i <= n; i++ {
			Expect(store.AddValueEdit(owner, fmt.Sprintf("value%d", i))).To(Succeed())
		}
	}
	newOrchestrator := func(opts ...uninstall.Option) *uninstall.Orchestrator {
		opts = append([]uninstall.Option{uninstall.WithTask(tk)}, opts...)
		return uninstall.New(owner, store, files, configs, values, opts...)
	}

	BeforeEach(func() {
		store = installlog.NewMemoryStore()
		files = &fakeFiles{}
		configs = &fakeConfigs{}
		values = &fakeValues{}
		tk = task.New()
		progress = &progressLog{}
		tk.Subscribe(progress)
		ctx = context.Background()
	})

	Context("without cancellation", func() {
		It("reverses files and values but skips the empty config phase (scenario A)", func() {
			addFiles(3)
			addValues(2)
			orch := newOrchestrator()

			Expect(orch.Execute(ctx)).To(BeTrue())

			Expect(files.Calls()).To(Equal([]string{"/data/file1.esp", "/data/file2.esp", "/data/file3.esp"}))
			Expect(configs.Calls()).To(BeEmpty())
			Expect(values.Calls()).To(Equal([]string{"value1", "value2"}))
			Expect(tk.Status()).To(Equal(task.Complete))
			Expect(orch.Phase()).To(Equal(uninstall.Complete))

			p := tk.Snapshot()
			Expect(p.OverallValue).To(Equal(3))
			Expect(p.OverallMax).To(Equal(3))
			Expect(progress.itemMaxes()).To(Equal([]int{3, 0, 2}))
		})

		It("completes with full overall progress for an unknown owner (scenario C)", func() {
			orch := newOrchestrator()

			Expect(orch.Execute(ctx)).To(BeTrue())

			Expect(files.Calls()).To(BeEmpty())
			Expect(configs.Calls()).To(BeEmpty())
			Expect(values.Calls()).To(BeEmpty())
			Expect(tk.Status()).To(Equal(task.Complete))
			Expect(tk.Snapshot().OverallValue).To(Equal(uninstall.PhaseCount))
			Expect(progress.itemMaxes()).To(Equal([]int{0, 0, 0}))
		})

		It("runs phases in order and reports what was reversed", func() {
			addFiles(1)
			addConfigs(2)
			addValues(1)
			var order []string
			files.hook = func(int, string) { order = append(order, "file") }
			configs.hook = func(int, string) { order = append(order, "config") }
			values.hook = func(int, string) { order = append(order, "value") }
			orch := newOrchestrator()

			Expect(orch.Execute(ctx)).To(BeTrue())

			Expect(order).To(Equal([]string{"file", "config", "config", "value"}))
			report := orch.Report()
			Expect(report.Owner).To(Equal(owner))
			Expect(report.RunID).NotTo(BeEmpty())
			Expect(report.Status).To(Equal(task.Complete))
			Expect(report.Reversed()).To(Equal(4))
			Expect(report.ConfigEdits).To(HaveLen(2))
			Expect(report.Err()).NotTo(HaveOccurred())
			Expect(report.Finished).NotTo(BeTemporally("<", report.Started))
		})

		It("processes the snapshot taken at start even if the store changes", func() {
			addFiles(2)
			addValues(1)
			files.hook = func(call int, _ string) {
				if call == 1 {
					Expect(store.AddFile(owner, "/data/late.esp", "")).To(Succeed())
					Expect(store.AddValueEdit(owner, "late-value")).To(Succeed())
				}
			}
			orch := newOrchestrator()

			Expect(orch.Execute(ctx)).To(BeTrue())

			Expect(files.Calls()).To(HaveLen(2))
			Expect(values.Calls()).To(Equal([]string{"value1"}))
			Expect(progress.itemMaxes()).To(Equal([]int{2, 0, 1}))
		})
	})

	Context("with cancellation", func() {
		It("stops before the 3rd file when cancelled during the 2nd (scenario B)", func() {
			addFiles(5)
			addConfigs(1)
			addValues(1)
			var orch *uninstall.Orchestrator
			files.hook = func(call int, _ string) {
				if call == 2 {
					orch.Cancel()
				}
			}
			orch = newOrchestrator()

			Expect(orch.Execute(ctx)).To(BeFalse())

			Expect(files.Calls()).To(Equal([]string{"/data/file1.esp", "/data/file2.esp"}))
			Expect(configs.Calls()).To(BeEmpty())
			Expect(values.Calls()).To(BeEmpty())
			Expect(tk.Status()).To(Equal(task.Cancelled))
			Expect(orch.Phase()).To(Equal(uninstall.Cancelled))
			Expect(tk.Snapshot().OverallValue).To(Equal(0))
			Expect(orch.Report().Files).To(HaveLen(2))
		})

		It("makes no calls when cancelled before Execute", func() {
			addFiles(2)
			addValues(2)
			orch := newOrchestrator()
			Expect(orch.Cancel()).To(BeTrue())

			Expect(orch.Execute(ctx)).To(BeFalse())

			Expect(files.Calls()).To(BeEmpty())
			Expect(values.Calls()).To(BeEmpty())
			Expect(tk.Status()).To(Equal(task.Cancelled))
		})

		It("honors a cancel request made before start even with no records", func() {
			orch := newOrchestrator()
			orch.Cancel()

			Expect(orch.Execute(ctx)).To(BeFalse())
			Expect(tk.Status()).To(Equal(task.Cancelled))
		})

		It("treats an already cancelled context as a cancel request", func() {
			addFiles(1)
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			orch := newOrchestrator()

			Expect(orch.Execute(cancelled)).To(BeFalse())

			Expect(files.Calls()).To(BeEmpty())
			Expect(tk.Status()).To(Equal(task.Cancelled))
		})

		It("observes context cancellation at the next checkpoint", func() {
			addFiles(3)
			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			files.hook = func(call int, _ string) {
				if call == 1 {
					cancel()
					Eventually(tk.Status).Should(Equal(task.Cancelling))
				}
			}
			orch := newOrchestrator()

			Expect(orch.Execute(runCtx)).To(BeFalse())
			Expect(files.Calls()).To(HaveLen(1))
		})

		It("accepts a cancel request from another goroutine mid-phase", func() {
			addFiles(1)
			addConfigs(3)
			addValues(1)
			var orch *uninstall.Orchestrator
			configs.hook = func(call int, _ string) {
				if call == 1 {
					done := make(chan struct{})
					go func() {
						defer close(done)
						orch.Cancel()
					}()
					<-done
				}
			}
			orch = newOrchestrator()

			Expect(orch.Execute(ctx)).To(BeFalse())

			Expect(files.Calls()).To(HaveLen(1))
			Expect(configs.Calls()).To(HaveLen(1))
			Expect(values.Calls()).To(BeEmpty())
			Expect(tk.Snapshot().OverallValue).To(Equal(1))
			Expect(progress.itemMaxes()).To(Equal([]int{1, 3}))
		})

		It("lets a rerun finish what a cancelled run left", func() {
			addFiles(4)
			var first *uninstall.Orchestrator
			files.hook = func(call int, _ string) {
				if call == 2 {
					first.Cancel()
				}
			}
			first = newOrchestrator()
			Expect(first.Execute(ctx)).To(BeFalse())
			Expect(uninstall.RemoveReversed(store, first.Report())).To(Succeed())

			files.hook = nil
			second := uninstall.New(owner, store, files, configs, values)
			Expect(second.Execute(ctx)).To(BeTrue())

			Expect(files.Calls()).To(Equal([]string{
				"/data/file1.esp", "/data/file2.esp", "/data/file3.esp", "/data/file4.esp",
			}))
			Expect(uninstall.RemoveReversed(store, second.Report())).To(Succeed())
			Expect(store.Owners()).To(BeEmpty())
		})
	})

	Context("when a reversal fails", func() {
		It("keeps going and still succeeds by default", func() {
			addFiles(3)
			addValues(1)
			locked := errors.New("file locked")
			files.failOn = map[string]error{"/data/file2.esp": locked}
			orch := newOrchestrator()

			Expect(orch.Execute(ctx)).To(BeTrue())

			Expect(files.Calls()).To(HaveLen(3))
			Expect(values.Calls()).To(HaveLen(1))
			Expect(tk.Status()).To(Equal(task.Complete))

			report := orch.Report()
			Expect(report.Files).To(Equal([]string{"/data/file1.esp", "/data/file3.esp"}))
			Expect(report.Failures).To(HaveLen(1))
			Expect(report.Failures[0].Phase).To(Equal(uninstall.RunningFiles))
			Expect(report.Failures[0].Item).To(Equal("/data/file2.esp"))
			Expect(report.Err()).To(MatchError(locked))
		})

		It("stops at the first failure in strict mode", func() {
			addFiles(3)
			addValues(1)
			files.failOn = map[string]error{"/data/file2.esp": errors.New("file locked")}
			orch := newOrchestrator(uninstall.WithStrict(true))

			Expect(orch.Execute(ctx)).To(BeFalse())

			Expect(files.Calls()).To(HaveLen(2))
			Expect(values.Calls()).To(BeEmpty())
			Expect(tk.Status()).To(Equal(task.Failed))
			Expect(orch.Phase()).To(Equal(uninstall.Failed))
			Expect(orch.Report().Status).To(Equal(task.Failed))
		})

		It("turns a panicking mutator into an item failure", func() {
			addConfigs(2)
			configs.panicOn = map[string]bool{"Skyrim.ini[Display]k1": true}
			orch := newOrchestrator()

			Expect(orch.Execute(ctx)).To(BeTrue())

			Expect(configs.Calls()).To(HaveLen(2))
			report := orch.Report()
			Expect(report.Failures).To(HaveLen(1))
			Expect(report.Failures[0].Err).To(MatchError(uninstall.ErrMutatorPanic))
			Expect(report.ConfigEdits).To(HaveLen(1))
		})
	})

	It("executes at most once", func() {
		addFiles(1)
		orch := newOrchestrator()

		Expect(orch.Execute(ctx)).To(BeTrue())
		Expect(orch.Execute(ctx)).To(BeFalse())
		Expect(files.Calls()).To(HaveLen(1))
	})

	It("stamps the report with the configured clock", func() {
		start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
		clk := clock.NewFakeClock(start)
		clk.AutoAdvance(time.Second)
		orch := newOrchestrator(uninstall.WithClock(clk))

		Expect(orch.Execute(ctx)).To(BeTrue())

		report := orch.Report()
		Expect(report.Started).To(Equal(start))
		Expect(report.Finished).To(Equal(start.Add(time.Second)))
	})

	It("creates its own task when none is given", func() {
		orch := uninstall.New(owner, store, files, configs, values)
		Expect(orch.Task()).NotTo(BeNil())
		Expect(orch.Phase()).To(Equal(uninstall.Initialized))
		Expect(orch.Execute(ctx)).To(BeTrue())
		Expect(orch.Task().Status()).To(Equal(task.Complete))
	})
})
