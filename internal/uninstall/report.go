package uninstall

import (
	"errors"
	"fmt"
	"time"

	"github.com/danieljhkim/modlog/internal/installlog"
	"github.com/danieljhkim/modlog/internal/task"
)

// Failure is one record whose reversal failed.
type Failure struct {
	Phase Phase  `json:"phase"`
	Item  string `json:"item"`
	Err   error  `json:"-"`
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Phase, f.Item, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Report describes what one Execute did.
type Report struct {
	RunID    string      `json:"runId"`
	Owner    string      `json:"owner"`
	Status   task.Status `json:"-"`
	Started  time.Time   `json:"started"`
	Finished time.Time   `json:"finished"`

	// Reversed records, in the order they were reversed.
	Files       []string                `json:"files"`
	ConfigEdits []installlog.ConfigEdit `json:"configEdits"`
	ValueEdits  []string                `json:"valueEdits"`

	Failures []Failure `json:"failures"`
}

// Reversed returns the number of records successfully reversed.
func (r Report) Reversed() int {
	return len(r.Files) + len(r.ConfigEdits) + len(r.ValueEdits)
}

// Err joins all failures, or returns nil when there were none.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

func (r Report) clone() Report {
	c := r
	c.Files = append([]string{}, r.Files...)
	c.ConfigEdits = append([]installlog.ConfigEdit{}, r.ConfigEdits...)
	c.ValueEdits = append([]string{}, r.ValueEdits...)
	c.Failures = append([]Failure{}, r.Failures...)
	return c
}

// RemoveReversed deletes from store exactly the records r reports as
// reversed. Failed and unvisited records stay, so a later run picks up
// where this one stopped.
func RemoveReversed(store installlog.Store, r Report) error {
	for _, p := range r.Files {
		if err := store.RemoveFile(r.Owner, p); err != nil {
			return fmt.Errorf("failed to drop file record %s: %w", p, err)
		}
	}
	for _, e := range r.ConfigEdits {
		if err := store.RemoveConfigEdit(r.Owner, e); err != nil {
			return fmt.Errorf("failed to drop config edit record %s: %w", e, err)
		}
	}
	for _, k := range r.ValueEdits {
		if err := store.RemoveValueEdit(r.Owner, k); err != nil {
			return fmt.Errorf("failed to drop value edit record %s: %w", k, err)
		}
	}
	return nil
}
