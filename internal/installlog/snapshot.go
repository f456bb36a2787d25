package installlog

import (
	"errors"
	"os"
)

// Snapshot is a detached copy of one owner's records, taken once before an
// uninstall starts so that later changes to the store do not affect the run.
type Snapshot struct {
	Owner       string       `json:"owner"`
	Files       []string     `json:"files"`
	ConfigEdits []ConfigEdit `json:"configEdits"`
	ValueEdits  []string     `json:"valueEdits"`
}

// TakeSnapshot materializes the three record sequences of owner. When r can
// load a whole log the sequences come from a single read, so a concurrent
// install cannot land between them.
func TakeSnapshot(r Reader, owner string) Snapshot {
	if ld, ok := r.(interface {
		Load(owner string) (*OwnerLog, error)
	}); ok {
		l, err := ld.Load(owner)
		switch {
		case err == nil:
			return snapshotOf(owner, l)
		case errors.Is(err, os.ErrNotExist):
			return snapshotOf(owner, NewOwnerLog(owner))
		}
		// Unreadable logs go through the Reader so it can report them.
	}
	return Snapshot{
		Owner:       owner,
		Files:       append([]string{}, r.GetFileRecords(owner)...),
		ConfigEdits: append([]ConfigEdit{}, r.GetConfigEditRecords(owner)...),
		ValueEdits:  append([]string{}, r.GetValueEditRecords(owner)...),
	}
}

func snapshotOf(owner string, l *OwnerLog) Snapshot {
	return Snapshot{
		Owner:       owner,
		Files:       l.filePaths(),
		ConfigEdits: l.configEdits(),
		ValueEdits:  l.valueKeys(),
	}
}

// Len returns the total number of records in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Files) + len(s.ConfigEdits) + len(s.ValueEdits)
}
