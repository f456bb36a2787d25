package mutate

import (
	"github.com/danieljhkim/modlog/internal/fsops"
	"github.com/danieljhkim/modlog/internal/hash"
	"github.com/danieljhkim/modlog/internal/installlog"
)

// DriftStatus describes how an installed file compares to what was recorded.
type DriftStatus string

const (
	DriftNone     DriftStatus = "ok"
	DriftModified DriftStatus = "modified"
	DriftMissing  DriftStatus = "missing"
	DriftUnknown  DriftStatus = "unknown"
)

// FileDrift is the drift result for one file record.
type FileDrift struct {
	Path     string      `json:"path"`
	Status   DriftStatus `json:"status"`
	Recorded string      `json:"recorded,omitempty"`
	Current  string      `json:"current,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// CheckDrift hashes every recorded file and compares it with the checksum
// taken at install time. Records without a checksum report DriftUnknown
// unless the file is gone.
func CheckDrift(fs fsops.FS, hasher hash.Hasher, records []installlog.FileRecord) []FileDrift {
	out := make([]FileDrift, 0, len(records))
	for _, r := range records {
		d := FileDrift{Path: r.Path, Recorded: r.Checksum}

		exists, err := fs.Exists(r.Path)
		switch {
		case err != nil:
			d.Status = DriftUnknown
			d.Error = err.Error()
		case !exists:
			d.Status = DriftMissing
		case r.Checksum == "":
			d.Status = DriftUnknown
		default:
			sum, err := hasher.HashFile(r.Path)
			if err != nil {
				d.Status = DriftUnknown
				d.Error = err.Error()
				break
			}
			d.Current = sum
			if sum == r.Checksum {
				d.Status = DriftNone
			} else {
				d.Status = DriftModified
			}
		}
		out = append(out, d)
	}
	return out
}
