package installlog

import (
	"fmt"
	"time"
)

// FileRecord notes that a file was written at Path on behalf of Owner.
type FileRecord struct {
	Owner string `json:"owner"`
	Path  string `json:"path"`

	// Checksum is the SHA-256 of the content installed (optional)
	Checksum string `json:"checksum,omitempty"`

	RecordedAt time.Time `json:"recordedAt"`
}

// ConfigEdit identifies one key of one section of an INI file.
type ConfigEdit struct {
	File    string `json:"file"`
	Section string `json:"section"`
	Key     string `json:"key"`
}

// String renders the edit as file[section]key.
func (e ConfigEdit) String() string {
	return fmt.Sprintf("%s[%s]%s", e.File, e.Section, e.Key)
}

// ConfigEditRecord notes that Key under Section in File was modified.
type ConfigEditRecord struct {
	Owner string `json:"owner"`
	ConfigEdit
	RecordedAt time.Time `json:"recordedAt"`
}

// ValueEditRecord notes that the keyed setting Key was changed.
type ValueEditRecord struct {
	Owner      string    `json:"owner"`
	Key        string    `json:"key"`
	RecordedAt time.Time `json:"recordedAt"`
}

// OwnerLog is everything recorded for one owner.
type OwnerLog struct {
	Owner       string             `json:"owner"`
	Files       []FileRecord       `json:"files"`
	ConfigEdits []ConfigEditRecord `json:"configEdits"`
	ValueEdits  []ValueEditRecord  `json:"valueEdits"`
}

// NewOwnerLog creates an empty log for owner.
func NewOwnerLog(owner string) *OwnerLog {
	return &OwnerLog{
		Owner:       owner,
		Files:       []FileRecord{},
		ConfigEdits: []ConfigEditRecord{},
		ValueEdits:  []ValueEditRecord{},
	}
}

// Len returns the total number of records.
func (l *OwnerLog) Len() int {
	return len(l.Files) + len(l.ConfigEdits) + len(l.ValueEdits)
}

// Empty reports whether no records remain.
func (l *OwnerLog) Empty() bool {
	return l.Len() == 0
}

func (l *OwnerLog) addFile(path, checksum string, at time.Time) bool {
	for i, r := range l.Files {
		if r.Path == path {
			// Reinstalling the same path keeps its original position.
			if checksum != "" && checksum != r.Checksum {
				l.Files[i].Checksum = checksum
				return true
			}
			return false
		}
	}
	l.Files = append(l.Files, FileRecord{Owner: l.Owner, Path: path, Checksum: checksum, RecordedAt: at})
	return true
}

func (l *OwnerLog) addConfigEdit(e ConfigEdit, at time.Time) bool {
	for _, r := range l.ConfigEdits {
		if r.ConfigEdit == e {
			return false
		}
	}
	l.ConfigEdits = append(l.ConfigEdits, ConfigEditRecord{Owner: l.Owner, ConfigEdit: e, RecordedAt: at})
	return true
}

func (l *OwnerLog) addValueEdit(key string, at time.Time) bool {
	for _, r := range l.ValueEdits {
		if r.Key == key {
			return false
		}
	}
	l.ValueEdits = append(l.ValueEdits, ValueEditRecord{Owner: l.Owner, Key: key, RecordedAt: at})
	return true
}

func (l *OwnerLog) removeFile(path string) bool {
	for i, r := range l.Files {
		if r.Path == path {
			l.Files = append(l.Files[:i], l.Files[i+1:]...)
			return true
		}
	}
	return false
}

func (l *OwnerLog) removeConfigEdit(e ConfigEdit) bool {
	for i, r := range l.ConfigEdits {
		if r.ConfigEdit == e {
			l.ConfigEdits = append(l.ConfigEdits[:i], l.ConfigEdits[i+1:]...)
			return true
		}
	}
	return false
}

func (l *OwnerLog) removeValueEdit(key string) bool {
	for i, r := range l.ValueEdits {
		if r.Key == key {
			l.ValueEdits = append(l.ValueEdits[:i], l.ValueEdits[i+1:]...)
			return true
		}
	}
	return false
}

func (l *OwnerLog) filePaths() []string {
	out := make([]string, len(l.Files))
	for i, r := range l.Files {
		out[i] = r.Path
	}
	return out
}

func (l *OwnerLog) configEdits() []ConfigEdit {
	out := make([]ConfigEdit, len(l.ConfigEdits))
	for i, r := range l.ConfigEdits {
		out[i] = r.ConfigEdit
	}
	return out
}

func (l *OwnerLog) valueKeys() []string {
	out := make([]string, len(l.ValueEdits))
	for i, r := range l.ValueEdits {
		out[i] = r.Key
	}
	return out
}

// clone returns a deep copy so callers never alias store memory.
func (l *OwnerLog) clone() *OwnerLog {
	c := &OwnerLog{
		Owner:       l.Owner,
		Files:       append([]FileRecord{}, l.Files...),
		ConfigEdits: append([]ConfigEditRecord{}, l.ConfigEdits...),
		ValueEdits:  append([]ValueEditRecord{}, l.ValueEdits...),
	}
	return c
}

func validateConfigEdit(e ConfigEdit) error {
	if e.File == "" || e.Key == "" {
		return fmt.Errorf("%w: config edit needs a file and a key, got %s", ErrInvalidRecord, e)
	}
	return nil
}
