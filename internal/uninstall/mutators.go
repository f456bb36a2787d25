package uninstall

// FileMutator reverses one installed file.
type FileMutator interface {
	Uninstall(path string) error
}

// ConfigMutator reverses one edited config key.
type ConfigMutator interface {
	Unedit(file, section, key string) error
}

// ValueMutator reverses one edited keyed value.
type ValueMutator interface {
	UnEdit(key string) error
}
