// Package mutate applies and reverses single units of change.
//
// Each mutator handles one kind of change and keeps whatever it needs to
// undo it:
//   - Files backs up a file before overwriting it and restores the backup
//     (or deletes the file when there was nothing before) on Uninstall.
//   - IniEditor edits one key of an INI file and remembers the prior value.
//   - Values edits one key of a TOML settings table and remembers the prior
//     value.
//
// Prior values live in the Originals ledger. The first edit of a key wins, so
// a key edited twice is restored to what it was before modlog touched it.
//
// Installer is the install path: it applies a change and then appends the
// matching record to the install log.
package mutate
