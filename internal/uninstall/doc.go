// Package uninstall reverses everything the install log recorded for one
// owner.
//
// An Orchestrator snapshots the owner's records once, then runs three phases
// strictly in order: files, config edits, keyed values. Each record is handed
// to the matching mutator exactly once, in insertion order. Cancellation is
// observed before every record; records already reversed stay reversed.
//
// Overall progress has three steps, one per phase. Item progress is reset to
// the phase's record count at the start of each phase.
//
// A failed reversal does not stop the run by default; it is logged and
// collected in the Report. WithStrict(true) stops at the first failure.
package uninstall
