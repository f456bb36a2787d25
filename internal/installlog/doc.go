// Package installlog is the durable journal of what was changed on behalf of
// each owner (an installed package).
//
// Three kinds of change are recorded, each kept in insertion order:
//   - FileRecord: a file written or overwritten at a path
//   - ConfigEditRecord: a key under a section of an INI file was edited
//   - ValueEditRecord: an opaque keyed setting was edited
//
// Reads never fail: an unknown owner, or a log that cannot be read, yields
// empty sequences. The uninstall path only reads; the install path appends
// and the caller of an uninstall removes what was reversed.
package installlog
