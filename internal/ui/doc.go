// Package ui renders uninstall progress on a terminal.
//
// ProgressView subscribes to a task and rewrites a single status line on
// every event. Styling uses lipgloss and respects NO_COLOR.
package ui
