// Package report renders a finished run as a human-readable summary and
// persists it next to the run logs.
package report
