// Package extcmd runs external commands with an enforced wall-clock
// timeout. Every invocation resolves to one of three outcomes — success,
// failure, or timeout — and captured output travels back for diagnostics.
// No state is read or written here beyond what the child process itself
// touches on disk.
package extcmd
