// Package logging builds the shared slog logger and the structured
// attribute vocabulary used across gavel. Stage and clip identity travel on
// the context so every record emitted inside a pipeline stage carries the
// same fields.
package logging
