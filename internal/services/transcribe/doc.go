// Package transcribe wraps the whisper invocation that derives transcripts
// from fetched media. Invocation variants are tried in a fixed order — the
// richer multi-format request first, a single-format fallback second, and
// the python module form last — and the first success wins. Generated files
// are renamed to the canonical clip_<id>.* layout, preferring the
// timestamped VTT as the canonical artifact.
package transcribe
