// Package fetch wraps the yt-dlp invocation that turns a clip id into a
// local media file. The player URL is built from the configured template,
// the download is bounded by the fetch timeout, and the yt-dlp info sidecar
// is filed into the metadata directory on success.
package fetch
