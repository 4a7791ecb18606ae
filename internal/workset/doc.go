// Package workset computes the effective set of clips for one invocation.
// Three mutually exclusive modes exist: an explicit id list, a JSON id file
// written by the discovery scraper, and resume, which diffs the stored
// worklist against completed clips. Every mode excludes clips the checkpoint
// already marks completed.
package workset
