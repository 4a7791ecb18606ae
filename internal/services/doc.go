// Package services defines the shared error taxonomy for the external tool
// wrappers and the pipeline stages built on them. Sentinel markers classify
// failures so the run controller can tell fatal misconfiguration apart from
// per-clip failures that are recorded and retried on resume.
package services
