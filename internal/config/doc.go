// Package config loads, validates, and normalizes gavel configuration.
//
// Configuration is TOML with three sections: [paths] for working
// directories, [fetch] and [transcribe] for the two external pipeline
// stages, and [logging] for output format and level. All path fields are
// tilde-expanded and made absolute during Load.
package config
