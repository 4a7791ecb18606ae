package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateTranscribe(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.MediaDir == "" {
		return errors.New("paths.media_dir must be set")
	}
	if c.Paths.TranscriptDir == "" {
		return errors.New("paths.transcript_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if !strings.Contains(c.Fetch.URLTemplate, "%s") {
		return fmt.Errorf("fetch.url_template must contain a %%s placeholder for the clip id, got %q", c.Fetch.URLTemplate)
	}
	return nil
}

func (c *Config) validateTranscribe() error {
	if c.Transcribe.MinTranscriptBytes == 0 {
		// Zero disables the non-triviality check, which permanently skips
		// clips whose prior run left an empty transcript behind.
		return errors.New("transcribe.min_transcript_bytes must be positive (empty transcripts would be treated as complete)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console, or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
