package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFetch()
	c.normalizeTranscribe()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.MediaDir, err = expandPath(c.Paths.MediaDir); err != nil {
		return fmt.Errorf("paths.media_dir: %w", err)
	}
	if c.Paths.TranscriptDir, err = expandPath(c.Paths.TranscriptDir); err != nil {
		return fmt.Errorf("paths.transcript_dir: %w", err)
	}
	if c.Paths.MetadataDir, err = expandPath(c.Paths.MetadataDir); err != nil {
		return fmt.Errorf("paths.metadata_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFetch() {
	if strings.TrimSpace(c.Fetch.Binary) == "" {
		c.Fetch.Binary = defaultFetchBinary
	}
	if strings.TrimSpace(c.Fetch.URLTemplate) == "" {
		c.Fetch.URLTemplate = defaultURLTemplate
	}
	if c.Fetch.TimeoutMinutes <= 0 {
		c.Fetch.TimeoutMinutes = defaultFetchTimeoutMin
	}
}

func (c *Config) normalizeTranscribe() {
	if strings.TrimSpace(c.Transcribe.Binary) == "" {
		c.Transcribe.Binary = defaultTranscribeBinary
	}
	if strings.TrimSpace(c.Transcribe.PythonBinary) == "" {
		c.Transcribe.PythonBinary = defaultPythonBinary
	}
	if strings.TrimSpace(c.Transcribe.Model) == "" {
		c.Transcribe.Model = defaultWhisperModel
	}
	if c.Transcribe.TimeoutMinutes <= 0 {
		c.Transcribe.TimeoutMinutes = defaultTranscribeTimeout
	}
	if c.Transcribe.MinTranscriptBytes < 0 {
		c.Transcribe.MinTranscriptBytes = defaultMinTranscriptBytes
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
