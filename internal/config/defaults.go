package config

const (
	defaultMediaDir           = "~/.local/share/gavel/media"
	defaultTranscriptDir      = "~/.local/share/gavel/transcripts"
	defaultMetadataDir        = "~/.local/share/gavel/metadata"
	defaultLogDir             = "~/.local/share/gavel/logs"
	defaultFetchBinary        = "yt-dlp"
	defaultURLTemplate        = "https://fcva.granicus.com/player/clip/%s"
	defaultFetchTimeoutMin    = 30
	defaultTranscribeBinary   = "whisper"
	defaultPythonBinary       = "python3"
	defaultWhisperModel       = "base"
	defaultTranscribeTimeout  = 120
	defaultMinTranscriptBytes = 64
	defaultLogFormat          = "auto"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			MediaDir:      defaultMediaDir,
			TranscriptDir: defaultTranscriptDir,
			MetadataDir:   defaultMetadataDir,
			LogDir:        defaultLogDir,
		},
		Fetch: Fetch{
			Binary:         defaultFetchBinary,
			URLTemplate:    defaultURLTemplate,
			TimeoutMinutes: defaultFetchTimeoutMin,
		},
		Transcribe: Transcribe{
			Binary:             defaultTranscribeBinary,
			PythonBinary:       defaultPythonBinary,
			Model:              defaultWhisperModel,
			TimeoutMinutes:     defaultTranscribeTimeout,
			MinTranscriptBytes: defaultMinTranscriptBytes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
