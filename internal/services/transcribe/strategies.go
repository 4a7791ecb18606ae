package transcribe

import (
	"gavel/internal/config"
	"gavel/internal/extcmd"
)

// Strategy is one named way of invoking the transcriber. Strategies form an
// ordered table; the pipeline never chains them implicitly through error
// handling.
type Strategy struct {
	Name    string
	Command func(cfg *config.Config, mediaPath string) extcmd.Command
}

// Strategies returns the invocation variants in descending preference order.
func Strategies() []Strategy {
	return []Strategy{
		{
			Name: "multi-format",
			Command: func(cfg *config.Config, mediaPath string) extcmd.Command {
				return extcmd.Command{
					Name: cfg.Transcribe.Binary,
					Args: []string{
						mediaPath,
						"--model", cfg.Transcribe.Model,
						"--output_format", "vtt",
						"--output_format", "srt",
						"--output_format", "txt",
						"--output_dir", cfg.Paths.TranscriptDir,
						"--verbose", "False",
					},
				}
			},
		},
		{
			Name: "vtt-only",
			Command: func(cfg *config.Config, mediaPath string) extcmd.Command {
				return extcmd.Command{
					Name: cfg.Transcribe.Binary,
					Args: []string{
						mediaPath,
						"--model", cfg.Transcribe.Model,
						"--output_format", "vtt",
						"--output_dir", cfg.Paths.TranscriptDir,
						"--verbose", "False",
					},
				}
			},
		},
		{
			Name: "python-module",
			Command: func(cfg *config.Config, mediaPath string) extcmd.Command {
				return extcmd.Command{
					Name: cfg.Transcribe.PythonBinary,
					Args: []string{
						"-m", "whisper",
						mediaPath,
						"--model", cfg.Transcribe.Model,
						"--output_format", "vtt",
						"--output_dir", cfg.Paths.TranscriptDir,
					},
				}
			},
		},
	}
}
