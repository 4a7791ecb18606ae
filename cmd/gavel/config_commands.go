package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gavel/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigShowCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}
			expanded, err := config.ExpandPath(target)
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}

			if overwrite {
				if err := os.Remove(expanded); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("remove existing config: %w", err)
				}
			}
			if err := config.WriteSample(expanded); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", expanded)
			fmt.Fprintln(out, "Edit the paths and stage timeouts before running gavel.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Root().PersistentFlags().GetString("config")
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", resolved)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Print the effective configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Root().PersistentFlags().GetString("config")
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			source := resolved
			if !exists {
				source = fmt.Sprintf("%s (missing, defaults in effect)", resolved)
			}
			fmt.Fprintf(out, "Source: %s\n\n", source)
			fmt.Fprintf(out, "media_dir            %s\n", cfg.Paths.MediaDir)
			fmt.Fprintf(out, "transcript_dir       %s\n", cfg.Paths.TranscriptDir)
			fmt.Fprintf(out, "metadata_dir         %s\n", cfg.Paths.MetadataDir)
			fmt.Fprintf(out, "log_dir              %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "fetch binary         %s\n", cfg.Fetch.Binary)
			fmt.Fprintf(out, "fetch url_template   %s\n", cfg.Fetch.URLTemplate)
			fmt.Fprintf(out, "fetch timeout        %s\n", cfg.FetchTimeout())
			fmt.Fprintf(out, "transcribe binary    %s\n", cfg.Transcribe.Binary)
			fmt.Fprintf(out, "transcribe model     %s\n", cfg.Transcribe.Model)
			fmt.Fprintf(out, "transcribe timeout   %s\n", cfg.TranscribeTimeout())
			fmt.Fprintf(out, "min transcript bytes %d\n", cfg.Transcribe.MinTranscriptBytes)
			fmt.Fprintf(out, "log format           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "log level            %s\n", cfg.Logging.Level)
			return nil
		},
	}
}
