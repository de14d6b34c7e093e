package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forPelevin/asrprep/internal/config"
	"github.com/forPelevin/asrprep/internal/domain/alignment"
	"github.com/forPelevin/asrprep/internal/logging"
	"github.com/forPelevin/asrprep/internal/pipeline"
)

func run(cmd *cobra.Command) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, resolved, exists, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer func() { _ = closeLog() }()
	if exists {
		log.Debug("config loaded", zap.String("path", resolved))
	} else {
		log.Debug("no config file, using defaults")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, runErr := pipeline.Run(ctx, pipelineConfig(cfg, log))
	if runErr != nil && rep.RunID == "" {
		return runErr
	}

	if _, err := fmt.Fprintln(cmd.OutOrStdout(), renderSummary(rep)); err != nil {
		return err
	}
	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := writeReport(path, rep); err != nil {
			return err
		}
		log.Info("report written", zap.String("path", path))
	}
	if runErr != nil {
		return runErr
	}
	if n := len(rep.Failed()); n > 0 {
		return fmt.Errorf("%d recording(s) failed", n)
	}
	return nil
}

// applyFlags layers explicitly set command-line flags over the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Paths.InputDir, _ = flags.GetString("input")
	}
	if flags.Changed("output") {
		cfg.Paths.OutputDir, _ = flags.GetString("output")
	}
	if flags.Changed("workers") {
		cfg.Workers.Count, _ = flags.GetInt("workers")
	}
	if flags.Changed("audio-ext") {
		cfg.Audio.InputExt, _ = flags.GetString("audio-ext")
	}
	if flags.Changed("output-ext") {
		cfg.Audio.OutputExt, _ = flags.GetString("output-ext")
	}
	if flags.Changed("existing") {
		cfg.Output.Existing, _ = flags.GetString("existing")
	}
	if flags.Changed("max-residue-hits") {
		cfg.Validation.MaxResidueHits, _ = flags.GetInt("max-residue-hits")
	}
	if flags.Changed("max-trailing-gap") {
		gap, _ := flags.GetDuration("max-trailing-gap")
		cfg.Validation.MaxTrailingGapSeconds = gap.Seconds()
	}
	return cfg.Normalize()
}

func pipelineConfig(cfg *config.Config, log *zap.Logger) pipeline.Config {
	return pipeline.Config{
		InputDir:     cfg.Paths.InputDir,
		OutputDir:    cfg.Paths.OutputDir,
		WorkDir:      cfg.Paths.WorkDir,
		AudioExt:     cfg.Audio.InputExt,
		OutputExt:    cfg.Audio.ClipExt(),
		SubtitleExts: cfg.Subtitles.Extensions,
		Channels:     cfg.Audio.Channels,
		FFmpegPath:   cfg.Audio.FFmpegPath,
		EncodeArgs:   cfg.Audio.EncodeArgs,
		Thresholds: alignment.Thresholds{
			Residue:        int64(cfg.Validation.MSResidue),
			MaxResidueHits: cfg.Validation.MaxResidueHits,
			MaxTrailingGap: cfg.Validation.MaxTrailingGap(),
		},
		SkipExisting: cfg.Output.Existing == config.ExistingSkip,
		Workers:      cfg.Workers.Count,
		Logger:       log,
	}
}

func writeReport(path string, rep pipeline.Report) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func initConfig(cmd *cobra.Command, path string) error {
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	if err := config.CreateSample(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
