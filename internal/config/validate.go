package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateValidation(); err != nil {
		return err
	}
	if c.Output.Existing != ExistingOverwrite && c.Output.Existing != ExistingSkip {
		return fmt.Errorf("output.existing must be %q or %q, got %q", ExistingOverwrite, ExistingSkip, c.Output.Existing)
	}
	if c.Workers.Count <= 0 {
		return errors.New("workers.count must be > 0")
	}
	if !slices.Contains([]string{"auto", "console", "json"}, c.Logging.Format) {
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.InputDir == "" {
		return errors.New("paths.input_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	info, err := os.Stat(c.Paths.InputDir)
	if err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("paths.input_dir %s is not a directory", c.Paths.InputDir)
	}
	rel, err := filepath.Rel(c.Paths.InputDir, c.Paths.OutputDir)
	if err == nil && rel == "." {
		return errors.New("paths.output_dir must differ from paths.input_dir")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.InputExt == "" {
		return errors.New("audio.input_ext must be set")
	}
	if c.Audio.Channels < 0 || c.Audio.Channels > 2 {
		return errors.New("audio.channels must be 0 (keep source), 1 or 2")
	}
	if slices.Contains(c.Subtitles.Extensions, c.Audio.InputExt) {
		return fmt.Errorf("subtitles.extensions must not include the audio extension %q", c.Audio.InputExt)
	}
	return nil
}

func (c *Config) validateValidation() error {
	if c.Validation.MSResidue < 0 || c.Validation.MSResidue > 999 {
		return errors.New("validation.ms_residue must be between 0 and 999")
	}
	if c.Validation.MaxResidueHits < 0 {
		return errors.New("validation.max_residue_hits must be >= 0")
	}
	if c.Validation.MaxTrailingGapSeconds < 0 {
		return errors.New("validation.max_trailing_gap_seconds must be >= 0")
	}
	return nil
}
