package config

import (
	"fmt"
	"strings"
)

// Normalize expands paths and canonicalizes enum-like values. It is safe to
// call more than once.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAudio()
	c.Subtitles.Extensions = normalizeExts(c.Subtitles.Extensions)
	c.Output.Existing = strings.ToLower(strings.TrimSpace(c.Output.Existing))
	if c.Output.Existing == "" {
		c.Output.Existing = ExistingOverwrite
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.InputDir, err = expandPath(c.Paths.InputDir); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeAudio() {
	c.Audio.InputExt = normalizeExt(c.Audio.InputExt)
	c.Audio.OutputExt = normalizeExt(c.Audio.OutputExt)
	if strings.TrimSpace(c.Audio.FFmpegPath) == "" {
		c.Audio.FFmpegPath = defaultFFmpegPath
	}
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		if n := normalizeExt(e); n != "" {
			out = append(out, n)
		}
	}
	return out
}
