package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the batch input/output roots.
type Paths struct {
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`
	// WorkDir holds decoded intermediates; empty means the OS temp dir.
	WorkDir string `toml:"work_dir"`
}

// Audio contains decode/encode settings.
type Audio struct {
	InputExt   string   `toml:"input_ext"`
	OutputExt  string   `toml:"output_ext"`
	Channels   int      `toml:"channels"`
	FFmpegPath string   `toml:"ffmpeg_path"`
	EncodeArgs []string `toml:"encode_args"`
}

// Subtitles restricts which files count as the recording's subtitle track.
type Subtitles struct {
	Extensions []string `toml:"extensions"`
}

// Validation holds the alignment heuristics' thresholds.
type Validation struct {
	MSResidue             int     `toml:"ms_residue"`
	MaxResidueHits        int     `toml:"max_residue_hits"`
	MaxTrailingGapSeconds float64 `toml:"max_trailing_gap_seconds"`
}

// Output controls what happens to recordings that already have output.
type Output struct {
	Existing string `toml:"existing"`
}

type Workers struct {
	Count int `toml:"count"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for asrprep.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Audio      Audio      `toml:"audio"`
	Subtitles  Subtitles  `toml:"subtitles"`
	Validation Validation `toml:"validation"`
	Output     Output     `toml:"output"`
	Workers    Workers    `toml:"workers"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/asrprep/config.toml")
}

// Load locates and parses a configuration file and applies defaults. The
// result is normalized but not validated, so callers can layer flags on top
// and then call Validate.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s not found", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("asrprep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("ASRPREP_INPUT_DIR")); v != "" {
		cfg.Paths.InputDir = v
	}
	if v := strings.TrimSpace(os.Getenv("ASRPREP_OUTPUT_DIR")); v != "" {
		cfg.Paths.OutputDir = v
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
