package config

import (
	"runtime"
	"time"
)

const (
	defaultInputDir       = "data"
	defaultOutputDir      = "dataset/train"
	defaultAudioExt       = "mp3"
	defaultChannels       = 1
	defaultFFmpegPath     = "ffmpeg"
	defaultMSResidue      = 820
	defaultMaxResidueHits = 20
	defaultMaxTrailingGap = 7.0
	defaultLogLevel       = "info"
	defaultLogFormat      = "auto"

	ExistingOverwrite = "overwrite"
	ExistingSkip      = "skip"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:  defaultInputDir,
			OutputDir: defaultOutputDir,
		},
		Audio: Audio{
			InputExt:   defaultAudioExt,
			Channels:   defaultChannels,
			FFmpegPath: defaultFFmpegPath,
		},
		Validation: Validation{
			MSResidue:             defaultMSResidue,
			MaxResidueHits:        defaultMaxResidueHits,
			MaxTrailingGapSeconds: defaultMaxTrailingGap,
		},
		Output: Output{
			Existing: ExistingOverwrite,
		},
		Workers: Workers{
			Count: runtime.NumCPU(),
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// ClipExt is the extension clips are written with: OutputExt when set,
// otherwise the input extension.
func (a Audio) ClipExt() string {
	if a.OutputExt != "" {
		return a.OutputExt
	}
	return a.InputExt
}

// MaxTrailingGap returns the intro-timing threshold as a duration.
func (v Validation) MaxTrailingGap() time.Duration {
	return time.Duration(v.MaxTrailingGapSeconds * float64(time.Second))
}
