package ports

import (
	"context"

	"github.com/forPelevin/asrprep/internal/types"
)

type AudioCodec interface {
	// Decode reads an encoded audio file into 16-bit PCM. workDir holds any
	// intermediate files.
	Decode(ctx context.Context, inPath, workDir string) (types.Audio, error)
	// Encode writes PCM to outPath; the container is chosen from its extension.
	Encode(ctx context.Context, a types.Audio, outPath string) error
}

// NumberSpeller converts non-negative integers to words.
type NumberSpeller interface {
	Year(n int64) string
	Cardinal(n int64) string
}

type DatasetWriter interface {
	Exists(recordingID string) (bool, error)
	Write(ctx context.Context, recordingID string, labels []types.NormalizedCue, clips []types.OutputClip) error
	Discard(recordingID string) error
}
