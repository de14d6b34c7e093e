package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/forPelevin/asrprep/internal/ports/adapters/wavio"
	"github.com/forPelevin/asrprep/internal/types"
)

// bitexact keeps encoder tags and metadata out of the output so reruns
// produce identical files.
var bitexact = []string{"-map_metadata", "-1", "-fflags", "+bitexact", "-flags:a", "+bitexact"}

type Adapter struct {
	ffmpeg     string
	channels   int
	encodeArgs []string
}

// New returns an adapter that downmixes decoded audio to channels (0 keeps
// the source layout) and appends encodeArgs when writing non-WAV clips.
func New(ffmpegPath string, channels int, encodeArgs []string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Adapter{ffmpeg: ffmpegPath, channels: channels, encodeArgs: encodeArgs}
}

func (a *Adapter) Decode(ctx context.Context, inPath, workDir string) (types.Audio, error) {
	outWav := filepath.Join(workDir, "decoded.wav")
	args := []string{
		"-y",
		"-v", "error",
		"-i", inPath,
		"-vn",
	}
	if a.channels > 0 {
		args = append(args, "-ac", strconv.Itoa(a.channels))
	}
	args = append(args, bitexact...)
	args = append(args,
		"-c:a", "pcm_s16le",
		"-f", "wav",
		outWav,
	)
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Audio{}, fmt.Errorf("ffmpeg decode audio: %w\n%s", err, string(b))
	}
	defer os.Remove(outWav)
	return wavio.ReadFile(outWav)
}

func (a *Adapter) Encode(ctx context.Context, clip types.Audio, outPath string) error {
	if strings.EqualFold(filepath.Ext(outPath), ".wav") {
		return wavio.WriteFile(outPath, clip)
	}

	srcWav := outPath + ".src.wav"
	if err := wavio.WriteFile(srcWav, clip); err != nil {
		return err
	}
	defer os.Remove(srcWav)

	args := []string{
		"-y",
		"-v", "error",
		"-i", srcWav,
	}
	args = append(args, bitexact...)
	args = append(args, a.encodeArgs...)
	args = append(args, outPath)
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg encode clip: %w\n%s", err, string(b))
	}
	return nil
}
