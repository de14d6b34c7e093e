// Package wavio reads and writes 16-bit PCM WAV files.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/youpy/go-wav"

	"github.com/forPelevin/asrprep/internal/types"
)

const formatPCM = 1

var ErrUnsupportedFormat = errors.New("unsupported wav format")

func ReadFile(path string) (types.Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Audio{}, err
	}
	defer f.Close()

	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return types.Audio{}, fmt.Errorf("read wav format: %w", err)
	}
	if format.AudioFormat != formatPCM || format.BitsPerSample != 8*types.BytesPerSample {
		return types.Audio{}, fmt.Errorf("%w: format=%d bits=%d", ErrUnsupportedFormat, format.AudioFormat, format.BitsPerSample)
	}
	if format.NumChannels == 0 || format.SampleRate == 0 {
		return types.Audio{}, fmt.Errorf("%w: channels=%d rate=%d", ErrUnsupportedFormat, format.NumChannels, format.SampleRate)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return types.Audio{}, fmt.Errorf("read wav data: %w", err)
	}
	a := types.Audio{SampleRate: format.SampleRate, Channels: format.NumChannels}
	// drop a trailing partial frame
	a.Data = data[:len(data)-len(data)%a.BlockAlign()]
	return a, nil
}

func Write(w io.Writer, a types.Audio) error {
	ww := wav.NewWriter(w, uint32(a.Frames()), a.Channels, a.SampleRate, 8*types.BytesPerSample)
	if _, err := ww.Write(a.Data); err != nil {
		return fmt.Errorf("write wav data: %w", err)
	}
	return nil
}

func WriteFile(path string, a types.Audio) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := Write(f, a); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
