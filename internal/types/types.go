package types

import (
	"errors"
	"fmt"
)

// BytesPerSample is fixed: decoded audio is always 16-bit PCM.
const BytesPerSample = 2

type Cue struct {
	Index   int
	StartMS int64
	EndMS   int64
	Text    string
}

func (c Cue) Slice() TimeSlice {
	return TimeSlice{Index: c.Index, StartMS: c.StartMS, EndMS: c.EndMS}
}

type NormalizedCue struct {
	Index int
	Label string
}

type TimeSlice struct {
	Index   int
	StartMS int64
	EndMS   int64
}

// Audio is a decoded, interleaved 16-bit little-endian PCM buffer.
type Audio struct {
	SampleRate uint32
	Channels   uint16
	Data       []byte
}

func (a Audio) BlockAlign() int { return int(a.Channels) * BytesPerSample }

func (a Audio) Frames() int64 {
	if a.BlockAlign() == 0 {
		return 0
	}
	return int64(len(a.Data) / a.BlockAlign())
}

func (a Audio) DurationMS() int64 {
	if a.SampleRate == 0 {
		return 0
	}
	return a.Frames() * 1000 / int64(a.SampleRate)
}

var ErrAudioRange = errors.New("audio range out of bounds")

// Slice returns the frames covering [startMS, endMS). The returned Audio shares
// the underlying buffer.
func (a Audio) Slice(startMS, endMS int64) (Audio, error) {
	if startMS < 0 || endMS <= startMS {
		return Audio{}, fmt.Errorf("%w: [%d, %d)", ErrAudioRange, startMS, endMS)
	}
	if endMS > a.DurationMS() {
		return Audio{}, fmt.Errorf("%w: [%d, %d) exceeds %dms", ErrAudioRange, startMS, endMS, a.DurationMS())
	}
	from := startMS * int64(a.SampleRate) / 1000
	to := endMS * int64(a.SampleRate) / 1000
	align := int64(a.BlockAlign())
	return Audio{
		SampleRate: a.SampleRate,
		Channels:   a.Channels,
		Data:       a.Data[from*align : to*align],
	}, nil
}

type Recording struct {
	ID           string
	Folder       string
	SubtitlePath string
	AudioPath    string
	Cues         []Cue
	Audio        Audio
	DurationMS   int64
}

type TranscriptLine struct {
	RecordingID string
	Index       int
	Label       string
}

func (l TranscriptLine) String() string {
	return fmt.Sprintf("%s-%d %s", l.RecordingID, l.Index, l.Label)
}

type OutputClip struct {
	RecordingID string
	Index       int
	Audio       Audio
}

// Verdict is the outcome of alignment validation. Check and Value name the
// heuristic that rejected the recording and the metric it measured.
type Verdict struct {
	Accepted bool
	Check    string
	Value    float64
	Reason   string
}
