// Package segment slices decoded recording audio into per-cue clips.
package segment

import (
	"errors"
	"fmt"

	"github.com/forPelevin/asrprep/internal/types"
)

var ErrOutOfBounds = errors.New("slice out of audio bounds")

// Split extracts [StartMS, EndMS) for every slice, in slice order. Any bad
// slice fails the whole call.
func Split(recordingID string, a types.Audio, slices []types.TimeSlice) ([]types.OutputClip, error) {
	out := make([]types.OutputClip, 0, len(slices))
	for _, s := range slices {
		clip, err := a.Slice(s.StartMS, s.EndMS)
		if err != nil {
			return nil, fmt.Errorf("%w: cue %d: %w", ErrOutOfBounds, s.Index, err)
		}
		out = append(out, types.OutputClip{RecordingID: recordingID, Index: s.Index, Audio: clip})
	}
	return out, nil
}
