// Package alignment decides whether a subtitle track is timed well enough
// against its audio to be sliced into training clips.
package alignment

import (
	"fmt"
	"time"

	"github.com/forPelevin/asrprep/internal/types"
)

const (
	CheckCues        = "cues"
	CheckMSAccuracy  = "ms_accuracy"
	CheckIntroTiming = "intro_timing"
)

type Thresholds struct {
	// Residue is the millisecond remainder (start % 1000) stamped by tools that
	// produce inaccurate timings.
	Residue int64
	// MaxResidueHits is the largest number of cues allowed to carry Residue.
	MaxResidueHits int
	// MaxTrailingGap is the largest accepted span of audio after the last cue.
	MaxTrailingGap time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Residue:        820,
		MaxResidueHits: 20,
		MaxTrailingGap: 7 * time.Second,
	}
}

type Validator struct{ th Thresholds }

func New(th Thresholds) Validator { return Validator{th: th} }

// Validate runs the checks in order and returns the first rejection.
func (v Validator) Validate(cues []types.Cue, durationMS int64) types.Verdict {
	if len(cues) == 0 {
		return types.Verdict{Check: CheckCues, Reason: "no cues parsed"}
	}

	if hits := ResidueHits(cues, v.th.Residue); hits > v.th.MaxResidueHits {
		return types.Verdict{
			Check:  CheckMSAccuracy,
			Value:  float64(hits),
			Reason: fmt.Sprintf("%d cues start at %03dms (max %d)", hits, v.th.Residue, v.th.MaxResidueHits),
		}
	}

	if gap := TrailingGap(cues, durationMS); gap > v.th.MaxTrailingGap {
		return types.Verdict{
			Check:  CheckIntroTiming,
			Value:  gap.Seconds(),
			Reason: fmt.Sprintf("audio runs %.3fs past the last cue (max %s)", gap.Seconds(), v.th.MaxTrailingGap),
		}
	}

	return types.Verdict{Accepted: true}
}

func ResidueHits(cues []types.Cue, residue int64) int {
	n := 0
	for _, c := range cues {
		if c.StartMS%1000 == residue {
			n++
		}
	}
	return n
}

// TrailingGap is the audio duration left after the latest cue end. It is
// negative when the cues run past the audio.
func TrailingGap(cues []types.Cue, durationMS int64) time.Duration {
	var lastEnd int64
	for _, c := range cues {
		lastEnd = max(lastEnd, c.EndMS)
	}
	return time.Duration(durationMS-lastEnd) * time.Millisecond
}
