package usecase

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/forPelevin/asrprep/internal/domain/alignment"
	"github.com/forPelevin/asrprep/internal/domain/labels"
	"github.com/forPelevin/asrprep/internal/domain/segment"
	"github.com/forPelevin/asrprep/internal/domain/subtitles"
	"github.com/forPelevin/asrprep/internal/ports"
	"github.com/forPelevin/asrprep/internal/types"
)

type Deps struct {
	Codec   ports.AudioCodec
	Speller ports.NumberSpeller
	Writer  ports.DatasetWriter
}

type Usecase struct {
	d          Deps
	normalizer labels.Normalizer
	validator  alignment.Validator
}

func New(d Deps, th alignment.Thresholds) Usecase {
	return Usecase{
		d:          d,
		normalizer: labels.New(d.Speller),
		validator:  alignment.New(th),
	}
}

type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

type Input struct {
	RecordingID  string
	Folder       string
	Inputs       InputOptions
	WorkDir      string
	SkipExisting bool
	Logger       *zap.Logger
}

type Result struct {
	Status     Status
	Verdict    types.Verdict
	Cues       int
	DurationMS int64
}

// Run processes one recording: parse, normalize, decode, validate, then
// either discard (rejected) or slice and write (accepted). Any error leaves
// no output for the recording.
func (u Usecase) Run(ctx context.Context, in Input) (res Result, err error) {
	log := in.Logger
	if log == nil {
		log = zap.NewNop()
	}
	id := in.RecordingID

	if in.SkipExisting {
		exists, err := u.d.Writer.Exists(id)
		if err != nil {
			return Result{}, Wrap(StageWrite, err)
		}
		if exists {
			log.Info("output exists, skipping")
			return Result{Status: StatusSkipped}, nil
		}
	}

	defer func() {
		if err == nil {
			return
		}
		if derr := u.d.Writer.Discard(id); derr != nil {
			log.Error("discard after failure", zap.Error(derr))
		}
	}()

	subPath, audioPath, err := ResolveInputs(in.Folder, in.Inputs)
	if err != nil {
		return Result{}, Wrap(StageInputs, err)
	}
	rec := types.Recording{ID: id, Folder: in.Folder, SubtitlePath: subPath, AudioPath: audioPath}

	log.Debug("parsing subtitles", zap.String("subtitles", subPath))
	rec.Cues, err = subtitles.ReadCues(subPath)
	if err != nil {
		return Result{}, Wrap(StageParse, err)
	}
	res.Cues = len(rec.Cues)
	norm := u.normalizer.NormalizeCues(rec.Cues)

	log.Debug("decoding audio", zap.String("audio", audioPath))
	workDir, err := os.MkdirTemp(in.WorkDir, "rec-"+id+"-")
	if err != nil {
		return res, Wrap(StageDecode, fmt.Errorf("create work dir: %w", err))
	}
	defer os.RemoveAll(workDir)
	rec.Audio, err = u.d.Codec.Decode(ctx, audioPath, workDir)
	if err != nil {
		return res, Wrap(StageDecode, err)
	}
	rec.DurationMS = rec.Audio.DurationMS()
	res.DurationMS = rec.DurationMS

	res.Verdict = u.validator.Validate(rec.Cues, rec.DurationMS)
	if !res.Verdict.Accepted {
		if err := u.d.Writer.Discard(id); err != nil {
			return res, Wrap(StageDiscard, err)
		}
		log.Warn("recording rejected",
			zap.String("check", res.Verdict.Check),
			zap.Float64("value", res.Verdict.Value),
			zap.String("reason", res.Verdict.Reason),
		)
		res.Status = StatusRejected
		return res, nil
	}

	slices := lo.Map(rec.Cues, func(c types.Cue, _ int) types.TimeSlice { return c.Slice() })
	clips, err := segment.Split(id, rec.Audio, slices)
	if err != nil {
		return res, Wrap(StageSegment, err)
	}

	if err := u.d.Writer.Write(ctx, id, norm, clips); err != nil {
		return res, Wrap(StageWrite, err)
	}
	log.Info("recording written", zap.Int("clips", len(clips)), zap.Int64("duration_ms", rec.DurationMS))
	res.Status = StatusAccepted
	return res, nil
}
