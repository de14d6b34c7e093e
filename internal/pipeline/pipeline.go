package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/forPelevin/asrprep/internal/dataset"
	"github.com/forPelevin/asrprep/internal/domain/alignment"
	"github.com/forPelevin/asrprep/internal/ports"
	"github.com/forPelevin/asrprep/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/asrprep/internal/ports/adapters/numwords"
	"github.com/forPelevin/asrprep/internal/usecase"
)

const lockName = ".asrprep.lock"

var ErrLocked = errors.New("output directory is locked by another run")

type Config struct {
	InputDir  string
	OutputDir string
	// WorkDir holds decoded intermediates; empty means the OS temp dir.
	WorkDir string

	AudioExt     string
	OutputExt    string
	SubtitleExts []string
	Channels     int
	FFmpegPath   string
	EncodeArgs   []string

	Thresholds   alignment.Thresholds
	SkipExisting bool
	Workers      int
	Logger       *zap.Logger

	// Codec replaces the ffmpeg adapter when set.
	Codec ports.AudioCodec
}

func (c Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("input dir is empty")
	}
	info, err := os.Stat(c.InputDir)
	if err != nil {
		return fmt.Errorf("stat input dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input %s is not a directory", c.InputDir)
	}
	if c.OutputDir == "" {
		return errors.New("output dir is empty")
	}
	if filepath.Clean(c.InputDir) == filepath.Clean(c.OutputDir) {
		return errors.New("output dir must differ from input dir")
	}
	if c.AudioExt == "" {
		return errors.New("audio ext is empty")
	}
	if c.Channels < 0 || c.Channels > 2 {
		return fmt.Errorf("channels must be 0, 1 or 2")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0")
	}
	if c.Thresholds.MaxResidueHits < 0 || c.Thresholds.MaxTrailingGap < 0 {
		return fmt.Errorf("validation thresholds must be >= 0")
	}
	return nil
}

// Job is one recording folder with its assigned id.
type Job struct {
	ID     string
	Folder string
}

// Discover lists the recording folders directly under inputDir, sorted by
// name, and numbers them from 0. Hidden entries and plain files are ignored.
func Discover(inputDir string) ([]Job, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	// os.ReadDir returns entries sorted by file name.
	var jobs []Job
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		jobs = append(jobs, Job{
			ID:     strconv.Itoa(len(jobs)),
			Folder: filepath.Join(inputDir, e.Name()),
		})
	}
	return jobs, nil
}

// Run processes every recording under cfg.InputDir. A failing recording is
// recorded in the report and does not stop the batch; the returned error is
// reserved for batch-level problems.
func Run(ctx context.Context, cfg Config) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	jobs, err := Discover(cfg.InputDir)
	if err != nil {
		return Report{}, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("create output dir: %w", err)
	}
	lock := flock.New(filepath.Join(cfg.OutputDir, lockName))
	locked, err := lock.TryLock()
	if err != nil {
		return Report{}, fmt.Errorf("lock output dir: %w", err)
	}
	if !locked {
		return Report{}, fmt.Errorf("%w: %s", ErrLocked, cfg.OutputDir)
	}
	defer func() { _ = lock.Unlock() }()

	// adapters
	codec := cfg.Codec
	if codec == nil {
		codec = ffmpeg.New(cfg.FFmpegPath, cfg.Channels, cfg.EncodeArgs)
	}
	outExt := cfg.OutputExt
	if outExt == "" {
		outExt = cfg.AudioExt
	}
	writer := dataset.New(cfg.OutputDir, outExt, codec)

	uc := usecase.New(usecase.Deps{
		Codec:   codec,
		Speller: numwords.New(),
		Writer:  writer,
	}, cfg.Thresholds)

	report := Report{RunID: uuid.NewString(), Recordings: make([]Outcome, len(jobs))}
	log = log.With(zap.String("run_id", report.RunID))

	if n, err := writer.CleanStaging(); err != nil {
		log.Warn("clean staging", zap.Error(err))
	} else if n > 0 {
		log.Info("removed leftover staging dirs", zap.Int("count", n))
	}

	// Ids follow the sorted folder list; any other recording dir is stale.
	if !cfg.SkipExisting {
		ids := lo.Map(jobs, func(j Job, _ int) string { return j.ID })
		removed, err := writer.Prune(ids)
		if err != nil {
			return Report{}, fmt.Errorf("prune output dir: %w", err)
		}
		if len(removed) > 0 {
			log.Info("removed recordings no longer in the batch", zap.Strings("recordings", removed))
		}
	}

	log.Info("batch started",
		zap.String("input", cfg.InputDir),
		zap.String("output", cfg.OutputDir),
		zap.Int("recordings", len(jobs)),
		zap.Int("workers", cfg.Workers),
	)

	in := usecase.InputOptions{AudioExt: cfg.AudioExt, SubtitleExts: cfg.SubtitleExts}

	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for i, job := range jobs {
		report.Recordings[i] = Outcome{ID: job.ID, Folder: job.Folder, Status: StatusCancelled}
		if ctx.Err() != nil {
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			recLog := log.With(zap.String("recording", job.ID), zap.String("folder", job.Folder))
			res, err := uc.Run(ctx, usecase.Input{
				RecordingID:  job.ID,
				Folder:       job.Folder,
				Inputs:       in,
				WorkDir:      cfg.WorkDir,
				SkipExisting: cfg.SkipExisting,
				Logger:       recLog,
			})
			out := newOutcome(job, res, err)
			if err != nil {
				recLog.Error("recording failed", zap.String("stage", out.Stage), zap.Error(err))
			}
			report.Recordings[i] = out
			return nil
		})
	}
	_ = g.Wait()

	log.Info("batch finished",
		zap.Int("accepted", report.Count(usecase.StatusAccepted)),
		zap.Int("rejected", report.Count(usecase.StatusRejected)),
		zap.Int("skipped", report.Count(usecase.StatusSkipped)),
		zap.Int("failed", report.Count(usecase.StatusFailed)),
	)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// ensure adapters implement ports
var _ ports.AudioCodec = (*ffmpeg.Adapter)(nil)
var _ ports.NumberSpeller = numwords.English{}
var _ ports.DatasetWriter = (*dataset.Writer)(nil)
