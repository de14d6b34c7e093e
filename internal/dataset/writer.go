// Package dataset persists accepted recordings in the LibriSpeech-style
// layout: {root}/{id}/{id}.trans.txt plus {root}/{id}/{id}-{index}.{ext}.
//
// A recording is first written to a staging directory next to its final
// location and renamed into place once every file exists, so readers never
// see a recording with clips but no transcript (or the reverse).
package dataset

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/forPelevin/asrprep/internal/types"
)

const stagingPrefix = ".staging-"

var ErrCountMismatch = errors.New("transcript and clip counts differ")

type Encoder interface {
	Encode(ctx context.Context, a types.Audio, outPath string) error
}

type Writer struct {
	root    string
	ext     string
	encoder Encoder
}

func New(root, ext string, enc Encoder) *Writer {
	return &Writer{root: root, ext: strings.TrimPrefix(ext, "."), encoder: enc}
}

func (w *Writer) Dir(recordingID string) string {
	return filepath.Join(w.root, recordingID)
}

func TranscriptName(recordingID string) string {
	return recordingID + ".trans.txt"
}

func ClipName(recordingID string, index int, ext string) string {
	return fmt.Sprintf("%s-%d.%s", recordingID, index, strings.TrimPrefix(ext, "."))
}

func (w *Writer) Exists(recordingID string) (bool, error) {
	info, err := os.Stat(w.Dir(recordingID))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// Write stages the transcript and every clip, then swaps the staging
// directory in for any previous output of the recording.
func (w *Writer) Write(ctx context.Context, recordingID string, labels []types.NormalizedCue, clips []types.OutputClip) error {
	if err := checkPairs(recordingID, labels, clips); err != nil {
		return err
	}
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return err
	}
	staging, err := os.MkdirTemp(w.root, stagingPrefix+recordingID+"-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(staging)
		}
	}()
	if err := os.Chmod(staging, 0o755); err != nil {
		return err
	}

	if err := writeTranscript(filepath.Join(staging, TranscriptName(recordingID)), recordingID, labels); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	for _, c := range clips {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(staging, ClipName(recordingID, c.Index, w.ext))
		if err := w.encoder.Encode(ctx, c.Audio, path); err != nil {
			return fmt.Errorf("write clip %d: %w", c.Index, err)
		}
	}

	if err := w.swap(staging, w.Dir(recordingID)); err != nil {
		return err
	}
	committed = true
	return nil
}

func (w *Writer) swap(staging, final string) error {
	old := ""
	if _, err := os.Stat(final); err == nil {
		old = staging + ".old"
		if err := os.Rename(final, old); err != nil {
			return fmt.Errorf("move previous output aside: %w", err)
		}
	}
	if err := os.Rename(staging, final); err != nil {
		if old != "" {
			_ = os.Rename(old, final)
		}
		return fmt.Errorf("commit output: %w", err)
	}
	if old != "" {
		return os.RemoveAll(old)
	}
	return nil
}

// Discard removes any output and leftover staging directories of a recording.
func (w *Writer) Discard(recordingID string) error {
	if err := os.RemoveAll(w.Dir(recordingID)); err != nil {
		return err
	}
	leftovers, err := filepath.Glob(filepath.Join(w.root, stagingPrefix+recordingID+"-*"))
	if err != nil {
		return err
	}
	for _, p := range leftovers {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return nil
}

// CleanStaging removes staging directories left by an interrupted run. Callers
// must hold the output lock.
func (w *Writer) CleanStaging() (int, error) {
	leftovers, err := filepath.Glob(filepath.Join(w.root, stagingPrefix+"*"))
	if err != nil {
		return 0, err
	}
	for _, p := range leftovers {
		if err := os.RemoveAll(p); err != nil {
			return 0, err
		}
	}
	return len(leftovers), nil
}

// Prune removes recording directories whose id is not in keep, so the output
// mirrors the current batch. Only all-digit directory names are considered
// recordings. Callers must hold the output lock.
func (w *Writer) Prune(keep []string) ([]string, error) {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var removed []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || !isRecordingID(name) || slices.Contains(keep, name) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(w.root, name)); err != nil {
			return removed, err
		}
		removed = append(removed, name)
	}
	return removed, nil
}

func isRecordingID(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func checkPairs(recordingID string, labels []types.NormalizedCue, clips []types.OutputClip) error {
	if len(labels) != len(clips) {
		return fmt.Errorf("%w: %d labels, %d clips", ErrCountMismatch, len(labels), len(clips))
	}
	want := make(map[int]struct{}, len(labels))
	for _, l := range labels {
		want[l.Index] = struct{}{}
	}
	if len(want) != len(labels) {
		return fmt.Errorf("%w: duplicate label index", ErrCountMismatch)
	}
	for _, c := range clips {
		if c.RecordingID != recordingID {
			return fmt.Errorf("clip %d belongs to recording %q, not %q", c.Index, c.RecordingID, recordingID)
		}
		if _, ok := want[c.Index]; !ok {
			return fmt.Errorf("%w: clip %d has no label", ErrCountMismatch, c.Index)
		}
		delete(want, c.Index)
	}
	return nil
}

func writeTranscript(path, recordingID string, labels []types.NormalizedCue) error {
	sorted := slices.Clone(labels)
	slices.SortStableFunc(sorted, func(a, b types.NormalizedCue) int { return cmp.Compare(a.Index, b.Index) })

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	for _, l := range sorted {
		line := types.TranscriptLine{RecordingID: recordingID, Index: l.Index, Label: l.Label}
		if _, err := bw.WriteString(line.String() + "\n"); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
