package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/forPelevin/asrprep/internal/domain/alignment"
	"github.com/forPelevin/asrprep/internal/domain/subtitles"
	"github.com/forPelevin/asrprep/internal/ports/adapters/wavio"
	"github.com/forPelevin/asrprep/internal/types"
	"github.com/forPelevin/asrprep/internal/usecase"
)

// fakeCodec returns silence whose length depends on the recording folder.
type fakeCodec struct {
	durations map[string]int64
}

func (f fakeCodec) Decode(_ context.Context, inPath, _ string) (types.Audio, error) {
	ms, ok := f.durations[filepath.Base(filepath.Dir(inPath))]
	if !ok {
		return types.Audio{}, fmt.Errorf("no fixture for %s", inPath)
	}
	return types.Audio{SampleRate: 1000, Channels: 1, Data: make([]byte, ms*2)}, nil
}

func (f fakeCodec) Encode(_ context.Context, a types.Audio, outPath string) error {
	return wavio.WriteFile(outPath, a)
}

func writeFolder(t *testing.T, root, name string, withAudio bool, cues ...[2]int64) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	var b strings.Builder
	for i, c := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\nline %d\n\n", i+1, subtitles.FormatTimecode(c[0]), subtitles.FormatTimecode(c[1]), i+1)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".srt"), []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write subtitles: %v", err)
	}
	if withAudio {
		if err := os.WriteFile(filepath.Join(dir, name+".mp3"), []byte("mp3"), 0o644); err != nil {
			t.Fatalf("write audio: %v", err)
		}
	}
}

func testConfig(t *testing.T, in string, codec fakeCodec) Config {
	t.Helper()
	return Config{
		InputDir:   in,
		OutputDir:  filepath.Join(t.TempDir(), "train"),
		WorkDir:    t.TempDir(),
		AudioExt:   "mp3",
		OutputExt:  "wav",
		Thresholds: alignment.DefaultThresholds(),
		Workers:    2,
		Codec:      codec,
	}
}

func TestDiscover_SortsAndNumbers(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zeta", "alpha", ".hidden", "mid"} {
		if err := os.Mkdir(filepath.Join(root, name), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	jobs, err := Discover(root)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(jobs) != len(want) {
		t.Fatalf("expected %d jobs, got %+v", len(want), jobs)
	}
	for i, j := range jobs {
		if j.ID != fmt.Sprint(i) || filepath.Base(j.Folder) != want[i] {
			t.Fatalf("job %d = %+v, want id %d folder %s", i, j, i, want[i])
		}
	}
}

func TestDiscover_MissingRoot(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error")
	}
}

func TestRun_MixedBatch(t *testing.T) {
	in := t.TempDir()
	writeFolder(t, in, "a-good", true, [2]int64{0, 1000}, [2]int64{1000, 2500})
	writeFolder(t, in, "b-late", true, [2]int64{0, 1000})
	writeFolder(t, in, "c-noaudio", false, [2]int64{0, 1000})

	cfg := testConfig(t, in, fakeCodec{durations: map[string]int64{"a-good": 3000, "b-late": 11000}})
	rep, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.RunID == "" {
		t.Fatal("expected run id")
	}

	want := []usecase.Status{usecase.StatusAccepted, usecase.StatusRejected, usecase.StatusFailed}
	for i, o := range rep.Recordings {
		if o.Status != want[i] {
			t.Fatalf("recording %d status %q, want %q (%+v)", i, o.Status, want[i], o)
		}
	}
	if got := rep.Recordings[1].Check; got != alignment.CheckIntroTiming {
		t.Fatalf("expected intro timing rejection, got %q", got)
	}
	failed := rep.Failed()
	if len(failed) != 1 || failed[0].Stage != usecase.StageInputs || !strings.Contains(failed[0].Error, "missing") {
		t.Fatalf("unexpected failures %+v", failed)
	}

	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "0", "0.trans.txt")); err != nil {
		t.Fatalf("expected transcript for accepted recording: %v", err)
	}
	for _, id := range []string{"1", "2"} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, id)); !os.IsNotExist(err) {
			t.Fatalf("expected no output for recording %s, got %v", id, err)
		}
	}
	clips, _ := filepath.Glob(filepath.Join(cfg.OutputDir, "0", "0-*.wav"))
	if len(clips) != 2 {
		t.Fatalf("expected 2 clips, got %v", clips)
	}
}

func TestRun_ShrunkBatchRemovesStaleRecordings(t *testing.T) {
	in := t.TempDir()
	writeFolder(t, in, "a", true, [2]int64{0, 1000})
	writeFolder(t, in, "b", true, [2]int64{0, 1000}, [2]int64{1000, 2000})
	cfg := testConfig(t, in, fakeCodec{durations: map[string]int64{"a": 2000, "b": 3000}})

	if _, err := Run(context.Background(), cfg); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := os.RemoveAll(filepath.Join(in, "a")); err != nil {
		t.Fatalf("remove folder: %v", err)
	}
	rep, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(rep.Recordings) != 1 || filepath.Base(rep.Recordings[0].Folder) != "b" {
		t.Fatalf("unexpected report %+v", rep.Recordings)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "1")); !os.IsNotExist(err) {
		t.Fatalf("expected stale recording 1 removed, got %v", err)
	}
	b, err := os.ReadFile(filepath.Join(cfg.OutputDir, "0", "0.trans.txt"))
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if want := "0-1 line one\n0-2 line two\n"; string(b) != want {
		t.Fatalf("transcript = %q, want %q", string(b), want)
	}
}

func TestRun_SkipExisting(t *testing.T) {
	in := t.TempDir()
	writeFolder(t, in, "a", true, [2]int64{0, 1000})
	cfg := testConfig(t, in, fakeCodec{durations: map[string]int64{"a": 2000}})

	if _, err := Run(context.Background(), cfg); err != nil {
		t.Fatalf("first run: %v", err)
	}
	cfg.SkipExisting = true
	rep, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if rep.Count(usecase.StatusSkipped) != 1 {
		t.Fatalf("expected skip, got %+v", rep.Recordings)
	}
}

func TestRun_RemovesLeftoverStaging(t *testing.T) {
	in := t.TempDir()
	cfg := testConfig(t, in, fakeCodec{})
	stale := filepath.Join(cfg.OutputDir, ".staging-4-123")
	if err := os.MkdirAll(stale, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := Run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected staging dir removed, got %v", err)
	}
}

func TestRun_LockHeld(t *testing.T) {
	in := t.TempDir()
	cfg := testConfig(t, in, fakeCodec{})
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	held := flock.New(filepath.Join(cfg.OutputDir, lockName))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("take lock: %v %v", ok, err)
	}
	defer held.Unlock()

	if _, err := Run(context.Background(), cfg); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRun_CancelledBeforeDispatch(t *testing.T) {
	in := t.TempDir()
	writeFolder(t, in, "a", true, [2]int64{0, 1000})
	writeFolder(t, in, "b", true, [2]int64{0, 1000})
	cfg := testConfig(t, in, fakeCodec{durations: map[string]int64{"a": 2000, "b": 2000}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := Run(ctx, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if rep.Count(StatusCancelled) != 2 {
		t.Fatalf("expected all recordings cancelled, got %+v", rep.Recordings)
	}
}

func TestConfigValidate(t *testing.T) {
	in := t.TempDir()
	base := Config{
		InputDir:   in,
		OutputDir:  filepath.Join(in, "..", "out"),
		AudioExt:   "mp3",
		Workers:    1,
		Thresholds: alignment.Thresholds{MaxResidueHits: 20, MaxTrailingGap: 7 * time.Second},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	tests := map[string]func(c *Config){
		"missing input": func(c *Config) { c.InputDir = filepath.Join(in, "nope") },
		"empty output":  func(c *Config) { c.OutputDir = "" },
		"same dirs":     func(c *Config) { c.OutputDir = in },
		"no audio ext":  func(c *Config) { c.AudioExt = "" },
		"zero workers":  func(c *Config) { c.Workers = 0 },
		"bad channels":  func(c *Config) { c.Channels = 6 },
		"negative gap":  func(c *Config) { c.Thresholds.MaxTrailingGap = -time.Second },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
