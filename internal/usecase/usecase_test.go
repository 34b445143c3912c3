package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jeremym/clipsample/internal/domain/window"
	"github.com/jeremym/clipsample/internal/types"
)

type fakeVideoTool struct {
	durations  map[string]float64
	probeErr   map[string]error
	extractErr map[string]error

	extracted []string // inputs passed to ExtractClip, in call order
	windows   []types.TimeWindow
}

func (f *fakeVideoTool) ProbeDuration(_ context.Context, path string) (float64, error) {
	if err := f.probeErr[path]; err != nil {
		return 0, err
	}
	return f.durations[path], nil
}

func (f *fakeVideoTool) ExtractClip(_ context.Context, in string, start, end float64, _ string) error {
	f.extracted = append(f.extracted, in)
	f.windows = append(f.windows, types.TimeWindow{Start: start, End: end})
	if err := f.extractErr[in]; err != nil {
		return err
	}
	return nil
}

func newTestUsecase(video *fakeVideoTool) Usecase {
	return New(Deps{
		Video: video,
		Rand:  rand.New(rand.NewPCG(42, 43)),
		Log:   zerolog.Nop(),
	})
}

func longSpec() types.ClipSpec {
	return types.ClipSpec{Duration: 5, Policy: types.BufferAbsolute, Buffer: 1200}
}

func candidates(n int) ([]types.SourceItem, map[string]float64) {
	items := make([]types.SourceItem, 0, n)
	durations := map[string]float64{}
	for i := 1; i <= n; i++ {
		path := fmt.Sprintf("/videos/movie%d.mp4", i)
		items = append(items, types.SourceItem{Path: path})
		durations[path] = 3000
	}
	return items, durations
}

func TestRunBatch_FailureIsolation(t *testing.T) {
	t.Parallel()

	items, durations := candidates(5)
	bad := items[2].Path
	video := &fakeVideoTool{
		durations:  durations,
		extractErr: map[string]error{bad: errors.New("encoder exploded")},
	}

	res, err := newTestUsecase(video).RunBatch(context.Background(), BatchInput{
		Candidates: items,
		Count:      5,
		Spec:       longSpec(),
		OutDir:     t.TempDir(),
	})
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if res.Processed() != 4 || res.Failed() != 1 || res.Skipped() != 0 {
		t.Fatalf("got processed=%d failed=%d skipped=%d, want 4/1/0",
			res.Processed(), res.Failed(), res.Skipped())
	}
	if len(video.extracted) != 5 {
		t.Fatalf("extract called %d times, want 5 (batch must not abort)", len(video.extracted))
	}
	for _, it := range res.Items {
		if it.Path == bad {
			if it.Status != types.StatusFailed || !strings.Contains(it.Reason, "encoder exploded") {
				t.Fatalf("bad item recorded as %q (%q)", it.Status, it.Reason)
			}
		}
	}
}

func TestRunBatch_ProbeErrorIsSkipped(t *testing.T) {
	t.Parallel()

	items, durations := candidates(3)
	bad := items[0].Path
	video := &fakeVideoTool{
		durations: durations,
		probeErr:  map[string]error{bad: errors.New("moov atom not found")},
	}

	res, err := newTestUsecase(video).RunBatch(context.Background(), BatchInput{
		Candidates: items,
		Count:      3,
		Spec:       longSpec(),
		OutDir:     t.TempDir(),
	})
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if res.Processed() != 2 || res.Failed() != 0 || res.Skipped() != 1 {
		t.Fatalf("got processed=%d failed=%d skipped=%d, want 2/0/1",
			res.Processed(), res.Failed(), res.Skipped())
	}
	skipped := res.SkippedItems()
	if len(skipped) != 1 || skipped[0].Path != bad {
		t.Fatalf("unexpected skipped items: %+v", skipped)
	}
}

func TestRunBatch_TooShortIsSkipped(t *testing.T) {
	t.Parallel()

	items, durations := candidates(2)
	durations[items[1].Path] = 10 // cannot fit 2*1200s + 5s

	video := &fakeVideoTool{durations: durations}
	res, err := newTestUsecase(video).RunBatch(context.Background(), BatchInput{
		Candidates: items,
		Count:      2,
		Spec:       longSpec(),
		OutDir:     t.TempDir(),
	})
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if res.Processed() != 1 || res.Skipped() != 1 {
		t.Fatalf("got processed=%d skipped=%d, want 1/1", res.Processed(), res.Skipped())
	}
	if len(video.extracted) != 1 {
		t.Fatalf("extract called %d times, want 1 (too-short items never extract)", len(video.extracted))
	}
}

func TestRunBatch_ClampsRequestedCount(t *testing.T) {
	t.Parallel()

	items, durations := candidates(3)
	video := &fakeVideoTool{durations: durations}

	res, err := newTestUsecase(video).RunBatch(context.Background(), BatchInput{
		Candidates: items,
		Count:      10,
		Spec:       longSpec(),
		OutDir:     t.TempDir(),
	})
	if err != nil {
		t.Fatalf("clamping must not be an error, got %v", err)
	}
	if !res.Clamped {
		t.Fatal("expected the result to report the clamp")
	}
	if len(res.Items) != 3 || res.Processed() != 3 {
		t.Fatalf("got %d items, %d processed; want all 3", len(res.Items), res.Processed())
	}
}

func TestRunBatch_NoCandidates(t *testing.T) {
	t.Parallel()

	video := &fakeVideoTool{}
	_, err := newTestUsecase(video).RunBatch(context.Background(), BatchInput{
		Candidates: nil,
		Count:      5,
		Spec:       longSpec(),
		OutDir:     t.TempDir(),
	})
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestRunBatch_SkipsExistingOutput(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	item := types.SourceItem{Path: "/videos/movie.mp4"}
	if err := os.WriteFile(filepath.Join(outDir, "movie_clip.mp4"), []byte("old"), 0o644); err != nil {
		t.Fatalf("pre-create output: %v", err)
	}

	video := &fakeVideoTool{durations: map[string]float64{item.Path: 3000}}
	res, err := newTestUsecase(video).RunBatch(context.Background(), BatchInput{
		Candidates: []types.SourceItem{item},
		Count:      1,
		Spec:       longSpec(),
		OutDir:     outDir,
	})
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if res.Skipped() != 1 {
		t.Fatalf("got skipped=%d, want 1", res.Skipped())
	}
	if len(video.extracted) != 0 {
		t.Fatal("existing output must not be re-extracted")
	}
	if reason := res.SkippedItems()[0].Reason; !strings.Contains(reason, "output already exists") {
		t.Fatalf("unexpected skip reason: %q", reason)
	}
}

func TestExtractOne(t *testing.T) {
	t.Parallel()

	video := &fakeVideoTool{durations: map[string]float64{"/videos/a.mp4": 3000}}
	out := filepath.Join(t.TempDir(), "clips", "a.mp4")

	w, err := newTestUsecase(video).ExtractOne(context.Background(), "/videos/a.mp4", longSpec(), out)
	if err != nil {
		t.Fatalf("extract one: %v", err)
	}
	if w.Start < 1200 || w.End > 1800 {
		t.Fatalf("window [%.1f, %.1f) outside buffered region", w.Start, w.End)
	}
	if len(video.windows) != 1 || video.windows[0] != w {
		t.Fatalf("window not passed through unchanged: %+v vs %+v", video.windows, w)
	}
	if _, err := os.Stat(filepath.Dir(out)); err != nil {
		t.Fatalf("output directory not created: %v", err)
	}
}

func TestExtractOne_TooShortIsFatal(t *testing.T) {
	t.Parallel()

	video := &fakeVideoTool{durations: map[string]float64{"/videos/a.mp4": 10}}
	_, err := newTestUsecase(video).ExtractOne(context.Background(), "/videos/a.mp4", longSpec(), filepath.Join(t.TempDir(), "a.mp4"))
	if !errors.Is(err, window.ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}
	if len(video.extracted) != 0 {
		t.Fatal("extract must not run for a too-short source")
	}
}

func TestClipName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/videos/Movie Night.mp4": "Movie Night_clip.mp4",
		"plain.mkv":               "plain_clip.mp4",
		"/a/b/no-ext":             "no-ext_clip.mp4",
	}
	for in, want := range tests {
		if got := ClipName(in); got != want {
			t.Fatalf("ClipName(%q) = %q, want %q", in, got, want)
		}
	}
}
