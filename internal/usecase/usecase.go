// Package usecase drives clip extraction: single-file mode surfaces
// every error to the caller, batch mode isolates failures at the item
// boundary so one bad file never aborts the run.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jeremym/clipsample/internal/domain/selection"
	"github.com/jeremym/clipsample/internal/domain/window"
	"github.com/jeremym/clipsample/internal/ports"
	"github.com/jeremym/clipsample/internal/types"
)

// ErrNoCandidates indicates the source directory yielded nothing to
// sample from.
var ErrNoCandidates = errors.New("no candidate files found")

const clipSuffix = "_clip.mp4"

type Deps struct {
	Video ports.VideoTool
	Rand  *rand.Rand
	Log   zerolog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

// ExtractOne probes the input, samples one window and extracts it to
// out. Any failure is fatal: single-file mode has no item boundary to
// absorb it.
func (u Usecase) ExtractOne(ctx context.Context, in string, spec types.ClipSpec, out string) (types.TimeWindow, error) {
	total, err := u.d.Video.ProbeDuration(ctx, in)
	if err != nil {
		return types.TimeWindow{}, fmt.Errorf("probe %s: %w", in, err)
	}
	w, err := window.Sample(total, spec, u.d.Rand)
	if err != nil {
		return types.TimeWindow{}, fmt.Errorf("sample window for %s: %w", in, err)
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return types.TimeWindow{}, err
		}
	}
	if err := u.d.Video.ExtractClip(ctx, in, w.Start, w.End, out); err != nil {
		return types.TimeWindow{}, fmt.Errorf("extract %s: %w", in, err)
	}
	return w, nil
}

type BatchInput struct {
	Candidates []types.SourceItem
	Count      int
	Spec       types.ClipSpec
	OutDir     string
}

// RunBatch draws a random subset of the candidates and extracts one
// clip per item, sequentially. Per-item failures are recorded in the
// result and processing continues; the returned error covers only
// conditions that prevent the batch from running at all.
func (u Usecase) RunBatch(ctx context.Context, in BatchInput) (types.BatchResult, error) {
	var res types.BatchResult
	if len(in.Candidates) == 0 {
		return res, ErrNoCandidates
	}

	subset, clamped := selection.Pick(in.Candidates, in.Count, u.d.Rand)
	if clamped {
		res.Clamped = true
		u.d.Log.Warn().
			Int("requested", in.Count).
			Int("available", len(in.Candidates)).
			Msg("count clamped to available candidates")
	}

	if err := os.MkdirAll(in.OutDir, 0o755); err != nil {
		return res, err
	}

	for i, item := range subset {
		u.d.Log.Info().
			Int("n", i+1).
			Int("of", len(subset)).
			Str("input", item.Path).
			Msg("processing")
		u.processItem(ctx, item, in.Spec, filepath.Join(in.OutDir, ClipName(item.Path)), &res)
	}

	u.d.Log.Info().
		Int("processed", res.Processed()).
		Int("failed", res.Failed()).
		Int("skipped", res.Skipped()).
		Msg("batch complete")
	return res, nil
}

// processItem is the per-item error boundary: every failure becomes a
// BatchResult entry, never a returned error.
func (u Usecase) processItem(ctx context.Context, item types.SourceItem, spec types.ClipSpec, out string, res *types.BatchResult) {
	if _, err := os.Stat(out); err == nil {
		res.Record(item.Path, types.StatusSkipped, "output already exists: "+out)
		return
	}

	total, err := u.d.Video.ProbeDuration(ctx, item.Path)
	if err != nil {
		// A file we cannot probe is treated like one that is too short.
		res.Record(item.Path, types.StatusSkipped, "probe: "+err.Error())
		return
	}

	w, err := window.Sample(total, spec, u.d.Rand)
	if errors.Is(err, window.ErrTooShort) {
		res.Record(item.Path, types.StatusSkipped, err.Error())
		return
	}
	if err != nil {
		res.Record(item.Path, types.StatusFailed, err.Error())
		return
	}

	if err := u.d.Video.ExtractClip(ctx, item.Path, w.Start, w.End, out); err != nil {
		res.Record(item.Path, types.StatusFailed, "extract: "+err.Error())
		return
	}

	u.d.Log.Info().
		Str("output", out).
		Float64("start", w.Start).
		Float64("end", w.End).
		Msg("clip extracted")
	res.Record(item.Path, types.StatusProcessed, "")
}

// ClipName derives the batch output file name from the input's base
// name: "movie.mp4" becomes "movie_clip.mp4".
func ClipName(in string) string {
	base := filepath.Base(in)
	return strings.TrimSuffix(base, filepath.Ext(base)) + clipSuffix
}
