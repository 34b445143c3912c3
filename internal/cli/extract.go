package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeremym/clipsample/internal/config"
	"github.com/jeremym/clipsample/internal/logging"
	"github.com/jeremym/clipsample/internal/ports"
	"github.com/jeremym/clipsample/internal/ports/adapters/ffmpeg"
	"github.com/jeremym/clipsample/internal/scan"
	"github.com/jeremym/clipsample/internal/types"
	"github.com/jeremym/clipsample/internal/usecase"
)

type extractMode int

const (
	modeSingle extractMode = iota
	modeBatch
)

// extractParams carries the raw flag values; resolve() arbitrates the
// invocation shape before any probing or extraction happens.
type extractParams struct {
	Input  string
	Source string
	Output string
	Count  int

	Duration       float64
	BufferSeconds  float64
	BufferFraction float64
	// set from cobra's Changed tracking
	durationSet    bool
	bufSecondsSet  bool
	bufFractionSet bool
}

func newExtractCmd(cfgFile *string) *cobra.Command {
	var p extractParams

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a random clip from one video or a random batch",
		Long: `Extract samples a random time window from inside a video, keeping away
from the start and end, and re-encodes it as a short clip.

Single mode:  clipsample extract --input movie.mp4 --output clip.mp4
Batch mode:   clipsample extract --source ~/movies --output ~/clips --count 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.durationSet = cmd.Flags().Changed("duration")
			p.bufSecondsSet = cmd.Flags().Changed("buffer")
			p.bufFractionSet = cmd.Flags().Changed("buffer-frac")
			return runExtract(cmd, p, *cfgFile)
		},
	}

	cmd.Flags().StringVar(&p.Input, "input", "", "input video file (single mode)")
	cmd.Flags().StringVar(&p.Source, "source", "", "source directory of candidate videos (batch mode)")
	cmd.Flags().StringVar(&p.Output, "output", "", "output file (single mode) or directory (batch mode)")
	cmd.Flags().IntVar(&p.Count, "count", 0, "number of videos to sample (batch mode)")
	cmd.Flags().Float64Var(&p.Duration, "duration", 5.0, "clip duration in seconds")
	cmd.Flags().Float64Var(&p.BufferSeconds, "buffer", 1200, "edge buffer in seconds")
	cmd.Flags().Float64Var(&p.BufferFraction, "buffer-frac", 0, "edge buffer as a fraction of total duration")

	return cmd
}

// resolve arbitrates between the two mutually exclusive invocation
// shapes. Configuration errors surface here, before any I/O.
func (p extractParams) resolve() (extractMode, error) {
	single := p.Input != ""
	batch := p.Source != "" || p.Count != 0

	switch {
	case single && batch:
		return 0, errors.New("--input conflicts with --source/--count: use single or batch mode, not both")
	case single:
		if p.Output == "" {
			return 0, errors.New("--output is required with --input")
		}
		return modeSingle, nil
	case batch:
		if p.Source == "" {
			return 0, errors.New("--source is required with --count")
		}
		if p.Output == "" {
			return 0, errors.New("--output is required with --source")
		}
		if p.Count <= 0 {
			return 0, errors.New("--count must be a positive number of videos")
		}
		return modeBatch, nil
	default:
		return 0, errors.New("either --input (single mode) or --source/--count (batch mode) is required")
	}
}

// clipSpec merges config defaults with explicit flags. Exactly one
// buffer policy is active.
func (p extractParams) clipSpec(cfg *config.Config) (types.ClipSpec, error) {
	spec, err := cfg.ClipSpec()
	if err != nil {
		return types.ClipSpec{}, err
	}
	if p.durationSet {
		spec.Duration = p.Duration
	}
	switch {
	case p.bufSecondsSet && p.bufFractionSet:
		return types.ClipSpec{}, errors.New("--buffer conflicts with --buffer-frac: pick one edge-buffer policy")
	case p.bufSecondsSet:
		spec.Policy = types.BufferAbsolute
		spec.Buffer = p.BufferSeconds
	case p.bufFractionSet:
		spec.Policy = types.BufferFraction
		spec.Buffer = p.BufferFraction
	}
	return spec, nil
}

func runExtract(cmd *cobra.Command, p extractParams, cfgFile string) error {
	mode, err := p.resolve()
	if err != nil {
		return err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	spec, err := p.clipSpec(cfg)
	if err != nil {
		return err
	}

	uc := usecase.New(usecase.Deps{
		Video: ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath),
		Rand:  newRNG(),
		Log:   logging.WithComponent("extract"),
	})
	ctx := cmd.Context()

	if mode == modeSingle {
		w, err := uc.ExtractOne(ctx, p.Input, spec, p.Output)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Extracted %.1fs clip from %d:%02d to %s\n",
			spec.Duration, int(w.Start)/60, int(w.Start)%60, p.Output)
		return nil
	}

	candidates, err := scan.Candidates(p.Source, cfg.Pattern, cfg.Recursive)
	if err != nil {
		return fmt.Errorf("scan %s: %w", p.Source, err)
	}
	res, err := uc.RunBatch(ctx, usecase.BatchInput{
		Candidates: candidates,
		Count:      p.Count,
		Spec:       spec,
		OutDir:     p.Output,
	})
	if err != nil {
		return err
	}
	printSummary(cmd, &res)
	return nil
}

// printSummary writes the human-readable run report. Partial failures
// inside a batch do not change the exit code.
func printSummary(cmd *cobra.Command, res *types.BatchResult) {
	fmt.Fprintf(cmd.OutOrStdout(), "Processed: %d, Failed: %d, Skipped: %d\n",
		res.Processed(), res.Failed(), res.Skipped())
	if skipped := res.SkippedItems(); len(skipped) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Skipped files:")
		for _, it := range skipped {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s (%s)\n", it.Path, it.Reason)
		}
	}
}

// ensure the adapter satisfies both collaborator ports
var (
	_ ports.VideoTool = (*ffmpeg.Adapter)(nil)
	_ ports.AudioTool = (*ffmpeg.Adapter)(nil)
)
