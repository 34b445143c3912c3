// Package convert re-encodes FLAC-in-M4A albums to ALAC, preserving the
// container tags. It reuses the batch tallying of the extract pipeline:
// one bad track never aborts the album.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jeremym/clipsample/internal/ports"
	"github.com/jeremym/clipsample/internal/types"
)

// ErrNoInputFiles indicates the album directory holds no .m4a files.
var ErrNoInputFiles = errors.New("no .m4a files found")

const alacSuffix = "_alac.m4a"

type Input struct {
	AlbumDir string
	// DestDir, when set, receives a directory named after the album;
	// converted files keep their original names inside it. When empty,
	// converted files land next to their sources with an _alac suffix.
	DestDir      string
	RemoveSource bool
}

type Converter struct {
	Audio ports.AudioTool
	Log   zerolog.Logger
}

func (c Converter) Run(ctx context.Context, in Input) (types.BatchResult, error) {
	var res types.BatchResult

	files, err := filepath.Glob(filepath.Join(in.AlbumDir, "*.m4a"))
	if err != nil {
		return res, err
	}
	sort.Strings(files)
	if len(files) == 0 {
		return res, fmt.Errorf("%w in %s", ErrNoInputFiles, in.AlbumDir)
	}

	outDir := in.AlbumDir
	if in.DestDir != "" {
		outDir = filepath.Join(in.DestDir, filepath.Base(filepath.Clean(in.AlbumDir)))
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return res, err
		}
	}

	c.Log.Info().Int("files", len(files)).Str("album", in.AlbumDir).Msg("starting conversion")
	for _, f := range files {
		c.convertFile(ctx, f, outDir, in, &res)
	}
	c.Log.Info().
		Int("processed", res.Processed()).
		Int("failed", res.Failed()).
		Int("skipped", res.Skipped()).
		Msg("conversion complete")
	return res, nil
}

func (c Converter) convertFile(ctx context.Context, in, outDir string, opts Input, res *types.BatchResult) {
	info, err := os.Stat(in)
	if err != nil || !info.Mode().IsRegular() {
		res.Record(in, types.StatusSkipped, "not a regular file")
		return
	}
	if strings.HasSuffix(in, alacSuffix) {
		res.Record(in, types.StatusSkipped, "already converted")
		return
	}

	codec, tags, err := c.Audio.ProbeAudio(ctx, in)
	if err != nil {
		res.Record(in, types.StatusSkipped, "probe: "+err.Error())
		return
	}
	if codec != "flac" {
		res.Record(in, types.StatusSkipped, fmt.Sprintf("audio codec is %s, not flac", codec))
		return
	}

	var out string
	if opts.DestDir != "" {
		out = filepath.Join(outDir, filepath.Base(in))
	} else {
		base := filepath.Base(in)
		out = filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+alacSuffix)
	}
	if _, err := os.Stat(out); err == nil {
		res.Record(in, types.StatusSkipped, "output already exists: "+out)
		return
	}

	c.Log.Info().Str("input", in).Str("output", out).Msg("converting")
	if err := c.Audio.ConvertALAC(ctx, in, out, tags); err != nil {
		// Drop any partial output so re-runs do not skip a broken file.
		_ = os.Remove(out)
		res.Record(in, types.StatusFailed, err.Error())
		return
	}

	if opts.RemoveSource {
		if err := os.Remove(in); err != nil {
			c.Log.Warn().Str("file", in).Err(err).Msg("could not remove source")
		}
	}
	res.Record(in, types.StatusProcessed, "")
}
