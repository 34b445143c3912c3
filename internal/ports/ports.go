// Package ports declares the external collaborator interfaces. The core
// treats decoding, encoding and probing as black-box services.
package ports

import "context"

// VideoTool probes durations and extracts re-encoded clips. Durations
// and time bounds are seconds; the core passes windows through
// unchanged, without rounding.
type VideoTool interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
	ExtractClip(ctx context.Context, in string, start, end float64, out string) error
}

// AudioTool probes codec/tag metadata and re-encodes audio files for
// the convert command.
type AudioTool interface {
	// ProbeAudio reports the first audio stream's codec name and the
	// container's format tags. Missing tags yield an empty map, not an
	// error.
	ProbeAudio(ctx context.Context, path string) (codec string, tags map[string]string, err error)
	ConvertALAC(ctx context.Context, in, out string, tags map[string]string) error
}
