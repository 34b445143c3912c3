package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

func (a *Adapter) ExtractClip(ctx context.Context, in string, start, end float64, out string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-ss", fmtSeconds(start),
		"-to", fmtSeconds(end),
		"-i", in,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-c:a", "aac",
		out,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract clip: %w\n%s", err, string(b))
	}
	return nil
}

// formatTags are the container tags carried over during conversion.
const formatTags = "title,artist,album,track,disc,date,album_artist"

func (a *Adapter) ProbeAudio(ctx context.Context, path string) (string, map[string]string, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "stream=codec_name,codec_type:format_tags="+formatTags,
		"-of", "json",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return "", nil, fmt.Errorf("ffprobe audio: %w\n%s", err, string(b))
	}

	var probe probeResult
	if err := json.Unmarshal(b, &probe); err != nil {
		return "", nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	codec := ""
	for _, st := range probe.Streams {
		if st.CodecType == "audio" {
			codec = st.CodecName
			break
		}
	}
	if codec == "" {
		return "", nil, fmt.Errorf("no audio stream in %s", path)
	}

	tags := probe.Format.Tags
	if tags == nil {
		tags = map[string]string{}
	}
	return codec, tags, nil
}

func (a *Adapter) ConvertALAC(ctx context.Context, in, out string, tags map[string]string) error {
	args := []string{
		"-i", in,
		"-c:a", "alac",
		"-map", "0:a:0",
		"-map", "-0:v",
	}
	// Deterministic argument order keeps failures reproducible.
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-metadata:s:a:0", k+"="+tags[k])
	}
	args = append(args, out)

	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg convert alac: %w\n%s", err, string(b))
	}
	return nil
}

// probeResult matches the ffprobe JSON output structure.
type probeResult struct {
	Format struct {
		Tags map[string]string `json:"tags"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
	} `json:"streams"`
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
