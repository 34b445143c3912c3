package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jeremym/clipsample/internal/types"
)

// Config holds tool paths and extraction defaults. Values may be
// overridden per-invocation by CLI flags.
type Config struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`

	// ClipSeconds is the default clip duration.
	ClipSeconds float64 `yaml:"clip_seconds"`
	// BufferPolicy is "seconds" or "fraction".
	BufferPolicy string  `yaml:"buffer_policy"`
	BufferValue  float64 `yaml:"buffer_value"`

	// Pattern selects batch candidates by base name.
	Pattern   string `yaml:"pattern"`
	Recursive bool   `yaml:"recursive"`
}

// Load reads configuration from path, or from ./clipsample.yaml when
// path is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ClipSpec resolves the configured defaults into a ClipSpec.
func (c *Config) ClipSpec() (types.ClipSpec, error) {
	spec := types.ClipSpec{Duration: c.ClipSeconds, Buffer: c.BufferValue}
	switch c.BufferPolicy {
	case "seconds":
		spec.Policy = types.BufferAbsolute
	case "fraction":
		spec.Policy = types.BufferFraction
	default:
		return types.ClipSpec{}, fmt.Errorf("buffer_policy must be \"seconds\" or \"fraction\", got %q", c.BufferPolicy)
	}
	return spec, nil
}

func defaultConfig() *Config {
	return &Config{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		ClipSeconds: 5.0,
		// 20 minutes off each end of the source.
		BufferPolicy: "seconds",
		BufferValue:  1200,
		Pattern:      "*.mp4",
		Recursive:    true,
	}
}

func findConfigFile() string {
	for _, name := range []string{"clipsample.yaml", ".clipsample.yaml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}
