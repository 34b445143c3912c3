package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jeremym/clipsample/internal/config"
	"github.com/jeremym/clipsample/internal/convert"
	"github.com/jeremym/clipsample/internal/logging"
	"github.com/jeremym/clipsample/internal/ports/adapters/ffmpeg"
)

func newConvertCmd(cfgFile *string) *cobra.Command {
	var (
		dest   string
		remove bool
	)

	cmd := &cobra.Command{
		Use:   "convert <album-directory>",
		Short: "Convert a FLAC-in-M4A album to ALAC, preserving tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], dest, remove, *cfgFile)
		},
	}

	cmd.Flags().StringVarP(&dest, "dest", "d", "", "destination directory (album folder is created inside)")
	cmd.Flags().BoolVarP(&remove, "remove", "r", false, "remove source files after successful conversion")
	return cmd
}

func runConvert(cmd *cobra.Command, albumDir, dest string, remove bool, cfgFile string) error {
	abs, err := filepath.Abs(albumDir)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%q is not a valid directory", abs)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	conv := convert.Converter{
		Audio: ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath),
		Log:   logging.WithComponent("convert"),
	}
	res, err := conv.Run(cmd.Context(), convert.Input{
		AlbumDir:     abs,
		DestDir:      dest,
		RemoveSource: remove,
	})
	if err != nil {
		return err
	}
	printSummary(cmd, &res)
	return nil
}
