package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeremym/clipsample/internal/domain/selection"
	"github.com/jeremym/clipsample/internal/scan"
)

func newShuffleCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "shuffle <directory>",
		Short: "Write a randomized listing of a directory's files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShuffle(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for the randomized list")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runShuffle(cmd *cobra.Command, dir, output string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%q is not a valid directory", abs)
	}

	names, err := scan.Entries(abs)
	if err != nil {
		return err
	}
	shuffled := selection.Shuffle(names, newRNG())

	if parent := filepath.Dir(output); parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return err
		}
	}
	var b strings.Builder
	for _, name := range shuffled {
		b.WriteString(name)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(output, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write list: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d file names to %s\n", len(shuffled), output)
	return nil
}
