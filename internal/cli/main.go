package cli

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jeremym/clipsample/internal/logging"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := newRootCmd()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	root := &cobra.Command{
		Use:           "clipsample",
		Short:         "Sample short clips from a video collection",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbose)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./clipsample.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(newExtractCmd(&cfgFile))
	root.AddCommand(newShuffleCmd())
	root.AddCommand(newConvertCmd(&cfgFile))
	return root
}

// newRNG seeds a fresh pseudo-random source for one invocation. All
// sampling code takes the source as a parameter; nothing below the CLI
// touches global random state.
func newRNG() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
