package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "asrprep",
		Short:        "Turn subtitled recordings into an ASR training dataset",
		SilenceUsage: true,
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().String("config", os.Getenv("ASRPREP_CONFIG"), "Config file (default ./asrprep.toml or ~/.config/asrprep/config.toml)")

	root.AddCommand(newRunCmd(), newConfigCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Convert every recording folder under the input directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd)
		},
	}

	// Visible flags
	cmd.Flags().String("input", "", "Input directory with one folder per recording")
	cmd.Flags().String("output", "", "Dataset output directory")
	cmd.Flags().Int("workers", 0, "Recordings processed in parallel")
	cmd.Flags().String("audio-ext", "", "Audio file extension to look for")
	cmd.Flags().String("output-ext", "", "Clip file extension (defaults to the audio extension)")
	cmd.Flags().String("existing", "", "What to do with recordings that already have output: overwrite or skip")
	cmd.Flags().String("report", "", "Write the run report as JSON to this file")

	// Hidden tuning flags (internal)
	cmd.Flags().Int("max-residue-hits", 0, "Reject when more cues than this share the suspicious ms residue")
	cmd.Flags().Duration("max-trailing-gap", 0, "Reject when audio runs this much longer than the last cue")
	_ = cmd.Flags().MarkHidden("max-residue-hits")
	_ = cmd.Flags().MarkHidden("max-trailing-gap")

	return cmd
}

func newConfigCmd() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write a sample configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return initConfig(cmd, path)
		},
	})
	return cfgCmd
}
