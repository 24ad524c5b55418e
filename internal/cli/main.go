package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "mkshort <input>",
		Short:        "Cut a sped-up vertical short from a local video",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("out", "", "Output file (default <input>-short.mp4)")
	root.Flags().String("plan", "", "YAML edit plan")
	root.Flags().StringArray("segment", nil, "Source segment as start-end seconds, e.g. 157-162 (repeatable)")
	root.Flags().StringArray("focal", nil, "Crop center as x,y frame fractions, e.g. 0.35,0.5 (repeatable)")
	root.Flags().Float64("speed", 0, "Playback speed factor")
	root.Flags().String("aspect", "", "Crop aspect ratio, e.g. 9:16")
	root.Flags().Float64("max", 0, "Maximum duration in seconds, 0 for no cap")
	root.Flags().String("resolution", "", "Output resolution, e.g. 1080x1920")
	root.Flags().String("image", "", "Image appended as panning slides")
	root.Flags().String("publish", "", "Publish target: a directory or s3://bucket/prefix")
	root.Flags().Bool("keep-work", false, "Keep the scratch directory with intermediate clips")
	root.Flags().BoolP("verbose", "v", false, "Debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
