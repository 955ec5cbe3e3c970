package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gradeworks/canvasmoss/pkg/logger"
	"github.com/gradeworks/canvasmoss/submission"
)

// NewExtractCmd creates and returns the extract subcommand for the canvasmoss
// CLI. It unpacks a bulk export without contacting MOSS.
func NewExtractCmd() *cobra.Command {
	var (
		zipOutput    string
		originalName bool
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "extract ZIP",
		Short: "Unpack a Canvas bulk export without contacting MOSS",
		Long: `Unpack a Canvas bulk submission export into one folder per student.

Removes __MACOSX folders and .DS_Store files left behind by macOS, and
flattens submissions where the student zipped a single wrapper directory.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runExtract(args[0], zipOutput, originalName, verbose)
		},
	}

	cmd.Flags().StringVarP(&zipOutput, "zip-output", "o", "./zip_output", "Path to extract the bulk export into")
	cmd.Flags().BoolVar(&originalName, "original-name", false, "Keep the submission's original archive name when unzipping (unreliable with resubmissions)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

func runExtract(zipFile, zipOutput string, originalName, verbose bool) {
	log := logger.New(logLevel("", verbose), true, false)

	folders, err := submission.UnpackBulk(zipFile, zipOutput, submission.ExtractOptions{
		OriginalName: originalName,
		Logger:       log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to unpack bulk export")
	}

	for _, f := range folders {
		fmt.Println(f)
	}
	log.Info().Int("submissions", len(folders)).Msg("Extraction complete")
}
