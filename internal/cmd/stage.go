package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gradeworks/canvasmoss/moss"
	"github.com/gradeworks/canvasmoss/pkg/logger"
	"github.com/gradeworks/canvasmoss/submission"
)

// NewStageCmd creates and returns the stage subcommand for the canvasmoss
// CLI. It shows which files a submission run would upload, without sending
// anything.
func NewStageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage DIR LANGUAGE",
		Short: "Show which files a submission run would select",
		Long: `List the files under DIR that a submit run for LANGUAGE would upload.

Useful for auditing the selection before burning a MOSS request: zero-byte
files, PDFs, and archive containers are excluded regardless of extension.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runStage(args[0], args[1])
		},
	}

	return cmd
}

func runStage(dir, language string) {
	log := logger.New("info", true, false)

	files, err := submission.ListFiles(dir, moss.NormalizeLanguage(language))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list files")
	}

	for _, f := range files {
		fmt.Println(f)
	}
	log.Info().Int("files", len(files)).Msg("Staging preview complete")
}
