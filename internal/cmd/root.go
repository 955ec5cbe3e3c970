package cmd

import (
	"github.com/gradeworks/canvasmoss/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the canvasmoss
// CLI. It sets up all subcommands, command groups, and basic configuration.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "canvasmoss",
		Short: "canvasmoss - Submit Canvas bulk exports to the MOSS similarity checker",
		Long: `canvasmoss unpacks a Canvas bulk submission export (a ZIP of per-student
ZIPs), stages the extracted source files, and submits them to the MOSS
similarity-detection service. The hosted report is snapshotted and mirrored
locally before it expires.

Use subcommands to perform different operations:
  - submit: Run the full pipeline (extract, stage, send, save report)
  - extract: Unpack a bulk export without contacting MOSS
  - stage: Show which files a submission run would select
  - languages: List the languages MOSS accepts`,
		Version: version.GetFullVersion(),
	}

	groupPipeline := "pipeline"
	groupUtilities := "utilities"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupPipeline,
		Title: "Pipeline Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	submitCmd := NewSubmitCmd()
	extractCmd := NewExtractCmd()
	stageCmd := NewStageCmd()
	languagesCmd := NewLanguagesCmd()

	submitCmd.GroupID = groupPipeline
	extractCmd.GroupID = groupUtilities
	stageCmd.GroupID = groupUtilities
	languagesCmd.GroupID = groupUtilities

	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(languagesCmd)

	return rootCmd
}
