package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gradeworks/canvasmoss/moss"
)

// NewLanguagesCmd creates and returns the languages subcommand for the
// canvasmoss CLI.
func NewLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the languages MOSS accepts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, l := range moss.Languages() {
				fmt.Println(l)
			}
		},
	}
}
