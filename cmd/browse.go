package cmd

import "github.com/spf13/cobra"

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Launch the full update browser",
	Long:  "Open ehco in browse mode, the two-pane update browser, skipping the home screen.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(true)
	},
}
