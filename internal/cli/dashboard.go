package cli

import (
	"github.com/spf13/cobra"

	"github.com/sstrelka/mentora/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive dashboard",
	Long:  `Open the interactive dashboard. Running mentora with no arguments does the same thing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run()
	},
}
