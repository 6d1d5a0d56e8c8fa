// Package plans holds the plan management subcommands.
package plans

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sstrelka/mentora/internal/api"
	"github.com/sstrelka/mentora/internal/config"
	"github.com/sstrelka/mentora/internal/learning"
)

// PlansCmd is the parent command for plan-related subcommands.
var PlansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage your learning plans",
	Long:  `Commands for listing, reviewing, and working through mentor-proposed learning plans.`,
}

func init() {
	PlansCmd.AddCommand(listCmd)
	PlansCmd.AddCommand(showCmd)
	PlansCmd.AddCommand(confirmCmd)
	PlansCmd.AddCommand(rejectCmd)
	PlansCmd.AddCommand(deleteCmd)
}

// newBackend builds the API client and plan controller from the ambient
// configuration.
func newBackend() (*api.Client, *learning.Controller, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	client := api.NewClient(cfg.APIURL, api.StaticToken(cfg.Token), api.WithTimeout(cfg.Timeout))
	return client, learning.NewController(client, learning.NewStatusStore()), nil
}
