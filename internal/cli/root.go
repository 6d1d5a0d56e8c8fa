package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sstrelka/mentora/internal/api"
	"github.com/sstrelka/mentora/internal/cli/plans"
	"github.com/sstrelka/mentora/internal/config"
	"github.com/sstrelka/mentora/internal/learning"
	"github.com/sstrelka/mentora/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "mentora",
	Short:   "Terminal client for the Mentora learning platform",
	Long:    `Mentora lets you chat with AI mentors, review the learning plans they propose, and track your lesson progress from the terminal.`,
	Version: version.String(),
}

func init() {
	rootCmd.AddCommand(plans.PlansCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(mentorsCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(dashboardCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newBackend builds the API client and plan controller from the ambient
// configuration.
func newBackend() (*api.Client, *learning.Controller, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	client := api.NewClient(cfg.APIURL, api.StaticToken(cfg.Token), api.WithTimeout(cfg.Timeout))
	return client, learning.NewController(client, learning.NewStatusStore()), cfg, nil
}
