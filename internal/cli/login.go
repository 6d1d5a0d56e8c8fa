package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sstrelka/mentora/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login <token>",
	Short: "Save your access token",
	Long:  `Save a backend access token to ~/.mentora/credentials.json so future commands authenticate automatically.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved access token",
	RunE:  runLogout,
}

func runLogin(cmd *cobra.Command, args []string) error {
	dir, err := config.DefaultDir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}

	if err := config.NewTokenStore(dir).Save(args[0]); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	fmt.Println("Token saved.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	dir, err := config.DefaultDir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}

	if err := config.NewTokenStore(dir).Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}

	fmt.Println("Token removed.")
	return nil
}
