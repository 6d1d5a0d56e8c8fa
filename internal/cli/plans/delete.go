package plans

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <plan-id>",
	Short: "Delete a plan and its progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	planID := args[0]

	if !deleteForce {
		fmt.Printf("Delete plan %s and all of its progress? [y/N]: ", planID)
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	_, ctrl, err := newBackend()
	if err != nil {
		return err
	}

	if err := ctrl.Delete(cmd.Context(), planID); err != nil {
		return err
	}

	fmt.Printf("Plan %s deleted.\n", planID)
	return nil
}
