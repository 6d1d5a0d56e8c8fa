package plans

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sstrelka/mentora/internal/learning"
)

var confirmCmd = &cobra.Command{
	Use:   "confirm <plan-id>",
	Short: "Accept a mentor-proposed plan and start learning",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfirm,
}

var rejectCmd = &cobra.Command{
	Use:   "reject <plan-id>",
	Short: "Decline a mentor-proposed plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runReject,
}

func runConfirm(cmd *cobra.Command, args []string) error {
	planID := args[0]

	_, ctrl, err := newBackend()
	if err != nil {
		return err
	}

	status, err := ctrl.Confirm(cmd.Context(), planID)
	if err != nil {
		return reviewError("confirm", planID, status, err)
	}

	fmt.Printf("Plan %s confirmed. Start with: mentora plans show %s\n", planID, planID)
	return nil
}

func runReject(cmd *cobra.Command, args []string) error {
	planID := args[0]

	_, ctrl, err := newBackend()
	if err != nil {
		return err
	}

	status, err := ctrl.Reject(cmd.Context(), planID)
	if err != nil {
		return reviewError("reject", planID, status, err)
	}

	fmt.Printf("Plan %s rejected.\n", planID)
	return nil
}

func reviewError(verb, planID string, status learning.Status, err error) error {
	switch {
	case errors.Is(err, learning.ErrNotActive):
		return fmt.Errorf("cannot %s plan %s: it is not awaiting review (status: %s)", verb, planID, status)
	case errors.Is(err, learning.ErrNotFound):
		return fmt.Errorf("plan %s no longer exists", planID)
	default:
		return err
	}
}
