package plans

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sstrelka/mentora/internal/display"
	"github.com/sstrelka/mentora/internal/learning"
)

var showCmd = &cobra.Command{
	Use:   "show <plan-id>",
	Short: "Show a plan's modules, lessons, and progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	planID := args[0]

	_, ctrl, err := newBackend()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	p, err := ctrl.OpenPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, learning.ErrNotFound) {
			return fmt.Errorf("plan %s no longer exists", planID)
		}
		return fmt.Errorf("load plan: %w", err)
	}

	completed := make(map[string]bool)
	for _, id := range p.CompletedLessonIDs() {
		completed[id] = true
	}

	fmt.Println(display.PlanTree(p, completed))
	fmt.Printf("Status: %s\n", display.StatusBadge(ctrl.Status(planID)))

	if prog, err := ctrl.PlanProgress(planID); err == nil {
		fmt.Printf("Progress: %s\n", display.ProgressBar(prog))
	}
	return nil
}
