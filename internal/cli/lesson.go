package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sstrelka/mentora/internal/display"
	"github.com/sstrelka/mentora/internal/learning"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Work with lessons",
}

var lessonDoneCmd = &cobra.Command{
	Use:   "done <plan-id> <lesson-id>",
	Short: "Mark a lesson as completed",
	Long:  `Mark a lesson as completed. Completing the last lesson of a plan completes the plan itself.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runLessonDone,
}

func init() {
	lessonCmd.AddCommand(lessonDoneCmd)
}

func runLessonDone(cmd *cobra.Command, args []string) error {
	planID, lessonID := args[0], args[1]

	_, ctrl, _, err := newBackend()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// The controller needs the plan detail before it can track progress.
	if _, err := ctrl.OpenPlan(ctx, planID); err != nil {
		if errors.Is(err, learning.ErrNotFound) {
			return fmt.Errorf("plan %s no longer exists", planID)
		}
		return fmt.Errorf("load plan: %w", err)
	}

	prog, err := ctrl.CompleteLesson(ctx, planID, lessonID)
	switch {
	case errors.Is(err, learning.ErrUnknownLesson):
		return fmt.Errorf("lesson %s is not part of plan %s", lessonID, planID)
	case errors.Is(err, learning.ErrPlanCompleted):
		return fmt.Errorf("plan %s is already completed", planID)
	case err != nil:
		return fmt.Errorf("mark lesson complete: %w", err)
	}

	fmt.Printf("Lesson completed. %s\n", display.ProgressBar(prog))
	if ctrl.Status(planID) == learning.StatusCompleted {
		fmt.Println("That was the last lesson. Plan completed, congratulations!")
	}
	return nil
}
