package plans

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sstrelka/mentora/internal/learning"
)

// statusFetchLimit caps concurrent status refreshes against the backend.
const statusFetchLimit = 4

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your learning plans",
	Long:  `List your learning plans with their lesson counts and current statuses.`,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	client, ctrl, err := newBackend()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	plans, err := client.ListPlans(ctx)
	if err != nil {
		return fmt.Errorf("list plans: %w", err)
	}
	if len(plans) == 0 {
		fmt.Println("No plans yet. Ask a mentor to build one: mentora chat")
		return nil
	}

	// The list payload carries the status each plan had when it was
	// fetched. Refresh against the status endpoint so removed or
	// just-completed plans show their real state.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statusFetchLimit)
	for _, p := range plans {
		p := p
		g.Go(func() error {
			_, err := ctrl.ResolveStatus(gctx, p.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("refresh plan statuses: %w", err)
	}

	return renderPlans(os.Stdout, plans, ctrl.Store())
}

// renderPlans writes the plan table. Statuses come from the store when
// settled there, falling back to what the list payload carried.
func renderPlans(w io.Writer, plans []*learning.Plan, store *learning.StatusStore) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tLESSONS\tSTATUS\tCREATED")

	for _, p := range plans {
		status := store.Get(p.ID)
		if status == learning.StatusUnknown {
			status = p.Status
		}

		title := p.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}

		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			p.ID,
			title,
			p.LessonCount(),
			status,
			formatAge(p.CreatedAt),
		)
	}

	return tw.Flush()
}

// formatAge returns a human-readable relative time string.
func formatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	duration := time.Since(t)
	if duration < time.Minute {
		return "just now"
	}

	minutes := int(duration.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}

	hours := int(duration.Hours())
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}

	days := hours / 24
	return fmt.Sprintf("%dd ago", days)
}
