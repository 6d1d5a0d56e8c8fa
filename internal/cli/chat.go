package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sstrelka/mentora/internal/learning"
)

var (
	chatMentor  string
	chatHistory int
)

var chatCmd = &cobra.Command{
	Use:   "chat <message...>",
	Short: "Send a message to a mentor",
	Long: `Send a one-shot message to a mentor and print the reply. When the mentor
proposes a learning plan, its ID is printed so you can review it with
the plans commands. For a live conversation, run mentora with no
arguments to open the dashboard.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

var mentorsCmd = &cobra.Command{
	Use:   "mentors",
	Short: "List available mentors",
	RunE:  runMentors,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMentor, "mentor", "m", "", "mentor ID (defaults to MENTORA_MENTOR)")
	chatCmd.Flags().IntVar(&chatHistory, "history", 0, "print the last N exchanges before sending")
}

func runChat(cmd *cobra.Command, args []string) error {
	client, ctrl, cfg, err := newBackend()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	mentorID := chatMentor
	if mentorID == "" {
		mentorID = cfg.MentorID
	}
	if mentorID == "" {
		return fmt.Errorf("no mentor selected: pass --mentor or set MENTORA_MENTOR (see: mentora mentors)")
	}

	if chatHistory > 0 {
		messages, err := client.History(ctx, mentorID, chatHistory, 0)
		if err != nil {
			return fmt.Errorf("chat history: %w", err)
		}
		for _, m := range messages {
			fmt.Printf("you: %s\n", m.Prompt)
			fmt.Printf("mentor: %s\n\n", m.Response)
		}
	}

	prompt := strings.Join(args, " ")
	reply, err := client.SendMessage(ctx, mentorID, prompt)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	fmt.Printf("%s: %s\n", reply.Mentor, reply.Response)

	if reply.PlanID != "" {
		ctrl.AdoptProposal(reply.PlanID, learning.ParseStatus(reply.PlanStatus))
		fmt.Printf("\nThe mentor proposed a learning plan (%s).\n", reply.PlanID)
		fmt.Printf("Review it:  mentora plans show %s\n", reply.PlanID)
		fmt.Printf("Accept it:  mentora plans confirm %s\n", reply.PlanID)
	}
	return nil
}

func runMentors(cmd *cobra.Command, args []string) error {
	client, _, _, err := newBackend()
	if err != nil {
		return err
	}

	mentors, err := client.ListMentors(cmd.Context())
	if err != nil {
		return fmt.Errorf("list mentors: %w", err)
	}
	if len(mentors) == 0 {
		fmt.Println("No mentors available.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSUBJECT")
	for _, m := range mentors {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, m.Name, m.Subject)
	}
	return w.Flush()
}
