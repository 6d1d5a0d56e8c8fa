package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/sstrelka/mentora/internal/api"
	"github.com/sstrelka/mentora/internal/learning"
	"github.com/sstrelka/mentora/internal/tui/components"
	"github.com/sstrelka/mentora/internal/tui/msgs"
	"github.com/sstrelka/mentora/internal/tui/styles"
)

// historyPageSize is how many past exchanges are loaded when a chat opens.
const historyPageSize = 50

// ChatBackend is the slice of the API client the chat view needs.
type ChatBackend interface {
	ListMentors(ctx context.Context) ([]api.Mentor, error)
	SendMessage(ctx context.Context, mentorID, prompt string) (*api.ChatReply, error)
	History(ctx context.Context, mentorID string, limit, offset int) ([]api.ChatMessage, error)
}

// ChatState represents the current state of the chat view.
type ChatState int

const (
	StatePickingMentor ChatState = iota
	StateChatting
	StateReviewingProposal
)

// chatEntry is one line of the local transcript.
type chatEntry struct {
	id   string // local identity, survives re-renders
	role string // "you" or the mentor's name
	text string
}

// ChatModel handles the mentor conversation view.
type ChatModel struct {
	backend ChatBackend
	ctrl    *learning.Controller

	state      ChatState
	mentors    []api.Mentor
	mentorIdx  int
	mentorID   string
	mentorName string

	entries    []chatEntry
	transcript components.Transcript
	input      textarea.Model
	spinner    spinner.Model
	isThinking bool

	proposalID string // plan proposed by the mentor, awaiting y/n

	errMsg string
	width  int
	height int
}

// MentorsLoadedMsg carries the available mentors.
type MentorsLoadedMsg struct {
	Mentors []api.Mentor
	Err     error
}

// HistoryLoadedMsg carries a mentor's past conversation.
type HistoryLoadedMsg struct {
	MentorID string
	Messages []api.ChatMessage
	Err      error
}

// ChatReplyMsg carries the mentor's answer to one prompt.
type ChatReplyMsg struct {
	MentorID string
	Reply    *api.ChatReply
	Err      error
}

// NewChatModel creates the chat view. mentorID may be empty, in which
// case the user picks a mentor first.
func NewChatModel(backend ChatBackend, ctrl *learning.Controller, mentorID string) ChatModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	ta := textarea.New()
	ta.Placeholder = "Ask your mentor... (Enter to send)"
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.FocusedStyle.Base = lipgloss.NewStyle()
	ta.BlurredStyle.Base = lipgloss.NewStyle()
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.Focus()

	state := StatePickingMentor
	if mentorID != "" {
		state = StateChatting
	}

	return ChatModel{
		backend:    backend,
		ctrl:       ctrl,
		state:      state,
		mentorID:   mentorID,
		transcript: components.NewTranscript(80, 20, 0),
		input:      ta,
		spinner:    s,
	}
}

// Init implements tea.Model.
func (m ChatModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, textarea.Blink}
	if m.state == StatePickingMentor {
		cmds = append(cmds, m.loadMentors())
	} else {
		cmds = append(cmds, m.loadHistory(m.mentorID))
	}
	return tea.Batch(cmds...)
}

func (m ChatModel) loadMentors() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		mentors, err := backend.ListMentors(context.Background())
		return MentorsLoadedMsg{Mentors: mentors, Err: err}
	}
}

func (m ChatModel) loadHistory(mentorID string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		messages, err := backend.History(context.Background(), mentorID, historyPageSize, 0)
		return HistoryLoadedMsg{MentorID: mentorID, Messages: messages, Err: err}
	}
}

func (m ChatModel) send(prompt string) tea.Cmd {
	backend, mentorID := m.backend, m.mentorID
	return func() tea.Msg {
		reply, err := backend.SendMessage(context.Background(), mentorID, prompt)
		return ChatReplyMsg{MentorID: mentorID, Reply: reply, Err: err}
	}
}

// Update implements tea.Model.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case spinner.TickMsg:
		if m.isThinking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case MentorsLoadedMsg:
		if msg.Err != nil {
			m.errMsg = fmt.Sprintf("Failed to load mentors: %v", msg.Err)
			return m, nil
		}
		m.errMsg = ""
		m.mentors = msg.Mentors
		return m, nil

	case HistoryLoadedMsg:
		// A stale response for another mentor must not leak in.
		if msg.MentorID != m.mentorID {
			return m, nil
		}
		if msg.Err != nil {
			m.errMsg = fmt.Sprintf("Failed to load history: %v", msg.Err)
			return m, nil
		}
		m.errMsg = ""
		m.entries = nil
		for _, h := range msg.Messages {
			m.appendEntry("you", h.Prompt)
			m.appendEntry(m.mentorLabel(), h.Response)
		}
		m.refreshTranscript()
		return m, nil

	case ChatReplyMsg:
		if msg.MentorID != m.mentorID {
			return m, nil
		}
		m.isThinking = false
		if msg.Err != nil {
			m.errMsg = fmt.Sprintf("Failed to send message: %v", msg.Err)
			return m, nil
		}
		m.errMsg = ""
		if msg.Reply.Mentor != "" {
			m.mentorName = msg.Reply.Mentor
		}
		m.appendEntry(m.mentorLabel(), msg.Reply.Response)
		m.refreshTranscript()

		if msg.Reply.PlanID != "" {
			m.ctrl.AdoptProposal(msg.Reply.PlanID, learning.ParseStatus(msg.Reply.PlanStatus))
			m.proposalID = msg.Reply.PlanID
			m.state = StateReviewingProposal
			m.input.Blur()
			return m, func() tea.Msg { return msgs.PlanProposedMsg{PlanID: msg.Reply.PlanID} }
		}
		return m, nil

	case ReviewDoneMsg:
		if msg.PlanID != m.proposalID {
			return m, nil
		}
		m.proposalID = ""
		m.state = StateChatting
		m.input.Focus()
		if msg.Err != nil {
			m.errMsg = fmt.Sprintf("Failed to %s plan: %v", msg.Verb, msg.Err)
			return m, nil
		}
		if msg.Verb == "confirm" {
			m.appendEntry("mentora", "Plan confirmed. Find it on the dashboard to start learning.")
		} else {
			m.appendEntry("mentora", "Plan rejected.")
		}
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.transcript, cmd = m.transcript.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m ChatModel) handleKey(msg tea.KeyMsg) (ChatModel, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case StatePickingMentor:
		return m.handlePickerKey(msg)
	case StateReviewingProposal:
		return m.handleProposalKey(msg)
	default:
		return m.handleChatKey(msg)
	}
}

func (m ChatModel) handlePickerKey(msg tea.KeyMsg) (ChatModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m, func() tea.Msg { return msgs.GoToPlanListMsg{} }
	case "up", "k":
		if m.mentorIdx > 0 {
			m.mentorIdx--
		}
	case "down", "j":
		if m.mentorIdx < len(m.mentors)-1 {
			m.mentorIdx++
		}
	case "enter":
		if m.mentorIdx < len(m.mentors) {
			mentor := m.mentors[m.mentorIdx]
			m.mentorID = mentor.ID
			m.mentorName = mentor.Name
			m.state = StateChatting
			m.entries = nil
			return m, m.loadHistory(mentor.ID)
		}
	}
	return m, nil
}

func (m ChatModel) handleProposalKey(msg tea.KeyMsg) (ChatModel, tea.Cmd) {
	ctrl, planID := m.ctrl, m.proposalID
	switch msg.String() {
	case "y":
		return m, func() tea.Msg {
			status, err := ctrl.Confirm(context.Background(), planID)
			return ReviewDoneMsg{PlanID: planID, Verb: "confirm", Status: status, Err: err}
		}
	case "n":
		return m, func() tea.Msg {
			status, err := ctrl.Reject(context.Background(), planID)
			return ReviewDoneMsg{PlanID: planID, Verb: "reject", Status: status, Err: err}
		}
	case "esc":
		// Leave the plan awaiting review on the dashboard.
		m.proposalID = ""
		m.state = StateChatting
		m.input.Focus()
	}
	return m, nil
}

func (m ChatModel) handleChatKey(msg tea.KeyMsg) (ChatModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return msgs.GoToPlanListMsg{} }
	case "enter":
		prompt := strings.TrimSpace(m.input.Value())
		if prompt == "" || m.isThinking {
			return m, nil
		}
		m.input.Reset()
		m.appendEntry("you", prompt)
		m.refreshTranscript()
		m.isThinking = true
		return m, tea.Batch(m.send(prompt), m.spinner.Tick)
	case "pgup", "pgdown", "ctrl+u", "ctrl+d", "home", "end":
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}

	if !m.isThinking {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *ChatModel) appendEntry(role, text string) {
	m.entries = append(m.entries, chatEntry{
		id:   uuid.NewString(),
		role: role,
		text: text,
	})
}

func (m *ChatModel) refreshTranscript() {
	var lines []string
	for _, e := range m.entries {
		label := styles.MentorStyle.Render(e.role)
		if e.role == "you" {
			label = styles.UserStyle.Render(e.role)
		}
		lines = append(lines, label+": "+e.text, "")
	}
	m.transcript.SetLines(lines)
}

func (m *ChatModel) updateLayout() {
	inputHeight := 4 // textarea + border spacing
	statusHeight := 2
	transcriptHeight := m.height - inputHeight - statusHeight
	if transcriptHeight < 1 {
		transcriptHeight = 1
	}
	m.transcript.SetSize(m.width, transcriptHeight)
	m.input.SetWidth(m.width)
}

func (m ChatModel) mentorLabel() string {
	if m.mentorName != "" {
		return m.mentorName
	}
	return "mentor"
}

// View implements tea.Model.
func (m ChatModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.state == StatePickingMentor {
		return m.renderPicker()
	}

	var b strings.Builder
	b.WriteString(m.transcript.View())
	b.WriteString("\n")

	switch {
	case m.state == StateReviewingProposal:
		banner := styles.PendingStyle.Render(
			fmt.Sprintf("%s proposed a learning plan. Accept it? (y/n, Esc to decide later)", m.mentorLabel()))
		b.WriteString(banner)
	case m.isThinking:
		b.WriteString(m.spinner.View() + styles.SubtleStyle.Render(" thinking..."))
	default:
		b.WriteString(m.input.View())
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(m.errMsg))
	}

	b.WriteString("\n")
	statusItems := []string{"Enter Send", "PgUp/PgDn Scroll", "Esc Back"}
	if m.state == StateReviewingProposal {
		statusItems = []string{"y Accept", "n Reject", "Esc Later"}
	}
	b.WriteString(components.NewStatusBar().Render(m.width, statusItems))

	return b.String()
}

func (m ChatModel) renderPicker() string {
	var b strings.Builder

	title := styles.TitleStyle.Render("Choose a Mentor")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	if len(m.mentors) == 0 {
		msg := "Loading mentors..."
		if m.errMsg != "" {
			msg = m.errMsg
		}
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, msg))
	} else {
		var lines []string
		for i, mentor := range m.mentors {
			indicator := "○"
			if i == m.mentorIdx {
				indicator = "●"
			}
			line := fmt.Sprintf("%s %-24s %s", indicator, mentor.Name, styles.SubtleStyle.Render(mentor.Subject))
			if i == m.mentorIdx {
				line = styles.SelectedStyle.Render(line)
			}
			lines = append(lines, line)
		}
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, strings.Join(lines, "\n")))
	}

	b.WriteString("\n\n")
	statusItems := []string{"↑↓ Navigate", "Enter Choose", "Esc Back"}
	b.WriteString(components.NewStatusBar().Render(m.width, statusItems))

	return b.String()
}

// State returns the current chat state.
func (m ChatModel) State() ChatState {
	return m.state
}

// MentorID returns the selected mentor.
func (m ChatModel) MentorID() string {
	return m.mentorID
}

// ProposalID returns the plan proposal awaiting review, if any.
func (m ChatModel) ProposalID() string {
	return m.proposalID
}

// Entries returns the transcript length, for tests.
func (m ChatModel) Entries() int {
	return len(m.entries)
}
