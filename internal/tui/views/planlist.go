package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sstrelka/mentora/internal/learning"
	"github.com/sstrelka/mentora/internal/tui/components"
	"github.com/sstrelka/mentora/internal/tui/msgs"
	"github.com/sstrelka/mentora/internal/tui/styles"
)

// PlanLister fetches the user's plans. api.Client satisfies it; tests
// inject fakes.
type PlanLister interface {
	ListPlans(ctx context.Context) ([]*learning.Plan, error)
}

// PlanListModel is the model for the plan dashboard view.
type PlanListModel struct {
	lister PlanLister
	ctrl   *learning.Controller

	plans   []*learning.Plan
	cursor  int
	loading bool
	errMsg  string
	notice  string
	width   int
	height  int
}

// PlansLoadedMsg carries the result of a plan list fetch.
type PlansLoadedMsg struct {
	Plans []*learning.Plan
	Err   error
}

// ReviewDoneMsg carries the result of a confirm or reject request.
type ReviewDoneMsg struct {
	PlanID string
	Verb   string
	Status learning.Status
	Err    error
}

// PlanDeletedMsg carries the result of a delete request.
type PlanDeletedMsg struct {
	PlanID string
	Err    error
}

// NewPlanListModel creates a new PlanListModel over the given backend.
func NewPlanListModel(lister PlanLister, ctrl *learning.Controller) PlanListModel {
	return PlanListModel{
		lister:  lister,
		ctrl:    ctrl,
		loading: true,
	}
}

// Init implements tea.Model.
func (m PlanListModel) Init() tea.Cmd {
	return m.loadPlans()
}

// loadPlans fetches the plan list and refreshes each plan's status so
// upstream deletions surface immediately.
func (m PlanListModel) loadPlans() tea.Cmd {
	lister, ctrl := m.lister, m.ctrl
	return func() tea.Msg {
		ctx := context.Background()
		plans, err := lister.ListPlans(ctx)
		if err != nil {
			return PlansLoadedMsg{Err: err}
		}
		for _, p := range plans {
			ctrl.ResolveStatus(ctx, p.ID)
		}
		return PlansLoadedMsg{Plans: plans}
	}
}

func (m PlanListModel) reviewPlan(planID, verb string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		var (
			status learning.Status
			err    error
		)
		if verb == "confirm" {
			status, err = ctrl.Confirm(context.Background(), planID)
		} else {
			status, err = ctrl.Reject(context.Background(), planID)
		}
		return ReviewDoneMsg{PlanID: planID, Verb: verb, Status: status, Err: err}
	}
}

func (m PlanListModel) deletePlan(planID string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		err := ctrl.Delete(context.Background(), planID)
		return PlanDeletedMsg{PlanID: planID, Err: err}
	}
}

// Update implements tea.Model.
func (m PlanListModel) Update(msg tea.Msg) (PlanListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case PlansLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errMsg = fmt.Sprintf("Failed to load plans: %v", msg.Err)
			return m, nil
		}
		m.errMsg = ""
		m.plans = msg.Plans
		if m.cursor >= len(m.plans) {
			m.cursor = len(m.plans) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case ReviewDoneMsg:
		if msg.Err != nil {
			m.errMsg = fmt.Sprintf("Failed to %s plan: %v", msg.Verb, msg.Err)
			return m, nil
		}
		m.errMsg = ""
		if msg.Verb == "confirm" {
			m.notice = "Plan confirmed. Open it to start learning."
		} else {
			m.notice = "Plan rejected."
		}
		return m, m.loadPlans()

	case PlanDeletedMsg:
		if msg.Err != nil {
			m.errMsg = fmt.Sprintf("Failed to delete plan: %v", msg.Err)
			return m, nil
		}
		m.errMsg = ""
		m.notice = "Plan deleted."
		return m, m.loadPlans()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m PlanListModel) handleKey(msg tea.KeyMsg) (PlanListModel, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "m":
		return m, func() tea.Msg { return msgs.GoToChatMsg{} }
	case "r":
		m.loading = true
		m.notice = ""
		return m, m.loadPlans()
	}

	if len(m.plans) == 0 {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.plans)-1 {
			m.cursor++
		}
	case "enter":
		return m, func() tea.Msg { return msgs.OpenPlanMsg{PlanID: m.plans[m.cursor].ID} }
	case "c":
		return m, m.reviewPlan(m.plans[m.cursor].ID, "confirm")
	case "x":
		return m, m.reviewPlan(m.plans[m.cursor].ID, "reject")
	case "d":
		return m, m.deletePlan(m.plans[m.cursor].ID)
	}
	return m, nil
}

// View implements tea.Model.
func (m PlanListModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	title := styles.TitleStyle.Render("Your Learning Plans")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, "Loading plans..."))
	case len(m.plans) == 0:
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, "No plans yet."))
		b.WriteString("\n\n")
		hint := styles.SubtleStyle.Render("Press 'm' to chat with a mentor and get one proposed.")
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, hint))
	default:
		var lines []string
		for i, p := range m.plans {
			lines = append(lines, m.formatPlanLine(i, p))
		}
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, strings.Join(lines, "\n")))
	}

	if m.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, styles.ErrorStyle.Render(m.errMsg)))
	} else if m.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, styles.SuccessStyle.Render(m.notice)))
	}

	b.WriteString("\n\n")
	statusItems := []string{"↑↓ Navigate", "Enter Open", "c Confirm", "x Reject", "d Delete", "m Chat", "r Refresh", "q Quit"}
	b.WriteString(components.NewStatusBar().Render(m.width, statusItems))

	return b.String()
}

// formatPlanLine formats a single plan row.
func (m PlanListModel) formatPlanLine(index int, p *learning.Plan) string {
	indicator := "○"
	if index == m.cursor {
		indicator = "●"
	}

	status := m.ctrl.Status(p.ID)
	if status == learning.StatusUnknown {
		status = p.Status
	}

	count := p.LessonCount()
	lessons := fmt.Sprintf("%d lessons", count)
	if count == 1 {
		lessons = "1 lesson"
	}

	line := fmt.Sprintf("%s %-40s %10s   %s", indicator, p.Title, lessons, statusLabel(status))

	switch {
	case index == m.cursor:
		return styles.SelectedStyle.Render(line)
	case status == learning.StatusCompleted:
		return styles.SubtleStyle.Render(line)
	default:
		return line
	}
}

// statusLabel maps statuses to the labels the dashboard shows.
func statusLabel(status learning.Status) string {
	switch status {
	case learning.StatusActive:
		return "awaiting review"
	case learning.StatusConfirmed:
		return "in progress"
	case learning.StatusCompleted:
		return "completed"
	case learning.StatusDeleted:
		return "deleted"
	default:
		return string(status)
	}
}

// SetSize updates the model dimensions.
func (m *PlanListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Plans returns the loaded plans.
func (m PlanListModel) Plans() []*learning.Plan {
	return m.plans
}

// Cursor returns the current cursor position.
func (m PlanListModel) Cursor() int {
	return m.cursor
}
