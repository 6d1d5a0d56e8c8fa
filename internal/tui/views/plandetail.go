package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sstrelka/mentora/internal/learning"
	"github.com/sstrelka/mentora/internal/tui/components"
	"github.com/sstrelka/mentora/internal/tui/msgs"
	"github.com/sstrelka/mentora/internal/tui/styles"
)

// PlanDetailModel shows one plan's lessons and lets the user mark them
// completed.
type PlanDetailModel struct {
	ctrl   *learning.Controller
	planID string

	plan    *learning.Plan
	lessons []learning.Lesson
	cursor  int
	loading bool
	errMsg  string
	notice  string
	width   int
	height  int
}

// PlanOpenedMsg carries the result of loading a plan's detail.
type PlanOpenedMsg struct {
	PlanID string
	Plan   *learning.Plan
	Err    error
}

// LessonDoneMsg carries the result of a lesson completion request.
type LessonDoneMsg struct {
	PlanID   string
	LessonID string
	Progress learning.Progress
	Err      error
}

// NewPlanDetailModel creates a detail view for planID.
func NewPlanDetailModel(ctrl *learning.Controller, planID string) PlanDetailModel {
	return PlanDetailModel{
		ctrl:    ctrl,
		planID:  planID,
		loading: true,
	}
}

// Init implements tea.Model.
func (m PlanDetailModel) Init() tea.Cmd {
	return m.openPlan()
}

func (m PlanDetailModel) openPlan() tea.Cmd {
	ctrl, planID := m.ctrl, m.planID
	return func() tea.Msg {
		p, err := ctrl.OpenPlan(context.Background(), planID)
		return PlanOpenedMsg{PlanID: planID, Plan: p, Err: err}
	}
}

func (m PlanDetailModel) completeLesson(lessonID string) tea.Cmd {
	ctrl, planID := m.ctrl, m.planID
	return func() tea.Msg {
		prog, err := ctrl.CompleteLesson(context.Background(), planID, lessonID)
		return LessonDoneMsg{PlanID: planID, LessonID: lessonID, Progress: prog, Err: err}
	}
}

// Update implements tea.Model.
func (m PlanDetailModel) Update(msg tea.Msg) (PlanDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case PlanOpenedMsg:
		// A response for a previously viewed plan must not clobber the
		// one on screen.
		if msg.PlanID != m.planID {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			if errors.Is(msg.Err, learning.ErrNotFound) {
				return m, func() tea.Msg { return msgs.PlanGoneMsg{PlanID: msg.PlanID} }
			}
			m.errMsg = fmt.Sprintf("Failed to load plan: %v", msg.Err)
			return m, nil
		}
		m.errMsg = ""
		m.plan = msg.Plan
		m.lessons = msg.Plan.Lessons()
		return m, nil

	case LessonDoneMsg:
		if msg.PlanID != m.planID {
			return m, nil
		}
		if msg.Err != nil {
			switch {
			case errors.Is(msg.Err, learning.ErrPlanCompleted):
				m.errMsg = "Plan is already completed."
			case errors.Is(msg.Err, learning.ErrUnknownLesson):
				m.errMsg = "That lesson is not part of this plan."
			default:
				m.errMsg = fmt.Sprintf("Failed to mark lesson: %v", msg.Err)
			}
			return m, nil
		}
		m.errMsg = ""
		if m.ctrl.Status(m.planID) == learning.StatusCompleted {
			m.notice = "That was the last lesson. Plan completed!"
		} else {
			m.notice = "Lesson completed."
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m PlanDetailModel) handleKey(msg tea.KeyMsg) (PlanDetailModel, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		return m, func() tea.Msg { return msgs.GoToPlanListMsg{} }
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.lessons)-1 {
			m.cursor++
		}
	case "enter", " ":
		if m.cursor < len(m.lessons) {
			lesson := m.lessons[m.cursor]
			if m.ctrl.LessonCompleted(m.planID, lesson.ID) {
				m.notice = "Lesson already completed."
				return m, nil
			}
			return m, m.completeLesson(lesson.ID)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m PlanDetailModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	if m.loading || m.plan == nil {
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, "Loading plan..."))
		if m.errMsg != "" {
			b.WriteString("\n\n")
			b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, styles.ErrorStyle.Render(m.errMsg)))
		}
		return b.String()
	}

	title := styles.TitleStyle.Render(m.plan.Title)
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n")

	status := statusLabel(m.ctrl.Status(m.planID))
	header := styles.SubtleStyle.Render("Status: ") + status
	if prog, err := m.ctrl.PlanProgress(m.planID); err == nil && prog.Total > 0 {
		header += "   " + components.NewProgress(prog, 20).View()
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, header))
	b.WriteString("\n\n")

	b.WriteString(m.renderLessons())

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, styles.ErrorStyle.Render(m.errMsg)))
	} else if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, styles.SuccessStyle.Render(m.notice)))
	}

	b.WriteString("\n\n")
	statusItems := []string{"↑↓ Navigate", "Enter Mark done", "Esc Back", "q Quit"}
	b.WriteString(components.NewStatusBar().Render(m.width, statusItems))

	return b.String()
}

// renderLessons renders the module and lesson tree with the cursor and
// completion marks.
func (m PlanDetailModel) renderLessons() string {
	var lines []string

	flat := 0
	for mi, mod := range m.plan.Modules {
		lines = append(lines, styles.SelectedStyle.Render(fmt.Sprintf("%d. %s", mi+1, mod.Title)))
		for li, lesson := range mod.Lessons {
			mark := "  "
			if m.ctrl.LessonCompleted(m.planID, lesson.ID) {
				mark = styles.SuccessStyle.Render("✓ ")
			}

			indicator := " "
			if flat == m.cursor {
				indicator = "●"
			}

			line := fmt.Sprintf("%s %s%d.%d %s", indicator, mark, mi+1, li+1, lesson.Title)
			if lesson.Type != "" {
				line += " " + styles.SubtleStyle.Render("("+lesson.Type+")")
			}
			if flat == m.cursor {
				line = styles.SelectedStyle.Render(line)
			}
			lines = append(lines, line)
			flat++
		}
	}

	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, strings.Join(lines, "\n"))
}

// SetSize updates the model dimensions.
func (m *PlanDetailModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// PlanID returns the plan this view is showing.
func (m PlanDetailModel) PlanID() string {
	return m.planID
}

// Cursor returns the current cursor position.
func (m PlanDetailModel) Cursor() int {
	return m.cursor
}
