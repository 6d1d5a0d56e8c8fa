// Package display renders plans and progress for plain CLI output.
// The interactive dashboard lives in internal/tui; this package is for
// one-shot commands.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sstrelka/mentora/internal/learning"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5FAFAF"))

	moduleStyle = lipgloss.NewStyle().
			Bold(true)

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87AF87"))

	deletedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AF5F5F"))
)

const (
	barFilledChar = "■"
	barEmptyChar  = "□"
	barWidth      = 20
)

// StatusBadge returns a colored, human-readable status label.
func StatusBadge(status learning.Status) string {
	switch status {
	case learning.StatusActive:
		return titleStyle.Render("awaiting review")
	case learning.StatusConfirmed:
		return moduleStyle.Render("in progress")
	case learning.StatusCompleted:
		return doneStyle.Render("completed")
	case learning.StatusDeleted:
		return deletedStyle.Render("deleted")
	default:
		return subtleStyle.Render("unknown")
	}
}

// ProgressBar renders a fixed-width bar like "■■■■□□ 50% (2/4 lessons)".
func ProgressBar(p learning.Progress) string {
	if p.Total == 0 {
		return subtleStyle.Render("no lessons")
	}

	filled := p.Completed * barWidth / p.Total
	bar := strings.Repeat(barFilledChar, filled) + strings.Repeat(barEmptyChar, barWidth-filled)

	return fmt.Sprintf("%s %d%% (%d/%d lessons)", bar, p.Percent, p.Completed, p.Total)
}

// SummaryLine renders one plan for the list view.
func SummaryLine(p *learning.Plan) string {
	title := p.Title
	if len(title) > 40 {
		title = title[:37] + "..."
	}

	count := p.LessonCount()
	lessons := fmt.Sprintf("%d lessons", count)
	if count == 1 {
		lessons = "1 lesson"
	}

	return fmt.Sprintf("%-36s  %-40s %10s   %s", p.ID, title, lessons, StatusBadge(p.Status))
}

// PlanTree renders a full plan: modules, lessons, and tasks, numbered in
// display order. completed marks lesson IDs to decorate as done; nil
// means no progress information.
func PlanTree(p *learning.Plan, completed map[string]bool) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("\n")
	if p.Description != "" {
		b.WriteString(subtleStyle.Render(p.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for mi, m := range p.Modules {
		b.WriteString(moduleStyle.Render(fmt.Sprintf("%d. %s", mi+1, m.Title)))
		b.WriteString("\n")
		if m.Description != "" {
			b.WriteString("   " + subtleStyle.Render(m.Description) + "\n")
		}

		for li, l := range m.Lessons {
			mark := " "
			if completed[l.ID] {
				mark = doneStyle.Render("✓")
			}
			line := fmt.Sprintf("  %s %d.%d %s", mark, mi+1, li+1, l.Title)
			if l.Type != "" {
				line += " " + subtleStyle.Render("("+l.Type+")")
			}
			b.WriteString(line)
			b.WriteString("\n")

			for ti, task := range l.Tasks {
				b.WriteString(fmt.Sprintf("      %d.%d.%d %s\n", mi+1, li+1, ti+1, task.Question))
			}
		}
	}

	return b.String()
}
