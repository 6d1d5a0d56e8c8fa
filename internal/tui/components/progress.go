package components

import (
	"fmt"
	"strings"

	"github.com/sstrelka/mentora/internal/learning"
)

const (
	filledChar = "■"
	emptyChar  = "□"
)

// Progress renders a lesson progress bar like: ■■■■□□□□ 50% (2/4)
type Progress struct {
	Completed int
	Total     int
	Percent   int
	Width     int // character width of the bar portion
}

// NewProgress creates a Progress from the tracker's completion metric.
func NewProgress(p learning.Progress, width int) Progress {
	return Progress{
		Completed: p.Completed,
		Total:     p.Total,
		Percent:   p.Percent,
		Width:     width,
	}
}

// View returns the rendered progress bar string.
func (p Progress) View() string {
	if p.Total <= 0 || p.Width <= 0 {
		return ""
	}

	// Clamp to valid range
	completed := p.Completed
	if completed < 0 {
		completed = 0
	}
	if completed > p.Total {
		completed = p.Total
	}

	filled := (completed * p.Width) / p.Total
	bar := strings.Repeat(filledChar, filled) + strings.Repeat(emptyChar, p.Width-filled)

	return fmt.Sprintf("%s %d%% (%d/%d)", bar, p.Percent, completed, p.Total)
}
