package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultTranscriptMaxLines = 2000

// Transcript wraps bubbles/viewport.Model with auto-scroll tracking and
// line capping for chat transcripts.
type Transcript struct {
	viewport   viewport.Model
	autoScroll bool     // true = scroll to bottom on new content
	lines      []string // stored lines, capped at maxLines
	maxLines   int
	width      int
	height     int
}

// NewTranscript creates a Transcript with the given dimensions. maxLines
// caps the retained history (0 uses the default of 2000).
func NewTranscript(width, height, maxLines int) Transcript {
	if maxLines <= 0 {
		maxLines = defaultTranscriptMaxLines
	}

	vp := viewport.New(width, height)
	vp.SetContent("")

	return Transcript{
		viewport:   vp,
		autoScroll: true,
		lines:      make([]string, 0, 64),
		maxLines:   maxLines,
		width:      width,
		height:     height,
	}
}

// SetSize updates the viewport dimensions.
func (t *Transcript) SetSize(width, height int) {
	if t.width == width && t.height == height {
		return
	}

	t.width = width
	t.height = height
	t.viewport.Width = width
	t.viewport.Height = height

	// Re-set content so the viewport recalculates internal state.
	t.viewport.SetContent(strings.Join(t.lines, "\n"))

	if t.autoScroll {
		t.viewport.GotoBottom()
	} else {
		t.viewport.SetYOffset(t.viewport.YOffset)
	}
}

// SetLines replaces the stored lines, dropping the oldest beyond the
// cap. When autoScroll is on, the viewport follows the newest line.
func (t *Transcript) SetLines(lines []string) {
	if len(lines) > t.maxLines {
		lines = lines[len(lines)-t.maxLines:]
	}

	t.lines = make([]string, len(lines))
	copy(t.lines, lines)

	t.viewport.SetContent(strings.Join(t.lines, "\n"))

	if t.autoScroll {
		t.viewport.GotoBottom()
	} else {
		t.viewport.SetYOffset(t.viewport.YOffset)
	}
}

// Update handles viewport key and mouse events. Scrolling up pauses
// auto-scroll; returning to the bottom re-enables it.
func (t Transcript) Update(msg tea.Msg) (Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "pgup", "ctrl+u":
			t.autoScroll = false
		case "pgdown", "ctrl+d":
			if t.viewport.AtBottom() {
				t.autoScroll = true
			}
		case "end":
			t.autoScroll = true
		case "home":
			t.autoScroll = false
		}
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			t.autoScroll = false
		case tea.MouseButtonWheelDown:
			if t.viewport.AtBottom() {
				t.autoScroll = true
			}
		}
	}

	return t, cmd
}

// View renders the transcript.
func (t Transcript) View() string {
	return t.viewport.View()
}

// AtBottom reports whether the viewport is scrolled to the newest line.
func (t Transcript) AtBottom() bool {
	return t.viewport.AtBottom()
}

// Lines returns the stored lines.
func (t Transcript) Lines() []string {
	return t.lines
}
