// Package tui implements the interactive dashboard.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sstrelka/mentora/internal/api"
	"github.com/sstrelka/mentora/internal/config"
	"github.com/sstrelka/mentora/internal/learning"
	"github.com/sstrelka/mentora/internal/tui/msgs"
	"github.com/sstrelka/mentora/internal/tui/views"
)

// View represents the different screens in the TUI.
type View int

const (
	ViewPlanList View = iota
	ViewPlanDetail
	ViewChat
)

// Model is the main Bubble Tea model that orchestrates all views.
type Model struct {
	currentView View
	width       int
	height      int

	client *api.Client
	ctrl   *learning.Controller
	cfg    *config.Config

	planList   views.PlanListModel
	planDetail views.PlanDetailModel
	chat       views.ChatModel
	hasDetail  bool
	hasChat    bool
}

// Run starts the TUI application.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client := api.NewClient(cfg.APIURL, api.StaticToken(cfg.Token), api.WithTimeout(cfg.Timeout))
	ctrl := learning.NewController(client, learning.NewStatusStore())

	p := tea.NewProgram(
		initialModel(client, ctrl, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()
	return err
}

func initialModel(client *api.Client, ctrl *learning.Controller, cfg *config.Config) Model {
	return Model{
		currentView: ViewPlanList,
		client:      client,
		ctrl:        ctrl,
		cfg:         cfg,
		planList:    views.NewPlanListModel(client, ctrl),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.planList.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.forwardToAll(msg)

	case msgs.GoToPlanListMsg:
		m.currentView = ViewPlanList
		return m, m.planList.Init()

	case msgs.OpenPlanMsg:
		m.planDetail = views.NewPlanDetailModel(m.ctrl, msg.PlanID)
		m.planDetail.SetSize(m.width, m.height)
		m.hasDetail = true
		m.currentView = ViewPlanDetail
		return m, m.planDetail.Init()

	case msgs.GoToChatMsg:
		// Keep an existing conversation on screen when coming back.
		if !m.hasChat {
			m.chat = views.NewChatModel(m.client, m.ctrl, m.cfg.MentorID)
			m.hasChat = true
			m.currentView = ViewChat
			var cmd tea.Cmd
			m.chat, cmd = resize(m.chat, m.width, m.height)
			return m, tea.Batch(m.chat.Init(), cmd)
		}
		m.currentView = ViewChat
		return m, nil

	case msgs.PlanGoneMsg:
		m.ctrl.Forget(msg.PlanID)
		m.currentView = ViewPlanList
		return m, m.planList.Init()

	case msgs.PlanProposedMsg:
		// The chat view owns the review flow; nothing to do here.
		return m, nil

	// Async results are routed to the views that issued them, not the
	// one currently on screen; each view drops results for plans or
	// mentors it is no longer showing.
	case views.PlansLoadedMsg, views.PlanDeletedMsg:
		var cmd tea.Cmd
		m.planList, cmd = m.planList.Update(msg)
		return m, cmd

	case views.ReviewDoneMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.planList, cmd = m.planList.Update(msg)
		cmds = append(cmds, cmd)
		if m.hasChat {
			m.chat, cmd = m.chat.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case views.PlanOpenedMsg, views.LessonDoneMsg:
		if !m.hasDetail {
			return m, nil
		}
		var cmd tea.Cmd
		m.planDetail, cmd = m.planDetail.Update(msg)
		return m, cmd

	case views.MentorsLoadedMsg, views.HistoryLoadedMsg, views.ChatReplyMsg:
		if !m.hasChat {
			return m, nil
		}
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}

	return m.forwardToCurrent(msg)
}

func (m Model) forwardToAll(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.planList, cmd = m.planList.Update(msg)
	cmds = append(cmds, cmd)
	if m.hasDetail {
		m.planDetail, cmd = m.planDetail.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.hasChat {
		m.chat, cmd = m.chat.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) forwardToCurrent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewPlanDetail:
		m.planDetail, cmd = m.planDetail.Update(msg)
	case ViewChat:
		m.chat, cmd = m.chat.Update(msg)
	default:
		m.planList, cmd = m.planList.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.currentView {
	case ViewPlanDetail:
		return m.planDetail.View()
	case ViewChat:
		return m.chat.View()
	default:
		return m.planList.View()
	}
}

// resize pushes the current window size into a freshly created view.
func resize(c views.ChatModel, width, height int) (views.ChatModel, tea.Cmd) {
	if width == 0 && height == 0 {
		return c, nil
	}
	return c.Update(tea.WindowSizeMsg{Width: width, Height: height})
}
