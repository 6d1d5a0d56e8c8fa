// Package msgs defines shared message types for TUI view transitions.
package msgs

// View transition messages

// GoToPlanListMsg signals transition to the plan list view.
type GoToPlanListMsg struct{}

// OpenPlanMsg signals that the user wants to open a plan's detail view.
type OpenPlanMsg struct {
	PlanID string
}

// GoToChatMsg signals transition to the mentor chat view.
type GoToChatMsg struct{}

// PlanProposedMsg is sent when a mentor attaches a plan proposal to a
// chat reply.
type PlanProposedMsg struct {
	PlanID string
}

// PlanGoneMsg is sent when a plan turned out to be deleted upstream, so
// views can drop it.
type PlanGoneMsg struct {
	PlanID string
}
