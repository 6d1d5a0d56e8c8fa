package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sstrelka/mentora/internal/learning"
)

// ListPlans fetches the user's plan summaries. The backend only returns
// confirmed and completed plans; filtering for display stays with the
// caller.
func (c *Client) ListPlans(ctx context.Context) ([]*learning.Plan, error) {
	var plans []*learning.Plan
	if err := c.getJSON(ctx, "/learning/plans", &plans); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	for _, p := range plans {
		p.Normalize()
	}
	return plans, nil
}

// GetPlan fetches the full plan detail with nested modules, lessons, and
// the user's per-lesson progress. 403 means the plan is not confirmed yet.
func (c *Client) GetPlan(ctx context.Context, planID string) (*learning.Plan, error) {
	var p learning.Plan
	if err := c.getJSON(ctx, "/learning/plans/"+url.PathEscape(planID), &p); err != nil {
		return nil, fmt.Errorf("get plan %s: %w", planID, err)
	}
	p.Normalize()
	return &p, nil
}

// PlanStatus fetches the authoritative status for a plan. A 404 wraps
// learning.ErrNotFound via Error.Is so the controller maps it to deleted.
func (c *Client) PlanStatus(ctx context.Context, planID string) (learning.Status, error) {
	var resp struct {
		PlanID string `json:"plan_id"`
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, "/learning/plans/"+url.PathEscape(planID)+"/status", &resp); err != nil {
		return learning.StatusUnknown, fmt.Errorf("get plan status %s: %w", planID, err)
	}
	return learning.ParseStatus(resp.Status), nil
}

// ConfirmPlan accepts a mentor-proposed plan.
func (c *Client) ConfirmPlan(ctx context.Context, planID string) error {
	if err := c.postJSON(ctx, http.MethodPatch, "/learning/plans/"+url.PathEscape(planID)+"/confirm", nil, nil); err != nil {
		return fmt.Errorf("confirm plan %s: %w", planID, err)
	}
	return nil
}

// RejectPlan declines a mentor-proposed plan.
func (c *Client) RejectPlan(ctx context.Context, planID string) error {
	if err := c.postJSON(ctx, http.MethodPatch, "/learning/plans/"+url.PathEscape(planID)+"/reject", nil, nil); err != nil {
		return fmt.Errorf("reject plan %s: %w", planID, err)
	}
	return nil
}

// DeletePlan removes a plan.
func (c *Client) DeletePlan(ctx context.Context, planID string) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, "/learning/plans/"+url.PathEscape(planID), nil); err != nil {
		return fmt.Errorf("delete plan %s: %w", planID, err)
	}
	return nil
}

// progressRequest is the body for the progress write endpoint.
type progressRequest struct {
	LessonID string `json:"lesson_id"`
	Status   string `json:"status"`
}

// MarkLessonComplete records a completed lesson for the current user.
func (c *Client) MarkLessonComplete(ctx context.Context, lessonID string) error {
	req := progressRequest{LessonID: lessonID, Status: "completed"}
	if err := c.postJSON(ctx, http.MethodPost, "/learning/progress", req, nil); err != nil {
		return fmt.Errorf("mark lesson %s complete: %w", lessonID, err)
	}
	return nil
}
