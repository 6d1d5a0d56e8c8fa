package learning

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is the condition a backend implementation should expose
// (via errors.Is) when a plan no longer exists server-side. The
// controller translates it into the deleted status instead of surfacing
// it as a failure.
var ErrNotFound = errors.New("not found")

// ErrNotActive is returned when confirm or reject is attempted on a plan
// that is not awaiting review.
var ErrNotActive = errors.New("plan is not awaiting review")

// ErrPlanCompleted is returned when a lesson completion is attempted on a
// plan that is already completed.
var ErrPlanCompleted = errors.New("plan is already completed")

// ErrPlanNotOpen is returned when lesson completion is attempted before
// the plan detail has been loaded via OpenPlan.
var ErrPlanNotOpen = errors.New("plan has not been opened")

// Service is the backend collaborator the controller drives. api.Client
// satisfies it; tests inject fakes.
type Service interface {
	PlanStatus(ctx context.Context, planID string) (Status, error)
	GetPlan(ctx context.Context, planID string) (*Plan, error)
	ConfirmPlan(ctx context.Context, planID string) error
	RejectPlan(ctx context.Context, planID string) error
	DeletePlan(ctx context.Context, planID string) error
	MarkLessonComplete(ctx context.Context, lessonID string) error
}

// mutation describes one user-initiated status change. Whether the local
// status flips before or after the backend call is an explicit property
// of the mutation, not an accident of its code path.
type mutation struct {
	verb       string
	target     Status
	optimistic bool
	call       func(ctx context.Context, planID string) error
}

// Controller is the single owner of plan status transitions and lesson
// completion for one user session. Operations on the same plan are
// serialized; different plans proceed independently.
type Controller struct {
	svc   Service
	store *StatusStore
	locks *mutexMap

	mu    sync.Mutex
	plans map[string]*planSession
}

// planSession is the per-plan state established by OpenPlan.
type planSession struct {
	lessonIDs []string
	tracker   *Tracker
}

// NewController creates a controller over the given backend and store.
func NewController(svc Service, store *StatusStore) *Controller {
	return &Controller{
		svc:   svc,
		store: store,
		locks: newMutexMap(),
		plans: make(map[string]*planSession),
	}
}

// Store exposes the underlying status store for read-side consumers.
func (c *Controller) Store() *StatusStore {
	return c.store
}

// Status returns the cached status for planID without touching the backend.
func (c *Controller) Status(planID string) Status {
	return c.store.Get(planID)
}

// AdoptProposal records the initial status of a plan that arrived through
// a chat response rather than a status fetch. An empty status defaults to
// active, matching how mentors propose plans.
func (c *Controller) AdoptProposal(planID string, status Status) {
	if status == "" || status == StatusUnknown {
		status = StatusActive
	}
	c.store.Set(planID, status)
}

// Confirm accepts a mentor-proposed plan. The local status flips to
// confirmed before the backend call so the view responds immediately; on
// failure the error is surfaced but the optimistic state stays in place.
func (c *Controller) Confirm(ctx context.Context, planID string) (Status, error) {
	return c.apply(ctx, planID, mutation{
		verb:       "confirm",
		target:     StatusConfirmed,
		optimistic: true,
		call:       c.svc.ConfirmPlan,
	})
}

// Reject declines a mentor-proposed plan, transitioning it to deleted.
// Same optimistic shape as Confirm.
func (c *Controller) Reject(ctx context.Context, planID string) (Status, error) {
	return c.apply(ctx, planID, mutation{
		verb:       "reject",
		target:     StatusDeleted,
		optimistic: true,
		call:       c.svc.RejectPlan,
	})
}

func (c *Controller) apply(ctx context.Context, planID string, m mutation) (Status, error) {
	c.locks.Lock(planID)
	defer c.locks.Unlock(planID)

	current := c.store.Get(planID)
	if current == StatusUnknown {
		st, err := c.resolve(ctx, planID)
		if err != nil {
			return current, fmt.Errorf("%s plan: %w", m.verb, err)
		}
		current = st
	}
	if current != StatusActive {
		return current, fmt.Errorf("%s plan %s (status %s): %w", m.verb, planID, current, ErrNotActive)
	}
	if err := ValidateTransition(current, m.target); err != nil {
		return current, fmt.Errorf("%s plan: %w", m.verb, err)
	}

	if m.optimistic {
		c.store.Set(planID, m.target)
	}

	if err := m.call(ctx, planID); err != nil {
		// No rollback of the optimistic write; the next resolve is
		// trusted to reconcile. See DESIGN.md.
		return c.store.Get(planID), fmt.Errorf("%s plan: %w", m.verb, err)
	}

	if !m.optimistic {
		c.store.Set(planID, m.target)
	}

	// The request settled; re-fetch so the server stays authoritative.
	if st, err := c.resolve(ctx, planID); err == nil {
		return st, nil
	}
	return c.store.Get(planID), nil
}

// ResolveStatus fetches the authoritative status for planID and records
// it. A backend NotFound is not an error: it is the defined signal that
// the plan was removed upstream, so the local status is forced to deleted.
func (c *Controller) ResolveStatus(ctx context.Context, planID string) (Status, error) {
	c.locks.Lock(planID)
	defer c.locks.Unlock(planID)
	return c.resolve(ctx, planID)
}

// resolve must be called with the plan's lock held.
func (c *Controller) resolve(ctx context.Context, planID string) (Status, error) {
	st, err := c.svc.PlanStatus(ctx, planID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.store.Set(planID, StatusDeleted)
			return StatusDeleted, nil
		}
		return c.store.Get(planID), err
	}
	c.store.Set(planID, st)
	return st, nil
}

// OpenPlan loads the plan detail, adopts its status, and establishes the
// per-plan progress tracker seeded from the user's saved progress.
func (c *Controller) OpenPlan(ctx context.Context, planID string) (*Plan, error) {
	c.locks.Lock(planID)
	defer c.locks.Unlock(planID)

	p, err := c.svc.GetPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.store.Set(planID, StatusDeleted)
		}
		return nil, err
	}
	p.Normalize()
	if p.Status != "" && p.Status != StatusUnknown {
		c.store.Set(planID, p.Status)
	}

	c.mu.Lock()
	c.plans[planID] = &planSession{
		lessonIDs: p.LessonIDs(),
		tracker:   NewTracker(c.svc, p.LessonIDs(), p.CompletedLessonIDs()),
	}
	c.mu.Unlock()
	return p, nil
}

// CompleteLesson marks one lesson done for an open plan. When the last
// lesson completes, the confirmed → completed transition is mirrored
// locally and then resolved against the backend, which flips the plan on
// the final progress write.
func (c *Controller) CompleteLesson(ctx context.Context, planID, lessonID string) (Progress, error) {
	c.locks.Lock(planID)
	defer c.locks.Unlock(planID)

	sess := c.session(planID)
	if sess == nil {
		return Progress{}, ErrPlanNotOpen
	}
	if c.store.Get(planID) == StatusCompleted {
		return sess.tracker.Progress(sess.lessonIDs), ErrPlanCompleted
	}

	if err := sess.tracker.MarkCompleted(ctx, lessonID); err != nil {
		return sess.tracker.Progress(sess.lessonIDs), err
	}

	prog := sess.tracker.Progress(sess.lessonIDs)
	if sess.tracker.AllComplete(sess.lessonIDs) {
		if c.store.Get(planID) == StatusConfirmed {
			c.store.Set(planID, StatusCompleted)
		}
		// Best effort; the local mirror stands if the resolve fails.
		c.resolve(ctx, planID)
	}
	return prog, nil
}

// PlanProgress returns the current completion metric for an open plan.
func (c *Controller) PlanProgress(planID string) (Progress, error) {
	sess := c.session(planID)
	if sess == nil {
		return Progress{}, ErrPlanNotOpen
	}
	return sess.tracker.Progress(sess.lessonIDs), nil
}

// LessonCompleted reports whether a lesson of an open plan is done.
func (c *Controller) LessonCompleted(planID, lessonID string) bool {
	sess := c.session(planID)
	if sess == nil {
		return false
	}
	return sess.tracker.IsCompleted(lessonID)
}

// Delete removes a plan server-side. Not optimistic: the dashboard keeps
// showing the plan until the backend acknowledges the removal.
func (c *Controller) Delete(ctx context.Context, planID string) error {
	c.locks.Lock(planID)
	defer c.locks.Unlock(planID)

	if err := c.svc.DeletePlan(ctx, planID); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete plan: %w", err)
	}
	c.store.Set(planID, StatusDeleted)
	c.forget(planID)
	return nil
}

// Forget drops all local state for a plan that left the active list.
func (c *Controller) Forget(planID string) {
	c.locks.Lock(planID)
	defer c.locks.Unlock(planID)
	c.store.Remove(planID)
	c.forget(planID)
}

func (c *Controller) session(planID string) *planSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plans[planID]
}

func (c *Controller) forget(planID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.plans, planID)
}
