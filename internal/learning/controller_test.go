package learning

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// fakeService emulates the learning backend, including the server-side
// rule that the final progress write flips a confirmed plan to completed.
type fakeService struct {
	mu       sync.Mutex
	statuses map[string]Status
	plans    map[string]*Plan
	progress map[string]bool

	confirmErr error
	rejectErr  error
	markErr    error
	statusErr  error

	confirmCalls int
	statusCalls  int
	markCalls    int
}

func newFakeService() *fakeService {
	return &fakeService{
		statuses: make(map[string]Status),
		plans:    make(map[string]*Plan),
		progress: make(map[string]bool),
	}
}

func (f *fakeService) PlanStatus(ctx context.Context, planID string) (Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.statusErr != nil {
		return StatusUnknown, f.statusErr
	}
	st, ok := f.statuses[planID]
	if !ok {
		return StatusUnknown, fmt.Errorf("plan %s: %w", planID, ErrNotFound)
	}
	return st, nil
}

func (f *fakeService) GetPlan(ctx context.Context, planID string) (*Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[planID]
	if !ok {
		return nil, fmt.Errorf("plan %s: %w", planID, ErrNotFound)
	}
	cp := *p
	cp.Status = f.statuses[planID]
	return &cp, nil
}

func (f *fakeService) ConfirmPlan(ctx context.Context, planID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmCalls++
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.statuses[planID] = StatusConfirmed
	return nil
}

func (f *fakeService) RejectPlan(ctx context.Context, planID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rejectErr != nil {
		return f.rejectErr
	}
	f.statuses[planID] = StatusDeleted
	return nil
}

func (f *fakeService) DeletePlan(ctx context.Context, planID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.statuses[planID]; !ok {
		return fmt.Errorf("plan %s: %w", planID, ErrNotFound)
	}
	f.statuses[planID] = StatusDeleted
	return nil
}

func (f *fakeService) MarkLessonComplete(ctx context.Context, lessonID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markCalls++
	if f.markErr != nil {
		return f.markErr
	}
	f.progress[lessonID] = true

	// Server-side aggregation: last lesson completes the plan.
	for planID, p := range f.plans {
		all := true
		owns := false
		for _, id := range p.LessonIDs() {
			if id == lessonID {
				owns = true
			}
			if !f.progress[id] {
				all = false
			}
		}
		if owns && all && f.statuses[planID] == StatusConfirmed {
			f.statuses[planID] = StatusCompleted
		}
	}
	return nil
}

func threeLessonPlan(planID string) *Plan {
	return &Plan{
		ID:    planID,
		Title: "Test plan",
		Modules: []Module{
			{ID: "m1", OrderIndex: 1, Lessons: []Lesson{
				{ID: "l1", OrderIndex: 1},
				{ID: "l2", OrderIndex: 2},
			}},
			{ID: "m2", OrderIndex: 2, Lessons: []Lesson{
				{ID: "l3", OrderIndex: 1},
			}},
		},
	}
}

func TestControllerConfirm_ActivePlan(t *testing.T) {
	svc := newFakeService()
	svc.statuses["p1"] = StatusActive
	c := NewController(svc, NewStatusStore())

	st, err := c.Confirm(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if st != StatusConfirmed {
		t.Errorf("Confirm returned %q, want %q", st, StatusConfirmed)
	}
	if got := c.Status("p1"); got != StatusConfirmed {
		t.Errorf("stored status = %q, want %q", got, StatusConfirmed)
	}
}

func TestControllerConfirm_ResolvesUnknownFirst(t *testing.T) {
	svc := newFakeService()
	svc.statuses["p1"] = StatusActive
	c := NewController(svc, NewStatusStore())

	if _, err := c.Confirm(context.Background(), "p1"); err != nil {
		t.Fatalf("Confirm on unresolved plan failed: %v", err)
	}
	if svc.confirmCalls != 1 {
		t.Errorf("confirm calls = %d, want 1", svc.confirmCalls)
	}
}

func TestControllerConfirm_RejectsNonActive(t *testing.T) {
	svc := newFakeService()
	svc.statuses["p1"] = StatusConfirmed
	c := NewController(svc, NewStatusStore())

	_, err := c.Confirm(context.Background(), "p1")
	if !errors.Is(err, ErrNotActive) {
		t.Errorf("Confirm on confirmed plan = %v, want ErrNotActive", err)
	}
	if svc.confirmCalls != 0 {
		t.Errorf("backend confirm called %d times for invalid transition, want 0", svc.confirmCalls)
	}
}

func TestControllerConfirm_NoRollbackOnFailure(t *testing.T) {
	svc := newFakeService()
	svc.statuses["p1"] = StatusActive
	c := NewController(svc, NewStatusStore())
	c.Store().Set("p1", StatusActive)

	svc.confirmErr = errors.New("gateway timeout")
	_, err := c.Confirm(context.Background(), "p1")
	if err == nil {
		t.Fatal("Confirm with failing backend = nil, want error")
	}

	// The optimistic write stays; the next resolve reconciles.
	if got := c.Status("p1"); got != StatusConfirmed {
		t.Errorf("status after failed confirm = %q, want optimistic %q", got, StatusConfirmed)
	}
}

func TestControllerReject_OptimisticThenAuthoritative(t *testing.T) {
	svc := newFakeService()
	svc.statuses["p1"] = StatusActive
	c := NewController(svc, NewStatusStore())
	c.Store().Set("p1", StatusActive)

	st, err := c.Reject(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if st != StatusDeleted {
		t.Errorf("Reject returned %q, want %q", st, StatusDeleted)
	}
	if got, _ := svc.PlanStatus(context.Background(), "p1"); got != StatusDeleted {
		t.Errorf("backend status = %q, want %q", got, StatusDeleted)
	}
	if got := c.Status("p1"); got != StatusDeleted {
		t.Errorf("local status = %q, want %q", got, StatusDeleted)
	}
}

func TestControllerResolveStatus_NotFoundForcesDeleted(t *testing.T) {
	svc := newFakeService()
	c := NewController(svc, NewStatusStore())
	c.Store().Set("p1", StatusConfirmed)

	st, err := c.ResolveStatus(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ResolveStatus treated NotFound as an error: %v", err)
	}
	if st != StatusDeleted {
		t.Errorf("ResolveStatus = %q, want %q for missing plan", st, StatusDeleted)
	}
	if got := c.Status("p1"); got != StatusDeleted {
		t.Errorf("stored status = %q, want %q regardless of prior value", got, StatusDeleted)
	}
}

func TestControllerResolveStatus_TransientErrorKeepsStatus(t *testing.T) {
	svc := newFakeService()
	svc.statusErr = errors.New("connection refused")
	c := NewController(svc, NewStatusStore())
	c.Store().Set("p1", StatusConfirmed)

	st, err := c.ResolveStatus(context.Background(), "p1")
	if err == nil {
		t.Fatal("ResolveStatus with failing backend = nil, want error")
	}
	if st != StatusConfirmed {
		t.Errorf("status after failed resolve = %q, want prior %q", st, StatusConfirmed)
	}
}

func TestControllerAdoptProposal_DefaultsToActive(t *testing.T) {
	c := NewController(newFakeService(), NewStatusStore())

	c.AdoptProposal("p1", "")
	if got := c.Status("p1"); got != StatusActive {
		t.Errorf("status after empty proposal = %q, want %q", got, StatusActive)
	}

	c.AdoptProposal("p2", StatusConfirmed)
	if got := c.Status("p2"); got != StatusConfirmed {
		t.Errorf("status after explicit proposal = %q, want %q", got, StatusConfirmed)
	}
}

func TestControllerCompleteLesson_FullRun(t *testing.T) {
	svc := newFakeService()
	svc.statuses["p1"] = StatusConfirmed
	svc.plans["p1"] = threeLessonPlan("p1")
	c := NewController(svc, NewStatusStore())
	ctx := context.Background()

	if _, err := c.OpenPlan(ctx, "p1"); err != nil {
		t.Fatalf("OpenPlan failed: %v", err)
	}

	prog, err := c.CompleteLesson(ctx, "p1", "l1")
	if err != nil {
		t.Fatalf("CompleteLesson(l1) failed: %v", err)
	}
	if prog.Completed != 1 || prog.Total != 3 || prog.Percent != 33 {
		t.Errorf("progress after l1 = %+v, want {1 3 33}", prog)
	}

	if _, err := c.CompleteLesson(ctx, "p1", "l2"); err != nil {
		t.Fatalf("CompleteLesson(l2) failed: %v", err)
	}
	prog, err = c.CompleteLesson(ctx, "p1", "l3")
	if err != nil {
		t.Fatalf("CompleteLesson(l3) failed: %v", err)
	}
	if prog.Completed != 3 || prog.Total != 3 || prog.Percent != 100 {
		t.Errorf("progress after all lessons = %+v, want {3 3 100}", prog)
	}

	if got := c.Status("p1"); got != StatusCompleted {
		t.Errorf("plan status after final lesson = %q, want %q", got, StatusCompleted)
	}
}

func TestControllerCompleteLesson_OnCompletedPlan(t *testing.T) {
	svc := newFakeService()
	svc.statuses["p1"] = StatusCompleted
	svc.plans["p1"] = threeLessonPlan("p1")
	c := NewController(svc, NewStatusStore())
	ctx := context.Background()

	if _, err := c.OpenPlan(ctx, "p1"); err != nil {
		t.Fatalf("OpenPlan failed: %v", err)
	}

	_, err := c.CompleteLesson(ctx, "p1", "l1")
	if !errors.Is(err, ErrPlanCompleted) {
		t.Errorf("CompleteLesson on completed plan = %v, want ErrPlanCompleted", err)
	}
	if svc.markCalls != 0 {
		t.Errorf("progress writes on completed plan = %d, want 0", svc.markCalls)
	}
}

func TestControllerCompleteLesson_RequiresOpenPlan(t *testing.T) {
	c := NewController(newFakeService(), NewStatusStore())

	_, err := c.CompleteLesson(context.Background(), "p1", "l1")
	if !errors.Is(err, ErrPlanNotOpen) {
		t.Errorf("CompleteLesson without OpenPlan = %v, want ErrPlanNotOpen", err)
	}
}

func TestControllerOpenPlan_SeedsSavedProgress(t *testing.T) {
	svc := newFakeService()
	svc.statuses["p1"] = StatusConfirmed
	plan := threeLessonPlan("p1")
	plan.Modules[0].Lessons[0].UserProgressStatus = "completed"
	svc.plans["p1"] = plan
	c := NewController(svc, NewStatusStore())

	if _, err := c.OpenPlan(context.Background(), "p1"); err != nil {
		t.Fatalf("OpenPlan failed: %v", err)
	}

	if !c.LessonCompleted("p1", "l1") {
		t.Error("saved progress for l1 not seeded")
	}
	prog, err := c.PlanProgress("p1")
	if err != nil {
		t.Fatalf("PlanProgress failed: %v", err)
	}
	if prog.Completed != 1 {
		t.Errorf("seeded Completed = %d, want 1", prog.Completed)
	}
}

func TestControllerDelete_ForgetsPlan(t *testing.T) {
	svc := newFakeService()
	svc.statuses["p1"] = StatusConfirmed
	svc.plans["p1"] = threeLessonPlan("p1")
	c := NewController(svc, NewStatusStore())
	ctx := context.Background()

	if _, err := c.OpenPlan(ctx, "p1"); err != nil {
		t.Fatalf("OpenPlan failed: %v", err)
	}
	if err := c.Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if got := c.Status("p1"); got != StatusDeleted {
		t.Errorf("status after delete = %q, want %q", got, StatusDeleted)
	}
	if _, err := c.CompleteLesson(ctx, "p1", "l1"); !errors.Is(err, ErrPlanNotOpen) {
		t.Errorf("CompleteLesson after delete = %v, want ErrPlanNotOpen", err)
	}
}

// Operations for different plans are independent: a stalled backend call
// for one plan must not block another plan's lifecycle.
func TestControllerPerPlanSerialization(t *testing.T) {
	svc := newFakeService()
	svc.statuses["p1"] = StatusActive
	svc.statuses["p2"] = StatusActive
	c := NewController(svc, NewStatusStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, planID := range []string{"p1", "p2"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := c.Confirm(ctx, id); err != nil {
				t.Errorf("Confirm(%s) failed: %v", id, err)
			}
		}(planID)
	}
	wg.Wait()

	for _, planID := range []string{"p1", "p2"} {
		if got := c.Status(planID); got != StatusConfirmed {
			t.Errorf("Status(%s) = %q, want %q", planID, got, StatusConfirmed)
		}
	}
}
