package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sstrelka/mentora/internal/learning"
)

func TestListPlans(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/learning/plans" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`[
			{"id": "p1", "title": "Go basics", "status": "confirmed"},
			{"id": "p2", "title": "Databases", "status": "completed"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok"))
	plans, err := c.ListPlans(context.Background())
	if err != nil {
		t.Fatalf("ListPlans failed: %v", err)
	}

	if len(plans) != 2 {
		t.Fatalf("got %d plans, want 2", len(plans))
	}
	if plans[0].ID != "p1" || plans[0].Status != learning.StatusConfirmed {
		t.Errorf("plans[0] = %+v, want p1/confirmed", plans[0])
	}
	if plans[1].Status != learning.StatusCompleted {
		t.Errorf("plans[1].Status = %q, want completed", plans[1].Status)
	}
}

func TestGetPlan_NormalizesOrdering(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/learning/plans/p1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"id": "p1",
			"title": "Go basics",
			"status": "confirmed",
			"modules": [
				{"id": "m2", "title": "Later", "order_index": 2},
				{"id": "m1", "title": "First", "order_index": 1}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok"))
	p, err := c.GetPlan(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}

	if p.Modules[0].ID != "m1" {
		t.Errorf("first module = %q, want m1 (sorted by order_index)", p.Modules[0].ID)
	}
}

func TestConfirmAndRejectPlan_UsePatch(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		w.Write([]byte(`{"message": "ok", "plan_id": "p1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok"))
	ctx := context.Background()

	if err := c.ConfirmPlan(ctx, "p1"); err != nil {
		t.Fatalf("ConfirmPlan failed: %v", err)
	}
	if err := c.RejectPlan(ctx, "p1"); err != nil {
		t.Fatalf("RejectPlan failed: %v", err)
	}

	want := []call{
		{http.MethodPatch, "/learning/plans/p1/confirm"},
		{http.MethodPatch, "/learning/plans/p1/reject"},
	}
	if len(calls) != len(want) {
		t.Fatalf("got %d calls, want %d", len(calls), len(want))
	}
	for i, w := range want {
		if calls[i] != w {
			t.Errorf("call %d = %+v, want %+v", i, calls[i], w)
		}
	}
}

func TestDeletePlan(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Write([]byte(`{"message": "Plan deleted successfully"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok"))
	if err := c.DeletePlan(context.Background(), "p1"); err != nil {
		t.Fatalf("DeletePlan failed: %v", err)
	}

	if gotMethod != http.MethodDelete || gotPath != "/learning/plans/p1" {
		t.Errorf("request = %s %s, want DELETE /learning/plans/p1", gotMethod, gotPath)
	}
}

func TestMarkLessonComplete_Body(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/learning/progress" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &gotBody); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.Write([]byte(`{"id": "pr1", "lesson_id": "l1", "status": "completed"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok"))
	if err := c.MarkLessonComplete(context.Background(), "l1"); err != nil {
		t.Fatalf("MarkLessonComplete failed: %v", err)
	}

	if gotBody["lesson_id"] != "l1" {
		t.Errorf("lesson_id = %q, want l1", gotBody["lesson_id"])
	}
	if gotBody["status"] != "completed" {
		t.Errorf("status = %q, want completed", gotBody["status"])
	}
}

func TestPlanStatus_ParsesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"plan_id": "p1", "status": "confirmed"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok"))
	st, err := c.PlanStatus(context.Background(), "p1")
	if err != nil {
		t.Fatalf("PlanStatus failed: %v", err)
	}
	if st != learning.StatusConfirmed {
		t.Errorf("PlanStatus = %q, want confirmed", st)
	}
}
