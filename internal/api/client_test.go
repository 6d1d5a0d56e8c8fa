package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sstrelka/mentora/internal/learning"
)

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"plan_id": "p1", "status": "active"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok-123"))
	if _, err := c.PlanStatus(context.Background(), "p1"); err != nil {
		t.Fatalf("PlanStatus failed: %v", err)
	}

	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer tok-123")
	}
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, sawHeader = r.Header["Authorization"]
		w.Write([]byte(`{"status": "active"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken(""))
	if _, err := c.PlanStatus(context.Background(), "p1"); err != nil {
		t.Fatalf("PlanStatus failed: %v", err)
	}

	if sawHeader {
		t.Errorf("Authorization header sent with empty token: %q", gotAuth)
	}
}

func TestClient_TokenSourceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request reached the server despite token failure")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, func() (string, error) {
		return "", errors.New("token file unreadable")
	})

	if _, err := c.PlanStatus(context.Background(), "p1"); err == nil {
		t.Fatal("PlanStatus with failing token source = nil, want error")
	}
}

func TestClient_ErrorDetailExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail": "Plan is not confirmed"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok"))
	_, err := c.GetPlan(context.Background(), "p1")
	if err == nil {
		t.Fatal("GetPlan on 403 = nil, want error")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v does not unwrap to *Error", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", apiErr.StatusCode)
	}
	if apiErr.Detail != "Plan is not confirmed" {
		t.Errorf("Detail = %q, want the backend message", apiErr.Detail)
	}
	if !IsForbidden(err) {
		t.Error("IsForbidden = false for a 403")
	}
}

func TestClient_ErrorWithoutDetailBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok"))
	_, err := c.ListPlans(context.Background())
	if err == nil {
		t.Fatal("ListPlans on 502 = nil, want error")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v does not unwrap to *Error", err)
	}
	if apiErr.Detail != "" {
		t.Errorf("Detail = %q, want empty for a non-JSON body", apiErr.Detail)
	}
	if apiErr.Error() == "" {
		t.Error("Error() returned empty message")
	}
}

func TestClient_NotFoundMatchesLearningSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Plan not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok"))
	_, err := c.PlanStatus(context.Background(), "gone")
	if err == nil {
		t.Fatal("PlanStatus on 404 = nil, want error")
	}

	if !errors.Is(err, learning.ErrNotFound) {
		t.Errorf("404 error %v does not match learning.ErrNotFound", err)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound = false for a 404")
	}
	if IsUnauthorized(err) {
		t.Error("IsUnauthorized = true for a 404")
	}
}

func TestClient_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Could not validate credentials"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("stale"))
	_, err := c.ListPlans(context.Background())
	if !IsUnauthorized(err) {
		t.Errorf("IsUnauthorized = false, err = %v", err)
	}
	if errors.Is(err, learning.ErrNotFound) {
		t.Error("401 matched learning.ErrNotFound")
	}
}

func TestClient_TrailingSlashBaseURL(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"status": "active"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", StaticToken("tok"))
	if _, err := c.PlanStatus(context.Background(), "p1"); err != nil {
		t.Fatalf("PlanStatus failed: %v", err)
	}

	if gotPath != "/learning/plans/p1/status" {
		t.Errorf("request path = %q, want %q", gotPath, "/learning/plans/p1/status")
	}
}
