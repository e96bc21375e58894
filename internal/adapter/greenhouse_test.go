package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobscout/jobscout/internal/model"
)

func TestGreenhouseSearch_Success(t *testing.T) {
	payload := `{
		"jobs": [
			{
				"id": 12345,
				"title": "Software Engineer",
				"location": {"name": "San Francisco, CA"},
				"content": "&lt;p&gt;Write software at Acme.&lt;/p&gt;",
				"absolute_url": "https://boards.greenhouse.io/acme/jobs/12345",
				"updated_at": "2026-02-13T10:00:00Z"
			},
			{
				"id": 67890,
				"title": "Recruiter",
				"location": {"name": "New York, NY"},
				"content": "&lt;p&gt;Hire people.&lt;/p&gt;",
				"absolute_url": "https://boards.greenhouse.io/acme/jobs/67890",
				"updated_at": "2026-02-13T11:30:00Z"
			}
		]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/acme/jobs" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("content") != "true" {
			t.Errorf("expected content=true query, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewGreenhouseAdapter("acme", "Acme Corp", srv.Client())
	a.baseURL = srv.URL

	raws, err := a.Search(context.Background(), model.SearchParams{
		Keywords: []string{"engineer"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The recruiter listing fails the keyword filter.
	if len(raws) != 1 {
		t.Fatalf("expected 1 raw posting, got %d", len(raws))
	}

	r := raws[0]
	if r.ID != "12345" {
		t.Errorf("expected ID 12345, got %s", r.ID)
	}
	if r.Company != "Acme Corp" {
		t.Errorf("expected company Acme Corp, got %s", r.Company)
	}
	if r.Location != "San Francisco, CA" {
		t.Errorf("expected location San Francisco, CA, got %s", r.Location)
	}
	if r.Description != "Write software at Acme." {
		t.Errorf("expected unescaped stripped description, got %q", r.Description)
	}
	if r.PostedAt != "2026-02-13T10:00:00Z" {
		t.Errorf("unexpected PostedAt: %s", r.PostedAt)
	}
}

func TestGreenhouseSearch_EmptyBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jobs": []}`))
	}))
	defer srv.Close()

	a := NewGreenhouseAdapter("empty-co", "Empty Co", srv.Client())
	a.baseURL = srv.URL

	raws, err := a.Search(context.Background(), model.SearchParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raws) != 0 {
		t.Fatalf("expected 0 raw postings, got %d", len(raws))
	}
}

func TestGreenhouseSearch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewGreenhouseAdapter("fail-co", "Fail Co", srv.Client())
	a.baseURL = srv.URL

	_, err := a.Search(context.Background(), model.SearchParams{})
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected *model.HTTPError with status 500, got %v", err)
	}
}

func TestGreenhouseSearch_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not valid json`))
	}))
	defer srv.Close()

	a := NewGreenhouseAdapter("bad-co", "Bad Co", srv.Client())
	a.baseURL = srv.URL

	if _, err := a.Search(context.Background(), model.SearchParams{}); err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}
