package action_service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/serisow/glowpress/oauth"
	"github.com/serisow/glowpress/pipeline_type"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPost() pipeline_type.Post {
	return pipeline_type.Post{
		ID:     "local-1",
		Topic:  "glass skin routine",
		Title:  "The Honest Guide to Glass Skin Routine",
		Labels: []string{"beauty", "skincare tips"},
		HTML:   "<p>body</p>",
	}
}

func TestBloggerPublish(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/blogs/blog-1/posts/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}

		var payload struct {
			Kind    string   `json:"kind"`
			Title   string   `json:"title"`
			Content string   `json:"content"`
			Labels  []string `json:"labels"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
		if payload.Kind != "blogger#post" {
			t.Errorf("kind = %q", payload.Kind)
		}
		if payload.Title != "The Honest Guide to Glass Skin Routine" {
			t.Errorf("title = %q", payload.Title)
		}
		if len(payload.Labels) != 2 {
			t.Errorf("labels = %v", payload.Labels)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"id":  "123",
			"url": "http://blog.example.com/123",
		})
	}))
	defer server.Close()

	s := NewBloggerPublishActionService("blog-1", oauth.StaticTokenSource("test-token"), discardLogger()).
		WithAPIBaseURL(server.URL)

	result, err := s.Publish(context.Background(), testPost())
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if result.PostID != "123" || result.URL != "http://blog.example.com/123" {
		t.Errorf("unexpected result: %+v", result)
	}
	if calls != 1 {
		t.Errorf("API called %d times, want 1", calls)
	}
}

func TestBloggerPublishErrorSurfacesBodyWithoutRetry(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":{"message":"insufficient permissions"}}`, http.StatusForbidden)
	}))
	defer server.Close()

	s := NewBloggerPublishActionService("blog-1", oauth.StaticTokenSource("test-token"), discardLogger()).
		WithAPIBaseURL(server.URL)

	_, err := s.Publish(context.Background(), testPost())
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "status 403") || !strings.Contains(err.Error(), "insufficient permissions") {
		t.Errorf("error must carry status and body: %v", err)
	}
	if calls != 1 {
		t.Errorf("API called %d times, want exactly 1 (no retry)", calls)
	}
}

func TestBloggerPublishWithoutBlogID(t *testing.T) {
	s := NewBloggerPublishActionService("", oauth.StaticTokenSource("test-token"), discardLogger())
	if _, err := s.Publish(context.Background(), testPost()); err == nil {
		t.Fatal("expected error with empty blog ID")
	}
}

func TestBloggerExecuteReadsPostFromContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "55", "url": "http://blog/55"})
	}))
	defer server.Close()

	s := NewBloggerPublishActionService("blog-1", oauth.StaticTokenSource("tok"), discardLogger()).
		WithAPIBaseURL(server.URL)

	pipelineContext := pipeline_type.NewContext()
	pipelineContext.SetStepOutput("post", testPost())

	step := &pipeline_type.PipelineStep{
		ID:            "publish",
		RequiredSteps: "post",
	}

	out, err := s.Execute(context.Background(), BloggerPublishServiceName, pipelineContext, step)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	var result pipeline_type.PublishResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not publish-result JSON: %v", err)
	}
	if result.PostID != "55" {
		t.Errorf("post id = %q", result.PostID)
	}
}

func TestBloggerExecuteWithoutPost(t *testing.T) {
	s := NewBloggerPublishActionService("blog-1", oauth.StaticTokenSource("tok"), discardLogger())

	pipelineContext := pipeline_type.NewContext()
	step := &pipeline_type.PipelineStep{ID: "publish", RequiredSteps: "post"}

	if _, err := s.Execute(context.Background(), BloggerPublishServiceName, pipelineContext, step); err == nil {
		t.Fatal("expected error when no post is in the context")
	}
}
