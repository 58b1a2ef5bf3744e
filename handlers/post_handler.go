package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/serisow/glowpress/config"
	"github.com/serisow/glowpress/history"
	"github.com/serisow/glowpress/pipeline"
	"github.com/serisow/glowpress/pipeline_type"
	"github.com/serisow/glowpress/plugin_registry"
)

// Publisher is the slice of the publish action the handler needs for
// re-publishing an existing history entry.
type Publisher interface {
	Publish(ctx context.Context, post pipeline_type.Post) (pipeline_type.PublishResult, error)
}

type PostHandler struct {
	Config    config.Config
	Registry  *plugin_registry.PluginRegistry
	Logger    *slog.Logger
	History   *history.Store
	Publisher Publisher
}

func NewPostHandler(cfg config.Config, registry *plugin_registry.PluginRegistry, logger *slog.Logger, store *history.Store, publisher Publisher) *PostHandler {
	return &PostHandler{
		Config:    cfg,
		Registry:  registry,
		Logger:    logger,
		History:   store,
		Publisher: publisher,
	}
}

type generateResponse struct {
	ExecutionID   string                       `json:"execution_id"`
	Post          *pipeline_type.Post          `json:"post,omitempty"`
	PublishResult *pipeline_type.PublishResult `json:"publish_result,omitempty"`
	Error         string                       `json:"error,omitempty"`
}

// GeneratePost runs the content-assembly pipeline synchronously and returns
// the assembled post. When publishing was requested and fails, the post is
// still kept in history and returned alongside the error.
func (h *PostHandler) GeneratePost(w http.ResponseWriter, r *http.Request) {
	var req pipeline.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	p := pipeline.NewGenerationPipeline(h.Config, req)

	execID := uuid.New().String()
	now := time.Now()
	pipeline.AddExecution(execID, &pipeline.ExecutionResult{
		PipelineID:  p.ID,
		ExecutionID: execID,
		Status:      pipeline.StatusStarted,
		StartTime:   now.Unix(),
		SubmittedAt: now.Format(time.RFC3339),
	})
	results, execErr := pipeline.ExecutePipeline(r.Context(), p, h.Registry, h.Logger)
	pipeline.CompleteExecution(execID, results, execErr)

	resp := generateResponse{ExecutionID: execID}

	if value, ok := p.Context.GetStepOutput("post"); ok {
		if post, ok := value.(pipeline_type.Post); ok {
			h.History.Add(post)
			resp.Post = &post
		}
	}

	if value, ok := p.Context.GetStepOutput("publish_result"); ok {
		if raw, ok := value.(string); ok {
			var result pipeline_type.PublishResult
			if err := json.Unmarshal([]byte(raw), &result); err == nil && result.PostID != "" {
				resp.PublishResult = &result
				if resp.Post != nil {
					h.History.MarkPublished(resp.Post.ID, result)
				}
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if execErr != nil {
		h.Logger.Error("Pipeline execution failed",
			slog.String("execution_id", execID),
			slog.String("error", execErr.Error()))
		resp.Error = execErr.Error()
		if resp.Post != nil {
			// Generation succeeded; only the publish leg failed.
			w.WriteHeader(http.StatusBadGateway)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		json.NewEncoder(w).Encode(resp)
		return
	}

	json.NewEncoder(w).Encode(resp)
}

// PublishPost publishes a previously generated history entry. Publish
// failures are surfaced verbatim and never retried.
func (h *PostHandler) PublishPost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postID := vars["id"]

	entry, ok := h.History.Get(postID)
	if !ok {
		http.Error(w, fmt.Sprintf("post %s not found", postID), http.StatusNotFound)
		return
	}

	if h.Publisher == nil {
		http.Error(w, "publishing is not configured", http.StatusServiceUnavailable)
		return
	}

	result, err := h.Publisher.Publish(r.Context(), entry.Post)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	h.History.MarkPublished(postID, result)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *PostHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.History.List())
}

func (h *PostHandler) DeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if !h.History.Delete(vars["id"]) {
		http.Error(w, fmt.Sprintf("post %s not found", vars["id"]), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	h.History.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) GetExecutionStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	result, exists := pipeline.GetExecution(vars["id"])
	if !exists {
		http.Error(w, "Execution not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
