package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/user/feed-ingest/internal/delivery/http/request"
	"github.com/user/feed-ingest/internal/delivery/http/response"
	"github.com/user/feed-ingest/internal/usecase"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PostLister serves cursor-paginated post pages.
type PostLister interface {
	ListPosts(ctx context.Context, subscriberID uuid.UUID, cursorToken string, limit int) (*usecase.PostPage, error)
}

// SubscriptionManager handles opt-in and opt-out.
type SubscriptionManager interface {
	Subscribe(ctx context.Context, id uuid.UUID, feedURL string) (bool, error)
	Unsubscribe(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	posts         PostLister
	subscriptions SubscriptionManager
}

func NewHandler(posts PostLister, subscriptions SubscriptionManager) *Handler {
	return &Handler{posts: posts, subscriptions: subscriptions}
}

func (h *Handler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	subscriberID, err := uuid.Parse(r.URL.Query().Get("subscriber_id"))
	if err != nil {
		h.writeJSONError(w, "Invalid or missing subscriber_id", http.StatusBadRequest)
		return
	}

	limit := defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeJSONError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(parsed, maxPageSize)
	}

	// A malformed cursor restarts from the top rather than erroring.
	page, err := h.posts.ListPosts(r.Context(), subscriberID, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		slog.Error("Failed to list posts", "subscriber_id", subscriberID, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := response.PostListResponse{NextCursor: page.NextCursor, Posts: []response.PostResponse{}}
	for _, item := range page.Items {
		resp.Posts = append(resp.Posts, response.PostResponse{
			ID:        item.ExternalID,
			SourceURL: item.SourceURL,
			Content:   item.Content,
			CreatedAt: item.CreatedAt,
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req request.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	subscriberID, err := uuid.Parse(req.SubscriberID)
	if err != nil {
		h.writeJSONError(w, "Invalid subscriber_id", http.StatusBadRequest)
		return
	}
	if _, err := url.ParseRequestURI(req.FeedURL); err != nil {
		h.writeJSONError(w, "Invalid feed_url", http.StatusBadRequest)
		return
	}

	created, err := h.subscriptions.Subscribe(r.Context(), subscriberID, req.FeedURL)
	if err != nil {
		slog.Error("Failed to subscribe", "subscriber_id", subscriberID, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if !created {
		h.writeJSON(w, http.StatusOK, response.SubscribeResponse{
			Status:  "already_scheduled",
			Message: "Your feed is already being collected, check back in a few minutes.",
		})
		return
	}
	h.writeJSON(w, http.StatusAccepted, response.SubscribeResponse{
		Status:  "scheduled",
		Message: "Starting to collect your feed, check back in a few minutes.",
	})
}

func (h *Handler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	subscriberID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.writeJSONError(w, "Invalid subscriber id", http.StatusBadRequest)
		return
	}

	if err := h.subscriptions.Unsubscribe(r.Context(), subscriberID); err != nil {
		slog.Error("Failed to unsubscribe", "subscriber_id", subscriberID, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
