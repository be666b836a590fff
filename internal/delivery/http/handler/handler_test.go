package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/feed-ingest/internal/usecase"
)

type mockPostLister struct {
	page      *usecase.PostPage
	gotCursor string
	gotLimit  int
}

func (m *mockPostLister) ListPosts(ctx context.Context, subscriberID uuid.UUID, cursorToken string, limit int) (*usecase.PostPage, error) {
	m.gotCursor = cursorToken
	m.gotLimit = limit
	return m.page, nil
}

type mockSubscriptions struct {
	created        bool
	unsubscribed   []uuid.UUID
	gotSubscriber  uuid.UUID
	gotFeedURL     string
	subscribeCalls int
}

func (m *mockSubscriptions) Subscribe(ctx context.Context, id uuid.UUID, feedURL string) (bool, error) {
	m.subscribeCalls++
	m.gotSubscriber = id
	m.gotFeedURL = feedURL
	return m.created, nil
}

func (m *mockSubscriptions) Unsubscribe(ctx context.Context, id uuid.UUID) error {
	m.unsubscribed = append(m.unsubscribed, id)
	return nil
}

func TestHandleListPosts(t *testing.T) {
	lister := &mockPostLister{page: &usecase.PostPage{
		Items: []usecase.PostView{
			{ExternalID: "Ab3xY9kQ2mNp", SourceURL: "https://example.com/p", Content: "# Hi", CreatedAt: time.Now()},
		},
		NextCursor: "tok-2",
	}}
	h := NewHandler(lister, &mockSubscriptions{})

	req := httptest.NewRequest(http.MethodGet, "/api/posts?subscriber_id="+uuid.NewString()+"&cursor=tok-1&limit=5", nil)
	rec := httptest.NewRecorder()
	h.HandleListPosts(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-1", lister.gotCursor)
	assert.Equal(t, 5, lister.gotLimit)

	var resp struct {
		Posts []struct {
			ID      string `json:"id"`
			Content string `json:"content"`
		} `json:"posts"`
		NextCursor string `json:"next_cursor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, "Ab3xY9kQ2mNp", resp.Posts[0].ID)
	assert.Equal(t, "tok-2", resp.NextCursor)
}

func TestHandleListPostsBadSubscriber(t *testing.T) {
	h := NewHandler(&mockPostLister{}, &mockSubscriptions{})

	req := httptest.NewRequest(http.MethodGet, "/api/posts?subscriber_id=not-a-uuid", nil)
	rec := httptest.NewRecorder()
	h.HandleListPosts(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSubscribeNew(t *testing.T) {
	subs := &mockSubscriptions{created: true}
	h := NewHandler(&mockPostLister{}, subs)

	id := uuid.New()
	body := `{"subscriber_id":"` + id.String() + `","feed_url":"https://feed.example/u/1/likes"}`
	req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleSubscribe(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, id, subs.gotSubscriber)
	assert.Equal(t, "https://feed.example/u/1/likes", subs.gotFeedURL)
	assert.Contains(t, rec.Body.String(), "scheduled")
}

func TestHandleSubscribeAlreadyScheduled(t *testing.T) {
	subs := &mockSubscriptions{created: false}
	h := NewHandler(&mockPostLister{}, subs)

	body := `{"subscriber_id":"` + uuid.NewString() + `","feed_url":"https://feed.example/u/1/likes"}`
	req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleSubscribe(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "already_scheduled")
}

func TestHandleSubscribeInvalidBody(t *testing.T) {
	subs := &mockSubscriptions{}
	h := NewHandler(&mockPostLister{}, subs)

	for _, body := range []string{
		`not json`,
		`{"subscriber_id":"nope","feed_url":"https://feed.example"}`,
		`{"subscriber_id":"` + uuid.NewString() + `","feed_url":"::"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.HandleSubscribe(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
	assert.Zero(t, subs.subscribeCalls)
}

func TestHandleUnsubscribe(t *testing.T) {
	subs := &mockSubscriptions{}
	h := NewHandler(&mockPostLister{}, subs)

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/subscriptions/{id}", h.HandleUnsubscribe)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/subscriptions/"+id.String(), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, subs.unsubscribed, 1)
	assert.Equal(t, id, subs.unsubscribed[0])
}
