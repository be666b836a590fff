package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/feed-ingest/internal/entity"
)

func TestFetchStrategyMarkdownResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/markdown", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte("# Hi"))
	}))
	defer srv.Close()

	s := NewFetchStrategy(srv.Client())
	res := s.Extract(context.Background(), entity.ExtractionRequest{URL: srv.URL})

	require.NotNil(t, res)
	assert.Equal(t, entity.KindMarkdown, res.Kind)
	assert.Equal(t, "# Hi", res.Content)
}

func TestFetchStrategyHTMLResponseIsCarried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<p>Hi</p>"))
	}))
	defer srv.Close()

	s := NewFetchStrategy(srv.Client())
	res := s.Extract(context.Background(), entity.ExtractionRequest{URL: srv.URL})

	require.NotNil(t, res)
	assert.Equal(t, entity.KindHTML, res.Kind)
	assert.Equal(t, "<p>Hi</p>", res.Content)
}

func TestFetchStrategyNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewFetchStrategy(srv.Client())
	assert.Nil(t, s.Extract(context.Background(), entity.ExtractionRequest{URL: srv.URL}))
}

func TestFetchStrategyEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/markdown")
	}))
	defer srv.Close()

	s := NewFetchStrategy(srv.Client())
	assert.Nil(t, s.Extract(context.Background(), entity.ExtractionRequest{URL: srv.URL}))
}

func TestFetchStrategyConnectionRefused(t *testing.T) {
	s := NewFetchStrategy(http.DefaultClient)
	assert.Nil(t, s.Extract(context.Background(), entity.ExtractionRequest{URL: "http://127.0.0.1:1/never"}))
}
