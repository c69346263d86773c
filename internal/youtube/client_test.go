package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "AIzaTestKey_123"

func TestSearch_SendsQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "snippet", q.Get("part"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "education", q.Get("q"))
		assert.Equal(t, "10", q.Get("maxResults"))
		assert.Equal(t, testKey, q.Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":{"kind":"youtube#video","videoId":"a1"},"snippet":{"title":"A"}},
			{"id":{"kind":"youtube#video","videoId":"b2"},"snippet":{"title":"B"}}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	items, err := c.Search(context.Background(), testKey, "education", 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a1", items[0].ID.VideoID)
	assert.Equal(t, "B", items[1].Snippet.Title)
}

func TestVideos_SingleBatchedCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "statistics,snippet", r.URL.Query().Get("part"))
		assert.Equal(t, "a1,b2,c3", r.URL.Query().Get("id"))

		_, _ = w.Write([]byte(`{"items":[
			{"id":"a1","snippet":{"title":"A","channelTitle":"Ch","publishedAt":"2024-01-01T10:00:00Z"},
			 "statistics":{"viewCount":"100","likeCount":"10"}},
			{"id":"b2","statistics":{"viewCount":12}}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second)
	items, err := c.Videos(context.Background(), testKey, []string{"a1", "b2", "c3"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())
	require.Len(t, items, 2)

	assert.Equal(t, "Ch", items[0].Snippet.ChannelTitle)
	assert.Equal(t, "100", items[0].Statistics["viewCount"])
	_, hasComments := items[0].Statistics["commentCount"]
	assert.False(t, hasComments)

	// Bare numbers stay json.Number instead of becoming float64.
	assert.Equal(t, json.Number("12"), items[1].Statistics["viewCount"])
}

func TestGet_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.",
			"errors":[{"reason":"badRequest"}]}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Search(context.Background(), "bad", "q", 5)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "badRequest", apiErr.Reason)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGet_APIErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Videos(context.Background(), testKey, []string{"x"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Empty(t, apiErr.Reason)
	assert.Equal(t, "youtube api: 403: 403 Forbidden", err.Error())
}

func TestGet_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Search(context.Background(), testKey, "q", 5)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "search response:"))
}

func TestGet_TransportErrorRedactsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := New(addr, time.Second).Search(context.Background(), testKey, "q", 5)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testKey)
	assert.Contains(t, err.Error(), "key="+redacted)
}

func TestGet_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL, time.Second).Search(ctx, testKey, "q", 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NotContains(t, err.Error(), testKey)
}

func TestRedactKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		key  string
		want string
	}{
		{"empty key untouched", errors.New("boom"), "", "boom"},
		{"plain text", errors.New("bad key abc+/="), "abc+/=", "bad key REDACTED"},
		{"query escaped", errors.New("GET /x?key=abc%2B%2F%3D"), "abc+/=", "GET /x?key=REDACTED"},
		{"key absent", errors.New("timeout"), "abc", "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redactKey(tt.err, tt.key)
			if got.Error() != tt.want {
				t.Errorf("redactKey() = %q, want %q", got.Error(), tt.want)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New("", 0)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, defaultTimeout, c.httpClient.Timeout)
}
