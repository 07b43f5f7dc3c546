package thumbnails

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "total": 1,
  "results": [{
    "id": "abc",
    "description": "",
    "alt_description": "laptop on a desk",
    "urls": {"regular": "https://img/regular.jpg", "small": "https://img/small.jpg", "thumb": "https://img/thumb.jpg"},
    "user": {"name": "Ada"}
  }]
}`

func TestUnsplashSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/photos", r.URL.Path)
		assert.Equal(t, "react hooks", r.URL.Query().Get("query"))
		assert.Equal(t, "3", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Client-ID key123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, searchBody)
	}))
	defer srv.Close()

	u := NewUnsplash("key123").WithBaseURL(srv.URL)
	photos, err := u.Search(context.Background(), "react hooks", 3)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, Photo{ID: "abc", Description: "laptop on a desk", URL: "https://img/regular.jpg", ThumbURL: "https://img/thumb.jpg", Author: "Ada"}, photos[0])
}

func TestUnsplashSearch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewUnsplash("bad").WithBaseURL(srv.URL).Search(context.Background(), "x", 1)
	assert.ErrorContains(t, err, "status 401")
}

type countingSearcher struct {
	calls int
	err   error
}

func (s *countingSearcher) Search(_ context.Context, query string, limit int) ([]Photo, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []Photo{{ID: query}}, nil
}

func TestService_CachesInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	searcher := &countingSearcher{}
	svc := NewService(searcher, NewRedisCache(client), time.Hour, log.New(io.Discard, "", 0))
	ctx := context.Background()

	photos, cached, err := svc.Suggest(ctx, "  Intro   to GO ", 0)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "intro to go", photos[0].ID)

	photos, cached, err = svc.Suggest(ctx, "intro to go", 0)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "intro to go", photos[0].ID)
	assert.Equal(t, 1, searcher.calls)

	assert.True(t, mr.Exists(cacheKey("intro to go", DefaultLimit)))
	mr.FastForward(2 * time.Hour)
	_, cached, _ = svc.Suggest(ctx, "intro to go", 0)
	assert.False(t, cached)
	assert.Equal(t, 2, searcher.calls)
}

func TestService_DefaultsWithoutSearcher(t *testing.T) {
	svc := NewService(nil, nil, time.Hour, log.New(io.Discard, "", 0))
	photos, cached, err := svc.Suggest(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, Defaults, photos)
}

func TestService_SearchError(t *testing.T) {
	svc := NewService(&countingSearcher{err: errors.New("boom")}, nil, time.Hour, log.New(io.Discard, "", 0))
	_, _, err := svc.Suggest(context.Background(), "anything", 3)
	assert.EqualError(t, err, "boom")
}
