package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aescanero/gistproxy/internal/application/gists"
	memorycache "github.com/aescanero/gistproxy/pkg/adapters/cache/memory"
	"github.com/aescanero/gistproxy/pkg/adapters/github"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const upstreamGistsJSON = `[
  {
    "id": "aa5a315d61ae9438b18d",
    "html_url": "https://gist.github.com/aa5a315d61ae9438b18d",
    "description": "",
    "public": true,
    "created_at": "2010-04-14T02:15:15Z",
    "updated_at": "2011-06-20T11:34:15Z",
    "comments": 0,
    "files": {
      "hello_world.rb": {"filename": "hello_world.rb", "language": "Ruby", "size": 167}
    }
  }
]`

type stubMetrics struct{}

func (stubMetrics) RecordRequest(status int, duration time.Duration)         {}
func (stubMetrics) RecordCacheHit()                                          {}
func (stubMetrics) RecordCacheMiss()                                         {}
func (stubMetrics) RecordUpstreamRequest(status int, duration time.Duration) {}
func (stubMetrics) SetRateLimitRemaining(remaining int)                      {}
func (stubMetrics) SetCacheEntries(valid, expired int)                       {}

// newTestServer wires a full server against a fake upstream API
func newTestServer(t *testing.T, upstream http.HandlerFunc) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstreamSrv := httptest.NewServer(upstream)
	t.Cleanup(upstreamSrv.Close)

	client := github.NewClient(&github.Config{BaseURL: upstreamSrv.URL})
	cache := memorycache.NewCache(5 * time.Minute)
	service := gists.NewService(client, cache, stubMetrics{}, zap.NewNop(), 5*time.Minute)

	return NewServer(&Config{
		Port:    0,
		Service: service,
		Metrics: stubMetrics{},
		Logger:  zap.NewNop(),
	})
}

func fakeGitHub(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/octocat/gists":
			w.Header().Set("X-RateLimit-Remaining", "59")
			w.Header().Set("X-RateLimit-Reset", "1700000000")
			_, _ = w.Write([]byte(upstreamGistsJSON))
		default:
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		}
	}
}

func doRequest(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestGetGistsKnownUser(t *testing.T) {
	s := newTestServer(t, fakeGitHub(t))

	rec := doRequest(s, "/octocat")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache-Status"))

	var body struct {
		Username  string `json:"username"`
		Page      int    `json:"page"`
		PerPage   int    `json:"per_page"`
		GistCount int    `json:"gist_count"`
		Gists     []struct {
			ID          string   `json:"id"`
			Description string   `json:"description"`
			Files       []string `json:"files"`
			FileCount   int      `json:"file_count"`
		} `json:"gists"`
		RateLimit struct {
			Remaining *int `json:"remaining"`
		} `json:"rate_limit"`
		Cache struct {
			Hit        bool `json:"hit"`
			TTLSeconds int  `json:"ttl_seconds"`
		} `json:"cache"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "octocat", body.Username)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 30, body.PerPage)
	require.Equal(t, 1, body.GistCount)
	assert.Equal(t, "aa5a315d61ae9438b18d", body.Gists[0].ID)
	assert.Equal(t, "No description", body.Gists[0].Description)
	assert.Equal(t, []string{"hello_world.rb"}, body.Gists[0].Files)
	assert.Equal(t, 1, body.Gists[0].FileCount)
	require.NotNil(t, body.RateLimit.Remaining)
	assert.Equal(t, 59, *body.RateLimit.Remaining)
	assert.False(t, body.Cache.Hit)
	assert.Equal(t, 300, body.Cache.TTLSeconds)
}

func TestGetGistsCacheHit(t *testing.T) {
	s := newTestServer(t, fakeGitHub(t))

	rec := doRequest(s, "/octocat")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "MISS", rec.Header().Get("X-Cache-Status"))

	rec = doRequest(s, "/octocat")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache-Status"))

	var body struct {
		Cache struct {
			Hit bool `json:"hit"`
		} `json:"cache"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Cache.Hit)
}

func TestGetGistsNoCacheBypass(t *testing.T) {
	s := newTestServer(t, fakeGitHub(t))

	doRequest(s, "/octocat")

	rec := doRequest(s, "/octocat?no_cache=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache-Status"))
}

func TestGetGistsUnknownUser(t *testing.T) {
	s := newTestServer(t, fakeGitHub(t))

	rec := doRequest(s, "/nonexistentuser123456")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "USER_NOT_FOUND", body.Error.Code)
	assert.NotEmpty(t, body.Error.Message)
}

func TestGetGistsInvalidUsername(t *testing.T) {
	s := newTestServer(t, fakeGitHub(t))

	rec := doRequest(s, "/bad--name")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_USERNAME", body.Error.Code)
}

func TestGetGistsUpstreamError(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	rec := doRequest(s, "/octocat")
	require.Equal(t, http.StatusForbidden, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UPSTREAM_ERROR", body.Error.Code)
}

func TestGetGistsUpstreamUnreachable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Point the client at a closed listener
	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstreamSrv.Close()

	client := github.NewClient(&github.Config{BaseURL: upstreamSrv.URL})
	cache := memorycache.NewCache(5 * time.Minute)
	service := gists.NewService(client, cache, stubMetrics{}, zap.NewNop(), 5*time.Minute)
	s := NewServer(&Config{Service: service, Metrics: stubMetrics{}, Logger: zap.NewNop()})

	rec := doRequest(s, "/octocat")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", body.Error.Code)
}

func TestRootAlwaysOK(t *testing.T) {
	// Root must succeed even when the upstream is down
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := doRequest(s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gistproxy")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, fakeGitHub(t))

	rec := doRequest(s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestCacheStatsEndpoint(t *testing.T) {
	s := newTestServer(t, fakeGitHub(t))

	doRequest(s, "/octocat")

	rec := doRequest(s, "/cache")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		TotalEntries int `json:"total_entries"`
		ValidEntries int `json:"valid_entries"`
		TTLSeconds   int `json:"ttl_seconds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 1, stats.ValidEntries)
	assert.Equal(t, 300, stats.TTLSeconds)
}

func TestCacheClearEndpoint(t *testing.T) {
	s := newTestServer(t, fakeGitHub(t))

	doRequest(s, "/octocat")

	rec := doRequest(s, "/cache/clear")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cache cleared successfully")

	var body struct {
		EntriesRemoved int `json:"entries_removed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.EntriesRemoved)

	// Next lookup misses again
	rec = doRequest(s, "/octocat")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache-Status"))
}

func TestPaginationQueryHandling(t *testing.T) {
	var gotQuery string
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte("[]"))
	})

	rec := doRequest(s, "/octocat?page=2&per_page=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, gotQuery, "page=2")
	assert.Contains(t, gotQuery, "per_page=10")

	// Malformed values fall back to defaults
	rec = doRequest(s, "/octocat?page=abc&per_page=xyz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, gotQuery, "page=1")
	assert.Contains(t, gotQuery, "per_page=30")
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, fakeGitHub(t))

	rec := doRequest(s, "/health")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	s.Handler().ServeHTTP(rec2, req)
	assert.Equal(t, "fixed-id", rec2.Header().Get("X-Request-ID"))
}
