package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/agentcore/pkg/datasource"
)

func testHandle(t *testing.T, d datasource.Datasource) *Handle {
	t.Helper()
	return &Handle{
		source: d,
		client: &retryClient{
			http:       &http.Client{Timeout: time.Second},
			maxRetries: 2,
			baseDelay:  time.Millisecond,
			maxDelay:   5 * time.Millisecond,
		},
		cache: newGetCache(50 * time.Millisecond),
	}
}

func TestGetRetriesOn5xxNotOn4xx(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	h := testHandle(t, datasource.Datasource{ID: "svc", BaseURL: server.URL, AuthScheme: datasource.AuthNone, Enabled: true})
	_, err := h.Get(context.Background(), "/things", nil)
	require.Error(t, err)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls)) // initial + 2 retries

	atomic.StoreInt32(&calls, 0)
	server2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server2.Close()

	h2 := testHandle(t, datasource.Datasource{ID: "svc2", BaseURL: server2.URL, AuthScheme: datasource.AuthNone, Enabled: true})
	resp, err := h2.Get(context.Background(), "/things", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetCachesRepeatedCalls(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	h := testHandle(t, datasource.Datasource{ID: "svc", BaseURL: server.URL, AuthScheme: datasource.AuthNone, Enabled: true})

	params := map[string]string{"q": "weather"}
	_, err := h.Get(context.Background(), "/search", params)
	require.NoError(t, err)
	_, err = h.Get(context.Background(), "/search", params)
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, err = h.Get(context.Background(), "/search", map[string]string{"q": "other"})
	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestApplyAuthSchemes(t *testing.T) {
	t.Setenv("TEST_API_KEY", "secret-key")
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-API-Key")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := datasource.Datasource{
		ID:         "svc",
		BaseURL:    server.URL,
		AuthScheme: datasource.AuthAPIKey,
		AuthConfig: map[string]string{"env_var": "TEST_API_KEY"},
		Enabled:    true,
	}
	h := testHandle(t, d)
	_, err := h.Get(context.Background(), "/x", nil)
	require.NoError(t, err)
	require.Equal(t, "secret-key", gotHeader)
}

func TestApplyAuthBearerMissingEnvErrors(t *testing.T) {
	d := datasource.Datasource{
		ID:         "svc",
		BaseURL:    "http://example.invalid",
		AuthScheme: datasource.AuthBearer,
		AuthConfig: map[string]string{"env_var": "UNSET_TOKEN_VAR"},
		Enabled:    true,
	}
	h := testHandle(t, d)
	_, err := h.Get(context.Background(), "/x", nil)
	require.Error(t, err)
}

func TestNewRequiresConfiguredRegistry(t *testing.T) {
	Configure(nil)
	_, err := New("missing")
	require.Error(t, err)
}

func TestNewResolvesFromConfiguredRegistry(t *testing.T) {
	reg := datasource.NewRegistry()
	require.NoError(t, reg.Register(datasource.Datasource{ID: "weather", BaseURL: "https://example.test", AuthScheme: datasource.AuthNone, Enabled: true}))
	Configure(reg)
	defer Configure(nil)

	h, err := New("weather")
	require.NoError(t, err)
	require.Equal(t, "weather", h.source.ID)

	_, err = New("unknown")
	require.Error(t, err)
}

func TestPostEncodesJSONBody(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	h := testHandle(t, datasource.Datasource{ID: "svc", BaseURL: server.URL, AuthScheme: datasource.AuthNone, Enabled: true})
	resp, err := h.Post(context.Background(), "/items", map[string]string{"name": "widget"})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Contains(t, gotBody, "widget")
}
