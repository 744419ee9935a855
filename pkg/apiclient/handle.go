package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kadirpekel/agentcore/pkg/datasource"
)

// Response is the result of a datasource call: the decoded status,
// headers and raw body, left to the caller (generated tool code) to
// interpret per the endpoint's documented shape.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// JSON unmarshals Body into v.
func (r Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Handle is a datasource-bound client: auth, retry and GET caching are
// all pre-wired from the Datasource's own configuration, so generated
// tool code need only call New(sourceID) and issue verbs.
type Handle struct {
	source datasource.Datasource
	client *retryClient
	cache  *getCache
}

// New resolves sourceID against the package-level Registry bound by
// Configure and returns a ready-to-use Handle. This is the exact call
// shape datasource.SuggestAPICall emits in generated tool code.
func New(sourceID string) (*Handle, error) {
	d, ok := lookup(sourceID)
	if !ok {
		registryMu.RLock()
		configured := defaultRegistry != nil
		registryMu.RUnlock()
		if !configured {
			return nil, fmt.Errorf("apiclient: registry not configured, call apiclient.Configure first")
		}
		return nil, fmt.Errorf("apiclient: datasource %q not found", sourceID)
	}
	return &Handle{
		source: d,
		client: newRetryClient(),
		cache:  newGetCache(DefaultCacheTTL),
	}, nil
}

// Get issues a GET request, serving from the in-process cache when an
// identical call (same path and params) was made within the TTL.
func (h *Handle) Get(ctx context.Context, path string, params map[string]string) (Response, error) {
	key := cacheKey(h.source.ID, http.MethodGet, path, params)
	if resp, ok := h.cache.get(key); ok {
		return resp, nil
	}

	resp, err := h.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return Response{}, err
	}
	h.cache.put(key, resp)
	return resp, nil
}

// Post issues a POST request with a JSON-encoded body.
func (h *Handle) Post(ctx context.Context, path string, body any) (Response, error) {
	return h.doJSON(ctx, http.MethodPost, path, body)
}

// Put issues a PUT request with a JSON-encoded body.
func (h *Handle) Put(ctx context.Context, path string, body any) (Response, error) {
	return h.doJSON(ctx, http.MethodPut, path, body)
}

// Patch issues a PATCH request with a JSON-encoded body.
func (h *Handle) Patch(ctx context.Context, path string, body any) (Response, error) {
	return h.doJSON(ctx, http.MethodPatch, path, body)
}

// Delete issues a DELETE request.
func (h *Handle) Delete(ctx context.Context, path string, params map[string]string) (Response, error) {
	return h.do(ctx, http.MethodDelete, path, params, nil)
}

func (h *Handle) doJSON(ctx context.Context, method, path string, body any) (Response, error) {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return Response{}, fmt.Errorf("apiclient: failed to encode request body: %w", err)
		}
		payload = encoded
	}
	return h.do(ctx, method, path, nil, payload)
}

func (h *Handle) do(ctx context.Context, method, path string, params map[string]string, body []byte) (Response, error) {
	fullURL := strings.TrimRight(h.source.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return Response{}, fmt.Errorf("apiclient: failed to build request: %w", err)
	}

	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if err := applyAuth(req, h.source); err != nil {
		return Response{}, err
	}

	httpResp, err := h.client.Do(req)
	if httpResp == nil {
		return Response{}, err
	}
	defer httpResp.Body.Close()

	data, readErr := io.ReadAll(httpResp.Body)
	if readErr != nil {
		return Response{}, fmt.Errorf("apiclient: failed to read response body: %w", readErr)
	}

	resp := Response{StatusCode: httpResp.StatusCode, Headers: httpResp.Header, Body: data}
	if err != nil {
		return resp, err
	}

	registryMu.RLock()
	reg := defaultRegistry
	registryMu.RUnlock()
	if reg != nil {
		_ = reg.IncrementUsage(h.source.ID)
	}

	return resp, nil
}
