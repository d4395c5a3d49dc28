package deezer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	if opts.BaseURL == "" {
		opts.BaseURL = srv.URL
	}
	c, err := NewClient(opts)
	require.NoError(t, err)
	return c, srv
}

func TestNewClientBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"default", "", false},
		{"https", "https://api.deezer.com", false},
		{"with path", "http://localhost:8080/proxy", false},
		{"unparseable", "://api.deezer.com", true},
		{"wrong scheme", "ftp://api.deezer.com", true},
		{"relative", "/search", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(Options{BaseURL: tt.baseURL})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, c.BaseURL())
		})
	}
}

func TestClientSearch(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [{"id": 1}, {"id": 2}], "total": 240, "next": "https://api.deezer.com/search/track?q=daft&index=2"}`))
	}, Options{
		DefaultParams: url.Values{"output": {"json"}},
		UserAgent:     "test-agent",
	})

	page, err := c.Search(context.Background(), "track", url.Values{"q": {"daft punk"}, "limit": {"2"}})
	require.NoError(t, err)

	assert.Equal(t, "/search/track", got.URL.Path)
	assert.Equal(t, "daft punk", got.URL.Query().Get("q"))
	assert.Equal(t, "2", got.URL.Query().Get("limit"))
	assert.Equal(t, "json", got.URL.Query().Get("output"))
	assert.Equal(t, "test-agent", got.Header.Get("User-Agent"))

	require.Len(t, page.Data, 2)
	assert.JSONEq(t, `{"id": 1}`, string(page.Data[0]))
	assert.Equal(t, 240, page.Total)
	assert.Contains(t, page.Next, "index=2")
}

func TestClientSearchTotalDefaultsToPageLength(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"id": 1}]}`))
	}, Options{})

	page, err := c.Search(context.Background(), "artist", url.Values{"q": {"x"}})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestClientBaseURLWithPath(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	c, err := NewClient(Options{BaseURL: srv.URL + "/proxy/deezer"})
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "album", nil)
	require.NoError(t, err)
	assert.Equal(t, "/proxy/deezer/search/album", path)
}

func TestClientFetch(t *testing.T) {
	var path string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"id": 3135556, "title": "Harder, Better, Faster, Stronger"}`))
	}, Options{})

	raw, err := c.Fetch(context.Background(), "track", 3135556)
	require.NoError(t, err)
	assert.Equal(t, "/track/3135556", path)
	assert.Contains(t, string(raw), "Harder")
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    ErrorKind
		wantStatus  int
		wantCode    int
		wantMessage string
		notFound    bool
	}{
		{
			name:        "server error with envelope",
			status:      http.StatusServiceUnavailable,
			body:        `{"error": {"type": "Exception", "message": "Service temporarily unavailable", "code": 700}}`,
			wantKind:    ErrStatus,
			wantStatus:  503,
			wantCode:    700,
			wantMessage: "Service temporarily unavailable",
		},
		{
			name:       "not found without body",
			status:     http.StatusNotFound,
			body:       `Not Found`,
			wantKind:   ErrStatus,
			wantStatus: 404,
			notFound:   true,
		},
		{
			name:        "error envelope with success status",
			status:      http.StatusOK,
			body:        `{"error": {"type": "DataException", "message": "no data", "code": 800}}`,
			wantKind:    ErrUpstream,
			wantStatus:  200,
			wantCode:    800,
			wantMessage: "no data",
			notFound:    true,
		},
		{
			name:        "quota exceeded",
			status:      http.StatusOK,
			body:        `{"error": {"type": "Exception", "message": "Quota limit exceeded", "code": 4}}`,
			wantKind:    ErrUpstream,
			wantStatus:  200,
			wantCode:    4,
			wantMessage: "Quota limit exceeded",
		},
		{
			name:       "html body",
			status:     http.StatusOK,
			body:       `<html><body>maintenance</body></html>`,
			wantKind:   ErrDecode,
			wantStatus: 200,
		},
		{
			name:     "missing data array",
			status:   http.StatusOK,
			body:     `{"total": 3}`,
			wantKind: ErrDecode,
		},
		{
			name:     "data is not an array",
			status:   http.StatusOK,
			body:     `{"data": {"id": 1}}`,
			wantKind: ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}, Options{})

			_, err := c.Search(context.Background(), "track", url.Values{"q": {"x"}})
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "expected APIError, got %T", err)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, "search/track", apiErr.Op)
			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			}
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.notFound, IsNotFound(err))
			assert.Equal(t, tt.wantKind.String(), KindOf(err))
		})
	}
}

func TestClientTimeout(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, Options{Timeout: 50 * time.Millisecond})

	_, err := c.Search(context.Background(), "artist", url.Values{"q": {"daft punk"}})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrTransport, apiErr.Kind)
	assert.True(t, apiErr.Timeout())
	assert.Contains(t, err.Error(), "transport")
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(Options{BaseURL: base})
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "album", url.Values{"q": {"discovery"}})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrTransport, apiErr.Kind)
	assert.False(t, apiErr.Timeout())
	assert.NotNil(t, errors.Unwrap(err))
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Op: "search/track", Kind: ErrStatus, StatusCode: 503, Code: 700, Message: "Service temporarily unavailable"}
	assert.Equal(t, "search/track: status error (HTTP 503) (code 700): Service temporarily unavailable", err.Error())

	assert.Equal(t, "validation", KindOf(ErrEmptyQuery))
	assert.Equal(t, "internal", KindOf(errors.New("boom")))
}
