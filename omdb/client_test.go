package omdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matrixSearch = `{"Search":[{"Title":"The Matrix","imdbID":"tt0133093"}]}`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *int32) {
	t.Helper()

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	opts = append([]Option{WithBaseURL(server.URL + "/")}, opts...)
	client, err := NewClient("test-key", zerolog.Nop(), opts...)
	require.NoError(t, err)

	return client, &hits
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "default", baseURL: DefaultBaseURL},
		{name: "https", baseURL: "https://omdb.example.com/"},
		{name: "empty", baseURL: "", wantErr: true},
		{name: "relative", baseURL: "/api", wantErr: true},
		{name: "unsupported scheme", baseURL: "ftp://omdb.example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient("key", zerolog.Nop(), WithBaseURL(tt.baseURL))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.baseURL, client.baseURL.String())
		})
	}
}

func TestClientOptions(t *testing.T) {
	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("key", zerolog.Nop(), WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("no timeout by default", func(t *testing.T) {
		client, err := NewClient("key", zerolog.Nop())
		require.NoError(t, err)
		assert.Zero(t, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("key", zerolog.Nop(), WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Same(t, custom, client.httpClient)
	})

	t.Run("with user agent", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "moviefinder/test", r.Header.Get("User-Agent"))
			w.Write([]byte(`{}`))
		}, WithUserAgent("moviefinder/test"))

		_, err := client.GetByID(context.Background(), "tt0133093")
		require.NoError(t, err)
	})
}

func TestSearchByTitle(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Matrix", r.URL.Query().Get("s"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.False(t, r.URL.Query().Has("i"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(matrixSearch))
	})

	body, err := client.SearchByTitle(context.Background(), "Matrix")
	require.NoError(t, err)
	assert.Equal(t, matrixSearch, string(body))
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestGetByID(t *testing.T) {
	const detail = `{"Title":"The Matrix","imdbID":"tt0133093","Plot":"..."}`

	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tt0133093", r.URL.Query().Get("i"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.False(t, r.URL.Query().Has("s"))
		w.Write([]byte(detail))
	})

	body, err := client.GetByID(context.Background(), "tt0133093")
	require.NoError(t, err)
	assert.Equal(t, detail, string(body))
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestGetPassesParamsThrough(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Alien", q.Get("s"))
		assert.Equal(t, "1979", q.Get("y"))
		assert.Equal(t, "test-key", q.Get("apikey"))
		w.Write([]byte(`{"Response":"True"}`))
	})

	params := map[string][]string{"s": {"Alien"}, "y": {"1979"}, "apikey": {"caller-supplied"}}
	_, err := client.Get(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, []string{"caller-supplied"}, params["apikey"], "caller params must not be mutated")
}

func TestNotFoundPayloadIsPassedThrough(t *testing.T) {
	const notFound = `{"Response":"False","Error":"Movie not found!"}`

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(notFound))
	})

	body, err := client.SearchByTitle(context.Background(), "zzzzzz")
	require.NoError(t, err)
	assert.Equal(t, notFound, string(body))
}

func TestUpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantMsg    string
		wantErr    error
	}{
		{
			name: "unauthorized with OMDb error text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"Response":"False","Error":"Invalid API key!"}`))
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "request failed with status code 401: Invalid API key!",
			wantErr:    ErrUpstreamStatus,
		},
		{
			name: "server error without body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantStatus: http.StatusBadGateway,
			wantMsg:    "request failed with status code 502",
			wantErr:    ErrUpstreamStatus,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>oops</html>`))
			},
			wantStatus: http.StatusOK,
			wantMsg:    "invalid JSON in upstream response",
			wantErr:    ErrInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)

			_, err := client.SearchByTitle(context.Background(), "Matrix")
			require.Error(t, err)

			var upErr *UpstreamError
			require.True(t, errors.As(err, &upErr))
			assert.Equal(t, tt.wantStatus, upErr.StatusCode)
			assert.Equal(t, tt.wantMsg, upErr.Error())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNetworkErrorDoesNotLeakAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL + "/"
	server.Close()

	client, err := NewClient("super-secret", zerolog.Nop(), WithBaseURL(baseURL))
	require.NoError(t, err)

	_, err = client.GetByID(context.Background(), "tt0133093")
	require.Error(t, err)

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Zero(t, upErr.StatusCode)
	assert.NotEmpty(t, upErr.Error())
	assert.NotContains(t, upErr.Error(), "super-secret")
	assert.NotContains(t, upErr.Error(), "apikey")
}

func TestPing(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, pingID, r.URL.Query().Get("i"))
			w.Write([]byte(`{"Title":"The Matrix","Response":"True"}`))
		})
		assert.NoError(t, client.Ping(context.Background()))
	})

	t.Run("OMDb-level failure", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"Response":"False","Error":"Incorrect IMDb ID."}`))
		})
		err := client.Ping(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "Incorrect IMDb ID.")
	})

	t.Run("unauthorized", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		err := client.Ping(context.Background())

		var upErr *UpstreamError
		require.True(t, errors.As(err, &upErr))
		assert.True(t, upErr.IsUnauthorized())
	})
}

func TestUpstreamError(t *testing.T) {
	err := &UpstreamError{StatusCode: 403, Message: "forbidden", Err: ErrUpstreamStatus}
	assert.Equal(t, "forbidden", err.Error())
	assert.True(t, err.IsUnauthorized())
	assert.ErrorIs(t, err, ErrUpstreamStatus)

	err.StatusCode = 500
	assert.False(t, err.IsUnauthorized())
}

func TestRedact(t *testing.T) {
	client, err := NewClient("secret", zerolog.Nop())
	require.NoError(t, err)

	u := *client.baseURL
	u.RawQuery = "apikey=secret&s=Matrix"
	got := redact(u)
	assert.NotContains(t, got, "secret")
	assert.Contains(t, got, "apikey=REDACTED")
	assert.Contains(t, got, "s=Matrix")
}
