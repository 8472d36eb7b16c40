package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (t staticTokens) Token() string { return string(t) }

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTokenSource(staticTokens("tok-123")))

	var out map[string]string
	err := client.Get(context.Background(), "/cart", &out)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "yes", out["ok"])
}

func TestAuthEndpointsSkipBearer(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTokenSource(staticTokens("tok-123")))

	require.NoError(t, client.Post(context.Background(), "/login", map[string]string{"email_address": "a@b.c"}, nil))
	assert.Empty(t, gotAuth, "login must not carry a bearer token")

	require.NoError(t, client.Post(context.Background(), "/signup", map[string]string{}, nil))
	assert.Empty(t, gotAuth, "signup must not carry a bearer token")
}

func TestNetworkErrorNormalized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // immediately unreachable

	client := NewClient(server.URL, WithTimeout(time.Second))

	err := client.Get(context.Background(), "/cart", nil)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.Status)
	assert.Equal(t, "Network error", apiErr.Message)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error field", http.StatusBadRequest, `{"error":"quantity must be positive"}`, "quantity must be positive"},
		{"message field", http.StatusConflict, `{"message":"already exists"}`, "already exists"},
		{"errors array", http.StatusUnprocessableEntity, `{"errors":["too short","too weak"]}`, "too short; too weak"},
		{"unparseable body", http.StatusBadGateway, `<html>boom</html>`, "request failed with status 502 (Bad Gateway)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			err := client.Get(context.Background(), "/products", nil)
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestUnauthorizedFiresTeardownHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid token"}`))
	}))
	defer server.Close()

	var tornDown bool
	client := NewClient(server.URL, WithUnauthorizedHandler(func() { tornDown = true }))

	err := client.Get(context.Background(), "/cart", nil)
	require.Error(t, err, "the failure must still reach the caller")
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.True(t, tornDown, "401 on a non-auth endpoint must tear down the session")
}

func TestUnauthorizedOnAuthEndpointDoesNotTearDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid email or password"}`))
	}))
	defer server.Close()

	var tornDown bool
	client := NewClient(server.URL, WithUnauthorizedHandler(func() { tornDown = true }))

	err := client.Post(context.Background(), "/login", map[string]string{}, nil)
	require.Error(t, err)
	assert.False(t, tornDown, "a failed login must not clear an existing session")
}

func TestContextCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Get(ctx, "/cart", nil) }()

	<-started
	cancel()

	err := <-done
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork), "cancellation surfaces as a transport failure")
}
