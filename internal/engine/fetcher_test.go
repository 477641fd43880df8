package engine

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-keepintouch/internal/config"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	var gotAuth, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get(config.HeaderUserAgent)
		_, _ = w.Write([]byte(sampleCard))
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	body, err := f.Fetch(context.Background(), srv.URL, "alice", "secret")
	require.NoError(t, err)
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, sampleCard, string(data))

	assert.NotEmpty(t, gotAuth, "basic auth is sent when credentials are set")
	assert.Equal(t, config.UserAgent, gotAgent)
}

func TestHTTPFetcher_Fetch_NoAuthWithoutCredentials(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	body, err := f.Fetch(context.Background(), srv.URL, "", "")
	require.NoError(t, err)
	_ = body.Close()

	assert.Empty(t, gotAuth)
}

func TestHTTPFetcher_Fetch_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	_, err := f.Fetch(context.Background(), srv.URL, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestHTTPFetcher_Fetch_RejectsBadURLs(t *testing.T) {
	f := NewHTTPFetcher()
	ctx := context.Background()

	_, err := f.Fetch(ctx, "ftp://example.com/contacts.vcf", "", "")
	assert.Error(t, err, "only http and https are allowed")

	_, err = f.Fetch(ctx, "://not-a-url", "", "")
	assert.Error(t, err)
}

func TestHTTPFetcher_Fetch_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewHTTPFetcher()
	_, err := f.Fetch(ctx, srv.URL, "", "")
	assert.Error(t, err)
}
