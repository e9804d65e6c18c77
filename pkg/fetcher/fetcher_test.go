package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_Success(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Hi</title></head></html>`))
	}))
	defer server.Close()

	f := NewHTTPFetcher(DefaultOptions())
	res, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(res.Body), "<title>Hi</title>")
	assert.True(t, res.Elapsed > 0)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestFetch_CustomUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	f := NewHTTPFetcher(Options{UserAgent: "pagecrawl-test/1.0"})
	_, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "pagecrawl-test/1.0", gotUA)
}

func TestFetch_ErrorStatusIsNotAFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`<html><body><p>missing</p></body></html>`))
	}))
	defer server.Close()

	res, err := NewHTTPFetcher(DefaultOptions()).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, string(res.Body), "missing")
}

func TestFetch_SelfSignedCertificate(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`ok`))
	}))
	defer server.Close()

	t.Run("lenient by default", func(t *testing.T) {
		res, err := NewHTTPFetcher(DefaultOptions()).Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "ok", string(res.Body))
	})

	t.Run("strict when verification is enabled", func(t *testing.T) {
		_, err := NewHTTPFetcher(Options{}).Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFetch)
	})
}

func TestFetch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	res, err := NewHTTPFetcher(DefaultOptions()).Fetch(context.Background(), addr)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestFetch_InvalidURL(t *testing.T) {
	_, err := NewHTTPFetcher(DefaultOptions()).Fetch(context.Background(), "http://bad host/")
	assert.ErrorIs(t, err, ErrFetch)
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Timeout = 20 * time.Millisecond
	_, err := NewHTTPFetcher(opts).Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestNewHTTPFetcher_Defaults(t *testing.T) {
	f := NewHTTPFetcher(Options{})
	require.NotNil(t, f.Client())
	assert.Equal(t, DefaultUserAgent, f.userAgent)
	assert.Equal(t, time.Duration(0), f.Client().Timeout)
}
