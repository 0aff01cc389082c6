package transport

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kova98/harvest/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *Metrics) {
	t.Helper()
	pool, err := NewProxyPool(testutil.NullLogger(), nil, 0)
	require.NoError(t, err)
	metrics := NewMetrics(prometheus.NewRegistry())
	c := NewClient(testutil.NullLogger(), pool, metrics)
	c.retryWait = time.Millisecond
	c.retryMaxWait = 5 * time.Millisecond
	return c, metrics
}

func TestClient_FetchOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "harvest-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hello":"world"}`))
	}))
	defer srv.Close()

	c, metrics := newTestClient(t)
	resp, err := c.Fetch(context.Background(), srv.URL, Options{
		Headers: map[string]string{"User-Agent": "harvest-test"},
	})
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, 200, resp.StatusCode())
	assert.Equal(t, "OK", resp.Status())

	text, err := resp.Text()
	require.NoError(t, err)
	assert.Equal(t, `{"hello":"world"}`, text)

	var body struct{ Hello string }
	require.NoError(t, resp.JSON(&body))
	assert.Equal(t, "world", body.Hello)

	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.fetches.WithLabelValues(hostOf(srv.URL), "ok")))
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, _ := newTestClient(t)
	resp, err := c.Fetch(context.Background(), srv.URL, Options{MaxRetries: 3})
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, int32(3), hits.Load())
}

func TestClient_NonOKIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c, _ := newTestClient(t)
	resp, err := c.Fetch(context.Background(), srv.URL, Options{MaxRetries: 2})
	require.NoError(t, err)

	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	assert.Equal(t, "Not Found", resp.Status())
}

func TestClient_RedirectPolicy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			_, _ = w.Write([]byte("login page"))
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	}))
	defer srv.Close()

	c, _ := newTestClient(t)

	resp, err := c.Fetch(context.Background(), srv.URL+"/item", Options{FollowRedirects: false})
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode())
	assert.False(t, resp.OK())

	resp, err = c.Fetch(context.Background(), srv.URL+"/item", Options{FollowRedirects: true})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	text, _ := resp.Text()
	assert.Equal(t, "login page", text)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
		}
	}))
	defer srv.Close()

	c, metrics := newTestClient(t)
	_, err := c.Fetch(context.Background(), srv.URL, Options{Timeout: 20 * time.Millisecond})

	require.Error(t, err)
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.fetches.WithLabelValues(hostOf(srv.URL), "error")))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", outcome(204))
	assert.Equal(t, "redirect", outcome(301))
	assert.Equal(t, "client_error", outcome(429))
	assert.Equal(t, "server_error", outcome(503))
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "www.reddit.com", hostOf("https://www.reddit.com/r/all.json"))
	assert.Equal(t, "unknown", hostOf("::not a url"))
}

func TestClient_DirectReusesConnections(t *testing.T) {
	var opened atomic.Int32
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	srv.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			opened.Add(1)
		}
	}
	srv.Start()
	defer srv.Close()

	c, _ := newTestClient(t)
	for i := 0; i < 5; i++ {
		resp, err := c.Fetch(context.Background(), srv.URL, Options{})
		require.NoError(t, err)
		require.True(t, resp.OK())
	}

	assert.Equal(t, int32(1), opened.Load())
}

func TestClient_DirectRateLimitDoesNotBlock(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, _ := newTestClient(t)
	resp, err := c.Fetch(context.Background(), srv.URL, Options{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode())

	resp, err = c.Fetch(context.Background(), srv.URL, Options{Timeout: 200 * time.Millisecond})
	require.NoError(t, err)
	assert.True(t, resp.OK())
}
