package k8s

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastRetryPolicy keeps retry tests quick.
func fastRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func retryingClient(policy RetryPolicy) *http.Client {
	return &http.Client{
		Transport: newRetryRoundTripper(http.DefaultTransport, policy, nil),
	}
}

func TestRetryRoundTrip(t *testing.T) {
	t.Run("retries transient server errors", func(t *testing.T) {
		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if attempts.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		resp, err := retryingClient(fastRetryPolicy()).Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok", string(body))
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("retries throttling responses", func(t *testing.T) {
		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if attempts.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		resp, err := retryingClient(fastRetryPolicy()).Get(server.URL)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(2), attempts.Load())
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		resp, err := retryingClient(fastRetryPolicy()).Get(server.URL)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("gives up after the attempt cap", func(t *testing.T) {
		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		resp, err := retryingClient(fastRetryPolicy()).Get(server.URL)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("does not replay requests with bodies", func(t *testing.T) {
		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		resp, err := retryingClient(fastRetryPolicy()).Post(server.URL, "text/plain", strings.NewReader("payload"))
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		policy := fastRetryPolicy()
		policy.InitialBackoff = time.Hour
		policy.MaxBackoff = time.Hour

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
		require.NoError(t, err)

		start := time.Now()
		_, err = retryingClient(policy).Do(req)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 10*time.Second)
	})
}

func TestRetryableStatus(t *testing.T) {
	assert.True(t, retryableStatus(http.StatusRequestTimeout))
	assert.True(t, retryableStatus(http.StatusTooManyRequests))
	assert.True(t, retryableStatus(http.StatusInternalServerError))
	assert.True(t, retryableStatus(http.StatusBadGateway))
	assert.False(t, retryableStatus(http.StatusOK))
	assert.False(t, retryableStatus(http.StatusNotFound))
	assert.False(t, retryableStatus(http.StatusForbidden))
}

func TestRetryableMethod(t *testing.T) {
	assert.True(t, retryableMethod(http.MethodGet))
	assert.True(t, retryableMethod(http.MethodHead))
	assert.False(t, retryableMethod(http.MethodPost))
	assert.False(t, retryableMethod(http.MethodDelete))
	assert.False(t, retryableMethod(http.MethodPatch))
}

func TestRetryPolicyDefaults(t *testing.T) {
	var policy RetryPolicy
	policy.applyDefaults()

	assert.Equal(t, DefaultRetryAttempts, policy.MaxAttempts)
	assert.Equal(t, DefaultRetryInitialBackoff, policy.InitialBackoff)
	assert.Equal(t, DefaultRetryMaxBackoff, policy.MaxBackoff)
	assert.Equal(t, DefaultRetryBackoffMultiplier, policy.BackoffMultiplier)
}

func TestNextBackoff(t *testing.T) {
	policy := RetryPolicy{MaxBackoff: time.Second, BackoffMultiplier: 2.0}

	assert.Equal(t, 400*time.Millisecond, nextBackoff(200*time.Millisecond, policy))
	assert.Equal(t, time.Second, nextBackoff(800*time.Millisecond, policy))

	// A multiplier below one never shrinks the wait.
	policy.BackoffMultiplier = 0.5
	assert.Equal(t, 200*time.Millisecond, nextBackoff(200*time.Millisecond, policy))
}
