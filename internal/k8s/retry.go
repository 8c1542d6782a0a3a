package k8s

import (
	"io"
	"net/http"
	"time"
)

// Retry policy defaults.
const (
	DefaultRetryAttempts          = 5
	DefaultRetryInitialBackoff    = 200 * time.Millisecond
	DefaultRetryMaxBackoff        = 5 * time.Second
	DefaultRetryBackoffMultiplier = 2.0
)

// RetryPolicy configures transport-level retries of idempotent requests.
type RetryPolicy struct {
	// Disabled turns the retry transport off entirely.
	Disabled bool

	// MaxAttempts is the attempt cap including the first request.
	MaxAttempts int

	// InitialBackoff is the wait before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff bounds the exponential backoff wait.
	MaxBackoff time.Duration

	// BackoffMultiplier is the exponential growth factor, clamped to >= 1.
	BackoffMultiplier float64
}

// DefaultRetryPolicy returns the default transport retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       DefaultRetryAttempts,
		InitialBackoff:    DefaultRetryInitialBackoff,
		MaxBackoff:        DefaultRetryMaxBackoff,
		BackoffMultiplier: DefaultRetryBackoffMultiplier,
	}
}

// applyDefaults fills in zero-valued policy fields.
func (p *RetryPolicy) applyDefaults() {
	def := DefaultRetryPolicy()
	if p.MaxAttempts == 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialBackoff == 0 {
		p.InitialBackoff = def.InitialBackoff
	}
	if p.MaxBackoff == 0 {
		p.MaxBackoff = def.MaxBackoff
	}
	if p.BackoffMultiplier < 1 {
		p.BackoffMultiplier = def.BackoffMultiplier
	}
}

// retryRoundTripper retries idempotent requests on transient failures with
// exponential backoff. Non-idempotent methods and requests with bodies pass
// through untouched.
type retryRoundTripper struct {
	next   http.RoundTripper
	policy RetryPolicy
	logger Logger
}

func newRetryRoundTripper(next http.RoundTripper, policy RetryPolicy, logger Logger) *retryRoundTripper {
	policy.applyDefaults()
	return &retryRoundTripper{next: next, policy: policy, logger: logger}
}

func (rt *retryRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if !retryableMethod(req.Method) || req.Body != nil {
		return rt.next.RoundTrip(req)
	}

	backoff := min(rt.policy.InitialBackoff, rt.policy.MaxBackoff)

	var resp *http.Response
	var err error
	for attempt := 1; ; attempt++ {
		resp, err = rt.next.RoundTrip(req)
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}
		if attempt >= rt.policy.MaxAttempts {
			return resp, err
		}

		// Drain the failed response so the connection can be reused.
		if resp != nil {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			_ = resp.Body.Close()
		}

		if rt.logger != nil {
			rt.logger.Debug("retrying request",
				"url", req.URL.Path, "attempt", attempt, "backoff", backoff.String())
		}

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff, rt.policy)
	}
}

// retryableMethod reports whether the HTTP method is safe to replay.
func retryableMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// retryableStatus reports whether the status code indicates a transient
// failure: request timeout, throttling, or a server-side error.
func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout ||
		code == http.StatusTooManyRequests ||
		(code >= 500 && code <= 599)
}

func nextBackoff(current time.Duration, policy RetryPolicy) time.Duration {
	next := time.Duration(float64(current) * max(policy.BackoffMultiplier, 1))
	return min(next, policy.MaxBackoff)
}
