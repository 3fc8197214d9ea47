package rpc

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func rawCall(t *testing.T, url, clientIP string) int {
	t.Helper()
	body := []byte(`{"jsonrpc":"2.0","id":1,"method":"rewards_getPolicy"}`)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Real-IP", clientIP)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestRateLimitThrottlesPerClient(t *testing.T) {
	ts, _ := newTestServer(t, nil, func(s *Server) {
		s.SetRateLimiter(NewRateLimiter(RateLimit{RequestsPerMinute: 60, Burst: 2}))
	})

	// The burst admits two back-to-back requests; the third is rejected.
	require.Equal(t, http.StatusOK, rawCall(t, ts.URL, "10.0.0.1"))
	require.Equal(t, http.StatusOK, rawCall(t, ts.URL, "10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, rawCall(t, ts.URL, "10.0.0.1"))

	// Another client holds its own bucket.
	require.Equal(t, http.StatusOK, rawCall(t, ts.URL, "10.0.0.2"))

	// Health checks bypass the limiter.
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimitDisabledByZeroRate(t *testing.T) {
	ts, _ := newTestServer(t, nil, func(s *Server) {
		s.SetRateLimiter(NewRateLimiter(RateLimit{}))
	})
	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, rawCall(t, ts.URL, "10.0.0.1"))
	}
}

func TestClientIDResolution(t *testing.T) {
	mk := func(realIP, forwarded, remote string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if realIP != "" {
			req.Header.Set("X-Real-IP", realIP)
		}
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		req.RemoteAddr = remote
		return req
	}

	require.Equal(t, "1.2.3.4", clientID(mk("1.2.3.4", "5.6.7.8", "9.9.9.9:1000")))
	require.Equal(t, "5.6.7.8", clientID(mk("", "5.6.7.8, 10.0.0.1", "9.9.9.9:1000")))
	require.Equal(t, "9.9.9.9", clientID(mk("", "", "9.9.9.9:1000")))
}
