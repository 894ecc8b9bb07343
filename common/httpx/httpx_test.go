package httpx

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

func testOptions() Options {
	return Options{
		Timeout:            time.Second,
		Retry:              2,
		BackoffMin:         time.Millisecond,
		BackoffMax:         2 * time.Millisecond,
		MaxConsecutiveFail: 2,
		CircuitOpen:        time.Minute,
	}
}

func TestDoRetriesServerErrorsAndReplaysBody(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"q":"bail"}`, string(body))
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(testOptions())
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL, strings.NewReader(`{"q":"bail"}`))
	require.NoError(t, err)

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoClientErrorsAreNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(testOptions())
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCircuitOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	opt := testOptions()
	opt.Retry = 0
	c := New(opt)

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
		_, err := c.Do(req)
		require.Error(t, err)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	_, err := c.Do(req)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestHostAllowlist(t *testing.T) {
	opt := testOptions()
	opt.HostAllowlist = []string{"*.example.com"}
	c := New(opt)

	req, _ := http.NewRequest(http.MethodGet, "http://evil.test/qa", nil)
	_, err := c.Do(req)
	assert.ErrorIs(t, err, ErrHostNotAllowed)

	assert.True(t, matchHost("*.example.com", "qa.example.com"))
	assert.True(t, matchHost("*.example.com", "example.com"))
	assert.True(t, matchHost("LOCALHOST", "localhost"))
	assert.False(t, matchHost("example.com", "qa.example.com"))
}

func TestNewFromConfigDefaults(t *testing.T) {
	c := NewFromConfig(nil)
	assert.Equal(t, 1200*time.Millisecond, c.opt.Timeout)
	assert.Equal(t, 1, c.opt.Retry)
	assert.Equal(t, 5, c.opt.MaxConsecutiveFail)
	assert.Equal(t, 5*time.Second, c.opt.CircuitOpen)
}
