package httpx

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/atomic"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/common/logger"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/config"
)

// Client wraps http.Client with a host allowlist, retries and a circuit breaker.
type Client struct {
	hc        *http.Client
	opt       Options
	fail      atomic.Int32 // consecutive failures
	openUntil atomic.Int64 // unix nanos for circuit open deadline
}

type Options struct {
	Timeout            time.Duration
	Retry              int
	BackoffMin         time.Duration
	BackoffMax         time.Duration
	HostAllowlist      []string
	MaxConsecutiveFail int
	CircuitOpen        time.Duration
}

// NewFromConfig builds a client; a nil config yields the defaults.
func NewFromConfig(cfg *config.HTTPClientConfig) *Client {
	if cfg == nil {
		cfg = &config.HTTPClientConfig{}
	}
	opt := Options{
		Timeout:            orDuration(cfg.TimeoutMs, time.Millisecond, 1200*time.Millisecond),
		Retry:              1,
		BackoffMin:         orDuration(cfg.BackoffMinMs, time.Millisecond, 100*time.Millisecond),
		BackoffMax:         orDuration(cfg.BackoffMaxMs, time.Millisecond, 800*time.Millisecond),
		HostAllowlist:      cfg.HostAllowlist,
		MaxConsecutiveFail: 5,
		CircuitOpen:        orDuration(cfg.CircuitOpenSeconds, time.Second, 5*time.Second),
	}
	if cfg.Retry > 0 {
		opt.Retry = cfg.Retry
	}
	if cfg.MaxConsecutiveFailures > 0 {
		opt.MaxConsecutiveFail = cfg.MaxConsecutiveFailures
	}
	return New(opt)
}

// New builds a client from explicit options.
func New(opt Options) *Client {
	transport := &http.Transport{
		DialContext:     (&net.Dialer{Timeout: opt.Timeout}).DialContext,
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		MaxIdleConns:    100,
		IdleConnTimeout: 30 * time.Second,
	}
	return &Client{
		hc:  &http.Client{Timeout: opt.Timeout, Transport: transport},
		opt: opt,
	}
}

func orDuration(v int, unit, def time.Duration) time.Duration {
	if v > 0 {
		return time.Duration(v) * unit
	}
	return def
}

func (c *Client) allowed(u *url.URL) bool {
	if len(c.opt.HostAllowlist) == 0 {
		return true
	}
	host := u.Hostname()
	for _, h := range c.opt.HostAllowlist {
		if matchHost(h, host) {
			return true
		}
	}
	return false
}

func matchHost(pattern, host string) bool {
	if pattern == "*" {
		return true
	}
	if strings.EqualFold(pattern, host) {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		suf := strings.TrimPrefix(pattern, "*.")
		return strings.HasSuffix(host, "."+suf) || host == suf
	}
	return false
}

var (
	ErrCircuitOpen    = errors.New("circuit open")
	ErrHostNotAllowed = errors.New("host not allowed")
)

// Do sends req, retrying transport errors and 5xx responses. Requests with a
// body must be rewindable (GetBody set), which http.NewRequest does for
// bytes and strings readers.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if !c.allowed(req.URL) {
		logger.Warnf("httpx: blocked outbound host: %s", req.URL.Redacted())
		return nil, ErrHostNotAllowed
	}
	if c.openUntil.Load() > time.Now().UnixNano() {
		return nil, ErrCircuitOpen
	}

	var resp *http.Response
	attempts := uint(c.opt.Retry + 1)
	first := true
	err := retry.Do(
		func() error {
			r, err := rewind(req, first)
			first = false
			if err != nil {
				return retry.Unrecoverable(err)
			}
			res, err := c.hc.Do(r)
			if err != nil {
				return err
			}
			if res.StatusCode >= 500 {
				_, _ = io.Copy(io.Discard, res.Body)
				_ = res.Body.Close()
				return fmt.Errorf("upstream status %d", res.StatusCode)
			}
			resp = res
			return nil
		},
		retry.Context(req.Context()),
		retry.Attempts(attempts),
		retry.Delay(c.opt.BackoffMin),
		retry.MaxDelay(c.opt.BackoffMax),
		retry.MaxJitter(jitter(c.opt.BackoffMin, c.opt.BackoffMax)),
		retry.DelayType(retry.CombineDelay(retry.FixedDelay, retry.RandomDelay)),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warnf("httpx: request failed (try %d/%d) to %s: %v", n+1, attempts, req.URL.Redacted(), err)
		}),
	)
	if err != nil {
		// open circuit on consecutive failures
		if c.fail.Inc() >= int32(c.opt.MaxConsecutiveFail) {
			c.openUntil.Store(time.Now().Add(c.opt.CircuitOpen).UnixNano())
			c.fail.Store(0)
			logger.Warnf("httpx: circuit opened for %v", c.opt.CircuitOpen)
		}
		return nil, err
	}
	c.fail.Store(0)
	return resp, nil
}

func rewind(req *http.Request, first bool) (*http.Request, error) {
	if first || req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("request body cannot be replayed")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	r := req.Clone(req.Context())
	r.Body = body
	return r, nil
}

func jitter(min, max time.Duration) time.Duration {
	if max <= min {
		return time.Millisecond
	}
	return max - min
}
