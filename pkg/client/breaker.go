package client

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

var (
	// errUpstream marks a 5xx answer so the breaker counts it as a failure.
	errUpstream = errors.New("upstream error")
	// errAborted marks a request whose caller went away. It is not held
	// against the remote.
	errAborted = errors.New("request aborted")
)

type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

func WithBreaker(cfg BreakerConfig) Option {
	return func(c *Client) { c.breaker = newBreaker(cfg) }
}

func newBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "api",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errAborted)
		},
	})
}

type exchange struct {
	resp *http.Response
	data []byte
}

// do performs req through the breaker. Transport failures and 5xx answers
// count against the remote, a cancelled request context does not. An open
// breaker fails with ErrNetwork.
func (c *Client) do(req *http.Request) (*http.Response, []byte, error) {
	aborted := func(err error) error {
		if req.Context().Err() != nil {
			return fmt.Errorf("%w: %w", errAborted, err)
		}
		return err
	}

	out, err := c.breaker.Execute(func() (any, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, aborted(err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, aborted(err)
		}
		ex := exchange{resp: resp, data: data}
		if resp.StatusCode >= 500 {
			return ex, errUpstream
		}
		return ex, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if ex, ok := out.(exchange); ok {
		return ex.resp, ex.data, nil
	}
	return nil, nil, err
}
