package client

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/tagmyidea/tagmyidea-web/pkg/db"
)

// TriggerJobs asks the backend to run its background jobs at most once per
// job interval. It never returns an error: failures are logged and reported
// as false.
func (c *Client) TriggerJobs(ctx context.Context) bool {
	c.jobMu.Lock()
	defer c.jobMu.Unlock()

	now := c.now()

	last, ok, err := c.storage.Get(db.LastJobKey)
	if err != nil {
		slog.Warn("Failed to read last job trigger", "err", err)
		return false
	}
	if ok {
		ms, err := strconv.ParseInt(last, 10, 64)
		if err == nil && now.Sub(time.UnixMilli(ms)) < c.jobInterval {
			return false
		}
	}

	if _, err := c.send(ctx, call{method: http.MethodPost, path: "/user/test-jobs"}); err != nil {
		slog.Warn("Failed to trigger jobs", "err", err)
		if !Expected(err) {
			sentry.CaptureException(err)
		}
		return false
	}

	if err := c.storage.Set(db.LastJobKey, strconv.FormatInt(now.UnixMilli(), 10)); err != nil {
		slog.Warn("Failed to store last job trigger", "err", err)
	}

	return true
}
